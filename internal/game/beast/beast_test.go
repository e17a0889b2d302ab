package beast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/catacomb-labs/delver/internal/game/beast"
	"github.com/catacomb-labs/delver/internal/game/gear"
)

func TestBeast_Type(t *testing.T) {
	tests := []struct {
		id   uint8
		typ  gear.Type
		armr gear.Type
	}{
		{1, gear.TypeMagic, gear.TypeCloth},
		{25, gear.TypeMagic, gear.TypeCloth},
		{26, gear.TypeBlade, gear.TypeHide},
		{50, gear.TypeBlade, gear.TypeHide},
		{51, gear.TypeBludgeon, gear.TypeMetal},
		{75, gear.TypeBludgeon, gear.TypeMetal},
	}
	for _, tc := range tests {
		b := beast.Beast{ID: tc.id}
		assert.Equal(t, tc.typ, b.Type(), "id=%d", tc.id)
		assert.Equal(t, tc.armr, b.ArmorType(), "id=%d", tc.id)
	}
}

func TestBeast_Tier(t *testing.T) {
	tests := []struct {
		id   uint8
		tier gear.Tier
	}{
		{1, gear.Tier1}, {5, gear.Tier1}, {6, gear.Tier2}, {21, gear.Tier5},
		{25, gear.Tier5}, {26, gear.Tier1}, {29, gear.Tier1}, {50, gear.Tier5},
		{51, gear.Tier1}, {75, gear.Tier5},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.tier, beast.Beast{ID: tc.id}.Tier(), "id=%d", tc.id)
	}
}

func TestBeast_Classification_Total(t *testing.T) {
	for id := uint8(1); id <= beast.NumBeasts; id++ {
		b := beast.Beast{ID: id}
		assert.NotEqual(t, gear.TypeNone, b.Type(), "id=%d", id)
		assert.NotEqual(t, gear.TypeNone, b.ArmorType(), "id=%d", id)
		assert.NotEqual(t, gear.TierNone, b.Tier(), "id=%d", id)
		assert.NotEmpty(t, b.Name(), "id=%d", id)
	}
	zero := beast.Beast{}
	assert.Equal(t, gear.TypeNone, zero.Type())
	assert.Equal(t, gear.TierNone, zero.Tier())
	assert.Empty(t, zero.Name())
}

func TestBeast_Specials_GatedAtLevel19(t *testing.T) {
	young := beast.Beast{ID: 29, Level: 18, Seed: 99}
	assert.Zero(t, young.Specials().Prefix)
	assert.Equal(t, "Dragon", young.DisplayName())

	named := beast.Beast{ID: 29, Level: 19, Seed: 99}
	s := named.Specials()
	assert.GreaterOrEqual(t, s.Prefix, 1)
	assert.LessOrEqual(t, s.Prefix, gear.NumPrefixes)
	assert.GreaterOrEqual(t, s.Suffix, 1)
	assert.LessOrEqual(t, s.Suffix, gear.NumSuffixes)
	assert.Contains(t, named.DisplayName(), "Dragon")
}

func TestBeast_Specials_DeterministicInSeed(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		id := uint8(rapid.IntRange(1, beast.NumBeasts).Draw(rt, "id"))
		seed := rapid.Uint16().Draw(rt, "seed")
		a := beast.Beast{ID: id, Level: 20, Seed: seed}.Specials()
		b := beast.Beast{ID: id, Level: 20, Seed: seed}.Specials()
		assert.Equal(rt, a, b)
	})
}

func TestBeast_Collectable(t *testing.T) {
	assert.True(t, beast.Beast{ID: 29, Level: 19}.Collectable(), "named tier 1")
	assert.False(t, beast.Beast{ID: 29, Level: 18}.Collectable(), "unnamed")
	assert.False(t, beast.Beast{ID: 50, Level: 25}.Collectable(), "tier 5")
}
