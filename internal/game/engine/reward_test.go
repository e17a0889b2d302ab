package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/catacomb-labs/delver/internal/game/engine"
	"github.com/catacomb-labs/delver/internal/game/gear"
)

func TestGoldReward(t *testing.T) {
	// beast power 10*(6-4)=20, halved.
	assert.Equal(t, 10, engine.GoldReward(10, gear.Tier4, engine.RingBonuses{}))
	// A level-10 gold ring adds floor(10*10*3/100) = 3.
	assert.Equal(t, 13, engine.GoldReward(10, gear.Tier4, engine.RingBonuses{Gold: 10}))
	// Odd power floors before the bonus.
	assert.Equal(t, 7, engine.GoldReward(3, gear.Tier1, engine.RingBonuses{}))
}

func TestXPReward_DecaysWithAdventurerLevel(t *testing.T) {
	// raw = floor((6-3)*20/2) = 30.
	assert.Equal(t, 30, engine.XPReward(20, gear.Tier3, 0))
	assert.Equal(t, 24, engine.XPReward(20, gear.Tier3, 10)) // 20% decay
	assert.Equal(t, 12, engine.XPReward(20, gear.Tier3, 30)) // 60% decay
	// Decay caps at 95%, and the result floors at the minimum.
	assert.Equal(t, engine.MinXPReward, engine.XPReward(20, gear.Tier3, 60))
	assert.Equal(t, engine.MinXPReward, engine.XPReward(1, gear.Tier5, 0))
}

func TestXPReward_Property_GoldNeverDecaysXPDoes(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		blevel := rapid.IntRange(1, 60).Draw(rt, "blevel")
		tier := gear.Tier(rapid.IntRange(1, 5).Draw(rt, "tier"))
		alevel := rapid.IntRange(0, 90).Draw(rt, "alevel")

		gold := engine.GoldReward(blevel, tier, engine.RingBonuses{})
		assert.Equal(rt, gold, engine.GoldReward(blevel, tier, engine.RingBonuses{}), "gold is level independent")

		xp := engine.XPReward(blevel, tier, alevel)
		xpLater := engine.XPReward(blevel, tier, alevel+1)
		assert.GreaterOrEqual(rt, xp, xpLater)
		assert.GreaterOrEqual(rt, xp, engine.MinXPReward)
	})
}

func TestItemPrice(t *testing.T) {
	tests := []struct {
		tier     gear.Tier
		charisma int
		want     int
	}{
		{gear.Tier1, 0, 4},
		{gear.Tier2, 0, 8},
		{gear.Tier3, 0, 12},
		{gear.Tier4, 0, 16},
		{gear.Tier5, 0, 20},
		{gear.Tier5, 10, 10},
		{gear.Tier1, 10, 1},
		{gear.Tier3, 50, 1},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, engine.ItemPrice(tc.tier, tc.charisma), "tier=%d cha=%d", tc.tier, tc.charisma)
	}
}

func TestPotionPrice(t *testing.T) {
	assert.Equal(t, 10, engine.PotionPrice(10, 0))
	assert.Equal(t, 4, engine.PotionPrice(10, 3))
	assert.Equal(t, 1, engine.PotionPrice(10, 5))
	assert.Equal(t, 1, engine.PotionPrice(2, 9))
}

func TestMaxHealthFor(t *testing.T) {
	assert.Equal(t, 100, engine.MaxHealthFor(0))
	assert.Equal(t, 175, engine.MaxHealthFor(5))
	// The global cap binds at high vitality.
	assert.Equal(t, engine.MaxHealth, engine.MaxHealthFor(62))
	assert.Equal(t, engine.MaxHealth, engine.MaxHealthFor(100))
}
