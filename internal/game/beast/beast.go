// Package beast implements beast classification for dungeon encounters.
// A beast's attack element, armor element, and tier are total pure
// functions of its id in 1..75.
package beast

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/catacomb-labs/delver/internal/game/gear"
)

// NumBeasts is the highest valid beast id.
const NumBeasts = 75

// MaxHealth is the ledger-enforced beast health cap.
const MaxHealth = 1023

// NameUnlockLevel is the level at which a beast carries special names.
const NameUnlockLevel = 19

// Beast is one encounter-scoped opponent. Instances are created when an
// encounter begins and discarded on defeat or flee.
type Beast struct {
	ID     uint8
	Level  int
	Health int
	Seed   uint16
}

// Type returns the beast's attack element. Ids 1-25 are magical, 26-50
// are hunters, 51-75 are brutes.
func (b Beast) Type() gear.Type {
	switch {
	case b.ID == 0 || b.ID > NumBeasts:
		return gear.TypeNone
	case b.ID <= 25:
		return gear.TypeMagic
	case b.ID <= 50:
		return gear.TypeBlade
	default:
		return gear.TypeBludgeon
	}
}

// ArmorType returns the beast's defense element, paired to its attack
// element: magical beasts wear cloth, hunters hide, brutes metal.
func (b Beast) ArmorType() gear.Type {
	switch b.Type() {
	case gear.TypeMagic:
		return gear.TypeCloth
	case gear.TypeBlade:
		return gear.TypeHide
	case gear.TypeBludgeon:
		return gear.TypeMetal
	default:
		return gear.TypeNone
	}
}

// Tier returns the beast's rarity rank from its position within the
// 25-id elemental block: the first five ids of each block are tier 1,
// the last five tier 5.
func (b Beast) Tier() gear.Tier {
	if b.ID == 0 || b.ID > NumBeasts {
		return gear.TierNone
	}
	pos := (int(b.ID) - 1) % 25
	return gear.Tier(pos/5 + 1)
}

// Specials returns the beast's name parts, unlocked only at level 19.
// The pools are shared with items so name matches are possible.
func (b Beast) Specials() gear.Specials {
	if b.Level < NameUnlockLevel {
		return gear.Specials{}
	}
	h := uint32(b.ID)*6151 + uint32(b.Seed)*86969
	return gear.Specials{
		Prefix: int(h%gear.NumPrefixes) + 1,
		Suffix: int((h/gear.NumPrefixes)%gear.NumSuffixes) + 1,
	}
}

// Collectable reports whether defeating this beast mints a claimable
// collectable: only named (level >= 19) tier 1 beasts qualify.
func (b Beast) Collectable() bool {
	return b.Level >= NameUnlockLevel && b.Tier() == gear.Tier1
}

// Name returns the beast's base display name.
func (b Beast) Name() string {
	if b.ID == 0 || b.ID > NumBeasts {
		return ""
	}
	return names.Beasts[b.ID]
}

// DisplayName renders the beast's full name with any unlocked specials.
func (b Beast) DisplayName() string {
	s := b.Specials()
	if s.Prefix == 0 {
		return b.Name()
	}
	return fmt.Sprintf("%q %s %s", gear.PrefixName(s.Prefix), b.Name(), gear.SuffixName(s.Suffix))
}

//go:embed content/beasts.yaml
var beastsYAML []byte

type nameContent struct {
	Beasts map[uint8]string `yaml:"beasts"`
}

var names nameContent

func init() {
	if err := yaml.Unmarshal(beastsYAML, &names); err != nil {
		panic("beast: parsing embedded name content: " + err.Error())
	}
	if len(names.Beasts) != NumBeasts {
		panic(fmt.Sprintf("beast: name content has %d beasts, want %d", len(names.Beasts), NumBeasts))
	}
}
