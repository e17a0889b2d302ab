// Package gear implements item classification for the dungeon loot table.
// Tier, type, and slot are total pure functions of the item id; the id space
// is fixed at 1..101 with 0 reserved for an empty slot.
package gear

import "math"

// NumItems is the highest valid item id.
const NumItems = 101

// MaxBagSize is the number of carry slots outside equipment.
const MaxBagSize = 15

// Greatness thresholds at which an item's special names become meaningful.
const (
	SuffixUnlockLevel = 15
	PrefixUnlockLevel = 19
)

// Type is the elemental or jewelry classification of an item.
type Type int

const (
	TypeNone Type = iota
	TypeMagic
	TypeBlade
	TypeBludgeon
	TypeCloth
	TypeHide
	TypeMetal
	TypeNecklace
	TypeRing
)

// String returns a human-readable type label.
func (t Type) String() string {
	switch t {
	case TypeMagic:
		return "Magic"
	case TypeBlade:
		return "Blade"
	case TypeBludgeon:
		return "Bludgeon"
	case TypeCloth:
		return "Cloth"
	case TypeHide:
		return "Hide"
	case TypeMetal:
		return "Metal"
	case TypeNecklace:
		return "Necklace"
	case TypeRing:
		return "Ring"
	default:
		return "None"
	}
}

// Slot identifies one of the eight equipment positions.
type Slot int

const (
	SlotNone Slot = iota
	SlotWeapon
	SlotChest
	SlotHead
	SlotWaist
	SlotFoot
	SlotHand
	SlotNeck
	SlotRing
)

// String returns the snapshot-record key fragment for the slot.
func (s Slot) String() string {
	switch s {
	case SlotWeapon:
		return "weapon"
	case SlotChest:
		return "chest"
	case SlotHead:
		return "head"
	case SlotWaist:
		return "waist"
	case SlotFoot:
		return "foot"
	case SlotHand:
		return "hand"
	case SlotNeck:
		return "neck"
	case SlotRing:
		return "ring"
	default:
		return "none"
	}
}

// ArmorSlots lists the five damage-bearing armor positions in canonical order.
var ArmorSlots = []Slot{SlotChest, SlotHead, SlotWaist, SlotFoot, SlotHand}

// Tier is the rarity rank, 1 (strongest) through 5 (weakest).
type Tier int

const (
	TierNone Tier = 0
	Tier1    Tier = 1
	Tier2    Tier = 2
	Tier3    Tier = 3
	Tier4    Tier = 4
	Tier5    Tier = 5
)

// Item is a single piece of loot: a fixed id plus accumulated experience.
// The zero Item (ID 0) represents an empty slot.
type Item struct {
	ID uint8
	XP uint16
}

// IsEmpty reports whether the item represents an empty slot.
func (i Item) IsEmpty() bool { return i.ID == 0 }

// Level returns the item's greatness: floor(sqrt(XP)).
//
// Postcondition: Returns >= 0; an item with zero XP is level 0.
func (i Item) Level() int {
	return int(math.Sqrt(float64(i.XP)))
}

// Tier returns the item's rarity rank, or TierNone for an empty slot.
func (i Item) Tier() Tier { return TierOf(i.ID) }

// Type returns the item's elemental or jewelry classification.
func (i Item) Type() Type { return TypeOf(i.ID) }

// Slot returns the equipment position the item occupies.
func (i Item) Slot() Slot { return SlotOf(i.ID) }

// Name returns the item's base display name.
func (i Item) Name() string { return NameOf(i.ID) }
