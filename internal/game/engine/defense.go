package engine

import "github.com/catacomb-labs/delver/internal/game/gear"

// ArmorPiece is one equipped armor item reduced to the values the beast
// damage formula needs. The zero value represents an empty slot.
type ArmorPiece struct {
	Level    int
	Tier     gear.Tier
	Type     gear.Type
	Specials gear.Specials
}

// IsEmpty reports whether the slot holds no armor.
func (a ArmorPiece) IsEmpty() bool { return a.Type == gear.TypeNone }

// Attacker is the beast reduced to the values the defense formulas need.
type Attacker struct {
	Level    int
	Tier     gear.Tier
	Type     gear.Type
	Specials gear.Specials
}

// neckGuards reports whether the given neck item protects the given armor
// element: the amulet guards cloth, the pendant hide, the necklace metal.
func neckGuards(neckID uint8, armorType gear.Type) bool {
	switch neckID {
	case gear.IDAmulet:
		return armorType == gear.TypeCloth
	case gear.IDPendant:
		return armorType == gear.TypeHide
	case gear.IDNecklace:
		return armorType == gear.TypeMetal
	default:
		return false
	}
}

// BeastDamage computes the damage one beast attack deals against a single
// armor slot. An empty slot takes 1.5x the beast's base attack with no
// mitigation. Otherwise the elemental-adjusted attack gains name-match
// bonuses, loses the armor value, loses the neck synergy reduction when
// the neck item guards the armor's element, and floors at MinBeastDamage.
//
// Precondition: attacker.Level >= 0; neckLevel >= 0.
// Postcondition: Returns >= MinBeastDamage.
func BeastDamage(attacker Attacker, armor ArmorPiece, neckID uint8, neckLevel int) int {
	baseAttack := power(attacker.Level, attacker.Tier)
	if armor.IsEmpty() {
		dmg := baseAttack * 3 / 2
		if dmg < MinBeastDamage {
			dmg = MinBeastDamage
		}
		return dmg
	}

	elemental := ElementalAdjusted(baseAttack, attacker.Type, armor.Type)

	bonus := 0
	if armor.Specials.Prefix != 0 && armor.Specials.Prefix == attacker.Specials.Prefix {
		bonus += elemental * 8
	}
	if armor.Specials.Suffix != 0 && armor.Specials.Suffix == attacker.Specials.Suffix {
		bonus += elemental * 2
	}

	armorValue := power(armor.Level, armor.Tier)

	reduction := 0
	if neckGuards(neckID, armor.Type) {
		reduction = armorValue * neckLevel * 3 / 100
	}

	dmg := elemental + bonus - armorValue - reduction
	if dmg < MinBeastDamage {
		dmg = MinBeastDamage
	}
	return dmg
}

// ExpectedBeastDamage averages the beast's damage across the five armor
// slots, in canonical slot order. This is the coarse figure the combat
// preview uses; the per-slot figures remain available for equipment UI.
//
// Precondition: len(slots) == 5.
// Postcondition: Returns >= MinBeastDamage.
func ExpectedBeastDamage(attacker Attacker, slots []ArmorPiece, neckID uint8, neckLevel int) int {
	total := 0
	for _, piece := range slots {
		total += BeastDamage(attacker, piece, neckID, neckLevel)
	}
	return total / len(slots)
}
