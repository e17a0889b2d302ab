package engine

import "github.com/catacomb-labs/delver/internal/game/gear"

// Damage floors enforced by the ledger.
const (
	MinPlayerDamage = 4
	MinBeastDamage  = 2
)

// Weapon is the attacking item reduced to the values the formulas need.
type Weapon struct {
	Level    int
	Tier     gear.Tier
	Type     gear.Type
	Specials gear.Specials
}

// Target is the defending beast reduced to the values the formulas need.
type Target struct {
	Level     int
	Tier      gear.Tier
	ArmorType gear.Type
	Specials  gear.Specials
}

// RingBonuses carries the levels of the equipped bonus rings. A zero value
// means the ring is absent; each level contributes 3 percent.
type RingBonuses struct {
	// Platinum scales the name-match special bonus.
	Platinum int
	// Titanium scales the critical-hit bonus.
	Titanium int
	// Gold scales the gold reward on a kill.
	Gold int
}

// Attack is a computed attack resolution: the damage dealt on a normal
// hit and on a critical hit.
type Attack struct {
	Base     int
	Critical int
}

// power is the shared level*(6-tier) figure used for both attack and armor.
func power(level int, tier gear.Tier) int {
	return level * (6 - int(tier))
}

// AttackBeast computes the adventurer's damage against a beast.
//
// The pipeline is: base attack from weapon level and tier, elemental
// adjustment against the beast's armor element, a strength bonus of 10%
// of the adjusted value per strength point, name-match special bonuses
// (prefix 8x, suffix 2x, platinum-ring scaled), minus the beast's armor,
// floored at MinPlayerDamage. A critical additionally lands the full
// elemental value again, titanium-ring scaled.
//
// Precondition: weapon.Level >= 0; strength >= 0.
// Postcondition: Base >= MinPlayerDamage and Critical >= Base.
func AttackBeast(weapon Weapon, strength int, rings RingBonuses, target Target) Attack {
	baseAttack := power(weapon.Level, weapon.Tier)
	elemental := ElementalAdjusted(baseAttack, weapon.Type, target.ArmorType)
	strengthBonus := elemental * strength * 10 / 100

	specialBonus := 0
	if weapon.Specials.Prefix != 0 && weapon.Specials.Prefix == target.Specials.Prefix {
		specialBonus += elemental * 8
	}
	if weapon.Specials.Suffix != 0 && weapon.Specials.Suffix == target.Specials.Suffix {
		specialBonus += elemental * 2
	}
	specialBonus += specialBonus * rings.Platinum * 3 / 100

	armor := power(target.Level, target.Tier)

	base := elemental + strengthBonus + specialBonus - armor
	if base < MinPlayerDamage {
		base = MinPlayerDamage
	}

	critBonus := elemental + elemental*rings.Titanium*3/100
	critical := elemental + strengthBonus + specialBonus + critBonus - armor
	if critical < MinPlayerDamage {
		critical = MinPlayerDamage
	}

	return Attack{Base: base, Critical: critical}
}

// AttackPotential computes the out-of-combat weapon figures used for
// what-if previews: no elemental adjustment and no armor subtraction.
//
// Postcondition: Critical >= Base >= 0.
func AttackPotential(weapon Weapon, strength int) Attack {
	baseAttack := power(weapon.Level, weapon.Tier)
	strengthBonus := baseAttack * strength / 10
	return Attack{
		Base:     baseAttack + strengthBonus,
		Critical: 2*baseAttack + strengthBonus,
	}
}
