// Package engine implements the combat and probability math shared with
// the authoritative ledger. Every function is pure, every division floors,
// and no floating point is used anywhere: the ledger recomputes these
// exact formulas, so rounding order must match bit for bit.
package engine

import "github.com/catacomb-labs/delver/internal/game/gear"

// Effectiveness is the outcome of one elemental matchup.
type Effectiveness int

const (
	Neutral Effectiveness = iota
	Strong
	Weak
)

// Matchup resolves the elemental triangle for an attack type against an
// armor type. Magic beats Metal, Blade beats Cloth, Bludgeon beats Hide;
// the reverse cycle is weak; everything else is neutral.
//
// Postcondition: Returns exactly one of Strong, Weak, Neutral.
func Matchup(attack, armor gear.Type) Effectiveness {
	switch attack {
	case gear.TypeMagic:
		switch armor {
		case gear.TypeMetal:
			return Strong
		case gear.TypeHide:
			return Weak
		}
	case gear.TypeBlade:
		switch armor {
		case gear.TypeCloth:
			return Strong
		case gear.TypeMetal:
			return Weak
		}
	case gear.TypeBludgeon:
		switch armor {
		case gear.TypeHide:
			return Strong
		case gear.TypeCloth:
			return Weak
		}
	}
	return Neutral
}

// ElementalAdjusted applies the triangle to a base attack value: a strong
// matchup adds half the base, a weak one removes half, floor division in
// both cases.
//
// Postcondition: Returns base + floor(base/2), base - floor(base/2), or base.
func ElementalAdjusted(base int, attack, armor gear.Type) int {
	effect := base / 2
	switch Matchup(attack, armor) {
	case Strong:
		return base + effect
	case Weak:
		return base - effect
	default:
		return base
	}
}
