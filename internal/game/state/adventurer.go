// Package state reconstructs typed game state from the ledger's
// denormalized snapshot records and computes derived views such as the
// combat preview. Nothing in this package mutates ledger truth; it only
// reads records and produces values.
package state

import (
	"math"

	"github.com/catacomb-labs/delver/internal/game/beast"
	"github.com/catacomb-labs/delver/internal/game/engine"
	"github.com/catacomb-labs/delver/internal/game/gear"
)

// Stats are the seven adventurer abilities. Luck is never allocated by the
// player; it is derived entirely from equipped and bagged jewelry.
type Stats struct {
	Strength     int
	Dexterity    int
	Vitality     int
	Intelligence int
	Wisdom       int
	Charisma     int
	Luck         int
}

// applyBoost folds a suffix stat grant into the stats.
func (s Stats) applyBoost(b gear.StatBoost) Stats {
	s.Strength += b.Strength
	s.Dexterity += b.Dexterity
	s.Vitality += b.Vitality
	s.Intelligence += b.Intelligence
	s.Wisdom += b.Wisdom
	s.Charisma += b.Charisma
	return s
}

// Equipment holds the eight named gear slots. Zero items are empty slots.
type Equipment struct {
	Weapon gear.Item
	Chest  gear.Item
	Head   gear.Item
	Waist  gear.Item
	Foot   gear.Item
	Hand   gear.Item
	Neck   gear.Item
	Ring   gear.Item
}

// Get returns the item in the given slot.
func (e Equipment) Get(slot gear.Slot) gear.Item {
	switch slot {
	case gear.SlotWeapon:
		return e.Weapon
	case gear.SlotChest:
		return e.Chest
	case gear.SlotHead:
		return e.Head
	case gear.SlotWaist:
		return e.Waist
	case gear.SlotFoot:
		return e.Foot
	case gear.SlotHand:
		return e.Hand
	case gear.SlotNeck:
		return e.Neck
	case gear.SlotRing:
		return e.Ring
	default:
		return gear.Item{}
	}
}

// Set places an item in the given slot.
func (e *Equipment) Set(slot gear.Slot, item gear.Item) {
	switch slot {
	case gear.SlotWeapon:
		e.Weapon = item
	case gear.SlotChest:
		e.Chest = item
	case gear.SlotHead:
		e.Head = item
	case gear.SlotWaist:
		e.Waist = item
	case gear.SlotFoot:
		e.Foot = item
	case gear.SlotHand:
		e.Hand = item
	case gear.SlotNeck:
		e.Neck = item
	case gear.SlotRing:
		e.Ring = item
	}
}

// AllSlots lists every equipment slot in canonical order.
var AllSlots = []gear.Slot{
	gear.SlotWeapon, gear.SlotChest, gear.SlotHead, gear.SlotWaist,
	gear.SlotFoot, gear.SlotHand, gear.SlotNeck, gear.SlotRing,
}

// Adventurer is the reconstructed player entity.
type Adventurer struct {
	Health                int
	XP                    int
	Gold                  int
	BeastHealth           int
	StatUpgradesAvailable int
	ActionCount           int
	ItemSpecialsSeed      uint16
	Stats                 Stats
	Equipment             Equipment
}

// Level returns the adventurer's level: floor(sqrt(XP)), with a floor of 1
// because a freshly started adventurer is level 1.
func (a *Adventurer) Level() int {
	level := int(math.Sqrt(float64(a.XP)))
	if level < 1 {
		level = 1
	}
	return level
}

// InCombat reports whether a beast encounter is active.
func (a *Adventurer) InCombat() bool { return a.BeastHealth > 0 }

// IsDead reports whether the adventurer has died.
func (a *Adventurer) IsDead() bool { return a.Health <= 0 }

// MaxHealth returns the vitality-scaled health cap.
func (a *Adventurer) MaxHealth() int { return engine.MaxHealthFor(a.Stats.Vitality) }

// ClampHealth bounds Health to [0, MaxHealth].
func (a *Adventurer) ClampHealth() {
	if a.Health < 0 {
		a.Health = 0
	}
	if limit := a.MaxHealth(); a.Health > limit {
		a.Health = limit
	}
}

// RingBonuses extracts the bonus-ring levels from the equipped ring.
func (a *Adventurer) RingBonuses() engine.RingBonuses {
	ring := a.Equipment.Ring
	var b engine.RingBonuses
	switch ring.ID {
	case gear.IDPlatinumRing:
		b.Platinum = ring.Level()
	case gear.IDTitaniumRing:
		b.Titanium = ring.Level()
	case gear.IDGoldRing:
		b.Gold = ring.Level()
	}
	return b
}

// WeaponView reduces the equipped weapon to engine terms.
func (a *Adventurer) WeaponView() engine.Weapon {
	w := a.Equipment.Weapon
	return engine.Weapon{
		Level:    w.Level(),
		Tier:     w.Tier(),
		Type:     w.Type(),
		Specials: gear.SpecialsFor(w, a.ItemSpecialsSeed),
	}
}

// ArmorView reduces the five armor slots to engine terms, in canonical order.
func (a *Adventurer) ArmorView() []engine.ArmorPiece {
	pieces := make([]engine.ArmorPiece, 0, len(gear.ArmorSlots))
	for _, slot := range gear.ArmorSlots {
		item := a.Equipment.Get(slot)
		if item.IsEmpty() {
			pieces = append(pieces, engine.ArmorPiece{})
			continue
		}
		pieces = append(pieces, engine.ArmorPiece{
			Level:    item.Level(),
			Tier:     item.Tier(),
			Type:     item.Type(),
			Specials: gear.SpecialsFor(item, a.ItemSpecialsSeed),
		})
	}
	return pieces
}

// TargetView reduces a beast to the engine's target terms.
func (a *Adventurer) TargetView(b beast.Beast) engine.Target {
	return engine.Target{
		Level:     b.Level,
		Tier:      b.Tier(),
		ArmorType: b.ArmorType(),
		Specials:  b.Specials(),
	}
}

// AttackerView reduces a beast to the engine's attacker terms.
func AttackerView(b beast.Beast) engine.Attacker {
	return engine.Attacker{
		Level:    b.Level,
		Tier:     b.Tier(),
		Type:     b.Type(),
		Specials: b.Specials(),
	}
}

// Phase is the adventurer's current game phase.
type Phase int

const (
	PhaseExploration Phase = iota
	PhaseCombat
	PhaseLevelUp
	PhaseDeath
)

// String returns the phase label used in logs and the explore feed.
func (p Phase) String() string {
	switch p {
	case PhaseCombat:
		return "combat"
	case PhaseLevelUp:
		return "level_up"
	case PhaseDeath:
		return "death"
	default:
		return "exploration"
	}
}

// PhaseOf derives the phase by strict priority: death, then combat, then
// pending stat upgrades, then exploration.
func PhaseOf(a *Adventurer) Phase {
	switch {
	case a.IsDead():
		return PhaseDeath
	case a.InCombat():
		return PhaseCombat
	case a.StatUpgradesAvailable > 0:
		return PhaseLevelUp
	default:
		return PhaseExploration
	}
}

// MarketItem is a purchasable item priced against the adventurer's charisma.
type MarketItem struct {
	ID    uint8
	Tier  gear.Tier
	Type  gear.Type
	Slot  gear.Slot
	Price int
}
