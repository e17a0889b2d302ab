// Package pipeline drains ledger event streams into local game state, one
// event at a time, with per-event pacing. The ledger's event order is the
// source of truth; this package never reorders, drops, or duplicates what
// it is given.
package pipeline

import (
	"github.com/catacomb-labs/delver/internal/game/beast"
	"github.com/catacomb-labs/delver/internal/game/gear"
	"github.com/catacomb-labs/delver/internal/game/state"
)

// Kind tags one event variant.
type Kind int

const (
	KindUnknown Kind = iota
	KindAdventurerUpdated
	KindBagUpdated
	KindBeastEncountered
	KindMarketRefreshed
	KindDiscovery
	KindObstacle
	KindAttack
	KindBeastAttack
	KindFlee
	KindAmbush
	KindStatUpgrade
	KindBuyItems
	KindLevelUp
	KindDefeatedBeast
	KindFledBeast
	KindDrop
	KindEquip
)

// String returns the wire tag for the kind.
func (k Kind) String() string {
	switch k {
	case KindAdventurerUpdated:
		return "adventurer_updated"
	case KindBagUpdated:
		return "bag_updated"
	case KindBeastEncountered:
		return "beast"
	case KindMarketRefreshed:
		return "market_refreshed"
	case KindDiscovery:
		return "discovery"
	case KindObstacle:
		return "obstacle"
	case KindAttack:
		return "attack"
	case KindBeastAttack:
		return "beast_attack"
	case KindFlee:
		return "flee"
	case KindAmbush:
		return "ambush"
	case KindStatUpgrade:
		return "stat_upgrade"
	case KindBuyItems:
		return "buy_items"
	case KindLevelUp:
		return "level_up"
	case KindDefeatedBeast:
		return "defeated_beast"
	case KindFledBeast:
		return "fled_beast"
	case KindDrop:
		return "drop"
	case KindEquip:
		return "equip"
	default:
		return "unknown"
	}
}

// Event is the closed union of ledger event variants. Events are immutable
// once received and consumed exactly once.
type Event interface {
	Kind() Kind
}

// AdventurerUpdated replaces the local adventurer with ledger truth.
type AdventurerUpdated struct {
	Adventurer state.Adventurer
}

func (AdventurerUpdated) Kind() Kind { return KindAdventurerUpdated }

// BagUpdated replaces the local bag contents.
type BagUpdated struct {
	Bag []gear.Item
}

func (BagUpdated) Kind() Kind { return KindBagUpdated }

// BeastEncountered opens a new encounter.
type BeastEncountered struct {
	Beast beast.Beast
}

func (BeastEncountered) Kind() Kind { return KindBeastEncountered }

// MarketRefreshed replaces the purchasable item set.
type MarketRefreshed struct {
	ItemIDs []uint8
}

func (MarketRefreshed) Kind() Kind { return KindMarketRefreshed }

// Discovery is a non-combat exploration find.
type Discovery struct {
	// What is the discovery class: "gold", "health", or "loot".
	What   string
	Amount int
	ItemID uint8
}

func (Discovery) Kind() Kind { return KindDiscovery }

// Obstacle is an exploration hazard, possibly dodged or mitigated.
type Obstacle struct {
	Damage   int
	Location gear.Slot
	Dodged   bool
	Critical bool
}

func (Obstacle) Kind() Kind { return KindObstacle }

// Attack is one adventurer swing landing on the beast.
type Attack struct {
	Damage   int
	Critical bool
}

func (Attack) Kind() Kind { return KindAttack }

// BeastAttack is one beast swing landing on an armor slot.
type BeastAttack struct {
	Damage   int
	Location gear.Slot
	Critical bool
}

func (BeastAttack) Kind() Kind { return KindBeastAttack }

// Flee reports a flee attempt.
type Flee struct {
	Success bool
}

func (Flee) Kind() Kind { return KindFlee }

// Ambush is the beast's free opening attack on an unlucky encounter.
type Ambush struct {
	Damage   int
	Location gear.Slot
	Critical bool
}

func (Ambush) Kind() Kind { return KindAmbush }

// StatUpgrade reports allocated stat points.
type StatUpgrade struct {
	Stats state.Stats
}

func (StatUpgrade) Kind() Kind { return KindStatUpgrade }

// BuyItems reports a completed market purchase.
type BuyItems struct {
	ItemIDs   []uint8
	Potions   int
	GoldSpent int
}

func (BuyItems) Kind() Kind { return KindBuyItems }

// LevelUp reports a level threshold crossing.
type LevelUp struct {
	Level int
}

func (LevelUp) Kind() Kind { return KindLevelUp }

// DefeatedBeast closes an encounter with a kill.
type DefeatedBeast struct {
	BeastID    uint8
	GoldReward int
	XPReward   int
}

func (DefeatedBeast) Kind() Kind { return KindDefeatedBeast }

// FledBeast closes an encounter with a successful escape.
type FledBeast struct {
	BeastID uint8
}

func (FledBeast) Kind() Kind { return KindFledBeast }

// Drop reports items discarded from bag or equipment.
type Drop struct {
	ItemIDs []uint8
}

func (Drop) Kind() Kind { return KindDrop }

// Equip reports slots re-equipped, keyed by slot.
type Equip struct {
	Items map[gear.Slot]gear.Item
}

func (Equip) Kind() Kind { return KindEquip }

// Unknown is an unrecognized wire tag. It is applied as a no-op; the
// consumer logs it as a latent contract violation instead of crashing.
type Unknown struct {
	Tag string
}

func (Unknown) Kind() Kind { return KindUnknown }
