package session

import "github.com/catacomb-labs/delver/internal/game/state"

// Action is a player intent. The set of variants is closed: each action
// compiles to a fixed transaction shape, so a new intent is a compile-time
// addition here and in compile.
type Action interface {
	// Name identifies the action in logs and in-flight reports.
	Name() string

	isAction()
}

// StartGame begins a new run.
type StartGame struct {
	// Seed pre-seeds the run deterministically. Zero means the ledger's
	// verifiable randomness decides.
	Seed uint64
	// StartXP grants a head start; non-zero starts need randomness for
	// the implied level-up rolls.
	StartXP int
}

// Explore ventures into the next room.
type Explore struct {
	// UntilDeath keeps exploring until combat or death interrupts.
	UntilDeath bool
}

// Attack strikes the current beast.
type Attack struct {
	// ToTheDeath resolves the whole fight in one submission.
	ToTheDeath bool
}

// Flee attempts to escape the current beast.
type Flee struct {
	ToTheDeath bool
}

// ItemPurchase is one market order line.
type ItemPurchase struct {
	ItemID uint8 `json:"item_id"`
	// Equip puts the item straight into its slot instead of the bag.
	Equip bool `json:"equip"`
}

// BuyItems spends gold at the level-up market.
type BuyItems struct {
	Purchases []ItemPurchase
	Potions   int
}

// SelectStatUpgrades allocates pending stat points.
type SelectStatUpgrades struct {
	Stats state.Stats
}

// Equip moves the listed bag items into their slots.
type Equip struct {
	ItemIDs []uint8
}

// Drop discards the listed items permanently.
type Drop struct {
	ItemIDs []uint8
}

func (StartGame) Name() string          { return "start_game" }
func (Explore) Name() string            { return "explore" }
func (Attack) Name() string             { return "attack" }
func (Flee) Name() string               { return "flee" }
func (BuyItems) Name() string           { return "buy_items" }
func (SelectStatUpgrades) Name() string { return "select_stat_upgrades" }
func (Equip) Name() string              { return "equip" }
func (Drop) Name() string               { return "drop" }

func (StartGame) isAction()          {}
func (Explore) isAction()            {}
func (Attack) isAction()             {}
func (Flee) isAction()               {}
func (BuyItems) isAction()           {}
func (SelectStatUpgrades) isAction() {}
func (Equip) isAction()              {}
func (Drop) isAction()               {}
