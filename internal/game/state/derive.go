package state

import (
	"errors"

	"github.com/catacomb-labs/delver/internal/game/beast"
	"github.com/catacomb-labs/delver/internal/game/engine"
	"github.com/catacomb-labs/delver/internal/game/gear"
)

// ErrNoGame reports that no snapshot exists for the requested game id.
// This is distinct from a snapshot describing a dead adventurer.
var ErrNoGame = errors.New("state: game does not exist")

// GameState is the full reconstructed state for one game.
type GameState struct {
	Adventurer Adventurer
	// Beast is non-nil iff the snapshot carries positive beast health.
	Beast  *beast.Beast
	Bag    []gear.Item
	Market []MarketItem
	Phase  Phase
	// Preview is non-nil iff a beast is present.
	Preview *Preview
}

// Derive reconstructs a GameState from a snapshot record. A nil record
// means the game has not been created and yields ErrNoGame.
//
// Postcondition: On success the returned state satisfies the phase
// priority (death > combat > level_up > exploration), the adventurer's
// health is clamped to its vitality cap, and every equipped item resolves
// through the fixed classification tables.
func Derive(rec Record) (*GameState, error) {
	if rec == nil {
		return nil, ErrNoGame
	}

	adv := deriveAdventurer(rec)
	bag := deriveBag(rec)

	// Suffix boosts: full grants from equipped items, vitality and
	// charisma only from bagged items. These land before health clamping
	// so a vitality suffix raises the cap it is clamped against.
	for _, slot := range AllSlots {
		item := adv.Equipment.Get(slot)
		if s := gear.SpecialsFor(item, adv.ItemSpecialsSeed); s.Suffix != 0 {
			adv.Stats = adv.Stats.applyBoost(gear.BoostForSuffix(s.Suffix))
		}
	}
	for _, item := range bag {
		if s := gear.SpecialsFor(item, adv.ItemSpecialsSeed); s.Suffix != 0 {
			adv.Stats = adv.Stats.applyBoost(gear.BaggedBoost(gear.BoostForSuffix(s.Suffix)))
		}
	}

	// Luck is item-derived: the summed greatness of all jewelry carried,
	// equipped or bagged.
	adv.Stats.Luck = jewelryLuck(&adv, bag)

	adv.ClampHealth()

	st := &GameState{
		Adventurer: adv,
		Bag:        bag,
		Market:     deriveMarket(rec, adv.Stats.Charisma),
	}

	if adv.BeastHealth > 0 {
		b := deriveBeast(rec, adv.BeastHealth)
		st.Beast = &b
		st.Preview = ComputePreview(&st.Adventurer, b)
	}

	st.Phase = PhaseOf(&st.Adventurer)
	return st, nil
}

func deriveAdventurer(rec Record) Adventurer {
	adv := Adventurer{
		Health:                rec.Int(adventurerKey("health")),
		XP:                    rec.Int(adventurerKey("xp")),
		Gold:                  rec.Int(adventurerKey("gold")),
		BeastHealth:           rec.Int(adventurerKey("beast_health")),
		StatUpgradesAvailable: rec.Int(adventurerKey("stat_upgrades_available")),
		ActionCount:           rec.Int(adventurerKey("action_count")),
		ItemSpecialsSeed:      uint16(rec.Int(adventurerKey("item_specials_seed"))),
		Stats: Stats{
			Strength:     rec.Int(statKey("strength")),
			Dexterity:    rec.Int(statKey("dexterity")),
			Vitality:     rec.Int(statKey("vitality")),
			Intelligence: rec.Int(statKey("intelligence")),
			Wisdom:       rec.Int(statKey("wisdom")),
			Charisma:     rec.Int(statKey("charisma")),
		},
	}
	if adv.Gold > engine.MaxGold {
		adv.Gold = engine.MaxGold
	}
	for _, slot := range AllSlots {
		id := rec.Int(equipmentKey(slot.String(), "id"))
		if id <= 0 || id > gear.NumItems {
			continue
		}
		adv.Equipment.Set(slot, gear.Item{
			ID: uint8(id),
			XP: uint16(rec.Int(equipmentKey(slot.String(), "xp"))),
		})
	}
	return adv
}

func deriveBag(rec Record) []gear.Item {
	var bag []gear.Item
	for n := 1; n <= gear.MaxBagSize; n++ {
		id := rec.Int(bagKey(n, "id"))
		if id <= 0 || id > gear.NumItems {
			continue
		}
		bag = append(bag, gear.Item{
			ID: uint8(id),
			XP: uint16(rec.Int(bagKey(n, "xp"))),
		})
	}
	return bag
}

func deriveBeast(rec Record, health int) beast.Beast {
	b := beast.Beast{
		ID:     uint8(rec.Int(beastKey("id"))),
		Level:  rec.Int(beastKey("level")),
		Health: health,
		Seed:   uint16(rec.Int(beastKey("seed"))),
	}
	if b.Health > beast.MaxHealth {
		b.Health = beast.MaxHealth
	}
	return b
}

// deriveMarket prices whatever ids the ledger generated for this level.
// Market contents are ledger-side; this core only classifies and prices.
func deriveMarket(rec Record, charisma int) []MarketItem {
	ids := rec.Ints(marketItemsKey)
	if len(ids) == 0 {
		return nil
	}
	market := make([]MarketItem, 0, len(ids))
	for _, id := range ids {
		if id <= 0 || id > gear.NumItems {
			continue
		}
		u := uint8(id)
		market = append(market, MarketItem{
			ID:    u,
			Tier:  gear.TierOf(u),
			Type:  gear.TypeOf(u),
			Slot:  gear.SlotOf(u),
			Price: engine.ItemPrice(gear.TierOf(u), charisma),
		})
	}
	return market
}

// jewelryLuck sums the greatness of all carried jewelry.
func jewelryLuck(adv *Adventurer, bag []gear.Item) int {
	luck := 0
	for _, item := range []gear.Item{adv.Equipment.Neck, adv.Equipment.Ring} {
		if !item.IsEmpty() {
			luck += item.Level()
		}
	}
	for _, item := range bag {
		if item.Slot() == gear.SlotNeck || item.Slot() == gear.SlotRing {
			luck += item.Level()
		}
	}
	return luck
}
