package ledger

import (
	"encoding/json"
	"fmt"

	"github.com/catacomb-labs/delver/internal/game/beast"
	"github.com/catacomb-labs/delver/internal/game/gear"
	"github.com/catacomb-labs/delver/internal/game/pipeline"
	"github.com/catacomb-labs/delver/internal/game/state"
)

// RawEvent is one entry of the ledger's event list in wire form: a tag
// naming the variant and its untyped payload. The postgres history store
// archives events in this form.
type RawEvent struct {
	Tag  string          `json:"tag"`
	Data json.RawMessage `json:"data,omitempty"`
}

type wireItem struct {
	ID uint8  `json:"id"`
	XP uint16 `json:"xp"`
}

func (w wireItem) item() gear.Item { return gear.Item{ID: w.ID, XP: w.XP} }

type wireStats struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Vitality     int `json:"vitality"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
	Luck         int `json:"luck"`
}

func (w wireStats) stats() state.Stats {
	return state.Stats{
		Strength:     w.Strength,
		Dexterity:    w.Dexterity,
		Vitality:     w.Vitality,
		Intelligence: w.Intelligence,
		Wisdom:       w.Wisdom,
		Charisma:     w.Charisma,
		Luck:         w.Luck,
	}
}

type wireAdventurer struct {
	Health                int                 `json:"health"`
	XP                    int                 `json:"xp"`
	Gold                  int                 `json:"gold"`
	BeastHealth           int                 `json:"beast_health"`
	StatUpgradesAvailable int                 `json:"stat_upgrades_available"`
	ActionCount           int                 `json:"action_count"`
	ItemSpecialsSeed      uint16              `json:"item_specials_seed"`
	Stats                 wireStats           `json:"stats"`
	Equipment             map[string]wireItem `json:"equipment"`
}

// slotByName maps wire slot names back to typed slots.
var slotByName = map[string]gear.Slot{
	"weapon": gear.SlotWeapon,
	"chest":  gear.SlotChest,
	"head":   gear.SlotHead,
	"waist":  gear.SlotWaist,
	"foot":   gear.SlotFoot,
	"hand":   gear.SlotHand,
	"neck":   gear.SlotNeck,
	"ring":   gear.SlotRing,
}

// DecodeRawEvent maps one wire event to its typed variant. Unrecognized tags
// decode to pipeline.Unknown rather than failing the whole batch.
func DecodeRawEvent(w RawEvent) (pipeline.Event, error) {
	unmarshal := func(v any) error {
		if len(w.Data) == 0 {
			return nil
		}
		if err := json.Unmarshal(w.Data, v); err != nil {
			return fmt.Errorf("decoding %q event: %w", w.Tag, err)
		}
		return nil
	}

	switch w.Tag {
	case "adventurer_updated":
		var d wireAdventurer
		if err := unmarshal(&d); err != nil {
			return nil, err
		}
		adv := state.Adventurer{
			Health:                d.Health,
			XP:                    d.XP,
			Gold:                  d.Gold,
			BeastHealth:           d.BeastHealth,
			StatUpgradesAvailable: d.StatUpgradesAvailable,
			ActionCount:           d.ActionCount,
			ItemSpecialsSeed:      d.ItemSpecialsSeed,
			Stats:                 d.Stats.stats(),
		}
		for name, item := range d.Equipment {
			if slot, ok := slotByName[name]; ok {
				adv.Equipment.Set(slot, item.item())
			}
		}
		return pipeline.AdventurerUpdated{Adventurer: adv}, nil

	case "bag_updated":
		var d struct {
			Items []wireItem `json:"items"`
		}
		if err := unmarshal(&d); err != nil {
			return nil, err
		}
		bag := make([]gear.Item, 0, len(d.Items))
		for _, w := range d.Items {
			bag = append(bag, w.item())
		}
		return pipeline.BagUpdated{Bag: bag}, nil

	case "beast":
		var d struct {
			ID     uint8  `json:"id"`
			Level  int    `json:"level"`
			Health int    `json:"health"`
			Seed   uint16 `json:"seed"`
		}
		if err := unmarshal(&d); err != nil {
			return nil, err
		}
		return pipeline.BeastEncountered{Beast: beast.Beast{ID: d.ID, Level: d.Level, Health: d.Health, Seed: d.Seed}}, nil

	case "market_refreshed":
		var d struct {
			Items []uint8 `json:"items"`
		}
		if err := unmarshal(&d); err != nil {
			return nil, err
		}
		return pipeline.MarketRefreshed{ItemIDs: d.Items}, nil

	case "discovery":
		var d struct {
			What   string `json:"what"`
			Amount int    `json:"amount"`
			ItemID uint8  `json:"item_id"`
		}
		if err := unmarshal(&d); err != nil {
			return nil, err
		}
		return pipeline.Discovery{What: d.What, Amount: d.Amount, ItemID: d.ItemID}, nil

	case "obstacle":
		var d struct {
			Damage   int    `json:"damage"`
			Location string `json:"location"`
			Dodged   bool   `json:"dodged"`
			Critical bool   `json:"critical"`
		}
		if err := unmarshal(&d); err != nil {
			return nil, err
		}
		return pipeline.Obstacle{Damage: d.Damage, Location: slotByName[d.Location], Dodged: d.Dodged, Critical: d.Critical}, nil

	case "attack":
		var d struct {
			Damage   int  `json:"damage"`
			Critical bool `json:"critical"`
		}
		if err := unmarshal(&d); err != nil {
			return nil, err
		}
		return pipeline.Attack{Damage: d.Damage, Critical: d.Critical}, nil

	case "beast_attack", "ambush":
		var d struct {
			Damage   int    `json:"damage"`
			Location string `json:"location"`
			Critical bool   `json:"critical"`
		}
		if err := unmarshal(&d); err != nil {
			return nil, err
		}
		if w.Tag == "ambush" {
			return pipeline.Ambush{Damage: d.Damage, Location: slotByName[d.Location], Critical: d.Critical}, nil
		}
		return pipeline.BeastAttack{Damage: d.Damage, Location: slotByName[d.Location], Critical: d.Critical}, nil

	case "flee":
		var d struct {
			Success bool `json:"success"`
		}
		if err := unmarshal(&d); err != nil {
			return nil, err
		}
		return pipeline.Flee{Success: d.Success}, nil

	case "stat_upgrade":
		var d wireStats
		if err := unmarshal(&d); err != nil {
			return nil, err
		}
		return pipeline.StatUpgrade{Stats: d.stats()}, nil

	case "buy_items":
		var d struct {
			Items     []uint8 `json:"items"`
			Potions   int     `json:"potions"`
			GoldSpent int     `json:"gold_spent"`
		}
		if err := unmarshal(&d); err != nil {
			return nil, err
		}
		return pipeline.BuyItems{ItemIDs: d.Items, Potions: d.Potions, GoldSpent: d.GoldSpent}, nil

	case "level_up":
		var d struct {
			Level int `json:"level"`
		}
		if err := unmarshal(&d); err != nil {
			return nil, err
		}
		return pipeline.LevelUp{Level: d.Level}, nil

	case "defeated_beast":
		var d struct {
			BeastID    uint8 `json:"beast_id"`
			GoldReward int   `json:"gold_reward"`
			XPReward   int   `json:"xp_reward"`
		}
		if err := unmarshal(&d); err != nil {
			return nil, err
		}
		return pipeline.DefeatedBeast{BeastID: d.BeastID, GoldReward: d.GoldReward, XPReward: d.XPReward}, nil

	case "fled_beast":
		var d struct {
			BeastID uint8 `json:"beast_id"`
		}
		if err := unmarshal(&d); err != nil {
			return nil, err
		}
		return pipeline.FledBeast{BeastID: d.BeastID}, nil

	case "drop":
		var d struct {
			Items []uint8 `json:"items"`
		}
		if err := unmarshal(&d); err != nil {
			return nil, err
		}
		return pipeline.Drop{ItemIDs: d.Items}, nil

	case "equip":
		var d struct {
			Items map[string]wireItem `json:"items"`
		}
		if err := unmarshal(&d); err != nil {
			return nil, err
		}
		items := make(map[gear.Slot]gear.Item, len(d.Items))
		for name, item := range d.Items {
			if slot, ok := slotByName[name]; ok {
				items[slot] = item.item()
			}
		}
		return pipeline.Equip{Items: items}, nil

	default:
		return pipeline.Unknown{Tag: w.Tag}, nil
	}
}

// DecodeEvents maps a wire event list to typed events, preserving order.
//
// Postcondition: len(result) == len(wire) unless a recognized tag carries
// malformed data, which fails the whole decode.
func DecodeEvents(raw []byte) ([]pipeline.Event, error) {
	var wire []RawEvent
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("decoding event list: %w", err)
	}
	events := make([]pipeline.Event, 0, len(wire))
	for _, w := range wire {
		ev, err := DecodeRawEvent(w)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}
