package ledger

import (
	"encoding/json"
	"fmt"

	"github.com/catacomb-labs/delver/internal/game/pipeline"
	"github.com/catacomb-labs/delver/internal/game/state"
)

// EncodeEvent maps a typed event back to wire form, the inverse of
// DecodeRawEvent. Used when archiving event streams for later replay.
func EncodeEvent(ev pipeline.Event) (RawEvent, error) {
	var payload any

	switch ev := ev.(type) {
	case pipeline.AdventurerUpdated:
		equipment := make(map[string]wireItem, len(state.AllSlots))
		for _, slot := range state.AllSlots {
			if item := ev.Adventurer.Equipment.Get(slot); item.ID != 0 {
				equipment[slot.String()] = wireItem{ID: item.ID, XP: item.XP}
			}
		}
		payload = wireAdventurer{
			Health:                ev.Adventurer.Health,
			XP:                    ev.Adventurer.XP,
			Gold:                  ev.Adventurer.Gold,
			BeastHealth:           ev.Adventurer.BeastHealth,
			StatUpgradesAvailable: ev.Adventurer.StatUpgradesAvailable,
			ActionCount:           ev.Adventurer.ActionCount,
			ItemSpecialsSeed:      ev.Adventurer.ItemSpecialsSeed,
			Stats:                 wireStatsFrom(ev.Adventurer.Stats),
			Equipment:             equipment,
		}

	case pipeline.BagUpdated:
		items := make([]wireItem, 0, len(ev.Bag))
		for _, item := range ev.Bag {
			items = append(items, wireItem{ID: item.ID, XP: item.XP})
		}
		payload = map[string]any{"items": items}

	case pipeline.BeastEncountered:
		payload = map[string]any{
			"id":     ev.Beast.ID,
			"level":  ev.Beast.Level,
			"health": ev.Beast.Health,
			"seed":   ev.Beast.Seed,
		}

	case pipeline.MarketRefreshed:
		payload = map[string]any{"items": ev.ItemIDs}

	case pipeline.Discovery:
		payload = map[string]any{"what": ev.What, "amount": ev.Amount, "item_id": ev.ItemID}

	case pipeline.Obstacle:
		payload = map[string]any{
			"damage":   ev.Damage,
			"location": ev.Location.String(),
			"dodged":   ev.Dodged,
			"critical": ev.Critical,
		}

	case pipeline.Attack:
		payload = map[string]any{"damage": ev.Damage, "critical": ev.Critical}

	case pipeline.BeastAttack:
		payload = map[string]any{"damage": ev.Damage, "location": ev.Location.String(), "critical": ev.Critical}

	case pipeline.Ambush:
		payload = map[string]any{"damage": ev.Damage, "location": ev.Location.String(), "critical": ev.Critical}

	case pipeline.Flee:
		payload = map[string]any{"success": ev.Success}

	case pipeline.StatUpgrade:
		payload = wireStatsFrom(ev.Stats)

	case pipeline.BuyItems:
		payload = map[string]any{"items": ev.ItemIDs, "potions": ev.Potions, "gold_spent": ev.GoldSpent}

	case pipeline.LevelUp:
		payload = map[string]any{"level": ev.Level}

	case pipeline.DefeatedBeast:
		payload = map[string]any{"beast_id": ev.BeastID, "gold_reward": ev.GoldReward, "xp_reward": ev.XPReward}

	case pipeline.FledBeast:
		payload = map[string]any{"beast_id": ev.BeastID}

	case pipeline.Drop:
		payload = map[string]any{"items": ev.ItemIDs}

	case pipeline.Equip:
		items := make(map[string]wireItem, len(ev.Items))
		for slot, item := range ev.Items {
			items[slot.String()] = wireItem{ID: item.ID, XP: item.XP}
		}
		payload = map[string]any{"items": items}

	case pipeline.Unknown:
		return RawEvent{Tag: ev.Tag}, nil

	default:
		return RawEvent{}, fmt.Errorf("encoding event: unhandled kind %s", ev.Kind())
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return RawEvent{}, fmt.Errorf("encoding %s event: %w", ev.Kind(), err)
	}
	return RawEvent{Tag: ev.Kind().String(), Data: data}, nil
}

func wireStatsFrom(st state.Stats) wireStats {
	return wireStats{
		Strength:     st.Strength,
		Dexterity:    st.Dexterity,
		Vitality:     st.Vitality,
		Intelligence: st.Intelligence,
		Wisdom:       st.Wisdom,
		Charisma:     st.Charisma,
		Luck:         st.Luck,
	}
}
