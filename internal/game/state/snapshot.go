package state

import "fmt"

// Record is one denormalized ledger snapshot: a flat map keyed by dotted
// paths such as "details.adventurer.health". Numeric fields default to
// zero when absent; list fields are carried as []any of numbers.
type Record map[string]any

// Int reads a numeric field, treating absent or non-numeric values as zero.
func (r Record) Int(key string) int {
	switch v := r[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// Ints reads a list field of numbers, treating absent values as empty.
func (r Record) Ints(key string) []int {
	raw, ok := r[key].([]any)
	if !ok {
		return nil
	}
	out := make([]int, 0, len(raw))
	for _, v := range raw {
		switch n := v.(type) {
		case int:
			out = append(out, n)
		case int64:
			out = append(out, int(n))
		case float64:
			out = append(out, int(n))
		}
	}
	return out
}

// Snapshot record key helpers. Slot and bag keys are positional.

func adventurerKey(field string) string {
	return "details.adventurer." + field
}

func statKey(stat string) string {
	return "details.adventurer.stats." + stat
}

func equipmentKey(slot, field string) string {
	return fmt.Sprintf("details.adventurer.equipment.%s.%s", slot, field)
}

func beastKey(field string) string {
	return "details.beast." + field
}

func bagKey(n int, field string) string {
	return fmt.Sprintf("details.bag.item_%d.%s", n, field)
}

const marketItemsKey = "details.market_items.items"
