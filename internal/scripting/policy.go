package scripting

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/catacomb-labs/delver/internal/game/session"
	"github.com/catacomb-labs/delver/internal/game/state"
)

// Policy wraps a Lua script whose global decide(view) function picks the
// next action for the autoplay loop. One sandboxed VM per policy; calls are
// serialized because the LState is single-threaded.
type Policy struct {
	mu     sync.Mutex
	state  *lua.LState
	logger *zap.Logger
}

// LoadPolicy compiles the Lua file at path inside a fresh sandbox.
//
// Precondition: the script must define a global decide function.
// Postcondition: Returns a non-nil Policy; the caller must Close it.
func LoadPolicy(path string, instLimit int, logger *zap.Logger) (*Policy, error) {
	L := NewSandboxedState(instLimit)
	if err := L.DoFile(path); err != nil {
		L.Close()
		return nil, fmt.Errorf("loading policy %s: %w", path, err)
	}
	if L.GetGlobal("decide").Type() != lua.LTFunction {
		L.Close()
		return nil, fmt.Errorf("policy %s does not define a decide function", path)
	}
	return &Policy{state: L, logger: logger}, nil
}

// Close releases the policy's Lua VM.
func (p *Policy) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Close()
}

// Decide passes the current game view to the script and maps its returned
// table to an action.
//
// Postcondition: Returns exactly one action, or an error if the script
// fails, exceeds its instruction limit, or returns an unknown action name.
func (p *Policy) Decide(st *state.GameState) (session.Action, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	L := p.state
	if err := L.CallByParam(lua.P{
		Fn:      L.GetGlobal("decide"),
		NRet:    1,
		Protect: true,
	}, p.view(st)); err != nil {
		return nil, fmt.Errorf("calling decide: %w", err)
	}
	ret := L.Get(-1)
	L.Pop(1)

	result, ok := ret.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("decide returned %s, want table", ret.Type())
	}
	action, err := p.action(result)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("policy decided", zap.String("action", action.Name()))
	return action, nil
}

// view builds the read-only snapshot table the script receives.
func (p *Policy) view(st *state.GameState) *lua.LTable {
	L := p.state
	view := L.NewTable()

	view.RawSetString("phase", lua.LString(st.Phase.String()))
	view.RawSetString("health", lua.LNumber(st.Adventurer.Health))
	view.RawSetString("max_health", lua.LNumber(st.Adventurer.MaxHealth()))
	view.RawSetString("level", lua.LNumber(st.Adventurer.Level()))
	view.RawSetString("gold", lua.LNumber(st.Adventurer.Gold))
	view.RawSetString("stat_points", lua.LNumber(st.Adventurer.StatUpgradesAvailable))

	stats := L.NewTable()
	stats.RawSetString("strength", lua.LNumber(st.Adventurer.Stats.Strength))
	stats.RawSetString("dexterity", lua.LNumber(st.Adventurer.Stats.Dexterity))
	stats.RawSetString("vitality", lua.LNumber(st.Adventurer.Stats.Vitality))
	stats.RawSetString("intelligence", lua.LNumber(st.Adventurer.Stats.Intelligence))
	stats.RawSetString("wisdom", lua.LNumber(st.Adventurer.Stats.Wisdom))
	stats.RawSetString("charisma", lua.LNumber(st.Adventurer.Stats.Charisma))
	stats.RawSetString("luck", lua.LNumber(st.Adventurer.Stats.Luck))
	view.RawSetString("stats", stats)

	if st.Beast != nil {
		b := L.NewTable()
		b.RawSetString("id", lua.LNumber(st.Beast.ID))
		b.RawSetString("level", lua.LNumber(st.Beast.Level))
		b.RawSetString("health", lua.LNumber(st.Beast.Health))
		b.RawSetString("tier", lua.LNumber(st.Beast.Tier()))
		view.RawSetString("beast", b)
	}
	if st.Preview != nil {
		pv := L.NewTable()
		pv.RawSetString("base_damage", lua.LNumber(st.Preview.PlayerDamageBase))
		pv.RawSetString("critical_damage", lua.LNumber(st.Preview.PlayerDamageCritical))
		pv.RawSetString("beast_damage", lua.LNumber(st.Preview.BeastDamageExpected))
		pv.RawSetString("flee_chance", lua.LNumber(st.Preview.FleeChance))
		pv.RawSetString("ambush_chance", lua.LNumber(st.Preview.AmbushChance))
		pv.RawSetString("outcome", lua.LString(st.Preview.Outcome))
		view.RawSetString("preview", pv)
	}

	market := L.NewTable()
	for i, item := range st.Market {
		entry := L.NewTable()
		entry.RawSetString("id", lua.LNumber(item.ID))
		entry.RawSetString("tier", lua.LNumber(item.Tier))
		entry.RawSetString("price", lua.LNumber(item.Price))
		market.RawSetInt(i+1, entry)
	}
	view.RawSetString("market", market)

	return view
}

// action maps the script's decision table to a typed action.
func (p *Policy) action(result *lua.LTable) (session.Action, error) {
	name := lua.LVAsString(result.RawGetString("action"))
	switch name {
	case "explore":
		return session.Explore{UntilDeath: lua.LVAsBool(result.RawGetString("until_death"))}, nil
	case "attack":
		return session.Attack{ToTheDeath: lua.LVAsBool(result.RawGetString("to_the_death"))}, nil
	case "flee":
		return session.Flee{ToTheDeath: lua.LVAsBool(result.RawGetString("to_the_death"))}, nil
	case "buy_items":
		a := session.BuyItems{Potions: int(lua.LVAsNumber(result.RawGetString("potions")))}
		if items, ok := result.RawGetString("items").(*lua.LTable); ok {
			items.ForEach(func(_, v lua.LValue) {
				entry, ok := v.(*lua.LTable)
				if !ok {
					return
				}
				a.Purchases = append(a.Purchases, session.ItemPurchase{
					ItemID: uint8(lua.LVAsNumber(entry.RawGetString("id"))),
					Equip:  lua.LVAsBool(entry.RawGetString("equip")),
				})
			})
		}
		return a, nil
	case "select_stat_upgrades":
		var a session.SelectStatUpgrades
		if stats, ok := result.RawGetString("stats").(*lua.LTable); ok {
			a.Stats = state.Stats{
				Strength:     int(lua.LVAsNumber(stats.RawGetString("strength"))),
				Dexterity:    int(lua.LVAsNumber(stats.RawGetString("dexterity"))),
				Vitality:     int(lua.LVAsNumber(stats.RawGetString("vitality"))),
				Intelligence: int(lua.LVAsNumber(stats.RawGetString("intelligence"))),
				Wisdom:       int(lua.LVAsNumber(stats.RawGetString("wisdom"))),
				Charisma:     int(lua.LVAsNumber(stats.RawGetString("charisma"))),
			}
		}
		return a, nil
	case "equip":
		return session.Equip{ItemIDs: itemIDs(result)}, nil
	case "drop":
		return session.Drop{ItemIDs: itemIDs(result)}, nil
	case "":
		return nil, fmt.Errorf("decide returned no action field")
	default:
		return nil, fmt.Errorf("decide returned unknown action %q", name)
	}
}

func itemIDs(result *lua.LTable) []uint8 {
	var ids []uint8
	if items, ok := result.RawGetString("items").(*lua.LTable); ok {
		items.ForEach(func(_, v lua.LValue) {
			ids = append(ids, uint8(lua.LVAsNumber(v)))
		})
	}
	return ids
}
