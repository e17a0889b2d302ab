package scripting_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/catacomb-labs/delver/internal/game/beast"
	"github.com/catacomb-labs/delver/internal/game/session"
	"github.com/catacomb-labs/delver/internal/game/state"
	"github.com/catacomb-labs/delver/internal/scripting"
)

func writePolicy(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.lua")
	require.NoError(t, os.WriteFile(path, []byte(script), 0644))
	return path
}

func loadPolicy(t *testing.T, script string) *scripting.Policy {
	t.Helper()
	p, err := scripting.LoadPolicy(writePolicy(t, script), 0, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(p.Close)
	return p
}

func TestLoadPolicy_MissingDecide(t *testing.T) {
	_, err := scripting.LoadPolicy(writePolicy(t, `local x = 1`), 0, zaptest.NewLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decide")
}

func TestDecide_ExploreOutOfCombat(t *testing.T) {
	p := loadPolicy(t, `
		function decide(view)
			if view.beast then
				return {action = "attack", to_the_death = true}
			end
			return {action = "explore"}
		end
	`)

	st := &state.GameState{Adventurer: state.Adventurer{Health: 100, XP: 100}}
	st.Phase = state.PhaseOf(&st.Adventurer)

	action, err := p.Decide(st)
	require.NoError(t, err)
	assert.Equal(t, session.Explore{}, action)
}

func TestDecide_AttackOrFleeByPreview(t *testing.T) {
	p := loadPolicy(t, `
		function decide(view)
			if view.preview and view.preview.beast_damage >= view.health then
				return {action = "flee"}
			end
			return {action = "attack", to_the_death = true}
		end
	`)

	st := &state.GameState{
		Adventurer: state.Adventurer{Health: 20, XP: 100, BeastHealth: 50},
		Beast:      &beast.Beast{ID: 43, Level: 10, Health: 50},
		Preview:    &state.Preview{BeastDamageExpected: 30},
	}

	action, err := p.Decide(st)
	require.NoError(t, err)
	assert.Equal(t, session.Flee{}, action)

	st.Adventurer.Health = 90
	action, err = p.Decide(st)
	require.NoError(t, err)
	assert.Equal(t, session.Attack{ToTheDeath: true}, action)
}

func TestDecide_BuysPotionsAndItems(t *testing.T) {
	p := loadPolicy(t, `
		function decide(view)
			local order = {action = "buy_items", potions = 2, items = {}}
			for _, entry in ipairs(view.market) do
				if entry.price <= view.gold then
					table.insert(order.items, {id = entry.id, equip = true})
				end
			end
			return order
		end
	`)

	st := &state.GameState{
		Adventurer: state.Adventurer{Health: 100, XP: 100, Gold: 10, StatUpgradesAvailable: 1},
		Market: []state.MarketItem{
			{ID: 44, Price: 8},
			{ID: 101, Price: 18},
		},
	}

	action, err := p.Decide(st)
	require.NoError(t, err)
	buy, ok := action.(session.BuyItems)
	require.True(t, ok)
	assert.Equal(t, 2, buy.Potions)
	assert.Equal(t, []session.ItemPurchase{{ItemID: 44, Equip: true}}, buy.Purchases)
}

func TestDecide_StatAllocation(t *testing.T) {
	p := loadPolicy(t, `
		function decide(view)
			return {
				action = "select_stat_upgrades",
				stats = {vitality = view.stat_points},
			}
		end
	`)

	st := &state.GameState{Adventurer: state.Adventurer{Health: 100, XP: 100, StatUpgradesAvailable: 2}}

	action, err := p.Decide(st)
	require.NoError(t, err)
	assert.Equal(t, session.SelectStatUpgrades{Stats: state.Stats{Vitality: 2}}, action)
}

func TestDecide_UnknownActionRejected(t *testing.T) {
	p := loadPolicy(t, `
		function decide(view)
			return {action = "meditate"}
		end
	`)

	_, err := p.Decide(&state.GameState{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "meditate")
}

func TestDecide_RunawayScriptHitsInstructionLimit(t *testing.T) {
	p, err := scripting.LoadPolicy(writePolicy(t, `
		function decide(view)
			while true do end
		end
	`), 1000, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer p.Close()

	_, err = p.Decide(&state.GameState{})
	assert.Error(t, err)
}
