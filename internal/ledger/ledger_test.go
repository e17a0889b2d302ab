package ledger_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/catacomb-labs/delver/internal/game/gear"
	"github.com/catacomb-labs/delver/internal/game/pipeline"
	"github.com/catacomb-labs/delver/internal/ledger"
)

func TestDecodeEvents_BattleSequence(t *testing.T) {
	raw := []byte(`[
		{"tag": "beast", "data": {"id": 43, "level": 10, "health": 120, "seed": 7}},
		{"tag": "attack", "data": {"damage": 25, "critical": false}},
		{"tag": "beast_attack", "data": {"damage": 9, "location": "chest", "critical": true}},
		{"tag": "defeated_beast", "data": {"beast_id": 43, "gold_reward": 15, "xp_reward": 20}}
	]`)

	events, err := ledger.DecodeEvents(raw)
	require.NoError(t, err)
	require.Len(t, events, 4)

	enc, ok := events[0].(pipeline.BeastEncountered)
	require.True(t, ok)
	assert.Equal(t, uint8(43), enc.Beast.ID)
	assert.Equal(t, 10, enc.Beast.Level)
	assert.Equal(t, uint16(7), enc.Beast.Seed)

	atk, ok := events[1].(pipeline.Attack)
	require.True(t, ok)
	assert.Equal(t, 25, atk.Damage)
	assert.False(t, atk.Critical)

	hit, ok := events[2].(pipeline.BeastAttack)
	require.True(t, ok)
	assert.Equal(t, gear.SlotChest, hit.Location)
	assert.True(t, hit.Critical)

	def, ok := events[3].(pipeline.DefeatedBeast)
	require.True(t, ok)
	assert.Equal(t, 15, def.GoldReward)
	assert.Equal(t, 20, def.XPReward)
}

func TestDecodeEvents_AdventurerAndEquipment(t *testing.T) {
	raw := []byte(`[{"tag": "adventurer_updated", "data": {
		"health": 85, "xp": 100, "gold": 40, "beast_health": 0,
		"stat_upgrades_available": 1, "action_count": 12, "item_specials_seed": 99,
		"stats": {"strength": 5, "dexterity": 3, "vitality": 2, "intelligence": 1, "wisdom": 4, "charisma": 2, "luck": 0},
		"equipment": {"weapon": {"id": 44, "xp": 100}, "chest": {"id": 49, "xp": 25}}
	}}]`)

	events, err := ledger.DecodeEvents(raw)
	require.NoError(t, err)
	require.Len(t, events, 1)

	upd, ok := events[0].(pipeline.AdventurerUpdated)
	require.True(t, ok)
	assert.Equal(t, 85, upd.Adventurer.Health)
	assert.Equal(t, 5, upd.Adventurer.Stats.Strength)
	assert.Equal(t, gear.Item{ID: 44, XP: 100}, upd.Adventurer.Equipment.Get(gear.SlotWeapon))
	assert.Equal(t, gear.Item{ID: 49, XP: 25}, upd.Adventurer.Equipment.Get(gear.SlotChest))
	assert.Equal(t, gear.Item{}, upd.Adventurer.Equipment.Get(gear.SlotHead))
}

func TestDecodeEvents_UnknownTagPreserved(t *testing.T) {
	raw := []byte(`[
		{"tag": "discovery", "data": {"what": "gold", "amount": 12}},
		{"tag": "season_reward", "data": {"points": 50}}
	]`)

	events, err := ledger.DecodeEvents(raw)
	require.NoError(t, err)
	require.Len(t, events, 2)

	unk, ok := events[1].(pipeline.Unknown)
	require.True(t, ok)
	assert.Equal(t, "season_reward", unk.Tag)
}

func TestDecodeEvents_MalformedDataFails(t *testing.T) {
	raw := []byte(`[{"tag": "attack", "data": {"damage": "lots"}}]`)

	_, err := ledger.DecodeEvents(raw)
	assert.Error(t, err)
}

func TestHTTPClient_Submit(t *testing.T) {
	var gotBody struct {
		Transactions []ledger.Transaction `json:"transactions"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/games/7/transactions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"events": [{"tag": "flee", "data": {"success": true}}]}`))
	}))
	defer srv.Close()

	client := ledger.NewHTTPClient(srv.URL, zaptest.NewLogger(t))
	events, err := client.Submit(context.Background(), 7, []ledger.Transaction{
		{Method: ledger.MethodFlee, Params: map[string]any{"game_id": 7, "to_the_death": false}},
	})
	require.NoError(t, err)

	require.Len(t, gotBody.Transactions, 1)
	assert.Equal(t, ledger.MethodFlee, gotBody.Transactions[0].Method)

	require.Len(t, events, 1)
	flee, ok := events[0].(pipeline.Flee)
	require.True(t, ok)
	assert.True(t, flee.Success)
}

func TestHTTPClient_SnapshotNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := ledger.NewHTTPClient(srv.URL, zaptest.NewLogger(t))
	_, err := client.GetSnapshot(context.Background(), 404)
	assert.ErrorIs(t, err, ledger.ErrSnapshotNotFound)
}

func TestHTTPClient_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "batch rejected", http.StatusConflict)
	}))
	defer srv.Close()

	client := ledger.NewHTTPClient(srv.URL, zaptest.NewLogger(t))
	_, err := client.Submit(context.Background(), 1, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "409")
}
