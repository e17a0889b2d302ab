package pipeline_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/catacomb-labs/delver/internal/game/beast"
	"github.com/catacomb-labs/delver/internal/game/gear"
	"github.com/catacomb-labs/delver/internal/game/pipeline"
	"github.com/catacomb-labs/delver/internal/game/state"
)

func testState() *state.GameState {
	st := &state.GameState{
		Adventurer: state.Adventurer{
			Health: 100,
			XP:     100,
			Stats:  state.Stats{Strength: 5, Vitality: 2},
		},
	}
	st.Adventurer.Equipment.Weapon = gear.Item{ID: 44, XP: 100}
	return st
}

func newPipeline(st *state.GameState, opts ...pipeline.Option) *pipeline.Pipeline {
	// An empty delay table keeps tests instant without touching pacing code.
	return pipeline.New("game-1", st, pipeline.ModeLive, pipeline.DelayTable{}, zap.NewNop(), opts...)
}

// drainOne applies a single event synchronously.
func drainOne(t *testing.T, p *pipeline.Pipeline, ev pipeline.Event) {
	t.Helper()
	p.Enqueue(ev)
	require.NoError(t, p.Drain(context.Background()))
}

func TestDrain_ScriptedCombatBatch(t *testing.T) {
	st := testState()
	p := newPipeline(st)

	b := beast.Beast{ID: 43, Level: 10, Health: 40, Seed: 5}
	drainOne(t, p, pipeline.BeastEncountered{Beast: b})
	require.NotNil(t, st.Beast)
	assert.Equal(t, 40, st.Adventurer.BeastHealth)
	assert.Equal(t, state.PhaseCombat, st.Phase)
	require.NotNil(t, st.Preview)

	drainOne(t, p, pipeline.Attack{Damage: 25})
	assert.Equal(t, 15, st.Beast.Health)
	assert.Equal(t, 15, st.Adventurer.BeastHealth)

	drainOne(t, p, pipeline.BeastAttack{Damage: 12, Location: gear.SlotChest})
	assert.Equal(t, 88, st.Adventurer.Health)

	drainOne(t, p, pipeline.DefeatedBeast{BeastID: 43, GoldReward: 10, XPReward: 8})
	assert.Nil(t, st.Beast)
	assert.Nil(t, st.Preview)
	assert.Equal(t, 0, st.Adventurer.BeastHealth)
	assert.Equal(t, 10, st.Adventurer.Gold)
	assert.Equal(t, 108, st.Adventurer.XP)
	assert.Equal(t, state.PhaseExploration, st.Phase)
	assert.True(t, p.BeastDefeated())

	// Each step surfaced exactly one battle line, in order.
	log := p.BattleLog()
	require.Len(t, log, 3)
	assert.Contains(t, log[0], "hit for 25")
	assert.Contains(t, log[1], "beast hit chest for 12")
	assert.Contains(t, log[2], "defeated beast")
}

func TestDrain_BeastHealthCappedOnEncounter(t *testing.T) {
	st := testState()
	p := newPipeline(st)

	b := beast.Beast{ID: 12, Level: 80, Health: 5000, Seed: 9}
	drainOne(t, p, pipeline.BeastEncountered{Beast: b})
	require.NotNil(t, st.Beast)
	assert.Equal(t, beast.MaxHealth, st.Beast.Health)
	assert.Equal(t, beast.MaxHealth, st.Adventurer.BeastHealth)
}

func TestDrain_AppliesInFIFOOrderWithoutLoss(t *testing.T) {
	st := testState()
	p := newPipeline(st)

	// Ten discoveries of distinct amounts land in exact order.
	for i := 1; i <= 10; i++ {
		p.Enqueue(pipeline.Discovery{What: "gold", Amount: i})
	}
	require.NoError(t, p.Drain(context.Background()))

	assert.Equal(t, 55, st.Adventurer.Gold)
	log := p.ExploreLog()
	require.Len(t, log, 10)
	assert.Equal(t, "discovered 1 gold", log[0])
	assert.Equal(t, "discovered 10 gold", log[9])
	assert.Equal(t, 0, p.Pending())
}

func TestDrain_SecondDrainRejectedWhileRunning(t *testing.T) {
	st := testState()
	delays := pipeline.DelayTable{pipeline.KindDiscovery: 50 * time.Millisecond}
	p := pipeline.New("game-1", st, pipeline.ModeLive, delays, zap.NewNop())
	p.Enqueue(pipeline.Discovery{What: "gold", Amount: 1})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, p.Drain(context.Background()))
	}()

	require.Eventually(t, p.Draining, time.Second, time.Millisecond)
	assert.ErrorIs(t, p.Drain(context.Background()), pipeline.ErrDraining)
	wg.Wait()
	assert.False(t, p.Draining())
}

func TestDrain_SkipSuppressesDelaysButKeepsEvents(t *testing.T) {
	st := testState()
	delays := pipeline.DelayTable{pipeline.KindDiscovery: time.Hour}
	p := pipeline.New("game-1", st, pipeline.ModeLive, delays, zap.NewNop())
	p.SetSkip(true)

	for i := 0; i < 5; i++ {
		p.Enqueue(pipeline.Discovery{What: "gold", Amount: 2})
	}
	done := make(chan error, 1)
	go func() { done <- p.Drain(context.Background()) }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("skip flag did not bypass pacing delays")
	}
	// All five events still applied.
	assert.Equal(t, 10, st.Adventurer.Gold)
}

func TestDrain_ContextCancelStopsPacing(t *testing.T) {
	st := testState()
	delays := pipeline.DelayTable{pipeline.KindDiscovery: time.Hour}
	p := pipeline.New("game-1", st, pipeline.ModeLive, delays, zap.NewNop())
	p.Enqueue(pipeline.Discovery{What: "gold", Amount: 1}, pipeline.Discovery{What: "gold", Amount: 1})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Drain(ctx) }()
	time.Sleep(10 * time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	// The first event applied; the second stays queued, not discarded.
	assert.Equal(t, 1, p.Pending())
}

func TestApply_UnknownTagIgnored(t *testing.T) {
	st := testState()
	p := newPipeline(st)
	before := st.Adventurer
	drainOne(t, p, pipeline.Unknown{Tag: "mystery_event"})
	assert.Equal(t, before, st.Adventurer)
	assert.Empty(t, p.ExploreLog())
}

type fakeClaims struct {
	mu      sync.Mutex
	claimed []uint8
	counts  int
}

func (f *fakeClaims) ClaimBeast(_ context.Context, _ string, b beast.Beast) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.claimed = append(f.claimed, b.ID)
	return nil
}

func (f *fakeClaims) IncrementCollected(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts++
	return nil
}

func (f *fakeClaims) snapshot() ([]uint8, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uint8(nil), f.claimed...), f.counts
}

func TestDefeatedBeast_CollectableClaimAndCounter(t *testing.T) {
	st := testState()
	fc := &fakeClaims{}
	p := newPipeline(st, pipeline.WithClaimer(fc), pipeline.WithCounters(fc))

	// A named tier 1 hunter is collectable.
	collectable := beast.Beast{ID: 29, Level: 19, Health: 30, Seed: 9}
	require.True(t, collectable.Collectable())
	drainOne(t, p, pipeline.BeastEncountered{Beast: collectable})
	drainOne(t, p, pipeline.DefeatedBeast{BeastID: 29, GoldReward: 5, XPReward: 4})

	require.Eventually(t, func() bool {
		claimed, counts := fc.snapshot()
		return len(claimed) == 1 && counts == 1
	}, time.Second, time.Millisecond)
	claimed, _ := fc.snapshot()
	assert.Equal(t, uint8(29), claimed[0])

	// A plain beast must not fire a claim.
	plain := beast.Beast{ID: 50, Level: 10, Health: 10, Seed: 9}
	drainOne(t, p, pipeline.BeastEncountered{Beast: plain})
	assert.False(t, p.BeastDefeated(), "new encounter clears the defeated flag")
	drainOne(t, p, pipeline.DefeatedBeast{BeastID: 50, GoldReward: 2, XPReward: 4})

	time.Sleep(20 * time.Millisecond)
	claimed, counts := fc.snapshot()
	assert.Len(t, claimed, 1)
	assert.Equal(t, 1, counts)
}

func TestSpectateMode_RestrictsExploreLog(t *testing.T) {
	st := testState()
	p := pipeline.New("game-1", st, pipeline.ModeSpectate, pipeline.DelayTable{}, zap.NewNop())

	p.Enqueue(
		pipeline.Discovery{What: "gold", Amount: 3},
		pipeline.BuyItems{ItemIDs: []uint8{9}, GoldSpent: 2},
		pipeline.LevelUp{Level: 2},
	)
	require.NoError(t, p.Drain(context.Background()))

	// Purchases are applied but not narrated while spectating.
	assert.Equal(t, 1, st.Adventurer.Gold)
	log := p.ExploreLog()
	require.Len(t, log, 2)
	assert.Contains(t, log[0], "discovered 3 gold")
	assert.Contains(t, log[1], "reached level 2")
}

func TestSpectateMode_PacesUnloggedKinds(t *testing.T) {
	st := testState()
	st.Adventurer.Gold = 5
	delays := pipeline.DelayTable{pipeline.KindBuyItems: 50 * time.Millisecond}
	p := pipeline.New("game-1", st, pipeline.ModeSpectate, delays, zap.NewNop())

	p.Enqueue(pipeline.BuyItems{ItemIDs: []uint8{9}, GoldSpent: 2})
	start := time.Now()
	require.NoError(t, p.Drain(context.Background()))

	// Purchases are silent while spectating but still hold their pause.
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	assert.Empty(t, p.ExploreLog())
	assert.Equal(t, 3, st.Adventurer.Gold)
}

func TestApply_EquipMovesReplacedItemToBag(t *testing.T) {
	st := testState()
	p := newPipeline(st)

	drainOne(t, p, pipeline.Equip{Items: map[gear.Slot]gear.Item{
		gear.SlotWeapon: {ID: 42, XP: 0},
	}})
	assert.Equal(t, uint8(42), st.Adventurer.Equipment.Weapon.ID)
	require.Len(t, st.Bag, 1)
	assert.Equal(t, uint8(44), st.Bag[0].ID)
}

func TestApply_DropRemovesFromBagAndEquipment(t *testing.T) {
	st := testState()
	st.Bag = []gear.Item{{ID: 76, XP: 9}, {ID: 9, XP: 1}}
	p := newPipeline(st)

	drainOne(t, p, pipeline.Drop{ItemIDs: []uint8{76, 44}})
	require.Len(t, st.Bag, 1)
	assert.Equal(t, uint8(9), st.Bag[0].ID)
	assert.True(t, st.Adventurer.Equipment.Weapon.IsEmpty())
}

func TestApply_StatUpgradePreservesDerivedLuck(t *testing.T) {
	st := testState()
	st.Adventurer.Stats.Luck = 7
	p := newPipeline(st)

	drainOne(t, p, pipeline.StatUpgrade{Stats: state.Stats{Strength: 6, Vitality: 3}})
	assert.Equal(t, 6, st.Adventurer.Stats.Strength)
	assert.Equal(t, 7, st.Adventurer.Stats.Luck, "luck is item-derived, never allocated")
	assert.Equal(t, 0, st.Adventurer.StatUpgradesAvailable)
}
