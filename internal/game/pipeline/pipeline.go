package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/catacomb-labs/delver/internal/game/beast"
	"github.com/catacomb-labs/delver/internal/game/engine"
	"github.com/catacomb-labs/delver/internal/game/gear"
	"github.com/catacomb-labs/delver/internal/game/state"
)

// ErrDraining reports that a consumption loop is already in flight.
var ErrDraining = errors.New("pipeline: drain already in progress")

// BeastClaimer issues the asynchronous claim transaction for a defeated
// collectable beast.
type BeastClaimer interface {
	ClaimBeast(ctx context.Context, gameID string, b beast.Beast) error
}

// CounterStore persists the per-game collected-beast counter.
type CounterStore interface {
	IncrementCollected(ctx context.Context, gameID string) error
}

// Pipeline is the strictly sequential event consumer for one game session.
// Exactly one drain loop runs at a time; the pipeline is the only writer
// of the shared game state.
type Pipeline struct {
	gameID   string
	mode     Mode
	delays   DelayTable
	logger   *zap.Logger
	claimer  BeastClaimer
	counters CounterStore

	mu       sync.Mutex
	queue    []Event
	draining bool
	skip     bool

	st *state.GameState

	// beastDefeated is set by a defeated_beast event and cleared when the
	// next encounter opens.
	beastDefeated bool
	// collectable caches whether the current encounter's beast mints a
	// claimable collectable, recomputed on each new encounter.
	collectable bool

	exploreLog []string
	battleLog  []string
}

// Option configures optional pipeline collaborators.
type Option func(*Pipeline)

// WithClaimer wires the async beast-claim collaborator.
func WithClaimer(c BeastClaimer) Option { return func(p *Pipeline) { p.claimer = c } }

// WithCounters wires the persisted collectable counter store.
func WithCounters(c CounterStore) Option { return func(p *Pipeline) { p.counters = c } }

// New creates a pipeline writing into st.
//
// Precondition: st and logger must be non-nil; delays may be empty.
func New(gameID string, st *state.GameState, mode Mode, delays DelayTable, logger *zap.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		gameID: gameID,
		mode:   mode,
		delays: delays,
		logger: logger,
		st:     st,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Enqueue appends a batch of events to the FIFO in received order.
func (p *Pipeline) Enqueue(events ...Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queue = append(p.queue, events...)
}

// Pending returns the number of queued, not yet applied events.
func (p *Pipeline) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// Draining reports whether a drain loop is currently running.
func (p *Pipeline) Draining() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.draining
}

// SetSkip toggles the pacing skip flag. Skipping suppresses delays for
// queued events; it never discards them.
func (p *Pipeline) SetSkip(skip bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.skip = skip
}

// Drain applies queued events one at a time until the queue is empty,
// awaiting the per-event delay between ticks. Only one drain may run at a
// time; a concurrent call fails with ErrDraining.
//
// Postcondition: On nil return every event enqueued before and during the
// drain has been applied, in order.
func (p *Pipeline) Drain(ctx context.Context) error {
	p.mu.Lock()
	if p.draining {
		p.mu.Unlock()
		return ErrDraining
	}
	p.draining = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.draining = false
		p.mu.Unlock()
	}()

	for {
		p.mu.Lock()
		if len(p.queue) == 0 {
			p.mu.Unlock()
			return nil
		}
		ev := p.queue[0]
		p.queue = p.queue[1:]
		skip := p.skip
		p.mu.Unlock()

		p.apply(ctx, ev)

		// Pacing follows the delay table alone; visibility only gates the
		// explore log, so a paced-but-unlogged kind still gets its pause.
		delay := p.delays[ev.Kind()]
		if delay <= 0 || skip {
			continue
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// ExploreLog returns a copy of the surfaced explore feed.
func (p *Pipeline) ExploreLog() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.exploreLog))
	copy(out, p.exploreLog)
	return out
}

// BattleLog returns a copy of the combat feed.
func (p *Pipeline) BattleLog() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.battleLog))
	copy(out, p.battleLog)
	return out
}

// BeastDefeated reports whether the last encounter ended in a kill that
// has not yet been superseded by a new encounter.
func (p *Pipeline) BeastDefeated() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.beastDefeated
}

// apply mutates local state for one event. The switch is exhaustive over
// the closed event union; adding a variant without a case here is a
// compile-visible omission in the tests that replay full batches.
func (p *Pipeline) apply(ctx context.Context, ev Event) {
	adv := &p.st.Adventurer

	switch e := ev.(type) {
	case AdventurerUpdated:
		p.st.Adventurer = e.Adventurer
		p.st.Adventurer.ClampHealth()

	case BagUpdated:
		p.st.Bag = e.Bag

	case BeastEncountered:
		b := e.Beast
		if b.Health > beast.MaxHealth {
			b.Health = beast.MaxHealth
		}
		p.st.Beast = &b
		adv.BeastHealth = b.Health
		p.mu.Lock()
		p.beastDefeated = false
		p.collectable = b.Collectable()
		p.mu.Unlock()
		p.logExplore(KindBeastEncountered, "encountered %s (level %d)", b.DisplayName(), b.Level)

	case MarketRefreshed:
		p.st.Market = p.st.Market[:0]
		for _, id := range e.ItemIDs {
			if id == 0 || id > gear.NumItems {
				continue
			}
			p.st.Market = append(p.st.Market, state.MarketItem{
				ID:    id,
				Tier:  gear.TierOf(id),
				Type:  gear.TypeOf(id),
				Slot:  gear.SlotOf(id),
				Price: engine.ItemPrice(gear.TierOf(id), adv.Stats.Charisma),
			})
		}

	case Discovery:
		switch e.What {
		case "gold":
			adv.Gold += e.Amount
			if adv.Gold > engine.MaxGold {
				adv.Gold = engine.MaxGold
			}
			p.logExplore(KindDiscovery, "discovered %d gold", e.Amount)
		case "health":
			adv.Health += e.Amount
			adv.ClampHealth()
			p.logExplore(KindDiscovery, "discovered %d health", e.Amount)
		case "loot":
			p.logExplore(KindDiscovery, "discovered %s", gear.NameOf(e.ItemID))
		default:
			p.logExplore(KindDiscovery, "discovered nothing")
		}

	case Obstacle:
		if e.Dodged {
			p.logExplore(KindObstacle, "dodged an obstacle")
			break
		}
		adv.Health -= e.Damage
		adv.ClampHealth()
		p.logExplore(KindObstacle, "obstacle hit %s for %d", e.Location, e.Damage)

	case Attack:
		if p.st.Beast != nil {
			p.st.Beast.Health -= e.Damage
			if p.st.Beast.Health < 0 {
				p.st.Beast.Health = 0
			}
			adv.BeastHealth = p.st.Beast.Health
		}
		p.logBattle("hit for %d%s", e.Damage, critSuffix(e.Critical))

	case BeastAttack:
		adv.Health -= e.Damage
		adv.ClampHealth()
		p.logBattle("beast hit %s for %d%s", e.Location, e.Damage, critSuffix(e.Critical))

	case Flee:
		if e.Success {
			p.logBattle("fled")
		} else {
			p.logBattle("failed to flee")
		}

	case Ambush:
		adv.Health -= e.Damage
		adv.ClampHealth()
		p.logBattle("ambushed: hit %s for %d%s", e.Location, e.Damage, critSuffix(e.Critical))

	case StatUpgrade:
		luck := adv.Stats.Luck
		adv.Stats = e.Stats
		adv.Stats.Luck = luck
		adv.StatUpgradesAvailable = 0
		adv.ClampHealth()

	case BuyItems:
		adv.Gold -= e.GoldSpent
		if adv.Gold < 0 {
			adv.Gold = 0
		}
		if e.Potions > 0 {
			adv.Health += e.Potions * engine.PotionHealthAmount
			adv.ClampHealth()
		}
		p.logExplore(KindBuyItems, "bought %d items, %d potions for %d gold", len(e.ItemIDs), e.Potions, e.GoldSpent)

	case LevelUp:
		p.logExplore(KindLevelUp, "reached level %d", e.Level)

	case DefeatedBeast:
		var defeated beast.Beast
		if p.st.Beast != nil {
			defeated = *p.st.Beast
		}
		p.st.Beast = nil
		p.st.Preview = nil
		adv.BeastHealth = 0
		adv.Gold += e.GoldReward
		if adv.Gold > engine.MaxGold {
			adv.Gold = engine.MaxGold
		}
		adv.XP += e.XPReward
		p.logBattle("defeated beast: +%d gold, +%d xp", e.GoldReward, e.XPReward)

		p.mu.Lock()
		p.beastDefeated = true
		claimable := p.collectable
		p.mu.Unlock()
		if claimable {
			p.claimCollectable(ctx, defeated)
		}

	case FledBeast:
		p.st.Beast = nil
		p.st.Preview = nil
		adv.BeastHealth = 0
		p.logBattle("escaped the beast")

	case Drop:
		dropped := make(map[uint8]bool, len(e.ItemIDs))
		for _, id := range e.ItemIDs {
			dropped[id] = true
		}
		kept := p.st.Bag[:0]
		for _, item := range p.st.Bag {
			if !dropped[item.ID] {
				kept = append(kept, item)
			}
		}
		p.st.Bag = kept
		for _, slot := range state.AllSlots {
			if dropped[adv.Equipment.Get(slot).ID] {
				adv.Equipment.Set(slot, gear.Item{})
			}
		}

	case Equip:
		for slot, item := range e.Items {
			replaced := adv.Equipment.Get(slot)
			adv.Equipment.Set(slot, item)
			if !replaced.IsEmpty() && len(p.st.Bag) < gear.MaxBagSize {
				p.st.Bag = append(p.st.Bag, replaced)
			}
		}

	case Unknown:
		// Contract violation from the ledger, not fatal: skip and log.
		p.logger.Warn("unrecognized event tag", zap.String("tag", e.Tag))

	default:
		p.logger.Warn("event kind missing an apply case", zap.String("kind", ev.Kind().String()))
	}

	p.refreshPreview()
}

// claimCollectable fires the claim transaction and bumps the persisted
// counter without blocking the drain loop.
func (p *Pipeline) claimCollectable(ctx context.Context, b beast.Beast) {
	go func() {
		if p.claimer != nil {
			if err := p.claimer.ClaimBeast(ctx, p.gameID, b); err != nil {
				p.logger.Error("claiming collectable beast", zap.Uint8("beast_id", b.ID), zap.Error(err))
				return
			}
		}
		if p.counters != nil {
			if err := p.counters.IncrementCollected(ctx, p.gameID); err != nil {
				p.logger.Error("incrementing collected counter", zap.Error(err))
			}
		}
	}()
}

func (p *Pipeline) refreshPreview() {
	if p.st.Beast == nil || p.st.Beast.Health <= 0 {
		p.st.Preview = nil
	} else {
		p.st.Preview = state.ComputePreview(&p.st.Adventurer, *p.st.Beast)
	}
	p.st.Phase = state.PhaseOf(&p.st.Adventurer)
}

func (p *Pipeline) logExplore(k Kind, format string, args ...any) {
	if !p.mode.visible(k) {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.exploreLog = append(p.exploreLog, fmt.Sprintf(format, args...))
}

func (p *Pipeline) logBattle(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.battleLog = append(p.battleLog, fmt.Sprintf(format, args...))
}

func critSuffix(critical bool) string {
	if critical {
		return " (critical)"
	}
	return ""
}
