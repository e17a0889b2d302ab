package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/catacomb-labs/delver/internal/game/gear"
	"github.com/catacomb-labs/delver/internal/game/pipeline"
	"github.com/catacomb-labs/delver/internal/game/state"
	"github.com/catacomb-labs/delver/internal/ledger"
)

// PreconditionError rejects an action before any network call is made.
type PreconditionError struct {
	Action string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("cannot %s: %s", e.Action, e.Reason)
}

// InFlightError rejects an action while a previous one is still resolving.
type InFlightError struct {
	Running string
}

func (e *InFlightError) Error() string {
	return fmt.Sprintf("action %q is still in flight", e.Running)
}

// Session owns one game's orchestration: it compiles actions into ordered
// transaction batches, submits them, and drains the resulting events through
// the pipeline. Exactly one action resolves at a time.
type Session struct {
	id     uuid.UUID
	gameID uint64
	client ledger.Client
	pipe   *pipeline.Pipeline
	st     *state.GameState
	logger *zap.Logger

	vrfEnabled bool
	observer   func(events []pipeline.Event)

	mu        sync.Mutex
	running   string
	active    bool
	failures  int
	confirmed state.Equipment
	staged    state.Equipment
}

// Option configures a Session.
type Option func(*Session)

// WithVRF enables verifiable-randomness requests ahead of
// randomness-dependent actions.
func WithVRF(enabled bool) Option {
	return func(s *Session) { s.vrfEnabled = enabled }
}

// WithObserver registers a callback invoked with each successfully
// submitted batch's events, before they are applied. Used for archiving.
func WithObserver(fn func(events []pipeline.Event)) Option {
	return func(s *Session) { s.observer = fn }
}

// New builds a session for the given game.
//
// Precondition: st is the same state the pipeline applies events to.
func New(gameID uint64, client ledger.Client, pipe *pipeline.Pipeline, st *state.GameState, logger *zap.Logger, opts ...Option) *Session {
	s := &Session{
		id:     uuid.New(),
		gameID: gameID,
		client: client,
		pipe:   pipe,
		st:     st,
		logger: logger.With(zap.Uint64("game_id", gameID)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// Running reports the name of the action currently resolving, or "" when
// the session is idle.
func (s *Session) Running() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Failures returns the count of submission failures seen so far. The counter
// only grows; callers decide whether to resubmit.
func (s *Session) Failures() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failures
}

// Refresh reconstructs local state from the ledger's latest snapshot. A
// missing snapshot means the game does not exist yet, reported as
// state.ErrNoGame.
func (s *Session) Refresh(ctx context.Context) error {
	rec, err := s.client.GetSnapshot(ctx, s.gameID)
	if err != nil {
		if errors.Is(err, ledger.ErrSnapshotNotFound) {
			return state.ErrNoGame
		}
		return fmt.Errorf("fetching snapshot: %w", err)
	}
	derived, err := state.Derive(rec)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	*s.st = *derived
	s.active = true
	s.confirmed = s.st.Adventurer.Equipment
	s.staged = s.confirmed
	return nil
}

// StageItem stages a bag item into its slot locally, without submitting
// anything. The diff against the last-confirmed equipment is flushed as a
// single equip transaction ahead of the next action.
func (s *Session) StageItem(id uint8) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return &PreconditionError{Action: "equip", Reason: "no active game"}
	}
	slot := gear.SlotOf(id)
	if slot == gear.SlotNone {
		return &PreconditionError{Action: "equip", Reason: fmt.Sprintf("item %d has no slot", id)}
	}
	for _, item := range s.st.Bag {
		if item.ID == id {
			s.staged.Set(slot, item)
			return nil
		}
	}
	return &PreconditionError{Action: "equip", Reason: fmt.Sprintf("item %d is not in the bag", id)}
}

// StagedDiff returns the ids staged locally that differ from the
// last-confirmed equipment, in canonical slot order.
func (s *Session) StagedDiff() []uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stagedDiff(nil)
}

// Perform validates, compiles, submits, and drains one action end to end.
//
// Precondition: no other action is in flight for this session.
// Postcondition: on submission failure local state is untouched and the
// failure counter has grown by one; on success every returned event has been
// applied in order.
func (s *Session) Perform(ctx context.Context, a Action) error {
	s.mu.Lock()
	if s.running != "" {
		running := s.running
		s.mu.Unlock()
		return &InFlightError{Running: running}
	}
	if s.pipe.Draining() {
		s.mu.Unlock()
		return &InFlightError{Running: "event drain"}
	}
	if err := s.validate(a); err != nil {
		s.mu.Unlock()
		return err
	}
	s.running = a.Name()
	txs := s.compile(a)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = ""
		s.mu.Unlock()
	}()

	events, err := s.client.Submit(ctx, s.gameID, txs)
	if err != nil {
		s.mu.Lock()
		s.failures++
		failures := s.failures
		s.mu.Unlock()
		s.logger.Warn("transaction batch failed",
			zap.String("action", a.Name()),
			zap.Int("failures", failures),
			zap.Error(err))
		return fmt.Errorf("submitting %s: %w", a.Name(), err)
	}

	if s.observer != nil {
		s.observer(events)
	}
	s.pipe.Enqueue(events...)
	if err := s.pipe.Drain(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.active = true
	s.confirmed = s.st.Adventurer.Equipment
	s.staged = s.confirmed
	s.mu.Unlock()
	return nil
}

// validate applies the minimal precondition checks; anything deeper is the
// ledger's call. Caller holds s.mu.
func (s *Session) validate(a Action) error {
	if _, ok := a.(StartGame); ok {
		if s.active {
			return &PreconditionError{Action: a.Name(), Reason: "game already started"}
		}
		return nil
	}
	if !s.active {
		return &PreconditionError{Action: a.Name(), Reason: "no active game"}
	}
	switch a := a.(type) {
	case BuyItems:
		if len(a.Purchases) == 0 && a.Potions == 0 {
			return &PreconditionError{Action: a.Name(), Reason: "no items specified"}
		}
	case SelectStatUpgrades:
		if s.st.Adventurer.StatUpgradesAvailable == 0 {
			return &PreconditionError{Action: a.Name(), Reason: "no stat upgrades available"}
		}
		if a.Stats.Luck != 0 {
			return &PreconditionError{Action: a.Name(), Reason: "luck cannot be allocated"}
		}
	case Attack:
		if s.st.Beast == nil {
			return &PreconditionError{Action: a.Name(), Reason: "not in combat"}
		}
	case Flee:
		if s.st.Beast == nil {
			return &PreconditionError{Action: a.Name(), Reason: "not in combat"}
		}
	}
	return nil
}

// compile turns an action into its ordered transaction batch: an optional
// randomness request first, then the staged-equipment flush, then the action
// itself. Caller holds s.mu.
func (s *Session) compile(a Action) []ledger.Transaction {
	var txs []ledger.Transaction

	if s.needsRandomness(a) {
		txs = append(txs, ledger.Transaction{
			Method: ledger.MethodRequestRandom,
			Params: map[string]any{"game_id": s.gameID},
		})
	}

	switch a := a.(type) {
	case StartGame:
		txs = append(txs, ledger.Transaction{
			Method: ledger.MethodStartGame,
			Params: map[string]any{"game_id": s.gameID, "seed": a.Seed, "start_xp": a.StartXP},
		})
		return txs

	case Equip:
		// The staged diff rides along in the same equip transaction, so a
		// beast's free attack on gear swap lands at most once per batch.
		targets := make(map[gear.Slot]bool, len(a.ItemIDs))
		for _, id := range a.ItemIDs {
			targets[gear.SlotOf(id)] = true
		}
		ids := append(s.stagedDiff(targets), a.ItemIDs...)
		txs = append(txs, ledger.Transaction{
			Method: ledger.MethodEquip,
			Params: map[string]any{"game_id": s.gameID, "items": ids},
		})
		return txs
	}

	if diff := s.stagedDiff(nil); len(diff) > 0 {
		txs = append(txs, ledger.Transaction{
			Method: ledger.MethodEquip,
			Params: map[string]any{"game_id": s.gameID, "items": diff},
		})
	}

	switch a := a.(type) {
	case Explore:
		txs = append(txs, ledger.Transaction{
			Method: ledger.MethodExplore,
			Params: map[string]any{"game_id": s.gameID, "until_death": a.UntilDeath},
		})
	case Attack:
		txs = append(txs, ledger.Transaction{
			Method: ledger.MethodAttack,
			Params: map[string]any{"game_id": s.gameID, "to_the_death": a.ToTheDeath},
		})
	case Flee:
		txs = append(txs, ledger.Transaction{
			Method: ledger.MethodFlee,
			Params: map[string]any{"game_id": s.gameID, "to_the_death": a.ToTheDeath},
		})
	case BuyItems:
		txs = append(txs, ledger.Transaction{
			Method: ledger.MethodBuyItems,
			Params: map[string]any{"game_id": s.gameID, "potions": a.Potions, "items": a.Purchases},
		})
	case SelectStatUpgrades:
		txs = append(txs, ledger.Transaction{
			Method: ledger.MethodSelectStatUpgrades,
			Params: map[string]any{
				"game_id":      s.gameID,
				"strength":     a.Stats.Strength,
				"dexterity":    a.Stats.Dexterity,
				"vitality":     a.Stats.Vitality,
				"intelligence": a.Stats.Intelligence,
				"wisdom":       a.Stats.Wisdom,
				"charisma":     a.Stats.Charisma,
			},
		})
	case Drop:
		txs = append(txs, ledger.Transaction{
			Method: ledger.MethodDrop,
			Params: map[string]any{"game_id": s.gameID, "items": a.ItemIDs},
		})
	}
	return txs
}

// needsRandomness reports whether the action's batch starts with a
// random-number request. Caller holds s.mu.
func (s *Session) needsRandomness(a Action) bool {
	switch a := a.(type) {
	case StartGame:
		return a.Seed == 0 && a.StartXP != 0
	case Explore, Attack, Flee:
		return s.vrfEnabled
	case Equip:
		// A gear swap mid-combat gives the beast a free attack, which
		// rolls randomness.
		return s.vrfEnabled && s.st.Beast != nil
	}
	return false
}

// stagedDiff collects staged item ids that differ from the last-confirmed
// equipment, skipping excluded slots. Caller holds s.mu.
func (s *Session) stagedDiff(exclude map[gear.Slot]bool) []uint8 {
	var ids []uint8
	for _, slot := range state.AllSlots {
		if exclude[slot] {
			continue
		}
		staged := s.staged.Get(slot)
		if staged.ID != 0 && staged != s.confirmed.Get(slot) {
			ids = append(ids, staged.ID)
		}
	}
	return ids
}
