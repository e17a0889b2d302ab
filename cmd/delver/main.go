// Package main provides the delver binary: it plays or resumes one run
// against the ledger gateway, either interactively (one action per
// invocation) or autonomously via a Lua policy.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/catacomb-labs/delver/internal/config"
	"github.com/catacomb-labs/delver/internal/game/pipeline"
	"github.com/catacomb-labs/delver/internal/game/session"
	"github.com/catacomb-labs/delver/internal/game/state"
	"github.com/catacomb-labs/delver/internal/ledger"
	"github.com/catacomb-labs/delver/internal/observability"
	"github.com/catacomb-labs/delver/internal/scripting"
	"github.com/catacomb-labs/delver/internal/storage/postgres"
	"github.com/catacomb-labs/delver/internal/storage/sqlite"
)

const maxPolicyTurns = 10_000

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	action := flag.String("action", "", "single action to perform: explore, attack, flee, status")
	archive := flag.Bool("archive", false, "archive event batches to postgres for later spectating")
	skip := flag.Bool("skip", false, "suppress pacing delays")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting delver",
		zap.String("endpoint", cfg.Ledger.Endpoint),
		zap.Uint64("game_id", cfg.Session.GameID),
	)

	client := ledger.NewHTTPClient(cfg.Ledger.Endpoint, logger)

	counters, err := sqlite.Open(cfg.Storage.CountersPath)
	if err != nil {
		logger.Fatal("opening counter store", zap.Error(err))
	}
	defer counters.Close()

	st := &state.GameState{}
	gameKey := strconv.FormatUint(cfg.Session.GameID, 10)

	delays := pipeline.LiveDelays()
	pipe := pipeline.New(gameKey, st, pipeline.ModeLive, delays, logger,
		pipeline.WithClaimer(ledger.NewClaimer(client)),
		pipeline.WithCounters(counters),
	)
	if *skip || cfg.Pacing.Skip {
		pipe.SetSkip(true)
	}

	opts := []session.Option{session.WithVRF(cfg.Session.VRFEnabled)}

	if *archive {
		dbStart := time.Now()
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Duration("elapsed", time.Since(dbStart)),
		)

		history := postgres.NewHistoryRepository(pool.DB())
		opts = append(opts, session.WithObserver(func(events []pipeline.Event) {
			raw := make([]ledger.RawEvent, 0, len(events))
			for _, ev := range events {
				r, err := ledger.EncodeEvent(ev)
				if err != nil {
					logger.Warn("skipping unencodable event", zap.Error(err))
					continue
				}
				raw = append(raw, r)
			}
			if err := history.Append(ctx, cfg.Session.GameID, raw); err != nil {
				logger.Warn("archiving event batch", zap.Error(err))
			}
		}))
	}

	sess := session.New(cfg.Session.GameID, client, pipe, st, logger, opts...)

	// Resume the run if it exists, otherwise start one.
	if err := sess.Refresh(ctx); err != nil {
		if !errors.Is(err, state.ErrNoGame) {
			logger.Fatal("refreshing state", zap.Error(err))
		}
		logger.Info("no existing run, starting a new game")
		if err := sess.Perform(ctx, session.StartGame{
			Seed:    cfg.Session.Seed,
			StartXP: cfg.Session.StartXP,
		}); err != nil {
			logger.Fatal("starting game", zap.Error(err))
		}
	}

	switch {
	case cfg.Scripting.Enabled:
		runPolicy(ctx, cfg, sess, st, logger)
	case *action != "":
		if err := performOne(ctx, sess, *action); err != nil {
			logger.Fatal("performing action", zap.Error(err))
		}
	}

	printStatus(st, pipe)
	logger.Info("done", zap.Duration("elapsed", time.Since(start)))
}

// runPolicy loops the Lua policy until the run ends or the turn cap trips.
func runPolicy(ctx context.Context, cfg config.Config, sess *session.Session, st *state.GameState, logger *zap.Logger) {
	policy, err := scripting.LoadPolicy(cfg.Scripting.PolicyPath, cfg.Scripting.StepLimit, logger)
	if err != nil {
		logger.Fatal("loading policy", zap.Error(err))
	}
	defer policy.Close()

	logger.Info("autoplay started", zap.String("policy", cfg.Scripting.PolicyPath))

	for turn := 0; turn < maxPolicyTurns; turn++ {
		if st.Phase == state.PhaseDeath {
			logger.Info("adventurer died",
				zap.Int("turns", turn),
				zap.Int("xp", st.Adventurer.XP),
			)
			return
		}

		next, err := policy.Decide(st)
		if err != nil {
			logger.Fatal("policy decision", zap.Error(err))
		}
		logger.Info("policy decided",
			zap.String("action", next.Name()),
			zap.String("phase", st.Phase.String()),
		)

		if err := sess.Perform(ctx, next); err != nil {
			var pre *session.PreconditionError
			if errors.As(err, &pre) {
				logger.Fatal("policy violated a precondition", zap.Error(err))
			}
			logger.Warn("action failed, stopping autoplay",
				zap.Int("failures", sess.Failures()),
				zap.Error(err),
			)
			return
		}
	}
	logger.Warn("turn cap reached, stopping autoplay", zap.Int("turns", maxPolicyTurns))
}

func performOne(ctx context.Context, sess *session.Session, name string) error {
	var a session.Action
	switch name {
	case "explore":
		a = session.Explore{}
	case "attack":
		a = session.Attack{}
	case "flee":
		a = session.Flee{}
	case "status":
		return nil
	default:
		return fmt.Errorf("unknown action %q", name)
	}
	return sess.Perform(ctx, a)
}

func printStatus(st *state.GameState, pipe *pipeline.Pipeline) {
	fmt.Fprintf(os.Stdout, "phase=%s level=%d health=%d/%d gold=%d xp=%d\n",
		st.Phase, st.Adventurer.Level(), st.Adventurer.Health,
		st.Adventurer.MaxHealth(), st.Adventurer.Gold, st.Adventurer.XP)
	if st.Beast != nil {
		fmt.Fprintf(os.Stdout, "beast id=%d level=%d health=%d\n",
			st.Beast.ID, st.Beast.Level, st.Beast.Health)
	}
	if st.Preview != nil {
		fmt.Fprintf(os.Stdout, "preview: %s (hit %d, crit %d, taken %d, flee %d%%)\n",
			st.Preview.Outcome, st.Preview.PlayerDamageBase,
			st.Preview.PlayerDamageCritical, st.Preview.BeastDamageExpected,
			st.Preview.FleeChance)
	}
	for _, line := range pipe.ExploreLog() {
		fmt.Fprintln(os.Stdout, line)
	}
}
