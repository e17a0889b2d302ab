// Package main provides the spectate binary: it replays another game's
// event stream with narrated pacing, from the gateway or from the local
// postgres archive.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/catacomb-labs/delver/internal/config"
	"github.com/catacomb-labs/delver/internal/game/pipeline"
	"github.com/catacomb-labs/delver/internal/game/state"
	"github.com/catacomb-labs/delver/internal/ledger"
	"github.com/catacomb-labs/delver/internal/observability"
	"github.com/catacomb-labs/delver/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	gameID := flag.Uint64("game", 0, "game id to spectate; 0 uses the configured session game")
	fromArchive := flag.Bool("from-archive", false, "replay from the postgres archive instead of the gateway")
	list := flag.Bool("list", false, "list archived games and exit")
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

	id := *gameID
	if id == 0 {
		id = cfg.Session.GameID
	}

	var events []pipeline.Event
	if *fromArchive || *list {
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		history := postgres.NewHistoryRepository(pool.DB())

		if *list {
			games, err := history.Games(ctx)
			if err != nil {
				logger.Fatal("listing archived games", zap.Error(err))
			}
			for _, g := range games {
				fmt.Fprintln(os.Stdout, g)
			}
			return
		}

		stored, err := history.History(ctx, id)
		if err != nil {
			logger.Fatal("reading archived history", zap.Error(err))
		}
		for _, s := range stored {
			ev, err := ledger.DecodeRawEvent(s.Event)
			if err != nil {
				logger.Fatal("decoding archived event", zap.Int("seq", s.Seq), zap.Error(err))
			}
			events = append(events, ev)
		}
	} else {
		client := ledger.NewHTTPClient(cfg.Ledger.Endpoint, logger)
		events, err = client.GetEventHistory(ctx, id)
		if err != nil {
			logger.Fatal("fetching event history", zap.Error(err))
		}
	}

	if len(events) == 0 {
		logger.Info("nothing to replay", zap.Uint64("game_id", id))
		return
	}

	logger.Info("replaying run",
		zap.Uint64("game_id", id),
		zap.Int("events", len(events)),
	)

	st := &state.GameState{}
	pipe := pipeline.New(strconv.FormatUint(id, 10), st, pipeline.ModeSpectate,
		pipeline.SpectateDelays(), logger)
	if *skip {
		pipe.SetSkip(true)
	}

	start := time.Now()
	pipe.Enqueue(events...)
	if err := pipe.Drain(ctx); err != nil {
		logger.Fatal("replaying events", zap.Error(err))
	}

	for _, line := range pipe.ExploreLog() {
		fmt.Fprintln(os.Stdout, line)
	}
	fmt.Fprintf(os.Stdout, "final: phase=%s level=%d health=%d gold=%d xp=%d [%s]\n",
		st.Phase, st.Adventurer.Level(), st.Adventurer.Health,
		st.Adventurer.Gold, st.Adventurer.XP, time.Since(start))
}
