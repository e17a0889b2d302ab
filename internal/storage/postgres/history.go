package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/catacomb-labs/delver/internal/ledger"
)

// StoredEvent is one archived ledger event with its position in the game's
// stream.
type StoredEvent struct {
	Seq        int
	Event      ledger.RawEvent
	ReceivedAt time.Time
}

// HistoryRepository archives per-game event streams so spectating can replay
// a run without the gateway.
type HistoryRepository struct {
	db *pgxpool.Pool
}

// NewHistoryRepository creates a HistoryRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewHistoryRepository(db *pgxpool.Pool) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Append archives a batch of events at the end of the game's stream, in
// order, in a single transaction.
//
// Postcondition: sequence numbers are contiguous per game; a failed append
// archives nothing.
func (r *HistoryRepository) Append(ctx context.Context, gameID uint64, events []ledger.RawEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("beginning append transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var next int
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(seq), 0) + 1 FROM game_events WHERE game_id = $1`,
		int64(gameID),
	).Scan(&next)
	if err != nil {
		return fmt.Errorf("reading next sequence for game %d: %w", gameID, err)
	}

	for i, ev := range events {
		data := ev.Data
		if data == nil {
			data = json.RawMessage("null")
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO game_events (game_id, seq, tag, data)
			 VALUES ($1, $2, $3, $4)`,
			int64(gameID), next+i, ev.Tag, data,
		)
		if err != nil {
			return fmt.Errorf("inserting event %d for game %d: %w", next+i, gameID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing append for game %d: %w", gameID, err)
	}
	return nil
}

// History returns the game's full archived stream, oldest first.
func (r *HistoryRepository) History(ctx context.Context, gameID uint64) ([]StoredEvent, error) {
	rows, err := r.db.Query(ctx,
		`SELECT seq, tag, data, received_at
		 FROM game_events
		 WHERE game_id = $1
		 ORDER BY seq`,
		int64(gameID),
	)
	if err != nil {
		return nil, fmt.Errorf("querying history for game %d: %w", gameID, err)
	}
	defer rows.Close()

	var events []StoredEvent
	for rows.Next() {
		var ev StoredEvent
		var data []byte
		if err := rows.Scan(&ev.Seq, &ev.Event.Tag, &data, &ev.ReceivedAt); err != nil {
			return nil, fmt.Errorf("scanning event for game %d: %w", gameID, err)
		}
		ev.Event.Data = json.RawMessage(data)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history for game %d: %w", gameID, err)
	}
	return events, nil
}

// Games lists every game id with archived events, most recently updated
// first.
func (r *HistoryRepository) Games(ctx context.Context) ([]uint64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT game_id
		 FROM game_events
		 GROUP BY game_id
		 ORDER BY MAX(received_at) DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing archived games: %w", err)
	}
	defer rows.Close()

	var ids []uint64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning game id: %w", err)
		}
		ids = append(ids, uint64(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating archived games: %w", err)
	}
	return ids, nil
}
