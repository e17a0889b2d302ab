// Package ledger defines the client interface to the authoritative game
// ledger and a JSON-over-HTTP implementation of it. The ledger is a black
// box that accepts transaction batches and returns ordered event lists;
// this package carries no retry policy of its own.
package ledger

import (
	"context"
	"errors"

	"github.com/catacomb-labs/delver/internal/game/pipeline"
	"github.com/catacomb-labs/delver/internal/game/state"
)

// Transaction methods understood by the ledger.
const (
	MethodRequestRandom      = "request_random"
	MethodStartGame          = "start_game"
	MethodExplore            = "explore"
	MethodAttack             = "attack"
	MethodFlee               = "flee"
	MethodEquip              = "equip"
	MethodDrop               = "drop"
	MethodBuyItems           = "buy_items"
	MethodSelectStatUpgrades = "select_stat_upgrades"
	MethodClaimBeast         = "claim_beast"
)

// Transaction is one state-changing ledger call within a batch.
type Transaction struct {
	Method string         `json:"method"`
	Params map[string]any `json:"params,omitempty"`
}

// ErrSnapshotNotFound reports that no snapshot exists for a game id.
var ErrSnapshotNotFound = errors.New("ledger: snapshot not found")

// Client is the consumed ledger surface. Submit executes a whole batch
// atomically: either every transaction lands and the resulting ordered
// events come back, or the batch fails with no events.
type Client interface {
	Submit(ctx context.Context, gameID uint64, txs []Transaction) ([]pipeline.Event, error)
	RequestRandom(ctx context.Context, gameID uint64) error
	GetSnapshot(ctx context.Context, gameID uint64) (state.Record, error)
	GetEventHistory(ctx context.Context, gameID uint64) ([]pipeline.Event, error)
}
