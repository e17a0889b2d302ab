package ledger

import (
	"context"
	"fmt"
	"strconv"

	"github.com/catacomb-labs/delver/internal/game/beast"
)

// Claimer submits the asynchronous claim transaction for a defeated
// collectable beast. It satisfies the pipeline's BeastClaimer interface.
type Claimer struct {
	client Client
}

// NewClaimer wraps a gateway client for claim submissions.
func NewClaimer(client Client) *Claimer {
	return &Claimer{client: client}
}

// ClaimBeast submits a single claim transaction for the beast. The claim is
// independent of the action batch that defeated it.
func (c *Claimer) ClaimBeast(ctx context.Context, gameID string, b beast.Beast) error {
	id, err := strconv.ParseUint(gameID, 10, 64)
	if err != nil {
		return fmt.Errorf("parsing game id %q: %w", gameID, err)
	}
	_, err = c.client.Submit(ctx, id, []Transaction{{
		Method: MethodClaimBeast,
		Params: map[string]any{
			"game_id": id,
			"beast":   b.ID,
			"level":   b.Level,
			"seed":    b.Seed,
		},
	}})
	if err != nil {
		return fmt.Errorf("claiming beast %d: %w", b.ID, err)
	}
	return nil
}
