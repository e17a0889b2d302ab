package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/catacomb-labs/delver/internal/game/pipeline"
	"github.com/catacomb-labs/delver/internal/game/state"
)

const defaultTimeout = 30 * time.Second

// HTTPClient talks JSON over HTTP to a ledger gateway.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient builds a gateway client for the given base URL.
//
// Precondition: baseURL is non-empty and has no trailing slash.
func NewHTTPClient(baseURL string, logger *zap.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
		logger:  logger,
	}
}

type submitRequest struct {
	Transactions []Transaction `json:"transactions"`
}

type submitResponse struct {
	Events json.RawMessage `json:"events"`
}

// Submit posts a transaction batch for atomic execution and returns the
// ordered events the batch produced.
//
// Postcondition: on error no events are returned; the batch either executed
// in full or not at all.
func (c *HTTPClient) Submit(ctx context.Context, gameID uint64, txs []Transaction) ([]pipeline.Event, error) {
	body, err := json.Marshal(submitRequest{Transactions: txs})
	if err != nil {
		return nil, fmt.Errorf("encoding transaction batch: %w", err)
	}
	raw, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/v1/games/%d/transactions", gameID), body)
	if err != nil {
		return nil, err
	}
	var resp submitResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decoding submit response: %w", err)
	}
	events, err := DecodeEvents(resp.Events)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("transaction batch accepted",
		zap.Uint64("game_id", gameID),
		zap.Int("transactions", len(txs)),
		zap.Int("events", len(events)))
	return events, nil
}

// RequestRandom asks the gateway to schedule verifiable randomness for the
// game's next action.
func (c *HTTPClient) RequestRandom(ctx context.Context, gameID uint64) error {
	_, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/v1/games/%d/random", gameID), nil)
	return err
}

// GetSnapshot fetches the game's flat state record. A missing game maps to
// ErrSnapshotNotFound.
func (c *HTTPClient) GetSnapshot(ctx context.Context, gameID uint64) (state.Record, error) {
	raw, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/games/%d/snapshot", gameID), nil)
	if err != nil {
		return nil, err
	}
	var rec state.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return rec, nil
}

// GetEventHistory fetches every event the game has emitted, oldest first.
func (c *HTTPClient) GetEventHistory(ctx context.Context, gameID uint64) ([]pipeline.Event, error) {
	raw, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/games/%d/events", gameID), nil)
	if err != nil {
		return nil, err
	}
	return DecodeEvents(raw)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("building %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("failed to close response body", zap.Error(cerr))
		}
	}()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s %s response: %w", method, path, err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrSnapshotNotFound
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%s %s: gateway returned %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(raw))
	}
	return raw, nil
}
