package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/folio-app/folio/backend/pkg/common"
	"github.com/folio-app/folio/backend/pkg/logger"
)

// KeyPrefix namespaces every graph snapshot key in the backend store.
const KeyPrefix = "relgraph:"

const (
	defaultTTL             = time.Hour
	defaultMaxPayloadBytes = 1 << 20
)

// ErrNotFound is returned by backends when a key is absent or expired.
var ErrNotFound = errors.New("cache: key not found")

// Backend is an external key-value store with per-entry TTL. All cache
// state lives in the backend; the client itself holds no locks and no
// mutable state.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

// Client memoizes built graphs behind a time-boxed backend store. Backend
// failures degrade to cache misses or skipped writes; they never reach the
// caller. A nil Client or a Client without a backend passes every call
// straight through to the build function.
type Client struct {
	backend         Backend
	ttl             time.Duration
	maxPayloadBytes int
}

// ClientParams configures a cache Client. Zero values fall back to a one
// hour TTL and a 1 MiB payload bound.
type ClientParams struct {
	Backend         Backend
	TTL             time.Duration
	MaxPayloadBytes int
}

// NewClient creates a cache client over the given backend. A nil backend
// yields a client that never caches.
func NewClient(params ClientParams) *Client {
	ttl := params.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	maxPayloadBytes := params.MaxPayloadBytes
	if maxPayloadBytes <= 0 {
		maxPayloadBytes = defaultMaxPayloadBytes
	}
	return &Client{
		backend:         params.Backend,
		ttl:             ttl,
		maxPayloadBytes: maxPayloadBytes,
	}
}

// DeriveKey maps one set of build parameters to its cache key. Identical
// parameters always yield an identical key, across calls and processes.
func DeriveKey(includeBinders bool, minBookCount, maxBooks int) string {
	return fmt.Sprintf("%sv1:binders=%t:min=%d:max=%d", KeyPrefix, includeBinders, minBookCount, maxBooks)
}

// Get fetches a cached graph. Any backend or decode failure is reported
// as a miss, never as an error.
func (c *Client) Get(ctx context.Context, key string) (*common.Graph, bool) {
	if c == nil || c.backend == nil {
		return nil, false
	}

	payload, err := c.backend.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Debug("[Cache] Read failed, treating as miss", "key", key, "err", err)
		}
		return nil, false
	}

	var graph common.Graph
	if err := json.Unmarshal(payload, &graph); err != nil {
		logger.Warn("[Cache] Corrupt payload, treating as miss", "key", key, "err", err)
		return nil, false
	}

	return &graph, true
}

// Set writes a graph snapshot with the configured TTL. Writes are best
// effort: oversized payloads are skipped and backend errors swallowed.
func (c *Client) Set(ctx context.Context, key string, graph *common.Graph) {
	if c == nil || c.backend == nil || graph == nil {
		return
	}

	payload, err := json.Marshal(graph)
	if err != nil {
		logger.Warn("[Cache] Failed to serialize graph", "key", key, "err", err)
		return
	}
	if len(payload) > c.maxPayloadBytes {
		logger.Debug("[Cache] Payload exceeds size bound, skipping write", "key", key, "bytes", len(payload))
		return
	}

	if err := c.backend.Set(ctx, key, payload, c.ttl); err != nil {
		logger.Debug("[Cache] Write failed", "key", key, "err", err)
	}
}

// GetOrBuild returns the cached graph for the given build parameters or
// builds a fresh one on a miss. The freshly built graph is written back
// best effort. The second return reports whether the cache was hit.
func (c *Client) GetOrBuild(
	ctx context.Context,
	includeBinders bool,
	minBookCount int,
	maxBooks int,
	build func(ctx context.Context) (common.Graph, error),
) (common.Graph, bool, error) {
	if c == nil || c.backend == nil {
		graph, err := build(ctx)
		return graph, false, err
	}

	key := DeriveKey(includeBinders, minBookCount, maxBooks)
	if cached, ok := c.Get(ctx, key); ok {
		return *cached, true, nil
	}

	graph, err := build(ctx)
	if err != nil {
		return common.Graph{}, false, err
	}

	c.Set(ctx, key, &graph)
	return graph, false, nil
}

// Invalidate deletes every cached snapshot under the key prefix and
// returns the number of deleted entries, 0 when no backend is configured.
func (c *Client) Invalidate(ctx context.Context) (int, error) {
	if c == nil || c.backend == nil {
		return 0, nil
	}
	return c.backend.DeletePrefix(ctx, KeyPrefix)
}
