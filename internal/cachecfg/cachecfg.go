package cachecfg

import (
	"fmt"
	"time"

	"github.com/folio-app/folio/backend/internal/util"
	"github.com/folio-app/folio/backend/pkg/cache"
	cachebadger "github.com/folio-app/folio/backend/pkg/cache/badger"
	cachepgx "github.com/folio-app/folio/backend/pkg/cache/pgx"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewClientFromEnv builds the cache client selected by CACHE_BACKEND
// (postgres, badger, or none). The returned closer releases backend
// resources and is safe to call even when there is nothing to close.
func NewClientFromEnv(pool *pgxpool.Pool) (*cache.Client, func(), error) {
	ttl := time.Duration(util.GetEnvInt("CACHE_TTL_SECONDS", 3600)) * time.Second
	maxPayloadBytes := util.GetEnvInt("CACHE_MAX_PAYLOAD_BYTES", 1<<20)

	var backend cache.Backend
	closer := func() {}

	switch name := util.GetEnvString("CACHE_BACKEND", "postgres"); name {
	case "none":
	case "badger":
		store, err := cachebadger.Open(util.GetEnvString("CACHE_BADGER_PATH", "data/graph-cache"))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open badger cache: %w", err)
		}
		backend = store
		closer = func() { _ = store.Close() }
	case "postgres":
		backend = cachepgx.New(pool)
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", name)
	}

	client := cache.NewClient(cache.ClientParams{
		Backend:         backend,
		TTL:             ttl,
		MaxPayloadBytes: maxPayloadBytes,
	})
	return client, closer, nil
}
