package pgx

import (
	"context"
	"errors"
	"time"

	"github.com/folio-app/folio/backend/pkg/cache"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type dbConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Backend stores cache entries in the app_cache table. Expiry is enforced
// on read through the expires_at column; stale rows are overwritten on the
// next write to the same key.
type Backend struct {
	db dbConn
}

func New(pool *pgxpool.Pool) *Backend {
	return &Backend{db: pool}
}

func (b *Backend) Get(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := b.db.QueryRow(ctx, getSQL, key).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, cache.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (b *Backend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := b.db.Exec(ctx, setSQL, key, value, ttl.Milliseconds())
	return err
}

func (b *Backend) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	tag, err := b.db.Exec(ctx, deletePrefixSQL, prefix)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

const getSQL = `
SELECT payload FROM app_cache
WHERE cache_key = $1 AND expires_at > now();
`

const setSQL = `
INSERT INTO app_cache (cache_key, payload, expires_at)
VALUES ($1, $2, now() + ($3::bigint * interval '1 millisecond'))
ON CONFLICT (cache_key) DO UPDATE
SET payload    = EXCLUDED.payload,
    expires_at = EXCLUDED.expires_at;
`

const deletePrefixSQL = `
DELETE FROM app_cache
WHERE cache_key LIKE $1 || '%';
`
