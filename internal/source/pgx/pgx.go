package pgx

import (
	"context"
	"errors"
	"fmt"

	"github.com/folio-app/folio/backend/pkg/common"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type dbConn interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Source reads collection data from Postgres. The owned-status filter and
// the batch cap are applied in SQL, so the graph builder never sees rows
// it should not count.
type Source struct {
	db dbConn
}

func New(pool *pgxpool.Pool) *Source {
	return &Source{db: pool}
}

func (s *Source) ListOwnedBooks(ctx context.Context, max int) ([]common.BookRecord, error) {
	rows, err := s.db.Query(ctx, listOwnedBooksSQL, max)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned books: %w", err)
	}
	defer rows.Close()

	var books []common.BookRecord
	for rows.Next() {
		var book common.BookRecord
		if err := rows.Scan(&book.ID, &book.AuthorID, &book.PublisherID, &book.BinderID, &book.YearStart); err != nil {
			return nil, fmt.Errorf("failed to scan book row: %w", err)
		}
		books = append(books, book)
	}
	return books, rows.Err()
}

func (s *Source) Resolve(ctx context.Context, typ common.NodeType, id int64) (*common.EntityRef, error) {
	ref := common.EntityRef{}
	var err error

	switch typ {
	case common.NodeTypeAuthor:
		err = s.db.QueryRow(ctx, getAuthorSQL, id).
			Scan(&ref.ID, &ref.Name, &ref.BirthYear, &ref.DeathYear, &ref.Tier)
	case common.NodeTypePublisher:
		err = s.db.QueryRow(ctx, getPublisherSQL, id).
			Scan(&ref.ID, &ref.Name, &ref.FoundedYear, &ref.ClosedYear, &ref.Tier)
	case common.NodeTypeBinder:
		err = s.db.QueryRow(ctx, getBinderSQL, id).
			Scan(&ref.ID, &ref.Name, &ref.FoundedYear, &ref.ClosedYear, &ref.Tier)
	default:
		return nil, fmt.Errorf("unknown entity type %q", typ)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s %d: %w", typ, id, err)
	}
	return &ref, nil
}

func (s *Source) ListNarratives(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.Query(ctx, listNarrativesSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to list narratives: %w", err)
	}
	defer rows.Close()

	narratives := make(map[string]string)
	for rows.Next() {
		var nodeA, nodeB, text string
		if err := rows.Scan(&nodeA, &nodeB, &text); err != nil {
			return nil, fmt.Errorf("failed to scan narrative row: %w", err)
		}
		narratives[nodeA+":"+nodeB] = text
	}
	return narratives, rows.Err()
}

const listOwnedBooksSQL = `
SELECT id, author_id, publisher_id, binder_id, year_start
FROM books
WHERE status = 'owned'
ORDER BY id
LIMIT $1;
`

const getAuthorSQL = `
SELECT id, name, birth_year, death_year, tier
FROM authors
WHERE id = $1;
`

const getPublisherSQL = `
SELECT id, name, founded_year, closed_year, tier
FROM publishers
WHERE id = $1;
`

const getBinderSQL = `
SELECT id, name, founded_year, closed_year, tier
FROM binders
WHERE id = $1;
`

const listNarrativesSQL = `
SELECT node_a, node_b, narrative
FROM connection_narratives;
`
