package source

import (
	"context"

	"github.com/folio-app/folio/backend/pkg/common"
)

// CollectionSource provides the collection data the graph builder
// consumes: the owned-book batch, entity metadata by id, and the narrative
// texts attached to known connections.
//
// Resolve satisfies relgraph.EntityResolver.
type CollectionSource interface {
	ListOwnedBooks(ctx context.Context, max int) ([]common.BookRecord, error)
	Resolve(ctx context.Context, typ common.NodeType, id int64) (*common.EntityRef, error)
	ListNarratives(ctx context.Context) (map[string]string, error)
}
