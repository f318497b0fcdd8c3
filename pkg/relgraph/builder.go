package relgraph

import (
	"context"

	"github.com/folio-app/folio/backend/pkg/common"
	"github.com/folio-app/folio/backend/pkg/logger"
)

// Build assembles a relationship graph from one batch of book records.
// The batch is expected to be pre-filtered to owned books and capped to
// the builder's max-books bound by the caller.
//
// The returned graph is a pure value; it is never mutated afterwards.
func (b *Builder) Build(
	ctx context.Context,
	books []common.BookRecord,
	resolver EntityResolver,
) (common.Graph, error) {
	agg := aggregateRelations(books, b.includeBinders, b.maxBooks)

	nodes, err := b.assembleNodes(ctx, agg, resolver)
	if err != nil {
		return common.Graph{}, err
	}

	edges := b.assembleEdges(agg, nodes)
	meta := computeMeta(len(books), nodes, agg.truncated)

	logger.Debug(
		"[Graph] Build completed",
		"books", len(books),
		"nodes", len(nodes),
		"edges", len(edges),
		"truncated", meta.Truncated,
	)

	return common.Graph{Nodes: nodes, Edges: edges, Meta: meta}, nil
}
