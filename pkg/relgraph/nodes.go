package relgraph

import (
	"context"
	"fmt"
	"sort"

	"github.com/folio-app/folio/backend/pkg/common"
	"github.com/folio-app/folio/backend/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// maxNodeBookIDs bounds the book-id list carried on each node. The count
// field always reflects the full number of distinct books.
const maxNodeBookIDs = 10

// EntityResolver looks up entity metadata by id. Returning a nil ref with
// a nil error marks the entity as unknown; its node is skipped.
type EntityResolver interface {
	Resolve(ctx context.Context, typ common.NodeType, id int64) (*common.EntityRef, error)
}

type nodeCandidate struct {
	typ     common.NodeType
	id      int64
	bookIDs []int64
	count   int
}

func (b *Builder) collectCandidates(agg *aggregation) []nodeCandidate {
	candidates := make([]nodeCandidate, 0, len(agg.authorOrder)+len(agg.publisherOrder)+len(agg.binderOrder))

	for _, id := range agg.authorOrder {
		bookIDs := agg.authorBooks[id]
		candidates = append(candidates, nodeCandidate{
			typ:     common.NodeTypeAuthor,
			id:      id,
			bookIDs: bookIDs,
			count:   len(bookIDs),
		})
	}
	for _, id := range agg.publisherOrder {
		bookIDs := sortedSetIDs(agg.publisherBooks[id])
		candidates = append(candidates, nodeCandidate{
			typ:     common.NodeTypePublisher,
			id:      id,
			bookIDs: bookIDs,
			count:   len(bookIDs),
		})
	}
	if b.includeBinders {
		for _, id := range agg.binderOrder {
			bookIDs := sortedSetIDs(agg.binderBooks[id])
			candidates = append(candidates, nodeCandidate{
				typ:     common.NodeTypeBinder,
				id:      id,
				bookIDs: bookIDs,
				count:   len(bookIDs),
			})
		}
	}

	return candidates
}

// assembleNodes resolves entity metadata for every aggregated id and
// builds the filtered node set. The min-book-count filter runs before any
// lookup; the era filter runs after, since it needs the birth year.
func (b *Builder) assembleNodes(
	ctx context.Context,
	agg *aggregation,
	resolver EntityResolver,
) (map[string]common.Node, error) {
	all := b.collectCandidates(agg)

	candidates := all[:0:0]
	for _, c := range all {
		if c.count >= b.minBookCount {
			candidates = append(candidates, c)
		}
	}

	refs := make([]*common.EntityRef, len(candidates))
	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(b.resolveLimit)
	for i, c := range candidates {
		i, c := i, c
		eg.Go(func() error {
			ref, err := resolver.Resolve(gCtx, c.typ, c.id)
			if err != nil {
				return fmt.Errorf("failed to resolve %s %d: %w", c.typ, c.id, err)
			}
			refs[i] = ref
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	nodes := make(map[string]common.Node, len(candidates))
	for i, c := range candidates {
		ref := refs[i]
		if ref == nil {
			logger.Debug("[Graph] Skipping unknown entity", "type", c.typ, "id", c.id)
			continue
		}

		node := common.Node{
			ID:        common.NodeID(c.typ, c.id),
			EntityID:  c.id,
			Name:      ref.Name,
			Type:      c.typ,
			Tier:      ref.Tier,
			BookCount: c.count,
			BookIDs:   truncateBookIDs(c.bookIDs),
		}

		switch c.typ {
		case common.NodeTypeAuthor:
			node.BirthYear = ref.BirthYear
			node.DeathYear = ref.DeathYear
			node.Era = EraForYear(ref.BirthYear)
			if b.eraFilter != nil {
				if _, ok := b.eraFilter[node.Era]; !ok {
					continue
				}
			}
		case common.NodeTypePublisher, common.NodeTypeBinder:
			node.FoundedYear = ref.FoundedYear
			node.ClosedYear = ref.ClosedYear
		}

		nodes[node.ID] = node
	}

	return nodes, nil
}

func truncateBookIDs(ids []int64) []int64 {
	n := len(ids)
	if n > maxNodeBookIDs {
		n = maxNodeBookIDs
	}
	out := make([]int64, n)
	copy(out, ids[:n])
	return out
}

// sortedSetIDs flattens a set of ids into an ascending slice, giving
// publisher and binder book lists a fixed order.
func sortedSetIDs(set map[int64]struct{}) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
