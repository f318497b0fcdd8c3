package relgraph

import (
	"fmt"
	"sort"

	"github.com/folio-app/folio/backend/internal/util"
	"github.com/folio-app/folio/backend/pkg/common"
)

const (
	minDirectStrength = 2
	maxDirectStrength = 10

	sharedPublisherStrength = 3

	// maxPairAuthors caps pair generation per publisher, bounding the
	// shared-publisher family to C(20,2)=190 pairs per publisher.
	maxPairAuthors = 20
)

// assembleEdges derives the three edge families from the adjacency maps.
// Every pass skips endpoints that did not survive node filtering.
func (b *Builder) assembleEdges(agg *aggregation, nodes map[string]common.Node) map[string]common.Edge {
	edges := make(map[string]common.Edge)

	b.addDirectEdges(edges, nodes, agg, common.NodeTypePublisher)
	b.addSharedPublisherEdges(edges, nodes, agg)
	if b.includeBinders {
		b.addDirectEdges(edges, nodes, agg, common.NodeTypeBinder)
	}

	return edges
}

// addDirectEdges links authors to publishers or binders through the books
// they share. The author node id always comes first in the edge id.
func (b *Builder) addDirectEdges(
	edges map[string]common.Edge,
	nodes map[string]common.Node,
	agg *aggregation,
	partnerType common.NodeType,
) {
	adjacency := agg.authorPublishers
	partnerBooks := agg.publisherBooks
	edgeType := common.EdgeTypePublisher
	evidenceVerb := "Published"
	if partnerType == common.NodeTypeBinder {
		adjacency = agg.authorBinders
		partnerBooks = agg.binderBooks
		edgeType = common.EdgeTypeBinder
		evidenceVerb = "Bound"
	}

	for _, authorID := range agg.authorOrder {
		authorNodeID := common.NodeID(common.NodeTypeAuthor, authorID)
		if _, ok := nodes[authorNodeID]; !ok {
			continue
		}

		for _, partnerID := range sortedSetIDs(adjacency[authorID]) {
			partnerNodeID := common.NodeID(partnerType, partnerID)
			if _, ok := nodes[partnerNodeID]; !ok {
				continue
			}

			shared := sharedBooks(agg.authorBooks[authorID], partnerBooks[partnerID])
			if len(shared) == 0 {
				continue
			}

			edgeID := common.EdgeID(authorNodeID, partnerNodeID)
			edges[edgeID] = common.Edge{
				ID:            edgeID,
				Source:        authorNodeID,
				Target:        partnerNodeID,
				Type:          edgeType,
				Strength:      util.Clamp(len(shared)*2, minDirectStrength, maxDirectStrength),
				Evidence:      fmt.Sprintf("%s %d work(s)", evidenceVerb, len(shared)),
				SharedBookIDs: shared,
			}
		}
	}
}

// addSharedPublisherEdges links author pairs that published with the same
// house. Edge ids are canonicalized by lexicographic node-id order, so a
// pair reachable through several publishers keeps the edge of the first
// publisher encountered.
func (b *Builder) addSharedPublisherEdges(
	edges map[string]common.Edge,
	nodes map[string]common.Node,
	agg *aggregation,
) {
	for _, publisherID := range agg.publisherOrder {
		authors := make([]int64, 0, len(agg.publisherAuthors[publisherID]))
		for _, authorID := range agg.publisherAuthors[publisherID] {
			if _, ok := nodes[common.NodeID(common.NodeTypeAuthor, authorID)]; ok {
				authors = append(authors, authorID)
			}
		}
		if len(authors) < 2 {
			continue
		}

		if len(authors) > maxPairAuthors {
			// Stable sort keeps encounter order between authors with the
			// same book count.
			sort.SliceStable(authors, func(i, j int) bool {
				return len(agg.authorBooks[authors[i]]) > len(agg.authorBooks[authors[j]])
			})
			authors = authors[:maxPairAuthors]
		}

		evidence := "Shared publisher"
		if publisherNode, ok := nodes[common.NodeID(common.NodeTypePublisher, publisherID)]; ok {
			evidence = "Shared publisher: " + publisherNode.Name
		}

		for i := 0; i < len(authors); i++ {
			for j := i + 1; j < len(authors); j++ {
				source := common.NodeID(common.NodeTypeAuthor, authors[i])
				target := common.NodeID(common.NodeTypeAuthor, authors[j])
				if target < source {
					source, target = target, source
				}

				edgeID := common.EdgeID(source, target)
				if _, ok := edges[edgeID]; ok {
					continue
				}

				edges[edgeID] = common.Edge{
					ID:       edgeID,
					Source:   source,
					Target:   target,
					Type:     common.EdgeTypeSharedPublisher,
					Strength: sharedPublisherStrength,
					Evidence: evidence,
				}
			}
		}
	}
}

// sharedBooks intersects an author's ordered book list with a partner's
// book set, preserving the author's encounter order.
func sharedBooks(authorBooks []int64, partnerBooks map[int64]struct{}) []int64 {
	var shared []int64
	for _, bookID := range authorBooks {
		if _, ok := partnerBooks[bookID]; ok {
			shared = append(shared, bookID)
		}
	}
	return shared
}
