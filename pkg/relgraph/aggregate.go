package relgraph

import "github.com/folio-app/folio/backend/pkg/common"

// aggregation holds the adjacency maps produced by a single pass over the
// book batch. Only identifiers are collected here; entity metadata is
// resolved later by the node assembler.
//
// The *Order slices record first-encounter order. Author book lists keep
// encounter order too; publisher and binder book ids are collected as sets.
type aggregation struct {
	authorOrder    []int64
	publisherOrder []int64
	binderOrder    []int64

	authorBooks    map[int64][]int64
	publisherBooks map[int64]map[int64]struct{}
	binderBooks    map[int64]map[int64]struct{}

	authorPublishers map[int64]map[int64]struct{}
	authorBinders    map[int64]map[int64]struct{}

	// Reverse adjacency in author encounter order, used for the pair cap
	// tie-break and for the "first publisher encountered" evidence rule.
	publisherAuthors map[int64][]int64
	binderAuthors    map[int64][]int64

	truncated bool
}

// aggregateRelations walks the batch once and records which books tie
// which authors to which publishers and binders. A batch whose length
// equals the cap is flagged as possibly truncated; the flag is a
// heuristic, not a guarantee.
func aggregateRelations(books []common.BookRecord, includeBinders bool, maxBooks int) *aggregation {
	agg := &aggregation{
		authorBooks:      make(map[int64][]int64),
		publisherBooks:   make(map[int64]map[int64]struct{}),
		binderBooks:      make(map[int64]map[int64]struct{}),
		authorPublishers: make(map[int64]map[int64]struct{}),
		authorBinders:    make(map[int64]map[int64]struct{}),
		publisherAuthors: make(map[int64][]int64),
		binderAuthors:    make(map[int64][]int64),
	}

	if maxBooks > 0 && len(books) == maxBooks {
		agg.truncated = true
	}

	seenPublisherAuthor := make(map[int64]map[int64]struct{})
	seenBinderAuthor := make(map[int64]map[int64]struct{})

	for _, book := range books {
		if book.AuthorID == nil {
			continue
		}
		authorID := *book.AuthorID

		if _, ok := agg.authorBooks[authorID]; !ok {
			agg.authorOrder = append(agg.authorOrder, authorID)
		}
		agg.authorBooks[authorID] = append(agg.authorBooks[authorID], book.ID)

		if book.PublisherID != nil {
			publisherID := *book.PublisherID

			if _, ok := agg.publisherBooks[publisherID]; !ok {
				agg.publisherBooks[publisherID] = make(map[int64]struct{})
				agg.publisherOrder = append(agg.publisherOrder, publisherID)
			}
			agg.publisherBooks[publisherID][book.ID] = struct{}{}

			if agg.authorPublishers[authorID] == nil {
				agg.authorPublishers[authorID] = make(map[int64]struct{})
			}
			agg.authorPublishers[authorID][publisherID] = struct{}{}

			if seenPublisherAuthor[publisherID] == nil {
				seenPublisherAuthor[publisherID] = make(map[int64]struct{})
			}
			if _, ok := seenPublisherAuthor[publisherID][authorID]; !ok {
				seenPublisherAuthor[publisherID][authorID] = struct{}{}
				agg.publisherAuthors[publisherID] = append(agg.publisherAuthors[publisherID], authorID)
			}
		}

		if includeBinders && book.BinderID != nil {
			binderID := *book.BinderID

			if _, ok := agg.binderBooks[binderID]; !ok {
				agg.binderBooks[binderID] = make(map[int64]struct{})
				agg.binderOrder = append(agg.binderOrder, binderID)
			}
			agg.binderBooks[binderID][book.ID] = struct{}{}

			if agg.authorBinders[authorID] == nil {
				agg.authorBinders[authorID] = make(map[int64]struct{})
			}
			agg.authorBinders[authorID][binderID] = struct{}{}

			if seenBinderAuthor[binderID] == nil {
				seenBinderAuthor[binderID] = make(map[int64]struct{})
			}
			if _, ok := seenBinderAuthor[binderID][authorID]; !ok {
				seenBinderAuthor[binderID][authorID] = struct{}{}
				agg.binderAuthors[binderID] = append(agg.binderAuthors[binderID], authorID)
			}
		}
	}

	return agg
}
