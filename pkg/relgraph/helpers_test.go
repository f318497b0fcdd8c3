package relgraph

import (
	"context"

	"github.com/folio-app/folio/backend/pkg/common"
)

// fakeResolver serves entity refs from a map keyed by node id. Missing
// entries resolve to nil, marking the entity as unknown.
type fakeResolver map[string]*common.EntityRef

func (r fakeResolver) Resolve(_ context.Context, typ common.NodeType, id int64) (*common.EntityRef, error) {
	return r[common.NodeID(typ, id)], nil
}

func intPtr(v int) *int { return &v }

func int64Ptr(v int64) *int64 { return &v }

func book(id int64, authorID, publisherID, binderID *int64) common.BookRecord {
	return common.BookRecord{
		ID:          id,
		AuthorID:    authorID,
		PublisherID: publisherID,
		BinderID:    binderID,
	}
}

func authorRef(id int64, name string, birthYear *int) *common.EntityRef {
	return &common.EntityRef{ID: id, Name: name, BirthYear: birthYear}
}

func houseRef(id int64, name string) *common.EntityRef {
	return &common.EntityRef{ID: id, Name: name}
}
