package relgraph

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/folio-app/folio/backend/pkg/common"
)

func TestAssembleNodesMinBookCountFilter(t *testing.T) {
	t.Parallel()

	books := []common.BookRecord{
		book(101, int64Ptr(1), int64Ptr(10), nil),
		book(102, int64Ptr(1), int64Ptr(10), nil),
		book(103, int64Ptr(2), int64Ptr(10), nil),
	}

	resolver := fakeResolver{
		"author:1":     authorRef(1, "Author One", intPtr(1800)),
		"author:2":     authorRef(2, "Author Two", intPtr(1810)),
		"publisher:10": houseRef(10, "House Ten"),
	}

	b, err := NewBuilder(BuilderParams{MinBookCount: 2, MaxBooks: 100})
	if err != nil {
		t.Fatal(err)
	}

	agg := aggregateRelations(books, false, 0)
	nodes, err := b.assembleNodes(context.Background(), agg, resolver)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := nodes["author:1"]; !ok {
		t.Fatal("author:1 missing, want present with two books")
	}
	if _, ok := nodes["author:2"]; ok {
		t.Fatal("author:2 present, want filtered by min book count")
	}
	if _, ok := nodes["publisher:10"]; !ok {
		t.Fatal("publisher:10 missing, want present with three books")
	}
}

func TestAssembleNodesEraFilter(t *testing.T) {
	t.Parallel()

	books := []common.BookRecord{
		book(101, int64Ptr(1), int64Ptr(10), nil),
		book(102, int64Ptr(2), int64Ptr(10), nil),
		book(103, int64Ptr(3), int64Ptr(10), nil),
	}

	resolver := fakeResolver{
		"author:1":     authorRef(1, "Romantic Author", intPtr(1800)),
		"author:2":     authorRef(2, "Victorian Author", intPtr(1850)),
		"author:3":     authorRef(3, "Undated Author", nil),
		"publisher:10": houseRef(10, "House Ten"),
	}

	b, err := NewBuilder(BuilderParams{
		MinBookCount: 1,
		MaxBooks:     100,
		EraFilter:    []common.Era{common.EraRomantic, common.EraUnknown},
	})
	if err != nil {
		t.Fatal(err)
	}

	agg := aggregateRelations(books, false, 0)
	nodes, err := b.assembleNodes(context.Background(), agg, resolver)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := nodes["author:1"]; !ok {
		t.Fatal("author:1 missing, want kept by romantic era filter")
	}
	if _, ok := nodes["author:2"]; ok {
		t.Fatal("author:2 present, want dropped by era filter")
	}
	if _, ok := nodes["author:3"]; !ok {
		t.Fatal("author:3 missing, want kept as unknown era")
	}
	// The era filter never applies to publishers or binders.
	if _, ok := nodes["publisher:10"]; !ok {
		t.Fatal("publisher:10 missing, want untouched by era filter")
	}
}

func TestAssembleNodesSkipsUnknownEntities(t *testing.T) {
	t.Parallel()

	books := []common.BookRecord{
		book(101, int64Ptr(1), int64Ptr(10), nil),
	}

	resolver := fakeResolver{
		"author:1": authorRef(1, "Author One", nil),
		// publisher:10 unresolved
	}

	b, err := NewBuilder(BuilderParams{MinBookCount: 1, MaxBooks: 100})
	if err != nil {
		t.Fatal(err)
	}

	agg := aggregateRelations(books, false, 0)
	nodes, err := b.assembleNodes(context.Background(), agg, resolver)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := nodes["publisher:10"]; ok {
		t.Fatal("publisher:10 present, want skipped as unknown")
	}
	if _, ok := nodes["author:1"]; !ok {
		t.Fatal("author:1 missing, want present")
	}
}

func TestAssembleNodesBookIDs(t *testing.T) {
	t.Parallel()

	var books []common.BookRecord
	for i := 0; i < 12; i++ {
		// Descending book ids to make ordering observable.
		books = append(books, book(int64(200-i), int64Ptr(1), int64Ptr(10), nil))
	}

	resolver := fakeResolver{
		"author:1":     authorRef(1, "Prolific Author", intPtr(1820)),
		"publisher:10": houseRef(10, "House Ten"),
	}

	b, err := NewBuilder(BuilderParams{MinBookCount: 1, MaxBooks: 100})
	if err != nil {
		t.Fatal(err)
	}

	agg := aggregateRelations(books, false, 0)
	nodes, err := b.assembleNodes(context.Background(), agg, resolver)
	if err != nil {
		t.Fatal(err)
	}

	author := nodes["author:1"]
	if author.BookCount != 12 {
		t.Fatalf("author book count = %d, want 12", author.BookCount)
	}
	// Authors keep encounter order, truncated to ten.
	wantAuthorIDs := []int64{200, 199, 198, 197, 196, 195, 194, 193, 192, 191}
	if !reflect.DeepEqual(author.BookIDs, wantAuthorIDs) {
		t.Fatalf("author book ids = %v, want %v", author.BookIDs, wantAuthorIDs)
	}

	publisher := nodes["publisher:10"]
	if publisher.BookCount != 12 {
		t.Fatalf("publisher book count = %d, want 12", publisher.BookCount)
	}
	// Publishers carry ascending ids, truncated to ten.
	wantPublisherIDs := []int64{189, 190, 191, 192, 193, 194, 195, 196, 197, 198}
	if !reflect.DeepEqual(publisher.BookIDs, wantPublisherIDs) {
		t.Fatalf("publisher book ids = %v, want %v", publisher.BookIDs, wantPublisherIDs)
	}
}

type erroringResolver struct{}

func (erroringResolver) Resolve(context.Context, common.NodeType, int64) (*common.EntityRef, error) {
	return nil, fmt.Errorf("lookup failed")
}

func TestAssembleNodesPropagatesResolverError(t *testing.T) {
	t.Parallel()

	books := []common.BookRecord{
		book(101, int64Ptr(1), int64Ptr(10), nil),
	}

	b, err := NewBuilder(BuilderParams{MinBookCount: 1, MaxBooks: 100})
	if err != nil {
		t.Fatal(err)
	}

	agg := aggregateRelations(books, false, 0)
	if _, err := b.assembleNodes(context.Background(), agg, erroringResolver{}); err == nil {
		t.Fatal("assembleNodes returned nil error, want resolver error")
	}
}
