package relgraph

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/folio-app/folio/backend/pkg/common"
)

func buildEdges(t *testing.T, b *Builder, books []common.BookRecord, resolver fakeResolver) (map[string]common.Node, map[string]common.Edge) {
	t.Helper()

	agg := aggregateRelations(books, b.includeBinders, 0)
	nodes, err := b.assembleNodes(context.Background(), agg, resolver)
	if err != nil {
		t.Fatal(err)
	}
	return nodes, b.assembleEdges(agg, nodes)
}

func TestDirectEdgeStrength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		sharedBooks int
		want        int
	}{
		{name: "single shared book", sharedBooks: 1, want: 2},
		{name: "three shared books", sharedBooks: 3, want: 6},
		{name: "five shared books hit the cap", sharedBooks: 5, want: 10},
		{name: "eight shared books stay capped", sharedBooks: 8, want: 10},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			var books []common.BookRecord
			for i := 0; i < tc.sharedBooks; i++ {
				books = append(books, book(int64(100+i), int64Ptr(1), int64Ptr(10), nil))
			}

			resolver := fakeResolver{
				"author:1":     authorRef(1, "Author One", nil),
				"publisher:10": houseRef(10, "House Ten"),
			}

			b, err := NewBuilder(BuilderParams{MinBookCount: 1, MaxBooks: 100})
			if err != nil {
				t.Fatal(err)
			}

			_, edges := buildEdges(t, b, books, resolver)

			edge, ok := edges["e:author:1:publisher:10"]
			if !ok {
				t.Fatalf("publisher edge missing, edges = %v", edges)
			}
			if edge.Strength != tc.want {
				t.Fatalf("strength = %d, want %d", edge.Strength, tc.want)
			}
			if want := fmt.Sprintf("Published %d work(s)", tc.sharedBooks); edge.Evidence != want {
				t.Fatalf("evidence = %q, want %q", edge.Evidence, want)
			}
		})
	}
}

func TestBinderEdges(t *testing.T) {
	t.Parallel()

	books := []common.BookRecord{
		book(101, int64Ptr(1), nil, int64Ptr(20)),
		book(102, int64Ptr(1), nil, int64Ptr(20)),
	}

	resolver := fakeResolver{
		"author:1":  authorRef(1, "Author One", nil),
		"binder:20": houseRef(20, "Bindery Twenty"),
	}

	b, err := NewBuilder(BuilderParams{IncludeBinders: true, MinBookCount: 1, MaxBooks: 100})
	if err != nil {
		t.Fatal(err)
	}

	_, edges := buildEdges(t, b, books, resolver)

	edge, ok := edges["e:author:1:binder:20"]
	if !ok {
		t.Fatalf("binder edge missing, edges = %v", edges)
	}
	if edge.Type != common.EdgeTypeBinder {
		t.Fatalf("edge type = %q, want %q", edge.Type, common.EdgeTypeBinder)
	}
	if edge.Evidence != "Bound 2 work(s)" {
		t.Fatalf("evidence = %q, want %q", edge.Evidence, "Bound 2 work(s)")
	}
	if !reflect.DeepEqual(edge.SharedBookIDs, []int64{101, 102}) {
		t.Fatalf("shared book ids = %v, want [101 102]", edge.SharedBookIDs)
	}

	bNoBinders, err := NewBuilder(BuilderParams{IncludeBinders: false, MinBookCount: 1, MaxBooks: 100})
	if err != nil {
		t.Fatal(err)
	}
	_, edges = buildEdges(t, bNoBinders, books, resolver)
	if len(edges) != 0 {
		t.Fatalf("edges with binders disabled = %v, want none", edges)
	}
}

func TestSharedPublisherEdges(t *testing.T) {
	t.Parallel()

	books := []common.BookRecord{
		book(101, int64Ptr(1), int64Ptr(10), nil),
		book(102, int64Ptr(2), int64Ptr(10), nil),
		book(103, int64Ptr(3), int64Ptr(10), nil),
	}

	resolver := fakeResolver{
		"author:1":     authorRef(1, "Author One", nil),
		"author:2":     authorRef(2, "Author Two", nil),
		"author:3":     authorRef(3, "Author Three", nil),
		"publisher:10": houseRef(10, "House Ten"),
	}

	b, err := NewBuilder(BuilderParams{MinBookCount: 1, MaxBooks: 100})
	if err != nil {
		t.Fatal(err)
	}

	_, edges := buildEdges(t, b, books, resolver)

	wantIDs := []string{
		"e:author:1:author:2",
		"e:author:1:author:3",
		"e:author:2:author:3",
	}
	for _, id := range wantIDs {
		edge, ok := edges[id]
		if !ok {
			t.Fatalf("shared-publisher edge %s missing", id)
		}
		if edge.Type != common.EdgeTypeSharedPublisher {
			t.Fatalf("edge %s type = %q, want %q", id, edge.Type, common.EdgeTypeSharedPublisher)
		}
		if edge.Strength != 3 {
			t.Fatalf("edge %s strength = %d, want 3", id, edge.Strength)
		}
		if edge.Evidence != "Shared publisher: House Ten" {
			t.Fatalf("edge %s evidence = %q", id, edge.Evidence)
		}
	}
}

func TestSharedPublisherEdgesSkipFilteredAuthors(t *testing.T) {
	t.Parallel()

	books := []common.BookRecord{
		book(101, int64Ptr(1), int64Ptr(10), nil),
		book(102, int64Ptr(1), int64Ptr(10), nil),
		book(103, int64Ptr(2), int64Ptr(10), nil), // filtered by min book count
	}

	resolver := fakeResolver{
		"author:1":     authorRef(1, "Author One", nil),
		"author:2":     authorRef(2, "Author Two", nil),
		"publisher:10": houseRef(10, "House Ten"),
	}

	b, err := NewBuilder(BuilderParams{MinBookCount: 2, MaxBooks: 100})
	if err != nil {
		t.Fatal(err)
	}

	_, edges := buildEdges(t, b, books, resolver)

	for id, edge := range edges {
		if edge.Type == common.EdgeTypeSharedPublisher {
			t.Fatalf("unexpected shared-publisher edge %s with one surviving author", id)
		}
	}
}

func TestSharedPublisherPairCap(t *testing.T) {
	t.Parallel()

	// 21 authors under one publisher; author 21 gets two books so the cap
	// keeps it and evicts author 20, the last single-book encounter.
	var books []common.BookRecord
	resolver := fakeResolver{"publisher:10": houseRef(10, "House Ten")}
	nextBook := int64(100)
	for a := int64(1); a <= 21; a++ {
		books = append(books, book(nextBook, int64Ptr(a), int64Ptr(10), nil))
		nextBook++
		resolver[fmt.Sprintf("author:%d", a)] = authorRef(a, fmt.Sprintf("Author %d", a), nil)
	}
	books = append(books, book(nextBook, int64Ptr(21), int64Ptr(10), nil))

	b, err := NewBuilder(BuilderParams{MinBookCount: 1, MaxBooks: 1000})
	if err != nil {
		t.Fatal(err)
	}

	_, edges := buildEdges(t, b, books, resolver)

	sharedCount := 0
	for _, edge := range edges {
		if edge.Type != common.EdgeTypeSharedPublisher {
			continue
		}
		sharedCount++
		if edge.Source == "author:20" || edge.Target == "author:20" {
			t.Fatalf("edge %s touches the evicted author", edge.ID)
		}
	}
	if want := 20 * 19 / 2; sharedCount != want {
		t.Fatalf("shared-publisher edge count = %d, want %d", sharedCount, want)
	}
}

func TestEdgesNeverDangling(t *testing.T) {
	t.Parallel()

	books := []common.BookRecord{
		book(101, int64Ptr(1), int64Ptr(10), int64Ptr(20)),
		book(102, int64Ptr(2), int64Ptr(10), nil),
	}

	// publisher:10 and author:2 are unknown to the resolver.
	resolver := fakeResolver{
		"author:1":  authorRef(1, "Author One", nil),
		"binder:20": houseRef(20, "Bindery Twenty"),
	}

	b, err := NewBuilder(BuilderParams{IncludeBinders: true, MinBookCount: 1, MaxBooks: 100})
	if err != nil {
		t.Fatal(err)
	}

	nodes, edges := buildEdges(t, b, books, resolver)

	for id, edge := range edges {
		if _, ok := nodes[edge.Source]; !ok {
			t.Fatalf("edge %s has dangling source %s", id, edge.Source)
		}
		if _, ok := nodes[edge.Target]; !ok {
			t.Fatalf("edge %s has dangling target %s", id, edge.Target)
		}
	}

	if _, ok := edges["e:author:1:binder:20"]; !ok {
		t.Fatal("binder edge between surviving nodes missing")
	}
}
