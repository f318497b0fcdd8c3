package badger

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/folio-app/folio/backend/pkg/cache"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreGetSet(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, cache.ErrNotFound) {
		t.Fatalf("Get(missing) err = %v, want ErrNotFound", err)
	}

	if err := store.Set(ctx, "relgraph:a", []byte("payload"), time.Minute); err != nil {
		t.Fatal(err)
	}

	got, err := store.Get(ctx, "relgraph:a")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []byte("payload")) {
		t.Fatalf("Get = %q, want %q", got, "payload")
	}
}

func TestStoreDeletePrefix(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	entries := map[string]string{
		"relgraph:a": "1",
		"relgraph:b": "2",
		"other:c":    "3",
	}
	for key, value := range entries {
		if err := store.Set(ctx, key, []byte(value), time.Minute); err != nil {
			t.Fatal(err)
		}
	}

	deleted, err := store.DeletePrefix(ctx, "relgraph:")
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 2 {
		t.Fatalf("deleted = %d, want 2", deleted)
	}

	if _, err := store.Get(ctx, "relgraph:a"); !errors.Is(err, cache.ErrNotFound) {
		t.Fatalf("Get(relgraph:a) err = %v, want ErrNotFound", err)
	}
	if _, err := store.Get(ctx, "other:c"); err != nil {
		t.Fatalf("Get(other:c) err = %v, want entry kept", err)
	}
}
