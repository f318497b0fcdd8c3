package common

import (
	"fmt"
	"time"
)

// NodeType identifies which kind of collection entity a graph node represents.
type NodeType string

const (
	NodeTypeAuthor    NodeType = "author"
	NodeTypePublisher NodeType = "publisher"
	NodeTypeBinder    NodeType = "binder"
)

// Valid reports whether t is one of the known node types.
func (t NodeType) Valid() bool {
	switch t {
	case NodeTypeAuthor, NodeTypePublisher, NodeTypeBinder:
		return true
	}
	return false
}

// EdgeType identifies the relation family of an edge.
type EdgeType string

const (
	EdgeTypePublisher       EdgeType = "publisher"
	EdgeTypeSharedPublisher EdgeType = "shared_publisher"
	EdgeTypeBinder          EdgeType = "binder"
)

// Era is a historical-era label derived from an author's birth year.
type Era string

const (
	EraPreRomantic Era = "pre_romantic"
	EraRomantic    Era = "romantic"
	EraVictorian   Era = "victorian"
	EraEdwardian   Era = "edwardian"
	EraPost1910    Era = "post_1910"
	EraUnknown     Era = "unknown"
)

// BookRecord is one row of the collection as the builder consumes it.
// The caller applies the owned-status filter and the max-books cap before
// handing records over; the builder never filters by status itself.
type BookRecord struct {
	ID          int64  `json:"id"`
	AuthorID    *int64 `json:"author_id"`
	PublisherID *int64 `json:"publisher_id"`
	BinderID    *int64 `json:"binder_id"`
	YearStart   *int   `json:"year_start"`
}

// EntityRef carries the display metadata for one author, publisher, or
// binder. Birth/death years apply to authors, founded/closed years to
// publishers and binders.
type EntityRef struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	BirthYear   *int    `json:"birth_year"`
	DeathYear   *int    `json:"death_year"`
	FoundedYear *int    `json:"founded_year"`
	ClosedYear  *int    `json:"closed_year"`
	Tier        *string `json:"tier"`
}

// Node is one vertex of the relationship graph.
//
// BookCount is the true count of distinct books referencing the entity in
// the input batch. BookIDs is truncated to the first ten ids for payload
// size and may therefore be shorter than BookCount.
type Node struct {
	ID          string   `json:"id"`
	EntityID    int64    `json:"entity_id"`
	Name        string   `json:"name"`
	Type        NodeType `json:"type"`
	BirthYear   *int     `json:"birth_year,omitempty"`
	DeathYear   *int     `json:"death_year,omitempty"`
	FoundedYear *int     `json:"founded_year,omitempty"`
	ClosedYear  *int     `json:"closed_year,omitempty"`
	Era         Era      `json:"era,omitempty"`
	Tier        *string  `json:"tier,omitempty"`
	BookCount   int      `json:"book_count"`
	BookIDs     []int64  `json:"book_ids"`
}

// Edge is one relation between two nodes. Strength ranges 2-10 for direct
// relations and is fixed at 3 for shared-publisher links.
type Edge struct {
	ID            string   `json:"id"`
	Source        string   `json:"source"`
	Target        string   `json:"target"`
	Type          EdgeType `json:"type"`
	Strength      int      `json:"strength"`
	Evidence      string   `json:"evidence"`
	SharedBookIDs []int64  `json:"shared_book_ids,omitempty"`
}

// GraphMeta holds the derived totals for one built graph.
type GraphMeta struct {
	TotalBooks      int       `json:"total_books"`
	TotalAuthors    int       `json:"total_authors"`
	TotalPublishers int       `json:"total_publishers"`
	TotalBinders    int       `json:"total_binders"`
	DateRange       [2]int    `json:"date_range"`
	GeneratedAt     time.Time `json:"generated_at"`
	Truncated       bool      `json:"truncated"`
}

// Graph is the assembled relationship graph. It is a pure value built once
// per request and never mutated afterwards; it round-trips through the
// cache as a JSON snapshot.
type Graph struct {
	Nodes map[string]Node `json:"nodes"`
	Edges map[string]Edge `json:"edges"`
	Meta  GraphMeta       `json:"meta"`
}

// Connection is a per-focal-entity view of one neighboring node together
// with the edge that links it and an optional narrative text.
type Connection struct {
	Node          Node     `json:"node"`
	Type          EdgeType `json:"type"`
	Strength      int      `json:"strength"`
	SharedBookIDs []int64  `json:"shared_book_ids,omitempty"`
	Narrative     *string  `json:"narrative"`
	IsKey         bool     `json:"is_key"`
}

// NodeID returns the unique node key for an entity, e.g. "author:42".
func NodeID(t NodeType, entityID int64) string {
	return fmt.Sprintf("%s:%d", t, entityID)
}

// EdgeID returns the deterministic edge key for two node ids. Ordering of
// a and b is the caller's responsibility and differs per edge family.
func EdgeID(a, b string) string {
	return "e:" + a + ":" + b
}
