package relgraph

import (
	"sort"

	"github.com/folio-app/folio/backend/pkg/common"
)

const (
	// keyConnectionCount is how many connections get the key flag.
	keyConnectionCount = 5
	// keyDiversityWindow is how many of those slots prefer distinct
	// connection types.
	keyDiversityWindow = 3
)

// KeyConnections lists every connection of the focal node sorted by
// descending strength (ties broken by edge id) and flags up to five of
// them as key. The first three key slots take one connection per type
// while distinct types remain; once types are exhausted, duplicates fill
// the remaining slots in strength order.
//
// Narratives are looked up under "{focal}:{neighbor}", then the reversed
// key; a connection with neither entry carries a nil narrative.
func KeyConnections(g common.Graph, focalID string, narratives map[string]string) []common.Connection {
	type candidate struct {
		conn   common.Connection
		edgeID string
	}

	var candidates []candidate
	for _, edge := range g.Edges {
		var neighborID string
		switch focalID {
		case edge.Source:
			neighborID = edge.Target
		case edge.Target:
			neighborID = edge.Source
		default:
			continue
		}

		neighbor, ok := g.Nodes[neighborID]
		if !ok {
			continue
		}

		candidates = append(candidates, candidate{
			conn: common.Connection{
				Node:          neighbor,
				Type:          edge.Type,
				Strength:      edge.Strength,
				SharedBookIDs: edge.SharedBookIDs,
				Narrative:     lookupNarrative(narratives, focalID, neighborID),
			},
			edgeID: edge.ID,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].conn.Strength != candidates[j].conn.Strength {
			return candidates[i].conn.Strength > candidates[j].conn.Strength
		}
		return candidates[i].edgeID < candidates[j].edgeID
	})

	connections := make([]common.Connection, len(candidates))
	for i, c := range candidates {
		connections[i] = c.conn
	}

	selected := 0
	usedTypes := make(map[common.EdgeType]struct{})

	// Diversity window: one connection per type first.
	for i := range connections {
		if selected >= keyDiversityWindow {
			break
		}
		if _, ok := usedTypes[connections[i].Type]; ok {
			continue
		}
		connections[i].IsKey = true
		usedTypes[connections[i].Type] = struct{}{}
		selected++
	}

	// Fewer distinct types than slots: allow duplicates to fill the window.
	for i := range connections {
		if selected >= keyDiversityWindow {
			break
		}
		if !connections[i].IsKey {
			connections[i].IsKey = true
			selected++
		}
	}

	// Remaining slots accept any type.
	for i := range connections {
		if selected >= keyConnectionCount {
			break
		}
		if !connections[i].IsKey {
			connections[i].IsKey = true
			selected++
		}
	}

	return connections
}

func lookupNarrative(narratives map[string]string, focalID, neighborID string) *string {
	if narratives == nil {
		return nil
	}
	if text, ok := narratives[focalID+":"+neighborID]; ok {
		return &text
	}
	if text, ok := narratives[neighborID+":"+focalID]; ok {
		return &text
	}
	return nil
}
