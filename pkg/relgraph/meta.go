package relgraph

import (
	"time"

	"github.com/folio-app/folio/backend/pkg/common"
)

// defaultDateRange is used when no surviving node carries any year at all.
var defaultDateRange = [2]int{1800, 1900}

// computeMeta derives the graph totals. The date range spans every
// non-nil birth/death/founded/closed year across surviving nodes.
func computeMeta(totalBooks int, nodes map[string]common.Node, truncated bool) common.GraphMeta {
	meta := common.GraphMeta{
		TotalBooks:  totalBooks,
		DateRange:   defaultDateRange,
		GeneratedAt: time.Now().UTC(),
		Truncated:   truncated,
	}

	minYear, maxYear := 0, 0
	haveYear := false

	for _, node := range nodes {
		switch node.Type {
		case common.NodeTypeAuthor:
			meta.TotalAuthors++
		case common.NodeTypePublisher:
			meta.TotalPublishers++
		case common.NodeTypeBinder:
			meta.TotalBinders++
		}

		for _, year := range []*int{node.BirthYear, node.DeathYear, node.FoundedYear, node.ClosedYear} {
			if year == nil {
				continue
			}
			if !haveYear || *year < minYear {
				minYear = *year
			}
			if !haveYear || *year > maxYear {
				maxYear = *year
			}
			haveYear = true
		}
	}

	if haveYear {
		meta.DateRange = [2]int{minYear, maxYear}
	}

	return meta
}
