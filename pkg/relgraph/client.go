package relgraph

import (
	"fmt"

	"github.com/folio-app/folio/backend/pkg/common"

	"github.com/go-playground/validator"
)

// Builder assembles relationship graphs from batches of book records.
// A Builder is stateless after construction and safe for concurrent use.
//
// A Builder should be created using NewBuilder.
type Builder struct {
	includeBinders bool
	minBookCount   int
	maxBooks       int
	eraFilter      map[common.Era]struct{}
	resolveLimit   int
}

// BuilderParams configures a new Builder.
//
// MinBookCount drops entities referenced by fewer books. MaxBooks is the
// batch bound the caller applies; the builder only uses it to flag
// possible truncation. EraFilter, when non-empty, keeps only authors whose
// computed era is listed. ResolveLimit bounds concurrent entity lookups.
type BuilderParams struct {
	IncludeBinders bool
	MinBookCount   int `validate:"required,min=1"`
	MaxBooks       int `validate:"required,min=1"`
	EraFilter      []common.Era
	ResolveLimit   int
}

const defaultResolveLimit = 8

// NewBuilder creates a Builder from the given parameters. Invalid
// parameters, including unrecognized era labels, fail immediately.
func NewBuilder(params BuilderParams) (*Builder, error) {
	if err := validator.New().Struct(params); err != nil {
		return nil, fmt.Errorf("invalid builder params: %w", err)
	}

	var eraFilter map[common.Era]struct{}
	if len(params.EraFilter) > 0 {
		eraFilter = make(map[common.Era]struct{}, len(params.EraFilter))
		for _, era := range params.EraFilter {
			switch era {
			case common.EraPreRomantic, common.EraRomantic, common.EraVictorian,
				common.EraEdwardian, common.EraPost1910, common.EraUnknown:
				eraFilter[era] = struct{}{}
			default:
				return nil, fmt.Errorf("unknown era %q in era filter", era)
			}
		}
	}

	resolveLimit := params.ResolveLimit
	if resolveLimit <= 0 {
		resolveLimit = defaultResolveLimit
	}

	return &Builder{
		includeBinders: params.IncludeBinders,
		minBookCount:   params.MinBookCount,
		maxBooks:       params.MaxBooks,
		eraFilter:      eraFilter,
		resolveLimit:   resolveLimit,
	}, nil
}
