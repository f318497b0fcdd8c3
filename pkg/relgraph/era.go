package relgraph

import "github.com/folio-app/folio/backend/pkg/common"

// EraForYear maps an author's birth year to a historical-era label.
// A nil year yields EraUnknown.
func EraForYear(year *int) common.Era {
	if year == nil {
		return common.EraUnknown
	}

	switch y := *year; {
	case y < 1789:
		return common.EraPreRomantic
	case y <= 1836:
		return common.EraRomantic
	case y <= 1900:
		return common.EraVictorian
	case y <= 1909:
		return common.EraEdwardian
	default:
		return common.EraPost1910
	}
}
