package domain

import "fmt"

// Distance is either a known geodesic distance in kilometers or Unknown.
// The zero value is Unknown.
type Distance struct {
	km    float64
	known bool
}

func KnownDistance(km float64) Distance { return Distance{km: km, known: true} }

func UnknownDistance() Distance { return Distance{} }

func (d Distance) Known() bool { return d.known }

// Kilometers returns the distance and whether it is known.
func (d Distance) Kilometers() (float64, bool) { return d.km, d.known }

func (d Distance) String() string {
	if !d.known {
		return "unknown"
	}
	return fmt.Sprintf("%.1f km", d.km)
}

// CompareDistance orders known distances ascending and places every Unknown
// after all known ones. Two Unknown values compare equal so a stable sort
// keeps their original order.
func CompareDistance(a, b Distance) int {
	switch {
	case a.known && b.known:
		if a.km < b.km {
			return -1
		}
		if a.km > b.km {
			return 1
		}
		return 0
	case a.known:
		return -1
	case b.known:
		return 1
	default:
		return 0
	}
}
