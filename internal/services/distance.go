package services

import (
	"math"
	"restaurant-dispatch-service/internal/domain"

	"github.com/tidwall/geodesic"
)

// Distance returns the geodesic distance between two points on the WGS84
// ellipsoid, in kilometers rounded to one decimal. Unknown when either
// position is unknown.
func Distance(a, b *domain.Coordinates) domain.Distance {
	if a == nil || b == nil {
		return domain.UnknownDistance()
	}

	var meters float64
	geodesic.WGS84.Inverse(a.Lat, a.Lon, b.Lat, b.Lon, &meters, nil, nil)

	km := math.Round(meters/100) / 10
	return domain.KnownDistance(km)
}
