package services

import (
	"math"
	"restaurant-dispatch-service/internal/domain"
	"testing"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b domain.Coordinates
		want float64
	}{
		{"JFK to LHR", domain.Coordinates{Lat: 40.6, Lon: -73.8}, domain.Coordinates{Lat: 51.6, Lon: -0.5}, 5551.8},
		{"one degree of latitude at the equator", domain.Coordinates{Lat: 0, Lon: 0}, domain.Coordinates{Lat: 1, Lon: 0}, 110.6},
		{"one degree of longitude at the equator", domain.Coordinates{Lat: 0, Lon: 0}, domain.Coordinates{Lat: 0, Lon: 1}, 111.3},
		{"same point", arbat, arbat, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := tt.a, tt.b
			d := Distance(&a, &b)
			km, ok := d.Kilometers()
			if !ok {
				t.Fatalf("distance unknown")
			}
			if math.Abs(km-tt.want) > 1e-9 {
				t.Fatalf("distance = %.4f km, want %.1f", km, tt.want)
			}

			back := Distance(&b, &a)
			if domain.CompareDistance(d, back) != 0 {
				t.Errorf("distance not symmetric: %v vs %v", d, back)
			}
		})
	}
}

func TestDistance_UnknownWhenEitherSideMissing(t *testing.T) {
	c := arbat
	for _, d := range []domain.Distance{Distance(nil, &c), Distance(&c, nil), Distance(nil, nil)} {
		if d.Known() {
			t.Fatalf("expected unknown distance, got %v", d)
		}
	}
}
