package geocoder

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"restaurant-dispatch-service/internal/domain"
	"restaurant-dispatch-service/internal/platform/obs"
	"restaurant-dispatch-service/internal/ports"
	"time"
)

const ORSBaseURL = "https://api.openrouteservice.org"

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// ORSGeocoder implements ports.Geocoder using OpenRouteService (/geocode/search).
type ORSGeocoder struct {
	api    apiClient
	apiKey string
	// Optional ISO country code restricting results, e.g. "RU".
	BoundaryCountry string
}

// NewORSGeocoder builds a client; an empty baseURL selects ORSBaseURL.
func NewORSGeocoder(apiKey, baseURL string, timeout time.Duration) (*ORSGeocoder, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}
	if baseURL == "" {
		baseURL = ORSBaseURL
	}

	return &ORSGeocoder{
		api:    newAPIClient(baseURL, timeout),
		apiKey: apiKey,
	}, nil
}

func (o *ORSGeocoder) Geocode(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	q := url.Values{}
	q.Set("text", address)
	q.Set("size", "1")
	if o.BoundaryCountry != "" {
		q.Set("boundary.country", o.BoundaryCountry)
	}

	var decoded geocodeResponse
	err = o.api.getJSON(ctx, "ors geocode", "/geocode/search", q, func(req *http.Request) {
		req.Header.Set("Authorization", o.apiKey)
	}, &decoded)
	if err != nil {
		return domain.Coordinates{}, err
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, fmt.Errorf("ors geocode %q: %w", address, ports.ErrAddressNotFound)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Coordinates{}, fmt.Errorf("ors geocode %q: %w: invalid coordinate format", address, ports.ErrMalformedResponse)
	}

	c := domain.Coordinates{Lon: coords[0], Lat: coords[1]}
	if !c.Valid() {
		return domain.Coordinates{}, fmt.Errorf("ors geocode %q: %w: coordinates out of range", address, ports.ErrMalformedResponse)
	}
	return c, nil
}
