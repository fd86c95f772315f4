package geocoder

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"restaurant-dispatch-service/internal/domain"
	"restaurant-dispatch-service/internal/platform/obs"
	"restaurant-dispatch-service/internal/ports"
	"strconv"
	"strings"
	"time"
)

const YandexBaseURL = "https://geocode-maps.yandex.ru"

type yandexResponse struct {
	Response struct {
		GeoObjectCollection struct {
			FeatureMember []struct {
				GeoObject struct {
					Point struct {
						Pos string `json:"pos"`
					} `json:"Point"`
				} `json:"GeoObject"`
			} `json:"featureMember"`
		} `json:"GeoObjectCollection"`
	} `json:"response"`
}

// YandexGeocoder implements ports.Geocoder with the Yandex HTTP Geocoder API.
// It is safe for concurrent use.
type YandexGeocoder struct {
	api    apiClient
	apiKey string
}

// NewYandexGeocoder builds a client; an empty baseURL selects YandexBaseURL.
func NewYandexGeocoder(apiKey, baseURL string, timeout time.Duration) (*YandexGeocoder, error) {
	if apiKey == "" {
		return nil, errors.New("yandex geocoder: api key is empty")
	}
	if baseURL == "" {
		baseURL = YandexBaseURL
	}

	return &YandexGeocoder{
		api:    newAPIClient(baseURL, timeout),
		apiKey: apiKey,
	}, nil
}

func (y *YandexGeocoder) Geocode(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "yandex.Geocode")(&err)

	q := url.Values{}
	q.Set("geocode", address)
	q.Set("apikey", y.apiKey)
	q.Set("format", "json")

	var decoded yandexResponse
	if err := y.api.getJSON(ctx, "yandex geocode", "/1.x", q, nil, &decoded); err != nil {
		return domain.Coordinates{}, err
	}

	members := decoded.Response.GeoObjectCollection.FeatureMember
	if len(members) == 0 {
		return domain.Coordinates{}, fmt.Errorf("yandex geocode %q: %w", address, ports.ErrAddressNotFound)
	}

	coords, err := parsePos(members[0].GeoObject.Point.Pos)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("yandex geocode %q: %w", address, err)
	}

	return coords, nil
}

// parsePos converts a "lon lat" position string into Coordinates.
func parsePos(pos string) (domain.Coordinates, error) {
	parts := strings.Fields(pos)
	if len(parts) != 2 {
		return domain.Coordinates{}, fmt.Errorf("%w: position %q is not a coordinate pair", ports.ErrMalformedResponse, pos)
	}

	lon, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("%w: longitude %q: %w", ports.ErrMalformedResponse, parts[0], err)
	}
	lat, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("%w: latitude %q: %w", ports.ErrMalformedResponse, parts[1], err)
	}

	c := domain.Coordinates{Lat: lat, Lon: lon}
	if !c.Valid() {
		return domain.Coordinates{}, fmt.Errorf("%w: position %q out of range", ports.ErrMalformedResponse, pos)
	}
	return c, nil
}
