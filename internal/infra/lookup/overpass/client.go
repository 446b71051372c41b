// Package overpass adapts the Overpass OpenStreetMap query API to the
// NearbyProvider boundary.
package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"planner/config"
	"planner/internal/domain/entity"
	"planner/internal/domain/service"

	"github.com/pkg/errors"
)

const (
	defaultBaseURL = "https://overpass-api.de/api/interpreter"
	defaultTimeout = 25 * time.Second
)

// selectorsByCategory maps planner categories to Overpass tag filters.
var selectorsByCategory = map[entity.Category][]string{
	entity.CategoryHospital:       {`["amenity"="hospital"]`},
	entity.CategoryFire:           {`["amenity"="fire_station"]`},
	entity.CategoryEMS:            {`["emergency"="ambulance_station"]`},
	entity.CategoryLawEnforcement: {`["amenity"="police"]`},
}

// typeLabels are the free-text type strings attached to results so the store
// can re-classify them like any other imported data.
var typeLabels = map[entity.Category]string{
	entity.CategoryHospital:       "Hospital",
	entity.CategoryFire:           "Fire Station",
	entity.CategoryEMS:            "EMS Station",
	entity.CategoryLawEnforcement: "Police Station",
}

type response struct {
	Elements []element `json:"elements"`
}

type element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    float64           `json:"lat"`
	Lon    float64           `json:"lon"`
	Center *center           `json:"center,omitempty"`
	Tags   map[string]string `json:"tags"`
}

type center struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Client queries an Overpass endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates an Overpass client from config. A nil config falls back to the
// public endpoint.
func New(cfg *config.LookupConfig) service.NearbyProvider {
	baseURL := defaultBaseURL
	timeout := defaultTimeout
	if cfg != nil {
		if cfg.OverpassBaseURL != "" {
			baseURL = cfg.OverpassBaseURL
		}
		if cfg.RequestTimeout > 0 {
			timeout = cfg.RequestTimeout
		}
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchNearby queries every requested category within radiusKm of the given
// coordinate. An empty kinds slice queries all known categories.
func (c *Client) FetchNearby(ctx context.Context, lat, lon, radiusKm float64, kinds []entity.Category) ([]*entity.EmergencyService, error) {
	if len(kinds) == 0 {
		kinds = []entity.Category{
			entity.CategoryHospital,
			entity.CategoryFire,
			entity.CategoryEMS,
			entity.CategoryLawEnforcement,
		}
	}

	query := buildQuery(lat, lon, radiusKm, kinds)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL,
		strings.NewReader(url.Values{"data": {query}}.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create lookup request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "lookup request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("lookup API returned status %d", resp.StatusCode)
	}

	var decoded response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, errors.Wrap(err, "failed to decode lookup response")
	}

	services := make([]*entity.EmergencyService, 0, len(decoded.Elements))
	for _, el := range decoded.Elements {
		svc, ok := toService(el)
		if !ok {
			continue
		}
		services = append(services, svc)
	}

	return services, nil
}

func buildQuery(lat, lon, radiusKm float64, kinds []entity.Category) string {
	var b strings.Builder
	b.WriteString("[out:json][timeout:25];(")
	radiusM := radiusKm * 1000
	for _, kind := range kinds {
		for _, selector := range selectorsByCategory[kind] {
			fmt.Fprintf(&b, "nwr%s(around:%.0f,%f,%f);", selector, radiusM, lat, lon)
		}
	}
	b.WriteString(");out center tags;")

	return b.String()
}

// toService maps an Overpass element to a service entry. Ways and relations
// carry their position in the center member.
func toService(el element) (*entity.EmergencyService, bool) {
	lat, lon := el.Lat, el.Lon
	if el.Center != nil {
		lat, lon = el.Center.Lat, el.Center.Lon
	}
	if lat == 0 && lon == 0 {
		return nil, false
	}

	category := categoryOf(el.Tags)
	name := el.Tags["name"]
	if name == "" {
		name = "Unnamed " + typeLabels[category]
	}

	return &entity.EmergencyService{
		ID:        fmt.Sprintf("%s/%d", el.Type, el.ID),
		Name:      name,
		Type:      typeLabels[category],
		Latitude:  lat,
		Longitude: lon,
		Address:   assembleAddress(el.Tags),
		Phone:     firstNonEmpty(el.Tags["phone"], el.Tags["contact:phone"]),
		Hours:     el.Tags["opening_hours"],
	}, true
}

func categoryOf(tags map[string]string) entity.Category {
	switch {
	case tags["amenity"] == "hospital":
		return entity.CategoryHospital
	case tags["amenity"] == "fire_station":
		return entity.CategoryFire
	case tags["emergency"] == "ambulance_station":
		return entity.CategoryEMS
	case tags["amenity"] == "police":
		return entity.CategoryLawEnforcement
	default:
		return entity.CategoryOther
	}
}

func assembleAddress(tags map[string]string) string {
	parts := make([]string, 0, 3)
	if street := tags["addr:street"]; street != "" {
		if number := tags["addr:housenumber"]; number != "" {
			parts = append(parts, number+" "+street)
		} else {
			parts = append(parts, street)
		}
	}
	if city := tags["addr:city"]; city != "" {
		parts = append(parts, city)
	}
	if postcode := tags["addr:postcode"]; postcode != "" {
		parts = append(parts, postcode)
	}

	return strings.Join(parts, ", ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
