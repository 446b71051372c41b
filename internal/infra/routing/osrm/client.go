// Package osrm adapts an OSRM-compatible routing HTTP API to the
// RouteProvider boundary.
package osrm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"planner/config"
	"planner/internal/domain/entity"
	"planner/internal/domain/service"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

const (
	defaultBaseURL = "https://router.project-osrm.org"
	defaultTimeout = 10 * time.Second
)

type response struct {
	Code   string  `json:"code"`
	Routes []route `json:"routes"`
}

type route struct {
	Distance float64 `json:"distance"` // meters
	Duration float64 `json:"duration"` // seconds
	Geometry struct {
		Coordinates [][]float64 `json:"coordinates"` // lon/lat pairs
	} `json:"geometry"`
	Legs []leg `json:"legs"`
}

type leg struct {
	Steps []step `json:"steps"`
}

type step struct {
	Distance float64 `json:"distance"`
	Name     string  `json:"name"`
	Maneuver struct {
		Type     string `json:"type"`
		Modifier string `json:"modifier"`
	} `json:"maneuver"`
}

// Client calls the OSRM route endpoint over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates an OSRM client from config. A nil or empty config falls back to
// the public demo server with a conservative timeout.
func New(cfg *config.RoutingConfig) service.RouteProvider {
	baseURL := defaultBaseURL
	timeout := defaultTimeout
	if cfg != nil {
		if cfg.ProviderBaseURL != "" {
			baseURL = cfg.ProviderBaseURL
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

// FetchRoutePath requests a driving route with full geojson geometry and
// turn-by-turn steps.
func (c *Client) FetchRoutePath(ctx context.Context, origin, destination orb.Point) (*service.RoutePath, error) {
	url := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=full&geometries=geojson&steps=true",
		c.baseURL,
		origin.Lon(), origin.Lat(),
		destination.Lon(), destination.Lat(),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create routing request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "routing request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("routing API returned status %d", resp.StatusCode)
	}

	var decoded response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, errors.Wrap(err, "failed to decode routing response")
	}

	if decoded.Code != "Ok" || len(decoded.Routes) == 0 {
		return nil, errors.Errorf("no route found (code %q)", decoded.Code)
	}

	best := decoded.Routes[0]
	points := make(orb.LineString, 0, len(best.Geometry.Coordinates))
	for _, coord := range best.Geometry.Coordinates {
		if len(coord) < 2 {
			continue
		}
		points = append(points, orb.Point{coord[0], coord[1]})
	}
	if len(points) < 2 {
		return nil, errors.New("routing response geometry has fewer than two points")
	}

	return &service.RoutePath{
		Points:      points,
		DistanceKm:  best.Distance / 1000,
		DurationMin: best.Duration / 60,
		Steps:       flattenSteps(best.Legs),
	}, nil
}

// flattenSteps converts OSRM maneuver steps into display instructions with
// road names emphasized.
func flattenSteps(legs []leg) []entity.RouteStep {
	var steps []entity.RouteStep
	for _, l := range legs {
		for _, st := range l.Steps {
			steps = append(steps, entity.RouteStep{
				Instruction: instructionFor(st),
				DistanceM:   st.Distance,
			})
		}
	}

	return steps
}

func instructionFor(st step) string {
	action := st.Maneuver.Type
	if st.Maneuver.Modifier != "" {
		action += " " + st.Maneuver.Modifier
	}
	if st.Name == "" {
		return action
	}

	return fmt.Sprintf("%s onto <b>%s</b>", action, st.Name)
}
