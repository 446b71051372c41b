package entity

import (
	"strconv"
	"time"

	"github.com/paulmach/orb"
)

// RouteStep is a single turn-by-turn instruction. Instructions may contain
// simple markup for emphasis (road names wrapped in <b> tags).
type RouteStep struct {
	Instruction string  `json:"instruction"`
	DistanceM   float64 `json:"distance_m"`
}

// Route is a computed path from a source entity (marker or service) to a
// destination. An empty ToID means the destination is the project location.
// At most one route per source is retained: computing a new route from the
// same source replaces the previous one.
type Route struct {
	ID          string         `json:"id"`
	Points      orb.LineString `json:"points"` // Ordered path polyline, at least two points.
	FromID      string         `json:"from_id"`
	ToID        string         `json:"to_id,omitempty"`
	DistanceKm  float64        `json:"distance_km"`
	DurationMin float64        `json:"duration_min"`
	Steps       []RouteStep    `json:"steps,omitempty"`
	Degraded    bool           `json:"degraded"` // True for a synthesized straight-line fallback.
	CreatedAt   time.Time      `json:"created_at"`
}

// NewRouteID generates a time-based route identifier.
func NewRouteID(now time.Time) string {
	return "route-" + strconv.FormatInt(now.UnixNano(), 10)
}
