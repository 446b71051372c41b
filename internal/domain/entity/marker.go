package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// CustomMarker is a user-placed map annotation. Markers have a lifecycle
// independent of emergency services: the user creates, drags, and deletes
// them, and they survive restarts.
type CustomMarker struct {
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	Latitude  float64           `json:"latitude"`
	Longitude float64           `json:"longitude"`
	Color     string            `json:"color,omitempty"` // Hex color for rendering; empty means the default pin.
	CreatedAt time.Time         `json:"created_at"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Point returns the marker position in orb's lon/lat order.
func (m *CustomMarker) Point() orb.Point {
	return orb.Point{m.Longitude, m.Latitude}
}
