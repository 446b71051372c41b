package entity

import "github.com/paulmach/orb"

// ProjectLocation is the singular project site everything else is planned
// around. At most one exists at a time; a search action replaces it wholesale
// and a full reset clears it.
type ProjectLocation struct {
	Latitude  float64           `json:"latitude"`
	Longitude float64           `json:"longitude"`
	Metadata  map[string]string `json:"metadata,omitempty"` // Open set of project attributes: number, region, type.
}

// Point returns the project position in orb's lon/lat order.
func (l *ProjectLocation) Point() orb.Point {
	return orb.Point{l.Longitude, l.Latitude}
}

// Viewport is the map camera state the store recenters on selection and
// location changes. Rendering itself happens outside this core.
type Viewport struct {
	CenterLat float64 `json:"center_lat"`
	CenterLon float64 `json:"center_lon"`
}
