package entity

import "time"

// Capture is a rendered snapshot of the map view kept for report export.
// It is transient state: never persisted, cleared whenever routes are
// cleared or the store resets.
type Capture struct {
	Image      []byte     `json:"-"`
	Checksum   string     `json:"checksum,omitempty"` // SHA256 of the image, recorded for the report annex.
	CapturedAt *time.Time `json:"captured_at"`
}
