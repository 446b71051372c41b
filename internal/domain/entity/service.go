// Package entity contains the core business objects of the planner.
package entity

import (
	"fmt"
	"time"

	"github.com/paulmach/orb"
)

// Verification records the latest emergency-room check for a hospital.
// Only hospital-category services carry a meaningful verification.
type Verification struct {
	HasEmergencyRoom bool       `json:"has_emergency_room"` // Whether the facility operates an emergency room.
	VerifiedAt       *time.Time `json:"verified_at"`        // When the status was last confirmed; nil if never.
	Comments         string     `json:"comments,omitempty"` // Free-text notes from the verifier.
}

// EmergencyService is a facility near the project location: a hospital, fire
// station, EMS station, or law-enforcement post. The collection is replaced
// wholesale by a nearby search; individual entries are only mutated through
// verification updates.
type EmergencyService struct {
	ID                 string        `json:"id"`   // Stable, externally sourced identifier.
	Name               string        `json:"name"` // Display name from the source data.
	Type               string        `json:"type"` // Free-text category string as imported.
	Category           Category      `json:"category"`
	Latitude           float64       `json:"latitude"`
	Longitude          float64       `json:"longitude"`
	Address            string        `json:"address,omitempty"`
	Phone              string        `json:"phone,omitempty"`
	Hours              string        `json:"hours,omitempty"`
	DistanceKm         *float64      `json:"distance_km,omitempty"`      // Straight-line distance to the project location.
	RoadDistanceKm     *float64      `json:"road_distance_km,omitempty"` // Routed distance, set after route computation.
	Verification       *Verification `json:"verification,omitempty"`
	GoogleMapsLink     string        `json:"google_maps_link,omitempty"`
	RedirectHospitalID string        `json:"redirect_hospital_id,omitempty"` // Substitute hospital when this one lacks an ER.
}

// Point returns the facility position in orb's lon/lat order.
func (s *EmergencyService) Point() orb.Point {
	return orb.Point{s.Longitude, s.Latitude}
}

// HasConfirmedER reports whether the facility is a hospital with a verified
// emergency room.
func (s *EmergencyService) HasConfirmedER() bool {
	return s.Category == CategoryHospital && s.Verification != nil && s.Verification.HasEmergencyRoom
}

// NeedsRedirect reports whether routing to this facility must substitute its
// redirect target: a hospital verified to lack an ER with a redirect set.
func (s *EmergencyService) NeedsRedirect() bool {
	return s.Category == CategoryHospital &&
		s.Verification != nil && !s.Verification.HasEmergencyRoom &&
		s.RedirectHospitalID != ""
}

// MapsLink returns the stored Google Maps link, or one derived from the
// coordinates when the source data carried none.
func (s *EmergencyService) MapsLink() string {
	if s.GoogleMapsLink != "" {
		return s.GoogleMapsLink
	}

	return fmt.Sprintf("https://www.google.com/maps?q=%f,%f", s.Latitude, s.Longitude)
}

// ServiceVerification is the persisted form of an ER verification, keyed by
// service id. The latest record per service hydrates the in-memory collection
// after every bulk replacement.
type ServiceVerification struct {
	ServiceID          string    `json:"service_id"`
	HasEmergencyRoom   bool      `json:"has_emergency_room"`
	VerifiedAt         time.Time `json:"verified_at"`
	Comments           string    `json:"comments,omitempty"`
	RedirectHospitalID string    `json:"redirect_hospital_id,omitempty"`
}
