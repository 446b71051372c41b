// Package repository defines the persistence boundaries of the planner.
// Only the durable subset lives here: custom markers, the project location
// snapshot, and emergency-room verification records. Services, routes, and
// selection state are re-derived each session and never persisted.
package repository

import (
	"context"
	"errors"

	"planner/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrMarkerNotFound is returned when a marker does not exist in storage.
var ErrMarkerNotFound = errors.New("marker not found")

// MarkerRepository persists user-placed markers across sessions.
type MarkerRepository interface {
	// SaveMarker inserts or updates a marker.
	SaveMarker(ctx context.Context, marker *entity.CustomMarker) error
	// DeleteMarker removes a marker by id. Returns ErrMarkerNotFound if absent.
	DeleteMarker(ctx context.Context, id uuid.UUID) error
	// ListMarkers returns all persisted markers, oldest first.
	ListMarkers(ctx context.Context) ([]*entity.CustomMarker, error)
	// DeleteAllMarkers removes every marker. Used by the full reset.
	DeleteAllMarkers(ctx context.Context) error
}
