package repository

import (
	"context"
	"errors"

	"planner/internal/domain/entity"
)

// ErrProjectLocationNotFound is returned when no project location snapshot exists.
var ErrProjectLocationNotFound = errors.New("project location not found")

// ProjectLocationRepository persists the singular project location snapshot.
type ProjectLocationRepository interface {
	// SaveProjectLocation replaces the stored snapshot.
	SaveProjectLocation(ctx context.Context, location *entity.ProjectLocation) error
	// LoadProjectLocation returns the stored snapshot, or ErrProjectLocationNotFound.
	LoadProjectLocation(ctx context.Context) (*entity.ProjectLocation, error)
	// ClearProjectLocation removes the snapshot. Clearing an empty store is not an error.
	ClearProjectLocation(ctx context.Context) error
}
