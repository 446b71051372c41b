package service

import (
	"context"

	"planner/internal/domain/entity"
)

// NearbyProvider looks up emergency services around a coordinate.
// An empty result is valid (no facilities in range), not an error.
type NearbyProvider interface {
	FetchNearby(ctx context.Context, lat, lon, radiusKm float64, kinds []entity.Category) ([]*entity.EmergencyService, error)
}
