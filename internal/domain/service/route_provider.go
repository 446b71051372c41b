// Package service defines the external collaborator boundaries the planner
// core consumes. Concrete adapters live under internal/infra.
package service

import (
	"context"

	"planner/internal/domain/entity"

	"github.com/paulmach/orb"
)

// RoutePath is what a routing provider returns for an origin/destination pair.
type RoutePath struct {
	Points      orb.LineString     // Road-following polyline, at least two points.
	DistanceKm  float64            // Routed distance in kilometers.
	DurationMin float64            // Estimated travel time in minutes.
	Steps       []entity.RouteStep // Optional turn-by-turn instructions.
}

// RouteProvider computes a road route between two coordinates.
// Any error (network, quota, parse) must be treated by callers as the trigger
// for local fallback synthesis, never as fatal.
type RouteProvider interface {
	FetchRoutePath(ctx context.Context, origin, destination orb.Point) (*RoutePath, error)
}
