package usecase

import (
	"context"

	"planner/internal/domain/entity"
)

// CalculateRouteInput identifies a point-to-point routing request.
// FromID resolves against custom markers first, then emergency services.
// An empty ToFacilityID routes to the project location.
type CalculateRouteInput struct {
	FromID       string
	ToFacilityID string
}

// RouteOutcome is the terminal result of a routing request.
type RouteOutcome struct {
	Route *entity.Route
	// Degraded marks a locally synthesized straight-line fallback, so the
	// caller can warn the user about reduced fidelity.
	Degraded bool
	// Superseded is true when a newer request for the same source finished
	// first and this result was discarded without touching the store.
	Superseded bool
}

// BulkRouteOutcome summarizes a best-effort bulk routing run.
type BulkRouteOutcome struct {
	Requested int `json:"requested"` // Hospitals attempted.
	Succeeded int `json:"succeeded"` // Routes actually inserted.
	Skipped   int `json:"skipped"`   // Hospitals skipped on provider failure.
}

// RoutingUsecase computes routes and reconciles them into the entity store.
type RoutingUsecase interface {
	// CalculateRoute resolves the effective destination (following hospital
	// redirects), requests a path, and inserts the resulting route. Provider
	// failure degrades to a straight-line fallback instead of failing.
	CalculateRoute(ctx context.Context, input *CalculateRouteInput) (*RouteOutcome, error)

	// CalculateRoutesForAllHospitals clears the route collection and routes
	// every hospital to the project location, sequentially, tolerating
	// per-hospital failures. It fails only when nothing succeeded.
	CalculateRoutesForAllHospitals(ctx context.Context) (*BulkRouteOutcome, error)
}
