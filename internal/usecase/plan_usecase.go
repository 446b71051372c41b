// Package usecase defines the application-facing interfaces of the planner
// core: the entity store, the route engine, and the capture tracker.
package usecase

import (
	"context"

	"planner/internal/domain/entity"

	"github.com/google/uuid"
)

// SetProjectLocationInput carries a new project location.
type SetProjectLocationInput struct {
	Latitude  float64
	Longitude float64
	Metadata  map[string]string
}

// NearbySearchInput parameterizes an emergency-service search. Zero
// coordinates with UseProjectLocation set search around the stored project
// location.
type NearbySearchInput struct {
	Latitude           float64
	Longitude          float64
	UseProjectLocation bool
	RadiusKm           float64 // 0 means the configured default radius.
	Kinds              []entity.Category
}

// AddMarkerInput carries a new custom marker.
type AddMarkerInput struct {
	Name      string
	Latitude  float64
	Longitude float64
	Color     string
	Metadata  map[string]string
}

// UpdateMarkerInput carries a partial marker update; nil fields are untouched.
type UpdateMarkerInput struct {
	Name      *string
	Latitude  *float64
	Longitude *float64
	Color     *string
}

// VerifyServiceInput records an emergency-room verification for a hospital.
type VerifyServiceInput struct {
	ServiceID          string
	HasEmergencyRoom   bool
	Comments           string
	RedirectHospitalID string // Required substitute when HasEmergencyRoom is false.
}

// Selection is the current mutually exclusive selection state.
type Selection struct {
	ServiceID string
	MarkerID  uuid.UUID
}

// PlanUsecase is the single source of truth for planner state. All mutations
// go through it; the route engine and the capture tracker never hold copies
// beyond a single operation's scope.
type PlanUsecase interface {
	// SetProjectLocation validates and replaces the project location,
	// recenters the viewport, and persists the snapshot.
	SetProjectLocation(ctx context.Context, input *SetProjectLocationInput) (*entity.ProjectLocation, error)
	ProjectLocation() *entity.ProjectLocation

	// SearchNearbyServices queries the nearby-services provider and replaces
	// the emergency-service collection with the result. An empty result is a
	// valid "none found" outcome, not an error.
	SearchNearbyServices(ctx context.Context, input *NearbySearchInput) ([]*entity.EmergencyService, error)
	// SetEmergencyServices replaces the collection: classifies categories,
	// hydrates hospital verifications, computes straight-line distances, and
	// sorts ER-confirmed hospitals first.
	SetEmergencyServices(ctx context.Context, services []*entity.EmergencyService) error
	EmergencyServices() []*entity.EmergencyService

	AddCustomMarker(ctx context.Context, input *AddMarkerInput) (*entity.CustomMarker, error)
	UpdateCustomMarker(ctx context.Context, id uuid.UUID, input *UpdateMarkerInput) (*entity.CustomMarker, error)
	// DeleteCustomMarker removes the marker and cascades to any route that
	// references it as source or destination.
	DeleteCustomMarker(ctx context.Context, id uuid.UUID) error
	CustomMarkers() []*entity.CustomMarker

	// RecordVerification stores an ER verification for a hospital and merges
	// it into the in-memory collection.
	RecordVerification(ctx context.Context, input *VerifyServiceInput) (*entity.EmergencyService, error)

	// SelectService and SelectMarker are mutually exclusive; selecting one
	// clears the other. An empty id clears the selection.
	SelectService(id string) error
	SelectMarker(id uuid.UUID) error
	ClearSelection()
	Selection() Selection

	// ToggleAddingMarker flips placement mode and returns the new value.
	ToggleAddingMarker() bool
	AddingMarker() bool

	Viewport() entity.Viewport

	// ClearAll resets every collection and the selection; ClearRoutes only
	// empties the route collection.
	ClearAll(ctx context.Context) error
	ClearRoutes(ctx context.Context)
	Routes() []*entity.Route

	// Hydrate loads the persisted subset (markers, project location) at startup.
	Hydrate(ctx context.Context) error

	// Subscribe registers a callback invoked after every state change.
	// The returned function unsubscribes.
	Subscribe(fn func()) (unsubscribe func())
}

// RouteStore is the slice of the entity store the route engine reads and
// mutates. PlanUsecase implementations also implement RouteStore.
type RouteStore interface {
	ProjectLocation() *entity.ProjectLocation
	EmergencyServices() []*entity.EmergencyService
	ServiceByID(id string) (*entity.EmergencyService, bool)
	MarkerByID(id uuid.UUID) (*entity.CustomMarker, bool)

	// UpsertRoute inserts a route, replacing any existing route with the
	// same FromID.
	UpsertRoute(route *entity.Route)
	DeleteRoutesBySource(fromID string)
	ClearRouteCollection()
	Routes() []*entity.Route
	// SetRoadDistance records the routed distance on a service entry and
	// re-sorts the collection.
	SetRoadDistance(serviceID string, distanceKm float64)
}
