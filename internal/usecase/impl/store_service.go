package impl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"planner/config"
	domainErrors "planner/internal/domain/errors"
	"planner/internal/domain/entity"
	"planner/internal/domain/repository"
	"planner/internal/domain/service"
	"planner/internal/errors"
	"planner/internal/infra/geo"
	"planner/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

const defaultSearchRadiusKm = 40.0

// PlanStoreParams defines the dependencies of the plan store
type PlanStoreParams struct {
	fx.In

	Config           *config.Config
	Logger           *slog.Logger
	MarkerRepo       repository.MarkerRepository       `optional:"true"`
	LocationRepo     repository.ProjectLocationRepository `optional:"true"`
	VerificationRepo repository.VerificationRepository `optional:"true"`
	Nearby           service.NearbyProvider
	Capture          usecase.CaptureUsecase
}

// PlanStore is the single source of truth for planner state. It implements
// both usecase.PlanUsecase (the application surface) and usecase.RouteStore
// (the slice the route engine mutates). All access is serialized by one
// mutex; callers may hit it from any goroutine.
type PlanStore struct {
	mu sync.RWMutex

	location     *entity.ProjectLocation
	services     []*entity.EmergencyService
	markers      []*entity.CustomMarker
	routes       []*entity.Route
	selection    usecase.Selection
	addingMarker bool
	viewport     entity.Viewport

	cfg              *config.Config
	logger           *slog.Logger
	markerRepo       repository.MarkerRepository
	locationRepo     repository.ProjectLocationRepository
	verificationRepo repository.VerificationRepository
	nearby           service.NearbyProvider
	capture          usecase.CaptureUsecase

	subMu       sync.Mutex
	subscribers map[int]func()
	nextSubID   int
}

// NewPlanStore creates a new plan store instance
func NewPlanStore(params PlanStoreParams) *PlanStore {
	logger := params.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &PlanStore{
		cfg:              params.Config,
		logger:           logger,
		markerRepo:       params.MarkerRepo,
		locationRepo:     params.LocationRepo,
		verificationRepo: params.VerificationRepo,
		nearby:           params.Nearby,
		capture:          params.Capture,
		subscribers:      make(map[int]func()),
	}
}

// Subscribe registers a callback invoked after every state change
func (s *PlanStore) Subscribe(fn func()) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subscribers, id)
	}
}

// notify invokes subscribers outside the state lock so callbacks can read
// back through the public accessors.
func (s *PlanStore) notify() {
	s.subMu.Lock()
	callbacks := make([]func(), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		callbacks = append(callbacks, fn)
	}
	s.subMu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}

// SetProjectLocation validates and replaces the project location
func (s *PlanStore) SetProjectLocation(ctx context.Context, input *usecase.SetProjectLocationInput) (*entity.ProjectLocation, error) {
	if !geo.IsValidLatLon(input.Latitude, input.Longitude) {
		return nil, domainErrors.ErrInvalidCoordinate.WithDetails(
			fmt.Sprintf("lat=%v lon=%v", input.Latitude, input.Longitude))
	}

	location := &entity.ProjectLocation{
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
		Metadata:  copyMetadata(input.Metadata),
	}

	s.mu.Lock()
	s.location = location
	s.viewport = entity.Viewport{CenterLat: input.Latitude, CenterLon: input.Longitude}
	s.recomputeStraightLineDistancesLocked()
	s.sortServicesLocked()
	s.mu.Unlock()

	s.persistLocation(ctx, location)
	s.notify()

	return location, nil
}

// ProjectLocation returns the current project location, or nil
func (s *PlanStore) ProjectLocation() *entity.ProjectLocation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.location
}

// SearchNearbyServices queries the nearby-services provider and replaces the
// emergency-service collection with the result
func (s *PlanStore) SearchNearbyServices(ctx context.Context, input *usecase.NearbySearchInput) ([]*entity.EmergencyService, error) {
	lat, lon := input.Latitude, input.Longitude
	if input.UseProjectLocation {
		location := s.ProjectLocation()
		if location == nil {
			return nil, domainErrors.ErrProjectLocationMissing
		}
		lat, lon = location.Latitude, location.Longitude
	} else if !geo.IsValidLatLon(lat, lon) {
		return nil, domainErrors.ErrInvalidCoordinate.WithDetails(
			fmt.Sprintf("lat=%v lon=%v", lat, lon))
	}

	radius := input.RadiusKm
	if radius <= 0 {
		radius = s.defaultRadiusKm()
	}

	found, err := s.nearby.FetchNearby(ctx, lat, lon, radius, input.Kinds)
	if err != nil {
		return nil, errors.Wrap(err, "nearby services lookup failed")
	}

	if err := s.SetEmergencyServices(ctx, found); err != nil {
		return nil, err
	}

	return s.EmergencyServices(), nil
}

func (s *PlanStore) defaultRadiusKm() float64 {
	if s.cfg != nil && s.cfg.Lookup != nil && s.cfg.Lookup.DefaultRadiusKm > 0 {
		return s.cfg.Lookup.DefaultRadiusKm
	}

	return defaultSearchRadiusKm
}

// SetEmergencyServices replaces the service collection wholesale. Each entry
// is classified from its free-text type, hospital entries are hydrated with
// their latest persisted verification, straight-line distances are computed,
// and the collection is sorted.
func (s *PlanStore) SetEmergencyServices(ctx context.Context, services []*entity.EmergencyService) error {
	hospitalIDs := make([]string, 0, len(services))
	for _, svc := range services {
		svc.Category = entity.Classify(svc.Type)
		svc.GoogleMapsLink = svc.MapsLink()
		if svc.Category == entity.CategoryHospital {
			hospitalIDs = append(hospitalIDs, svc.ID)
		}
	}

	s.hydrateVerifications(ctx, services, hospitalIDs)

	s.mu.Lock()
	s.services = services
	if s.selection.ServiceID != "" {
		// The previous selection is meaningless against a replaced collection.
		s.selection = usecase.Selection{}
	}
	s.recomputeStraightLineDistancesLocked()
	s.sortServicesLocked()
	s.mu.Unlock()

	s.notify()

	return nil
}

// hydrateVerifications merges the latest persisted verification record into
// each hospital entry. A repository failure degrades to unverified entries
// rather than failing the whole replacement.
func (s *PlanStore) hydrateVerifications(ctx context.Context, services []*entity.EmergencyService, hospitalIDs []string) {
	if s.verificationRepo == nil || len(hospitalIDs) == 0 {
		return
	}

	records, err := s.verificationRepo.FindLatestByServiceIDs(ctx, hospitalIDs)
	if err != nil {
		s.logger.Warn("verification hydration failed, services stay unverified",
			slog.Any("error", err))

		return
	}

	byID := make(map[string]*entity.ServiceVerification, len(records))
	for _, rec := range records {
		byID[rec.ServiceID] = rec
	}

	for _, svc := range services {
		rec, ok := byID[svc.ID]
		if !ok {
			continue
		}
		verifiedAt := rec.VerifiedAt
		svc.Verification = &entity.Verification{
			HasEmergencyRoom: rec.HasEmergencyRoom,
			VerifiedAt:       &verifiedAt,
			Comments:         rec.Comments,
		}
		svc.RedirectHospitalID = rec.RedirectHospitalID
	}
}

// EmergencyServices returns the current collection in sorted order
func (s *PlanStore) EmergencyServices() []*entity.EmergencyService {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entity.EmergencyService, len(s.services))
	copy(out, s.services)

	return out
}

// ServiceByID finds a service in the current collection
func (s *PlanStore) ServiceByID(id string) (*entity.EmergencyService, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.serviceByIDLocked(id)
}

func (s *PlanStore) serviceByIDLocked(id string) (*entity.EmergencyService, bool) {
	for _, svc := range s.services {
		if svc.ID == id {
			return svc, true
		}
	}

	return nil, false
}

// AddCustomMarker validates and appends a new marker, leaving placement mode
func (s *PlanStore) AddCustomMarker(ctx context.Context, input *usecase.AddMarkerInput) (*entity.CustomMarker, error) {
	if !geo.IsValidLatLon(input.Latitude, input.Longitude) {
		return nil, domainErrors.ErrInvalidCoordinate.WithDetails(
			fmt.Sprintf("lat=%v lon=%v", input.Latitude, input.Longitude))
	}

	marker := &entity.CustomMarker{
		ID:        uuid.New(),
		Name:      input.Name,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
		Color:     input.Color,
		CreatedAt: time.Now(),
		Metadata:  copyMetadata(input.Metadata),
	}

	s.mu.Lock()
	s.markers = append(s.markers, marker)
	s.addingMarker = false
	s.mu.Unlock()

	s.persistMarker(ctx, marker)
	s.notify()

	return marker, nil
}

// UpdateCustomMarker applies a partial update to an existing marker
func (s *PlanStore) UpdateCustomMarker(ctx context.Context, id uuid.UUID, input *usecase.UpdateMarkerInput) (*entity.CustomMarker, error) {
	s.mu.Lock()
	marker, ok := s.markerByIDLocked(id)
	if !ok {
		s.mu.Unlock()

		return nil, domainErrors.ErrMarkerNotFound
	}

	lat, lon := marker.Latitude, marker.Longitude
	if input.Latitude != nil {
		lat = *input.Latitude
	}
	if input.Longitude != nil {
		lon = *input.Longitude
	}
	if !geo.IsValidLatLon(lat, lon) {
		s.mu.Unlock()

		return nil, domainErrors.ErrInvalidCoordinate.WithDetails(
			fmt.Sprintf("lat=%v lon=%v", lat, lon))
	}

	marker.Latitude = lat
	marker.Longitude = lon
	if input.Name != nil {
		marker.Name = *input.Name
	}
	if input.Color != nil {
		marker.Color = *input.Color
	}
	s.mu.Unlock()

	s.persistMarker(ctx, marker)
	s.notify()

	return marker, nil
}

// DeleteCustomMarker removes a marker and cascades to any route that
// references it as source or destination
func (s *PlanStore) DeleteCustomMarker(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	idx := -1
	for i, m := range s.markers {
		if m.ID == id {
			idx = i

			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()

		return domainErrors.ErrMarkerNotFound
	}
	s.markers = append(s.markers[:idx], s.markers[idx+1:]...)

	if s.selection.MarkerID == id {
		s.selection = usecase.Selection{}
	}

	routesDropped := s.dropRoutesReferencingLocked(id.String())
	s.mu.Unlock()

	if routesDropped {
		s.capture.MarkStale()
	}

	if s.markerRepo != nil {
		if err := s.markerRepo.DeleteMarker(ctx, id); err != nil && !errors.Is(err, repository.ErrMarkerNotFound) {
			s.logger.Warn("marker delete not persisted", slog.String("marker_id", id.String()), slog.Any("error", err))
		}
	}

	s.notify()

	return nil
}

func (s *PlanStore) dropRoutesReferencingLocked(entityID string) bool {
	kept := s.routes[:0]
	dropped := false
	for _, r := range s.routes {
		if r.FromID == entityID || r.ToID == entityID {
			dropped = true

			continue
		}
		kept = append(kept, r)
	}
	s.routes = kept

	return dropped
}

// CustomMarkers returns all markers, oldest first
func (s *PlanStore) CustomMarkers() []*entity.CustomMarker {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entity.CustomMarker, len(s.markers))
	copy(out, s.markers)

	return out
}

// MarkerByID finds a marker by id
func (s *PlanStore) MarkerByID(id uuid.UUID) (*entity.CustomMarker, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.markerByIDLocked(id)
}

func (s *PlanStore) markerByIDLocked(id uuid.UUID) (*entity.CustomMarker, bool) {
	for _, m := range s.markers {
		if m.ID == id {
			return m, true
		}
	}

	return nil, false
}

// RecordVerification stores an ER verification for a hospital and merges it
// into the in-memory collection
func (s *PlanStore) RecordVerification(ctx context.Context, input *usecase.VerifyServiceInput) (*entity.EmergencyService, error) {
	s.mu.Lock()
	svc, ok := s.serviceByIDLocked(input.ServiceID)
	if !ok {
		s.mu.Unlock()

		return nil, domainErrors.ErrServiceNotFound
	}
	if svc.Category != entity.CategoryHospital {
		s.mu.Unlock()

		return nil, domainErrors.ErrNotAHospital
	}

	if !input.HasEmergencyRoom && input.RedirectHospitalID != "" {
		if err := s.validateRedirectLocked(input.ServiceID, input.RedirectHospitalID); err != nil {
			s.mu.Unlock()

			return nil, err
		}
	}

	now := time.Now()
	svc.Verification = &entity.Verification{
		HasEmergencyRoom: input.HasEmergencyRoom,
		VerifiedAt:       &now,
		Comments:         input.Comments,
	}
	if input.HasEmergencyRoom {
		svc.RedirectHospitalID = ""
	} else {
		svc.RedirectHospitalID = input.RedirectHospitalID
	}
	s.sortServicesLocked()
	s.mu.Unlock()

	if s.verificationRepo != nil {
		record := &entity.ServiceVerification{
			ServiceID:          input.ServiceID,
			HasEmergencyRoom:   input.HasEmergencyRoom,
			VerifiedAt:         now,
			Comments:           input.Comments,
			RedirectHospitalID: svc.RedirectHospitalID,
		}
		if err := s.verificationRepo.SaveVerification(ctx, record); err != nil {
			s.logger.Warn("verification not persisted",
				slog.String("service_id", input.ServiceID), slog.Any("error", err))
		}
	}

	s.notify()

	return svc, nil
}

// validateRedirectLocked rejects self-redirects and redirects pointing at a
// facility already verified to lack an emergency room.
func (s *PlanStore) validateRedirectLocked(serviceID, redirectID string) error {
	if redirectID == serviceID {
		return domainErrors.ErrValidationFailed.WithDetails("redirect target must be a different hospital")
	}

	target, ok := s.serviceByIDLocked(redirectID)
	if !ok {
		return domainErrors.ErrValidationFailed.WithDetails("redirect target is not a known service")
	}
	if target.Category != entity.CategoryHospital {
		return domainErrors.ErrValidationFailed.WithDetails("redirect target is not a hospital")
	}
	if target.Verification != nil && !target.Verification.HasEmergencyRoom {
		return domainErrors.ErrValidationFailed.WithDetails("redirect target has no emergency room")
	}

	return nil
}

// SelectService selects a service and clears any marker selection. An empty
// id clears the selection.
func (s *PlanStore) SelectService(id string) error {
	if id == "" {
		s.ClearSelection()

		return nil
	}

	s.mu.Lock()
	svc, ok := s.serviceByIDLocked(id)
	if !ok {
		s.mu.Unlock()

		return domainErrors.ErrServiceNotFound
	}
	s.selection = usecase.Selection{ServiceID: id}
	s.viewport = entity.Viewport{CenterLat: svc.Latitude, CenterLon: svc.Longitude}
	s.mu.Unlock()

	s.notify()

	return nil
}

// SelectMarker selects a marker and clears any service selection
func (s *PlanStore) SelectMarker(id uuid.UUID) error {
	s.mu.Lock()
	marker, ok := s.markerByIDLocked(id)
	if !ok {
		s.mu.Unlock()

		return domainErrors.ErrMarkerNotFound
	}
	s.selection = usecase.Selection{MarkerID: id}
	s.viewport = entity.Viewport{CenterLat: marker.Latitude, CenterLon: marker.Longitude}
	s.mu.Unlock()

	s.notify()

	return nil
}

// ClearSelection drops both selection kinds
func (s *PlanStore) ClearSelection() {
	s.mu.Lock()
	s.selection = usecase.Selection{}
	s.mu.Unlock()

	s.notify()
}

// Selection returns the current selection state
func (s *PlanStore) Selection() usecase.Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.selection
}

// ToggleAddingMarker flips marker placement mode and returns the new value
func (s *PlanStore) ToggleAddingMarker() bool {
	s.mu.Lock()
	s.addingMarker = !s.addingMarker
	value := s.addingMarker
	s.mu.Unlock()

	s.notify()

	return value
}

// AddingMarker returns whether marker placement mode is active
func (s *PlanStore) AddingMarker() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.addingMarker
}

// Viewport returns the current map camera state
func (s *PlanStore) Viewport() entity.Viewport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.viewport
}

// ClearAll resets every collection, the selection, and the capture
func (s *PlanStore) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	s.location = nil
	s.services = nil
	s.markers = nil
	s.routes = nil
	s.selection = usecase.Selection{}
	s.addingMarker = false
	s.mu.Unlock()

	s.capture.ClearCapture()

	if s.locationRepo != nil {
		if err := s.locationRepo.ClearProjectLocation(ctx); err != nil {
			s.logger.Warn("project location not cleared from storage", slog.Any("error", err))
		}
	}
	if s.markerRepo != nil {
		if err := s.markerRepo.DeleteAllMarkers(ctx); err != nil {
			s.logger.Warn("markers not cleared from storage", slog.Any("error", err))
		}
	}

	s.notify()

	return nil
}

// ClearRoutes empties only the route collection and drops the capture
func (s *PlanStore) ClearRoutes(ctx context.Context) {
	s.mu.Lock()
	s.routes = nil
	s.mu.Unlock()

	s.capture.ClearCapture()
	s.notify()
}

// Routes returns the current route collection
func (s *PlanStore) Routes() []*entity.Route {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entity.Route, len(s.routes))
	copy(out, s.routes)

	return out
}

// UpsertRoute inserts a route, replacing any existing route with the same source
func (s *PlanStore) UpsertRoute(route *entity.Route) {
	s.mu.Lock()
	kept := s.routes[:0]
	for _, r := range s.routes {
		if r.FromID == route.FromID {
			continue
		}
		kept = append(kept, r)
	}
	s.routes = append(kept, route)
	s.mu.Unlock()

	s.notify()
}

// DeleteRoutesBySource removes every route originating from the given entity
func (s *PlanStore) DeleteRoutesBySource(fromID string) {
	s.mu.Lock()
	kept := s.routes[:0]
	for _, r := range s.routes {
		if r.FromID == fromID {
			continue
		}
		kept = append(kept, r)
	}
	s.routes = kept
	s.mu.Unlock()

	s.notify()
}

// ClearRouteCollection empties the route collection without touching the capture
func (s *PlanStore) ClearRouteCollection() {
	s.mu.Lock()
	s.routes = nil
	s.mu.Unlock()

	s.notify()
}

// SetRoadDistance records the routed distance on a service entry and re-sorts
func (s *PlanStore) SetRoadDistance(serviceID string, distanceKm float64) {
	s.mu.Lock()
	svc, ok := s.serviceByIDLocked(serviceID)
	if !ok {
		s.mu.Unlock()

		return
	}
	d := distanceKm
	svc.RoadDistanceKm = &d
	s.sortServicesLocked()
	s.mu.Unlock()

	s.notify()
}

// Hydrate loads the persisted subset (markers and project location) at startup
func (s *PlanStore) Hydrate(ctx context.Context) error {
	var markers []*entity.CustomMarker
	if s.markerRepo != nil {
		loaded, err := s.markerRepo.ListMarkers(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to load markers")
		}
		markers = loaded
	}

	var location *entity.ProjectLocation
	if s.locationRepo != nil {
		loaded, err := s.locationRepo.LoadProjectLocation(ctx)
		switch {
		case err == nil:
			location = loaded
		case errors.Is(err, repository.ErrProjectLocationNotFound):
			// Fresh install, nothing to restore.
		default:
			return errors.Wrap(err, "failed to load project location")
		}
	}

	s.mu.Lock()
	s.markers = markers
	s.location = location
	if location != nil {
		s.viewport = entity.Viewport{CenterLat: location.Latitude, CenterLon: location.Longitude}
	}
	s.mu.Unlock()

	s.logger.Info("plan store hydrated",
		slog.Int("markers", len(markers)),
		slog.Bool("has_location", location != nil))
	s.notify()

	return nil
}

// recomputeStraightLineDistancesLocked refreshes DistanceKm on every service
// against the current project location.
func (s *PlanStore) recomputeStraightLineDistancesLocked() {
	for _, svc := range s.services {
		if s.location == nil {
			svc.DistanceKm = nil

			continue
		}
		d := geo.Distance(s.location.Point(), svc.Point())
		svc.DistanceKm = &d
	}
}

// sortServicesLocked orders ER-confirmed hospitals first, then everything by
// ascending routed distance with unrouted entries last.
func (s *PlanStore) sortServicesLocked() {
	sort.SliceStable(s.services, func(i, j int) bool {
		a, b := s.services[i], s.services[j]
		aER, bER := a.HasConfirmedER(), b.HasConfirmedER()
		if aER != bER {
			return aER
		}

		return roadDistanceOrInf(a) < roadDistanceOrInf(b)
	})
}

func roadDistanceOrInf(svc *entity.EmergencyService) float64 {
	if svc.RoadDistanceKm == nil {
		return math.Inf(1)
	}

	return *svc.RoadDistanceKm
}

// Persistence is best effort: the in-memory state is authoritative for the
// session and a storage failure must not block the planning flow.
func (s *PlanStore) persistLocation(ctx context.Context, location *entity.ProjectLocation) {
	if s.locationRepo == nil {
		return
	}
	if err := s.locationRepo.SaveProjectLocation(ctx, location); err != nil {
		s.logger.Warn("project location not persisted", slog.Any("error", err))
	}
}

func (s *PlanStore) persistMarker(ctx context.Context, marker *entity.CustomMarker) {
	if s.markerRepo == nil {
		return
	}
	if err := s.markerRepo.SaveMarker(ctx, marker); err != nil {
		s.logger.Warn("marker not persisted", slog.String("marker_id", marker.ID.String()), slog.Any("error", err))
	}
}

func copyMetadata(metadata map[string]string) map[string]string {
	if metadata == nil {
		return nil
	}

	out := make(map[string]string, len(metadata))
	for k, v := range metadata {
		out[k] = v
	}

	return out
}
