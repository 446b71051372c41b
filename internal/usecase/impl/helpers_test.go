package impl

import (
	"context"
	"sync"

	"planner/config"
	"planner/internal/domain/entity"
	"planner/internal/domain/repository"
	"planner/internal/domain/service"
	"planner/internal/usecase"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// fakeMarkerRepo is an in-memory MarkerRepository.
type fakeMarkerRepo struct {
	mu      sync.Mutex
	markers map[uuid.UUID]*entity.CustomMarker
	saveErr error
}

func newFakeMarkerRepo() *fakeMarkerRepo {
	return &fakeMarkerRepo{markers: make(map[uuid.UUID]*entity.CustomMarker)}
}

func (r *fakeMarkerRepo) SaveMarker(_ context.Context, marker *entity.CustomMarker) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.saveErr != nil {
		return r.saveErr
	}
	r.markers[marker.ID] = marker

	return nil
}

func (r *fakeMarkerRepo) DeleteMarker(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.markers[id]; !ok {
		return repository.ErrMarkerNotFound
	}
	delete(r.markers, id)

	return nil
}

func (r *fakeMarkerRepo) ListMarkers(_ context.Context) ([]*entity.CustomMarker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*entity.CustomMarker, 0, len(r.markers))
	for _, m := range r.markers {
		out = append(out, m)
	}

	return out, nil
}

func (r *fakeMarkerRepo) DeleteAllMarkers(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.markers = make(map[uuid.UUID]*entity.CustomMarker)

	return nil
}

// fakeLocationRepo is an in-memory ProjectLocationRepository.
type fakeLocationRepo struct {
	mu       sync.Mutex
	location *entity.ProjectLocation
}

func (r *fakeLocationRepo) SaveProjectLocation(_ context.Context, location *entity.ProjectLocation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.location = location

	return nil
}

func (r *fakeLocationRepo) LoadProjectLocation(_ context.Context) (*entity.ProjectLocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.location == nil {
		return nil, repository.ErrProjectLocationNotFound
	}

	return r.location, nil
}

func (r *fakeLocationRepo) ClearProjectLocation(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.location = nil

	return nil
}

// fakeVerificationRepo is an in-memory VerificationRepository keeping the
// latest record per service id.
type fakeVerificationRepo struct {
	mu      sync.Mutex
	latest  map[string]*entity.ServiceVerification
	findErr error
}

func newFakeVerificationRepo() *fakeVerificationRepo {
	return &fakeVerificationRepo{latest: make(map[string]*entity.ServiceVerification)}
}

func (r *fakeVerificationRepo) SaveVerification(_ context.Context, verification *entity.ServiceVerification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.latest[verification.ServiceID] = verification

	return nil
}

func (r *fakeVerificationRepo) FindLatestByServiceIDs(_ context.Context, serviceIDs []string) ([]*entity.ServiceVerification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findErr != nil {
		return nil, r.findErr
	}

	out := make([]*entity.ServiceVerification, 0, len(serviceIDs))
	for _, id := range serviceIDs {
		if rec, ok := r.latest[id]; ok {
			out = append(out, rec)
		}
	}

	return out, nil
}

// fakeNearbyProvider returns a scripted result set.
type fakeNearbyProvider struct {
	services []*entity.EmergencyService
	err      error

	lastLat    float64
	lastLon    float64
	lastRadius float64
}

func (p *fakeNearbyProvider) FetchNearby(_ context.Context, lat, lon, radiusKm float64, _ []entity.Category) ([]*entity.EmergencyService, error) {
	p.lastLat, p.lastLon, p.lastRadius = lat, lon, radiusKm

	if p.err != nil {
		return nil, p.err
	}

	return p.services, nil
}

// fakeRouteProvider scripts per-call outcomes. failFor origins (by rounded
// identity of the origin point) or a global err control failures; calls
// records every origin/destination pair in order.
type fakeRouteProvider struct {
	mu    sync.Mutex
	err   error
	calls []fakeRouteCall

	// failOrigins makes only calls from these origin points fail.
	failOrigins map[orb.Point]error

	// onCall, when set, runs before each call completes. Tests use it to
	// interleave concurrent requests deterministically.
	onCall func(origin, destination orb.Point)
}

type fakeRouteCall struct {
	origin      orb.Point
	destination orb.Point
}

func (p *fakeRouteProvider) FetchRoutePath(_ context.Context, origin, destination orb.Point) (*service.RoutePath, error) {
	p.mu.Lock()
	p.calls = append(p.calls, fakeRouteCall{origin: origin, destination: destination})
	onCall := p.onCall
	err := p.err
	if err == nil && p.failOrigins != nil {
		err = p.failOrigins[origin]
	}
	p.mu.Unlock()

	if onCall != nil {
		onCall(origin, destination)
	}
	if err != nil {
		return nil, err
	}

	return &service.RoutePath{
		Points:      orb.LineString{origin, destination},
		DistanceKm:  12.5,
		DurationMin: 18,
		Steps: []entity.RouteStep{
			{Instruction: "Head north on <b>Main St</b>", DistanceM: 500},
		},
	}, nil
}

func (p *fakeRouteProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.calls)
}

func newTestStore(markerRepo repository.MarkerRepository, locationRepo repository.ProjectLocationRepository, verificationRepo repository.VerificationRepository, nearby service.NearbyProvider, capture usecase.CaptureUsecase) *PlanStore {
	if capture == nil {
		capture = NewCaptureService()
	}

	return NewPlanStore(PlanStoreParams{
		Config:           &config.Config{},
		MarkerRepo:       markerRepo,
		LocationRepo:     locationRepo,
		VerificationRepo: verificationRepo,
		Nearby:           nearby,
		Capture:          capture,
	})
}

func newTestRouteService(store usecase.RouteStore, provider service.RouteProvider, capture usecase.CaptureUsecase) usecase.RoutingUsecase {
	if capture == nil {
		capture = NewCaptureService()
	}

	return NewRouteService(RouteServiceParams{
		Config:   &config.Config{},
		Store:    store,
		Provider: provider,
		Capture:  capture,
	})
}

func hospital(id, name string, lat, lon float64) *entity.EmergencyService {
	return &entity.EmergencyService{
		ID:        id,
		Name:      name,
		Type:      "Hospital",
		Latitude:  lat,
		Longitude: lon,
	}
}
