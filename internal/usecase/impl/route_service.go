package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"planner/config"
	domainErrors "planner/internal/domain/errors"
	"planner/internal/domain/entity"
	"planner/internal/domain/service"
	"planner/internal/errors"
	"planner/internal/infra/geo"
	"planner/internal/usecase"
	"planner/internal/util"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"go.uber.org/fx"
)

// fallback defaults to keep routing functional when config is missing/invalid
const (
	defaultFallbackSpeedKmh       = 50.0
	defaultFallbackInteriorPoints = 3
)

// RouteServiceParams defines the dependencies of the route service
type RouteServiceParams struct {
	fx.In

	Config   *config.Config
	Logger   *slog.Logger
	Store    usecase.RouteStore
	Provider service.RouteProvider
	Capture  usecase.CaptureUsecase
}

type routeService struct {
	store    usecase.RouteStore
	provider service.RouteProvider
	capture  usecase.CaptureUsecase
	logger   *slog.Logger

	fallbackSpeedKmh       float64
	fallbackInteriorPoints int

	// Per-source monotonic tokens fence concurrent recomputations: only the
	// latest request for a source may commit its route.
	tokenMu sync.Mutex
	tokens  map[string]uint64
}

// NewRouteService creates a new route service instance
func NewRouteService(params RouteServiceParams) usecase.RoutingUsecase {
	speedKmh := defaultFallbackSpeedKmh
	interior := defaultFallbackInteriorPoints
	if params.Config != nil && params.Config.Routing != nil {
		if params.Config.Routing.FallbackSpeedKmh > 0 {
			speedKmh = params.Config.Routing.FallbackSpeedKmh
		}
		if params.Config.Routing.FallbackInteriorPoints > 0 {
			interior = params.Config.Routing.FallbackInteriorPoints
		}
	}

	logger := params.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &routeService{
		store:                  params.Store,
		provider:               params.Provider,
		capture:                params.Capture,
		logger:                 logger,
		fallbackSpeedKmh:       speedKmh,
		fallbackInteriorPoints: interior,
		tokens:                 make(map[string]uint64),
	}
}

// CalculateRoute computes a route from a marker or service to a facility, or
// to the project location when no facility is given. A provider failure
// degrades to a synthesized straight-line route rather than an error.
func (s *routeService) CalculateRoute(ctx context.Context, input *usecase.CalculateRouteInput) (*usecase.RouteOutcome, error) {
	origin, fromIsService, err := s.resolveSource(input.FromID)
	if err != nil {
		return nil, err
	}

	var destination orb.Point
	var toID string
	if input.ToFacilityID == "" {
		location := s.store.ProjectLocation()
		if location == nil {
			return nil, domainErrors.ErrProjectLocationMissing
		}
		destination = location.Point()
	} else {
		facility, ok := s.store.ServiceByID(input.ToFacilityID)
		if !ok {
			return nil, domainErrors.ErrDestinationNotFound
		}
		effective := s.resolveRedirect(facility)
		destination = effective.Point()
		toID = effective.ID
	}

	token := s.issueToken(input.FromID)

	// The stale route disappears before the provider round trip so readers
	// never see an old path for a source being recomputed.
	s.store.DeleteRoutesBySource(input.FromID)
	s.capture.MarkStale()

	route, degraded := s.fetchOrSynthesize(ctx, input.FromID, toID, origin, destination)

	if !s.isLatest(input.FromID, token) {
		s.logger.Debug("route superseded by a newer request", slog.String("from_id", input.FromID))

		return &usecase.RouteOutcome{Route: route, Degraded: degraded, Superseded: true}, nil
	}

	s.store.UpsertRoute(route)
	if fromIsService && toID == "" {
		s.store.SetRoadDistance(input.FromID, route.DistanceKm)
	}

	s.logger.Info("route computed",
		slog.String("from_id", input.FromID),
		slog.String("to_id", toID),
		slog.String("distance", util.FormatDistance(route.DistanceKm)),
		slog.Bool("degraded", degraded))

	return &usecase.RouteOutcome{Route: route, Degraded: degraded}, nil
}

// resolveSource maps a source id to coordinates: markers take precedence,
// then services.
func (s *routeService) resolveSource(fromID string) (orb.Point, bool, error) {
	if markerID, err := uuid.Parse(fromID); err == nil {
		if marker, ok := s.store.MarkerByID(markerID); ok {
			return marker.Point(), false, nil
		}
	}

	if svc, ok := s.store.ServiceByID(fromID); ok {
		return svc.Point(), true, nil
	}

	return orb.Point{}, false, domainErrors.ErrSourceNotFound
}

// resolveRedirect walks a hospital's redirect chain to the first facility
// that does not itself need a redirect. A broken or cyclic chain falls back
// to the original facility.
func (s *routeService) resolveRedirect(facility *entity.EmergencyService) *entity.EmergencyService {
	if !facility.NeedsRedirect() {
		return facility
	}

	visited := map[string]struct{}{facility.ID: {}}
	current := facility
	for current.NeedsRedirect() {
		next, ok := s.store.ServiceByID(current.RedirectHospitalID)
		if !ok {
			s.logger.Warn("redirect target unknown, routing to original facility",
				slog.String("facility_id", facility.ID),
				slog.String("redirect_id", current.RedirectHospitalID))

			return facility
		}
		if _, seen := visited[next.ID]; seen {
			s.logger.Warn("redirect cycle detected, routing to original facility",
				slog.String("facility_id", facility.ID))

			return facility
		}
		visited[next.ID] = struct{}{}
		current = next
	}

	return current
}

func (s *routeService) fetchOrSynthesize(ctx context.Context, fromID, toID string, origin, destination orb.Point) (*entity.Route, bool) {
	path, err := s.provider.FetchRoutePath(ctx, origin, destination)
	now := time.Now()
	if err != nil {
		s.logger.Warn("route provider failed, synthesizing straight-line fallback",
			slog.String("from_id", fromID), slog.Any("error", err))

		return s.synthesizeFallback(fromID, toID, origin, destination, now), true
	}

	return &entity.Route{
		ID:          entity.NewRouteID(now),
		Points:      path.Points,
		FromID:      fromID,
		ToID:        toID,
		DistanceKm:  path.DistanceKm,
		DurationMin: path.DurationMin,
		Steps:       path.Steps,
		CreatedAt:   now,
	}, false
}

// synthesizeFallback builds a straight-line route with an estimated duration
// from the configured fallback speed.
func (s *routeService) synthesizeFallback(fromID, toID string, origin, destination orb.Point, now time.Time) *entity.Route {
	distanceKm := geo.Distance(origin, destination)

	return &entity.Route{
		ID:          entity.NewRouteID(now),
		Points:      geo.StraightLinePath(origin, destination, s.fallbackInteriorPoints),
		FromID:      fromID,
		ToID:        toID,
		DistanceKm:  distanceKm,
		DurationMin: distanceKm / s.fallbackSpeedKmh * 60,
		Degraded:    true,
		CreatedAt:   now,
	}
}

// CalculateRoutesForAllHospitals routes every hospital to the project
// location sequentially. Hospitals whose provider call fails are skipped; the
// whole operation fails only when no route could be computed at all.
func (s *routeService) CalculateRoutesForAllHospitals(ctx context.Context) (*usecase.BulkRouteOutcome, error) {
	location := s.store.ProjectLocation()
	if location == nil {
		return nil, domainErrors.ErrProjectLocationMissing
	}

	services := s.store.EmergencyServices()
	if len(services) == 0 {
		return nil, domainErrors.ErrNoServicesLoaded
	}

	hospitals := make([]*entity.EmergencyService, 0, len(services))
	for _, svc := range services {
		if svc.Category == entity.CategoryHospital {
			hospitals = append(hospitals, svc)
		}
	}

	s.store.ClearRouteCollection()
	s.capture.MarkStale()

	outcome := &usecase.BulkRouteOutcome{Requested: len(hospitals)}
	for _, hospital := range hospitals {
		if ctx.Err() != nil {
			return nil, errors.Wrap(ctx.Err(), "bulk routing canceled")
		}

		effective := s.resolveRedirect(hospital)
		path, err := s.provider.FetchRoutePath(ctx, effective.Point(), location.Point())
		if err != nil {
			outcome.Skipped++
			s.logger.Warn("hospital skipped, route provider failed",
				slog.String("hospital_id", hospital.ID), slog.Any("error", err))

			continue
		}

		now := time.Now()
		s.store.UpsertRoute(&entity.Route{
			ID:          entity.NewRouteID(now),
			Points:      path.Points,
			FromID:      hospital.ID,
			DistanceKm:  path.DistanceKm,
			DurationMin: path.DurationMin,
			Steps:       path.Steps,
			CreatedAt:   now,
		})
		s.store.SetRoadDistance(hospital.ID, path.DistanceKm)
		outcome.Succeeded++
	}

	if outcome.Succeeded == 0 {
		return nil, domainErrors.ErrNoRoutesComputed
	}

	s.logger.Info("bulk routing finished",
		slog.Int("requested", outcome.Requested),
		slog.Int("succeeded", outcome.Succeeded),
		slog.Int("skipped", outcome.Skipped))

	return outcome, nil
}

func (s *routeService) issueToken(fromID string) uint64 {
	s.tokenMu.Lock()
	defer s.tokenMu.Unlock()

	s.tokens[fromID]++

	return s.tokens[fromID]
}

func (s *routeService) isLatest(fromID string, token uint64) bool {
	s.tokenMu.Lock()
	defer s.tokenMu.Unlock()

	return s.tokens[fromID] == token
}
