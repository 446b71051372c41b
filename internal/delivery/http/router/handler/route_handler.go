package handler

import (
	"log/slog"
	"net/http"

	"planner/internal/delivery/http/response"
	"planner/internal/usecase"
	"planner/internal/util"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// RouteHandlerParams holds dependencies for RouteHandler, injected by Fx.
type RouteHandlerParams struct {
	fx.In

	RoutingUC usecase.RoutingUsecase
	PlanUC    usecase.PlanUsecase
	Logger    *slog.Logger
}

// RouteHandler exposes route computation and the route collection.
type RouteHandler struct {
	routingUC usecase.RoutingUsecase
	planUC    usecase.PlanUsecase
	logger    *slog.Logger
}

// NewRouteHandler is the constructor for RouteHandler.
func NewRouteHandler(params RouteHandlerParams) *RouteHandler {
	return &RouteHandler{
		routingUC: params.RoutingUC,
		planUC:    params.PlanUC,
		logger:    params.Logger,
	}
}

// CalculateRouteRequest represents the request body for a routing request.
type CalculateRouteRequest struct {
	FromID       string `json:"from_id" validate:"required"`
	ToFacilityID string `json:"to_facility_id,omitempty"`
}

// CalculateRouteResponse represents a routing result.
type CalculateRouteResponse struct {
	Route      any    `json:"route"`
	Distance   string `json:"distance"`
	Degraded   bool   `json:"degraded"`
	Superseded bool   `json:"superseded"`
}

// CalculateRoute handles POST /api/routes.
func (h *RouteHandler) CalculateRoute(c echo.Context) error {
	var req CalculateRouteRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid routing input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	outcome, err := h.routingUC.CalculateRoute(c.Request().Context(), &usecase.CalculateRouteInput{
		FromID:       req.FromID,
		ToFacilityID: req.ToFacilityID,
	})
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, CalculateRouteResponse{
		Route:      outcome.Route,
		Distance:   util.FormatDistance(outcome.Route.DistanceKm),
		Degraded:   outcome.Degraded,
		Superseded: outcome.Superseded,
	}, "Route computed")
}

// CalculateHospitalRoutes handles POST /api/routes/hospitals.
func (h *RouteHandler) CalculateHospitalRoutes(c echo.Context) error {
	outcome, err := h.routingUC.CalculateRoutesForAllHospitals(c.Request().Context())
	if err != nil {
		return err
	}

	h.logger.Info("bulk hospital routing requested",
		slog.Int("requested", outcome.Requested),
		slog.Int("skipped", outcome.Skipped))

	return response.Success(c, http.StatusOK, outcome, "Hospital routes computed")
}

// ListRoutes handles GET /api/routes.
func (h *RouteHandler) ListRoutes(c echo.Context) error {
	return response.Success(c, http.StatusOK, h.planUC.Routes(), "")
}

// ClearRoutes handles DELETE /api/routes.
func (h *RouteHandler) ClearRoutes(c echo.Context) error {
	h.planUC.ClearRoutes(c.Request().Context())

	return response.Success(c, http.StatusOK, nil, "Routes cleared")
}
