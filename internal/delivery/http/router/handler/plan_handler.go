package handler

import (
	"log/slog"
	"net/http"

	"planner/internal/delivery/http/response"
	domainErrors "planner/internal/domain/errors"
	"planner/internal/domain/entity"
	"planner/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// PlanHandlerParams holds dependencies for PlanHandler, injected by Fx.
type PlanHandlerParams struct {
	fx.In

	PlanUC usecase.PlanUsecase
	Logger *slog.Logger
}

// PlanHandler exposes the entity store: project location, services, markers,
// verification, selection, and resets.
type PlanHandler struct {
	planUC usecase.PlanUsecase
	logger *slog.Logger
}

// NewPlanHandler is the constructor for PlanHandler.
func NewPlanHandler(params PlanHandlerParams) *PlanHandler {
	return &PlanHandler{
		planUC: params.PlanUC,
		logger: params.Logger,
	}
}

// SetProjectLocationRequest represents the request body for a new project location.
type SetProjectLocationRequest struct {
	Latitude  float64           `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64           `json:"longitude" validate:"min=-180,max=180"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// SetProjectLocation handles PUT /api/project-location.
func (h *PlanHandler) SetProjectLocation(c echo.Context) error {
	var req SetProjectLocationRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid project location input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	location, err := h.planUC.SetProjectLocation(c.Request().Context(), &usecase.SetProjectLocationInput{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Metadata:  req.Metadata,
	})
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, location, "Project location set")
}

// GetProjectLocation handles GET /api/project-location.
func (h *PlanHandler) GetProjectLocation(c echo.Context) error {
	location := h.planUC.ProjectLocation()
	if location == nil {
		return response.NotFound(c, "NO_PROJECT_LOCATION", "No project location is set")
	}

	return response.Success(c, http.StatusOK, location, "")
}

// SearchServicesRequest represents the request body for a nearby search.
type SearchServicesRequest struct {
	Latitude           float64  `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude          float64  `json:"longitude" validate:"omitempty,min=-180,max=180"`
	UseProjectLocation bool     `json:"use_project_location"`
	RadiusKm           float64  `json:"radius_km" validate:"omitempty,gt=0"`
	Kinds              []string `json:"kinds,omitempty"`
}

// SearchServices handles POST /api/services/search.
func (h *PlanHandler) SearchServices(c echo.Context) error {
	var req SearchServicesRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid search input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	kinds := make([]entity.Category, 0, len(req.Kinds))
	for _, kind := range req.Kinds {
		kinds = append(kinds, entity.Classify(kind))
	}

	services, err := h.planUC.SearchNearbyServices(c.Request().Context(), &usecase.NearbySearchInput{
		Latitude:           req.Latitude,
		Longitude:          req.Longitude,
		UseProjectLocation: req.UseProjectLocation,
		RadiusKm:           req.RadiusKm,
		Kinds:              kinds,
	})
	if err != nil {
		return err
	}

	h.logger.Info("nearby search finished", slog.Int("services", len(services)))

	return response.Success(c, http.StatusOK, services, "Search finished")
}

// ListServices handles GET /api/services.
func (h *PlanHandler) ListServices(c echo.Context) error {
	return response.Success(c, http.StatusOK, h.planUC.EmergencyServices(), "")
}

// VerifyServiceRequest represents the request body for an ER verification.
type VerifyServiceRequest struct {
	HasEmergencyRoom   bool   `json:"has_emergency_room"`
	Comments           string `json:"comments,omitempty"`
	RedirectHospitalID string `json:"redirect_hospital_id,omitempty"`
}

// VerifyService handles POST /api/services/:id/verification.
func (h *PlanHandler) VerifyService(c echo.Context) error {
	var req VerifyServiceRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid verification input")
	}

	svc, err := h.planUC.RecordVerification(c.Request().Context(), &usecase.VerifyServiceInput{
		ServiceID:          c.Param("id"),
		HasEmergencyRoom:   req.HasEmergencyRoom,
		Comments:           req.Comments,
		RedirectHospitalID: req.RedirectHospitalID,
	})
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, svc, "Verification recorded")
}

// CreateMarkerRequest represents the request body for a new marker.
type CreateMarkerRequest struct {
	Name      string            `json:"name" validate:"required"`
	Latitude  float64           `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64           `json:"longitude" validate:"min=-180,max=180"`
	Color     string            `json:"color,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// CreateMarker handles POST /api/markers.
func (h *PlanHandler) CreateMarker(c echo.Context) error {
	var req CreateMarkerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid marker input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	marker, err := h.planUC.AddCustomMarker(c.Request().Context(), &usecase.AddMarkerInput{
		Name:      req.Name,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Color:     req.Color,
		Metadata:  req.Metadata,
	})
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusCreated, marker, "Marker created")
}

// UpdateMarkerRequest represents the request body for a partial marker update.
type UpdateMarkerRequest struct {
	Name      *string  `json:"name,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
	Color     *string  `json:"color,omitempty"`
}

// UpdateMarker handles PATCH /api/markers/:id.
func (h *PlanHandler) UpdateMarker(c echo.Context) error {
	markerID, err := h.markerID(c)
	if err != nil {
		return err
	}

	var req UpdateMarkerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid marker input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	marker, err := h.planUC.UpdateCustomMarker(c.Request().Context(), markerID, &usecase.UpdateMarkerInput{
		Name:      req.Name,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Color:     req.Color,
	})
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, marker, "Marker updated")
}

// DeleteMarker handles DELETE /api/markers/:id.
func (h *PlanHandler) DeleteMarker(c echo.Context) error {
	markerID, err := h.markerID(c)
	if err != nil {
		return err
	}

	if err := h.planUC.DeleteCustomMarker(c.Request().Context(), markerID); err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, nil, "Marker deleted")
}

// ListMarkers handles GET /api/markers.
func (h *PlanHandler) ListMarkers(c echo.Context) error {
	return response.Success(c, http.StatusOK, h.planUC.CustomMarkers(), "")
}

// TogglePlacement handles POST /api/markers/placement/toggle.
func (h *PlanHandler) TogglePlacement(c echo.Context) error {
	adding := h.planUC.ToggleAddingMarker()

	return response.Success(c, http.StatusOK, map[string]bool{"adding_marker": adding}, "")
}

// SelectService handles POST /api/selection/service/:id.
func (h *PlanHandler) SelectService(c echo.Context) error {
	if err := h.planUC.SelectService(c.Param("id")); err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, h.planUC.Selection(), "Service selected")
}

// SelectMarker handles POST /api/selection/marker/:id.
func (h *PlanHandler) SelectMarker(c echo.Context) error {
	markerID, err := h.markerID(c)
	if err != nil {
		return err
	}

	if err := h.planUC.SelectMarker(markerID); err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, h.planUC.Selection(), "Marker selected")
}

// ClearSelection handles DELETE /api/selection.
func (h *PlanHandler) ClearSelection(c echo.Context) error {
	h.planUC.ClearSelection()

	return response.Success(c, http.StatusOK, nil, "Selection cleared")
}

// GetViewport handles GET /api/viewport.
func (h *PlanHandler) GetViewport(c echo.Context) error {
	return response.Success(c, http.StatusOK, h.planUC.Viewport(), "")
}

// ClearAll handles DELETE /api/plan.
func (h *PlanHandler) ClearAll(c echo.Context) error {
	if err := h.planUC.ClearAll(c.Request().Context()); err != nil {
		return err
	}

	h.logger.Info("plan reset")

	return response.Success(c, http.StatusOK, nil, "Plan cleared")
}

func (h *PlanHandler) markerID(c echo.Context) (uuid.UUID, error) {
	markerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, domainErrors.ErrMarkerNotFound.WithDetails("marker id must be a UUID")
	}

	return markerID, nil
}
