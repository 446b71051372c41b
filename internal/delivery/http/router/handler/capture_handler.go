package handler

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"time"

	"planner/internal/delivery/http/response"
	domainErrors "planner/internal/domain/errors"
	"planner/internal/usecase"
	"planner/internal/util"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// CaptureHandlerParams holds dependencies for CaptureHandler, injected by Fx.
type CaptureHandlerParams struct {
	fx.In

	CaptureUC usecase.CaptureUsecase
	PlanUC    usecase.PlanUsecase
	Logger    *slog.Logger
}

// CaptureHandler exposes the map-capture tracker.
type CaptureHandler struct {
	captureUC usecase.CaptureUsecase
	planUC    usecase.PlanUsecase
	logger    *slog.Logger
}

// NewCaptureHandler is the constructor for CaptureHandler.
func NewCaptureHandler(params CaptureHandlerParams) *CaptureHandler {
	return &CaptureHandler{
		captureUC: params.CaptureUC,
		planUC:    params.PlanUC,
		logger:    params.Logger,
	}
}

// SetCaptureRequest represents the request body for a new capture.
type SetCaptureRequest struct {
	// Image is the base64-encoded PNG snapshot.
	Image string `json:"image" validate:"required"`
}

// CaptureStatusResponse represents the staleness state of the capture.
type CaptureStatusResponse struct {
	HasCapture     bool       `json:"has_capture"`
	CapturedAt     *time.Time `json:"captured_at,omitempty"`
	Checksum       string     `json:"checksum,omitempty"`
	Stale          bool       `json:"stale"`
	OutOfSync      bool       `json:"out_of_sync"`
	NeedsRecapture bool       `json:"needs_recapture"`
}

// SetCapture handles POST /api/capture.
func (h *CaptureHandler) SetCapture(c echo.Context) error {
	var req SetCaptureRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid capture input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	image, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		return response.BadRequest(c, "INVALID_IMAGE", "Image must be base64 encoded")
	}

	capture := h.captureUC.SetCapturedImage(image)
	h.captureUC.NotifyRouteAdded(h.currentRouteIDs())

	h.logger.Info("capture stored",
		slog.String("size", util.FormatBytes(int64(len(image)))),
		slog.String("checksum", capture.Checksum))

	return response.Success(c, http.StatusOK, CaptureStatusResponse{
		HasCapture: true,
		CapturedAt: capture.CapturedAt,
		Checksum:   capture.Checksum,
	}, "Capture stored")
}

// GetCapture handles GET /api/capture and returns the PNG image.
func (h *CaptureHandler) GetCapture(c echo.Context) error {
	capture := h.captureUC.Capture()
	if capture == nil {
		return domainErrors.ErrNoCapture
	}

	return c.Blob(http.StatusOK, "image/png", capture.Image)
}

// GetCaptureStatus handles GET /api/capture/status.
func (h *CaptureHandler) GetCaptureStatus(c echo.Context) error {
	routeIDs := h.currentRouteIDs()
	capture := h.captureUC.Capture()

	status := CaptureStatusResponse{
		HasCapture:     capture != nil,
		Stale:          h.captureUC.Stale(),
		OutOfSync:      h.captureUC.IsOutOfSync(routeIDs),
		NeedsRecapture: h.captureUC.NeedsRecapture(routeIDs),
	}
	if capture != nil {
		status.CapturedAt = capture.CapturedAt
		status.Checksum = capture.Checksum
	}

	return response.Success(c, http.StatusOK, status, "")
}

// ClearCapture handles DELETE /api/capture.
func (h *CaptureHandler) ClearCapture(c echo.Context) error {
	h.captureUC.ClearCapture()

	return response.Success(c, http.StatusOK, nil, "Capture cleared")
}

func (h *CaptureHandler) currentRouteIDs() []string {
	routes := h.planUC.Routes()
	ids := make([]string, 0, len(routes))
	for _, r := range routes {
		ids = append(ids, r.ID)
	}

	return ids
}
