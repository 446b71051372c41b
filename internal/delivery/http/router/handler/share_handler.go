package handler

import (
	"net/http"

	"planner/internal/delivery/http/response"
	"planner/internal/domain/service"
	"planner/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// ShareHandlerParams holds dependencies for ShareHandler, injected by Fx.
type ShareHandlerParams struct {
	fx.In

	QRCodeSvc service.QRCodeService
	PlanUC    usecase.PlanUsecase
}

// ShareHandler renders share links as QR codes for printed reports.
type ShareHandler struct {
	qrcodeSvc service.QRCodeService
	planUC    usecase.PlanUsecase
}

// NewShareHandler is the constructor for ShareHandler.
func NewShareHandler(params ShareHandlerParams) *ShareHandler {
	return &ShareHandler{
		qrcodeSvc: params.QRCodeSvc,
		planUC:    params.PlanUC,
	}
}

// LinkQR handles GET /api/share/qr. The link query parameter overrides the
// default, which is a maps link to the selected service.
func (h *ShareHandler) LinkQR(c echo.Context) error {
	link := c.QueryParam("link")
	if link == "" {
		link = h.selectedServiceLink()
	}
	if link == "" {
		return response.BadRequest(c, "NO_LINK", "Provide a link or select a service first")
	}

	png, err := h.qrcodeSvc.GenerateLinkQR(link)
	if err != nil {
		return err
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

func (h *ShareHandler) selectedServiceLink() string {
	selection := h.planUC.Selection()
	if selection.ServiceID == "" {
		return ""
	}

	for _, svc := range h.planUC.EmergencyServices() {
		if svc.ID == selection.ServiceID {
			return svc.MapsLink()
		}
	}

	return ""
}
