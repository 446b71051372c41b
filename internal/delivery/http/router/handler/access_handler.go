package handler

import (
	"net/http"

	"planner/internal/delivery/http/response"
	"planner/internal/domain/service"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AccessHandlerParams holds dependencies for AccessHandler, injected by Fx.
type AccessHandlerParams struct {
	fx.In

	AccessSvc service.AccessService
}

// AccessHandler exchanges the shared access code for a session token.
type AccessHandler struct {
	accessSvc service.AccessService
}

// NewAccessHandler is the constructor for AccessHandler.
func NewAccessHandler(params AccessHandlerParams) *AccessHandler {
	return &AccessHandler{accessSvc: params.AccessSvc}
}

// AuthenticateRequest represents the access request body.
type AuthenticateRequest struct {
	Code string `json:"code" validate:"required"`
}

// Authenticate handles POST /auth/access.
func (h *AccessHandler) Authenticate(c echo.Context) error {
	var req AuthenticateRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid access input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, err := h.accessSvc.Authenticate(req.Code)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, map[string]string{"token": token}, "Access granted")
}
