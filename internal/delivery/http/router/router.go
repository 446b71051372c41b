// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"planner/internal/delivery/http/middleware"
	"planner/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AccessHandler  *handler.AccessHandler
	PlanHandler    *handler.PlanHandler
	RouteHandler   *handler.RouteHandler
	CaptureHandler *handler.CaptureHandler
	ShareHandler   *handler.ShareHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	accessHandler  *handler.AccessHandler
	planHandler    *handler.PlanHandler
	routeHandler   *handler.RouteHandler
	captureHandler *handler.CaptureHandler
	shareHandler   *handler.ShareHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		accessHandler:  params.AccessHandler,
		planHandler:    params.PlanHandler,
		routeHandler:   params.RouteHandler,
		captureHandler: params.CaptureHandler,
		shareHandler:   params.ShareHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Access gate
	e.POST("/auth/access", r.accessHandler.Authenticate)

	// Everything below requires a valid session token
	api := e.Group("/api")
	api.Use(r.authMiddleware.Authenticate)
	{
		api.PUT("/project-location", r.planHandler.SetProjectLocation)
		api.GET("/project-location", r.planHandler.GetProjectLocation)

		api.POST("/services/search", r.planHandler.SearchServices)
		api.GET("/services", r.planHandler.ListServices)
		api.POST("/services/:id/verification", r.planHandler.VerifyService)

		api.POST("/markers", r.planHandler.CreateMarker)
		api.GET("/markers", r.planHandler.ListMarkers)
		api.PATCH("/markers/:id", r.planHandler.UpdateMarker)
		api.DELETE("/markers/:id", r.planHandler.DeleteMarker)
		api.POST("/markers/placement/toggle", r.planHandler.TogglePlacement)

		api.POST("/selection/service/:id", r.planHandler.SelectService)
		api.POST("/selection/marker/:id", r.planHandler.SelectMarker)
		api.DELETE("/selection", r.planHandler.ClearSelection)
		api.GET("/viewport", r.planHandler.GetViewport)

		api.POST("/routes", r.routeHandler.CalculateRoute)
		api.POST("/routes/hospitals", r.routeHandler.CalculateHospitalRoutes)
		api.GET("/routes", r.routeHandler.ListRoutes)
		api.DELETE("/routes", r.routeHandler.ClearRoutes)

		api.POST("/capture", r.captureHandler.SetCapture)
		api.GET("/capture", r.captureHandler.GetCapture)
		api.GET("/capture/status", r.captureHandler.GetCaptureStatus)
		api.DELETE("/capture", r.captureHandler.ClearCapture)

		api.GET("/share/qr", r.shareHandler.LinkQR)

		api.DELETE("/plan", r.planHandler.ClearAll)
	}
}
