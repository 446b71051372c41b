package main

import (
	"context"
	"log/slog"
	"os"

	"planner/config"
	"planner/internal/delivery"
	"planner/internal/delivery/http"
	"planner/internal/delivery/http/middleware"
	"planner/internal/delivery/http/router/handler"
	"planner/internal/domain/service"
	"planner/internal/infra/auth"
	logs "planner/internal/infra/log"
	"planner/internal/infra/lookup/overpass"
	"planner/internal/infra/persistence/postgres"
	"planner/internal/infra/qrcode"
	"planner/internal/infra/routing/osrm"
	"planner/internal/usecase"
	"planner/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			hydrateStore,
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewMarkerRepository,
			postgres.NewLocationRepository,
			postgres.NewVerificationRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewAccessService,
			newRouteProvider,
			newNearbyProvider,
			newQRCodeService,
		),
	)
}

// newRouteProvider creates the routing client from config
func newRouteProvider(cfg *config.Config) service.RouteProvider {
	return osrm.New(cfg.Routing)
}

// newNearbyProvider creates the nearby-services lookup client from config
func newNearbyProvider(cfg *config.Config) service.NearbyProvider {
	return overpass.New(cfg.Lookup)
}

// newQRCodeService creates a QR code service with dependency injection
func newQRCodeService(cfg *config.Config) service.QRCodeService {
	if cfg.QRCode == nil {
		return qrcode.NewQRCodeService(256, "M")
	}

	return qrcode.NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewCaptureService,
			fx.Annotate(
				impl.NewPlanStore,
				fx.As(new(usecase.PlanUsecase)),
				fx.As(new(usecase.RouteStore)),
			),
			impl.NewRouteService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAccessHandler,
			handler.NewPlanHandler,
			handler.NewRouteHandler,
			handler.NewCaptureHandler,
			handler.NewShareHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

// hydrateStore restores the persisted subset before the server accepts
// traffic. Registered as a lifecycle hook so it runs after the database
// connection and migrations are up.
func hydrateStore(lc fx.Lifecycle, planUC usecase.PlanUsecase, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := planUC.Hydrate(ctx); err != nil {
				logger.Error("Failed to hydrate plan store", slog.Any("error", err))

				return err
			}

			return nil
		},
	})
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
