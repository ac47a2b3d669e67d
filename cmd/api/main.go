package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"

	"github.com/jhoicas/gimnasio-api/internal/application/analytics"
	"github.com/jhoicas/gimnasio-api/internal/application/inventory"
	"github.com/jhoicas/gimnasio-api/internal/application/sales"
	"github.com/jhoicas/gimnasio-api/internal/infrastructure/ledger"
	infrapdf "github.com/jhoicas/gimnasio-api/internal/infrastructure/pdf"
	"github.com/jhoicas/gimnasio-api/internal/infrastructure/queue"
	httpRouter "github.com/jhoicas/gimnasio-api/internal/interfaces/http"
	"github.com/jhoicas/gimnasio-api/pkg/config"
	"github.com/jhoicas/gimnasio-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("ledger", cfg.Ledger.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := ledger.Open(ctx, cfg, log.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("abrir ledger")
	}
	defer store.Close()

	// Cola de barridos: sin ella el barrido corre dentro del request.
	var scheduler inventory.SweepScheduler
	if cfg.Sweep.QueueEnabled {
		s := queue.NewScheduler(asynq.NewClient(queue.RedisOpt(cfg.Redis)), log.Zerolog())
		defer s.Close()
		scheduler = s
	}

	sweeper := sales.NewSweeper(store.Products, store.Sales, cfg.Sweep.Concurrency, log.Zerolog())
	createSaleUC := sales.NewCreateSaleUseCase(store.Products, store.Sales, log.Zerolog())
	productUC := inventory.NewProductUseCase(store.Products, sweeper, scheduler, log.Zerolog())
	adjustStockUC := inventory.NewAdjustStockUseCase(store.Products, store.StockLogs, log.Zerolog())
	statsUC := analytics.NewSalesStatsUseCase(
		store.Sales, store.Sellers,
		infrapdf.NewStatsReportRenderer(cfg.App.Name),
		cfg.App.Location(),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	origins := cfg.HTTP.FrontendURL
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	// Swagger UI: http://localhost:<port>/docs
	if cfg.Docs.SwaggerPath != "" {
		if _, err := os.Stat(cfg.Docs.SwaggerPath); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.Docs.SwaggerPath,
				Path:     "docs",
				Title:    cfg.App.Name,
			}))
		} else {
			log.Warn().Str("path", cfg.Docs.SwaggerPath).Msg("swagger.json no encontrado, /docs deshabilitado")
		}
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Products:    httpRouter.NewProductHandler(productUC, adjustStockUC),
		Sales:       httpRouter.NewSaleHandler(createSaleUC, store.Sellers),
		Stats:       httpRouter.NewStatsHandler(statsUC, cfg.App.Location()),
		Maintenance: httpRouter.NewMaintenanceHandler(sweeper, scheduler),
		JWTSecret:   cfg.JWT.Secret,
		LedgerName:  store.Driver,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
