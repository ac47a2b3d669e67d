package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/gimnasio-api/internal/application/sales"
	"github.com/jhoicas/gimnasio-api/internal/infrastructure/ledger"
	"github.com/jhoicas/gimnasio-api/internal/infrastructure/queue"
	"github.com/jhoicas/gimnasio-api/pkg/config"
	"github.com/jhoicas/gimnasio-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	if !cfg.Redis.Enabled() {
		log.Fatal().Msg("el worker requiere REDIS_ADDR")
	}
	log.Info().Str("redis_addr", cfg.Redis.Addr).Str("ledger", cfg.Ledger.Driver).Msg("iniciando worker")

	store, err := ledger.Open(context.Background(), cfg, log.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("abrir ledger")
	}
	defer store.Close()

	sweeper := sales.NewSweeper(store.Products, store.Sales, cfg.Sweep.Concurrency, log.Zerolog())

	srv := queue.NewServer(cfg.Redis, 1, log.Zerolog())
	mux := asynq.NewServeMux()
	queue.NewProcessor(sweeper, log.Zerolog()).Register(mux)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Run(mux); err != nil {
			log.Error().Err(err).Msg("servidor del worker finalizado")
			shutdown <- syscall.SIGTERM
		}
	}()

	log.Info().Str("queue", queue.QueueMaintenance).Msg("worker iniciado")

	sig := <-shutdown
	log.Info().Str("signal", sig.String()).Msg("señal de apagado recibida")
	srv.Shutdown()
	log.Info().Msg("worker detenido")
}
