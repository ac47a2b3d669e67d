// Comando sweeper: barrido único de integridad referencial de ventas.
//
//	sweeper -dry-run            cuenta lo que cambiaría sin escribir
//	sweeper -concurrency 8      ventas reparadas en paralelo
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/gimnasio-api/internal/application/sales"
	"github.com/jhoicas/gimnasio-api/internal/domain"
	"github.com/jhoicas/gimnasio-api/internal/infrastructure/ledger"
	"github.com/jhoicas/gimnasio-api/pkg/config"
	"github.com/jhoicas/gimnasio-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	dryRun := flag.Bool("dry-run", false, "solo contar, sin modificar ventas")
	concurrency := flag.Int("concurrency", cfg.Sweep.Concurrency, "ventas reparadas en paralelo")
	flag.Parse()

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := ledger.Open(ctx, cfg, log.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("abrir ledger")
	}
	defer store.Close()

	report, err := sales.NewSweeper(store.Products, store.Sales, *concurrency, log.Zerolog()).
		Sweep(ctx, sales.SweepOptions{DryRun: *dryRun})

	log.Info().
		Bool("dry_run", report.DryRun).
		Int("scanned", report.Scanned).
		Int("modified", report.Modified).
		Int("deleted", report.Deleted).
		Int("failed", report.Failed).
		Msg("barrido finalizado")

	var sweepErr *domain.SweepError
	switch {
	case errors.As(err, &sweepErr):
		for _, f := range sweepErr.Failures {
			log.Error().Err(f.Err).Str("sale_id", f.SaleID).Msg("venta sin reparar")
		}
		store.Close()
		os.Exit(2)
	case err != nil:
		store.Close()
		log.Fatal().Err(err).Msg("barrido de ventas")
	}
}
