package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/jhoicas/gimnasio-api/internal/application/sales"
	"github.com/rs/zerolog"
)

// SalesSweeper lo implementa *sales.Sweeper.
type SalesSweeper interface {
	Sweep(ctx context.Context, opts sales.SweepOptions) (sales.SweepReport, error)
}

// Processor ejecuta las tareas de mantenimiento.
type Processor struct {
	sweeper SalesSweeper
	log     zerolog.Logger
}

// NewProcessor construye el processor.
func NewProcessor(sweeper SalesSweeper, log zerolog.Logger) *Processor {
	return &Processor{sweeper: sweeper, log: log.With().Str("processor", "sales_sweep").Logger()}
}

// Register asocia los handlers al mux del servidor.
func (p *Processor) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeSalesSweep, p.ProcessSweep)
}

// ProcessSweep corre el barrido. Un payload inválido no se reintenta; las ventas que
// no pudieron repararse devuelven error para que asynq reintente (el barrido es idempotente).
func (p *Processor) ProcessSweep(ctx context.Context, t *asynq.Task) error {
	var payload SweepPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("payload inválido: %v: %w", err, asynq.SkipRetry)
	}
	report, err := p.sweeper.Sweep(ctx, sales.SweepOptions{DryRun: payload.DryRun})
	p.log.Info().
		Time("requested_at", payload.RequestedAt).
		Bool("dry_run", report.DryRun).
		Int("scanned", report.Scanned).
		Int("modified", report.Modified).
		Int("deleted", report.Deleted).
		Int("failed", report.Failed).
		Msg("tarea de barrido procesada")
	if err != nil {
		return fmt.Errorf("barrido de ventas: %w", err)
	}
	return nil
}
