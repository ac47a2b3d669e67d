package inventory

import (
	"context"

	"github.com/jhoicas/gimnasio-api/internal/application/sales"
)

// CascadeRepairer repara las ventas que referencian un producto recién eliminado.
// Lo implementa *sales.Sweeper.
type CascadeRepairer interface {
	RepairAfterProductDeletion(ctx context.Context, productID string) (sales.SweepReport, error)
}

// SweepScheduler encola un barrido completo de ventas para ejecución asíncrona.
// Lo implementa el scheduler de asynq; puede ser nil si no hay cola configurada.
type SweepScheduler interface {
	EnqueueSweep(ctx context.Context, dryRun bool) (taskID string, err error)
}
