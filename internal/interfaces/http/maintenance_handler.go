package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gimnasio-api/internal/application/dto"
	"github.com/jhoicas/gimnasio-api/internal/application/inventory"
	"github.com/jhoicas/gimnasio-api/internal/application/sales"
	"github.com/jhoicas/gimnasio-api/internal/domain"
)

// MaintenanceHandler dispara el barrido de integridad de ventas (solo admin).
type MaintenanceHandler struct {
	sweeper   *sales.Sweeper
	scheduler inventory.SweepScheduler
}

// NewMaintenanceHandler construye el handler. scheduler nil = el barrido corre en el request.
func NewMaintenanceHandler(sweeper *sales.Sweeper, scheduler inventory.SweepScheduler) *MaintenanceHandler {
	return &MaintenanceHandler{sweeper: sweeper, scheduler: scheduler}
}

// Sweep godoc
// @Summary      Barrido de integridad de ventas
// @Description  Quita de las ventas las líneas de productos inexistentes. Con cola configurada se encola y responde 202.
// @Tags         maintenance
// @Security     Bearer
// @Produce      json
// @Param        dry_run  query  bool  false  "Solo contar, sin escribir"
// @Success      200  {object}  dto.SweepResponse
// @Success      202  {object}  dto.SweepResponse
// @Success      207  {object}  dto.SweepResponse
// @Router       /api/maintenance/sweep [post]
func (h *MaintenanceHandler) Sweep(c *fiber.Ctx) error {
	dryRun := c.QueryBool("dry_run", false)

	if h.scheduler != nil {
		taskID, err := h.scheduler.EnqueueSweep(c.UserContext(), dryRun)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusAccepted).JSON(dto.SweepResponse{DryRun: dryRun, Queued: true, TaskID: taskID})
	}

	report, err := h.sweeper.Sweep(c.UserContext(), sales.SweepOptions{DryRun: dryRun})
	out := dto.SweepResponse{
		Scanned:  report.Scanned,
		Modified: report.Modified,
		Deleted:  report.Deleted,
		Failed:   report.Failed,
		DryRun:   report.DryRun,
	}
	var sweepErr *domain.SweepError
	if errors.As(err, &sweepErr) {
		for _, f := range sweepErr.Failures {
			out.Errors = append(out.Errors, f.SaleID+": "+f.Err.Error())
		}
		return c.Status(fiber.StatusMultiStatus).JSON(out)
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
