package analytics

import (
	"context"

	"github.com/jhoicas/gimnasio-api/internal/application/dto"
)

// ReportRenderer convierte el resumen general en un documento descargable (PDF).
type ReportRenderer interface {
	RenderGeneralStats(ctx context.Context, stats *dto.GeneralStatsDTO) ([]byte, error)
}
