package repository

import (
	"context"

	"github.com/jhoicas/gimnasio-api/internal/domain/entity"
)

// StockLogRepository bitácora de ajustes de stock (solo inserción).
type StockLogRepository interface {
	Append(ctx context.Context, log *entity.StockLog) error
	// ListByProduct devuelve los registros más recientes primero.
	ListByProduct(ctx context.Context, productID string, limit int) ([]*entity.StockLog, error)
}
