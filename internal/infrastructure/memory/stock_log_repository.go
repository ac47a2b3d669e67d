package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/gimnasio-api/internal/domain"
	"github.com/jhoicas/gimnasio-api/internal/domain/entity"
	"github.com/jhoicas/gimnasio-api/internal/domain/repository"
)

var _ repository.StockLogRepository = (*StockLogRepo)(nil)

// StockLogRepo bitácora en memoria (append-only).
type StockLogRepo struct {
	mu   sync.RWMutex
	logs []entity.StockLog
}

// NewStockLogRepository construye la bitácora vacía.
func NewStockLogRepository() *StockLogRepo {
	return &StockLogRepo{}
}

// Append agrega un registro.
func (r *StockLogRepo) Append(_ context.Context, log *entity.StockLog) error {
	if log.Reason == "" {
		return domain.Invalid("reason", "es requerido")
	}
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	if log.Date.IsZero() {
		log.Date = time.Now()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, *log)
	return nil
}

// ListByProduct recorre la bitácora desde el final (más reciente primero).
func (r *StockLogRepo) ListByProduct(_ context.Context, productID string, limit int) ([]*entity.StockLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.StockLog
	for i := len(r.logs) - 1; i >= 0; i-- {
		if r.logs[i].ProductID != productID {
			continue
		}
		l := r.logs[i]
		out = append(out, &l)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
