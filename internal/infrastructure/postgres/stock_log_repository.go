package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/gimnasio-api/internal/domain"
	"github.com/jhoicas/gimnasio-api/internal/domain/entity"
	"github.com/jhoicas/gimnasio-api/internal/domain/repository"
)

var _ repository.StockLogRepository = (*StockLogRepo)(nil)

// StockLogRepo bitácora de ajustes en `stock_logs`. Solo INSERT y SELECT.
type StockLogRepo struct {
	q Querier
}

// NewStockLogRepository construye el adaptador.
func NewStockLogRepository(q Querier) *StockLogRepo {
	return &StockLogRepo{q: q}
}

// Append inserta un registro.
func (r *StockLogRepo) Append(ctx context.Context, log *entity.StockLog) error {
	if log.Reason == "" {
		return domain.Invalid("reason", "es requerido")
	}
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	if log.Date.IsZero() {
		log.Date = time.Now()
	}
	_, err := r.q.Exec(ctx,
		`INSERT INTO stock_logs (id, product_id, previous_stock, new_stock, change, reason, date) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		log.ID, log.ProductID, log.PreviousStock, log.NewStock, log.Change, log.Reason, log.Date)
	if err != nil {
		if isCheckViolation(err) {
			return domain.Invalid("stock_log", err.Error())
		}
		return domain.StoreError("insert stock log", err)
	}
	return nil
}

// ListByProduct devuelve los más recientes primero. limit <= 0 = sin límite.
func (r *StockLogRepo) ListByProduct(ctx context.Context, productID string, limit int) ([]*entity.StockLog, error) {
	query := `SELECT id, product_id, previous_stock, new_stock, change, reason, date
		FROM stock_logs WHERE product_id = $1 ORDER BY date DESC, id DESC`
	args := []any{productID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.StoreError("list stock logs", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.StockLog, error) {
		var l entity.StockLog
		err := row.Scan(&l.ID, &l.ProductID, &l.PreviousStock, &l.NewStock, &l.Change, &l.Reason, &l.Date)
		return &l, err
	})
	if err != nil {
		return nil, domain.StoreError("scan stock logs", err)
	}
	return list, nil
}
