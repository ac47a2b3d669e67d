package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/gimnasio-api/internal/domain"
	"github.com/jhoicas/gimnasio-api/internal/domain/entity"
	"github.com/jhoicas/gimnasio-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas en `sales` con sus líneas en `sale_items` (ordenadas por position).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta la venta y sus líneas en una transacción.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	if err := sale.Validate(); err != nil {
		return err
	}
	if sale.ID == "" {
		sale.ID = uuid.New().String()
	}
	if sale.Date.IsZero() {
		sale.Date = time.Now()
	}
	return inTx(ctx, r.q, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `INSERT INTO sales (id, total, seller_id, date) VALUES ($1, $2, $3, $4)`,
			sale.ID, sale.Total, nullable(sale.SellerID), sale.Date)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.Invalid("id", "ya existe una venta con ese ID")
			}
			return domain.StoreError("insert sale", err)
		}
		return insertItems(ctx, tx, sale)
	})
}

// GetByID obtiene una venta con sus líneas.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	var (
		s      entity.Sale
		seller *string
	)
	err := r.q.QueryRow(ctx, `SELECT id, total, seller_id, date FROM sales WHERE id = $1`, id).
		Scan(&s.ID, &s.Total, &seller, &s.Date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.StoreError("get sale", err)
	}
	s.SellerID = deref(seller)
	if err := r.loadItems(ctx, []*entity.Sale{&s}); err != nil {
		return nil, err
	}
	return &s, nil
}

// Find arma la consulta según los filtros presentes.
func (r *SaleRepo) Find(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	qb := squirrel.Select("s.id", "s.total", "s.seller_id", "s.date").
		From("sales s").
		PlaceholderFormat(squirrel.Dollar)

	if f.ProductID != "" {
		qb = qb.Where("EXISTS (SELECT 1 FROM sale_items i WHERE i.sale_id = s.id AND i.product_id = ?)", f.ProductID)
	}
	if f.SellerID != "" {
		qb = qb.Where(squirrel.Eq{"s.seller_id": f.SellerID})
	}
	if f.From != nil {
		qb = qb.Where(squirrel.GtOrEq{"s.date": *f.From})
	}
	if f.To != nil {
		qb = qb.Where(squirrel.LtOrEq{"s.date": *f.To})
	}
	if f.NewestFirst {
		qb = qb.OrderBy("s.date DESC", "s.id")
	} else {
		qb = qb.OrderBy("s.date", "s.id")
	}
	if f.Limit > 0 {
		qb = qb.Limit(uint64(f.Limit))
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, domain.StoreError("build sales query", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.StoreError("find sales", err)
	}
	defer rows.Close()

	var list []*entity.Sale
	for rows.Next() {
		var (
			s      entity.Sale
			seller *string
		)
		if err := rows.Scan(&s.ID, &s.Total, &seller, &s.Date); err != nil {
			return nil, domain.StoreError("scan sale", err)
		}
		s.SellerID = deref(seller)
		list = append(list, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError("find sales", err)
	}
	rows.Close()

	if err := r.loadItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// Save reemplaza líneas y total en una transacción.
func (r *SaleRepo) Save(ctx context.Context, sale *entity.Sale) error {
	if err := sale.Validate(); err != nil {
		return err
	}
	return inTx(ctx, r.q, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE sales SET total = $2 WHERE id = $1`, sale.ID, sale.Total)
		if err != nil {
			return domain.StoreError("update sale", err)
		}
		if tag.RowsAffected() == 0 {
			return &domain.NotFoundError{Resource: "sale", ID: sale.ID}
		}
		if _, err := tx.Exec(ctx, `DELETE FROM sale_items WHERE sale_id = $1`, sale.ID); err != nil {
			return domain.StoreError("delete sale items", err)
		}
		return insertItems(ctx, tx, sale)
	})
}

// Delete elimina la venta; las líneas caen por ON DELETE CASCADE.
func (r *SaleRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return domain.StoreError("delete sale", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Resource: "sale", ID: id}
	}
	return nil
}

func insertItems(ctx context.Context, tx pgx.Tx, sale *entity.Sale) error {
	batch := &pgx.Batch{}
	for pos, it := range sale.Items {
		batch.Queue(`INSERT INTO sale_items (sale_id, position, product_id, name, quantity, price) VALUES ($1, $2, $3, $4, $5, $6)`,
			sale.ID, pos, nullable(it.ProductID), it.Name, it.Quantity, it.Price)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return domain.StoreError("insert sale items", err)
	}
	return nil
}

// loadItems carga las líneas de todas las ventas con una sola consulta.
func (r *SaleRepo) loadItems(ctx context.Context, list []*entity.Sale) error {
	if len(list) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Sale, len(list))
	ids := make([]string, 0, len(list))
	for _, s := range list {
		byID[s.ID] = s
		ids = append(ids, s.ID)
	}
	rows, err := r.q.Query(ctx,
		`SELECT sale_id, product_id, name, quantity, price FROM sale_items WHERE sale_id = ANY($1) ORDER BY sale_id, position`, ids)
	if err != nil {
		return domain.StoreError("load sale items", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			saleID    string
			productID *string
			it        entity.SaleItem
			price     decimal.Decimal
		)
		if err := rows.Scan(&saleID, &productID, &it.Name, &it.Quantity, &price); err != nil {
			return domain.StoreError("scan sale item", err)
		}
		it.ProductID = deref(productID)
		it.Price = price
		if s, ok := byID[saleID]; ok {
			s.Items = append(s.Items, it)
		}
	}
	if err := rows.Err(); err != nil {
		return domain.StoreError("load sale items", err)
	}
	return nil
}
