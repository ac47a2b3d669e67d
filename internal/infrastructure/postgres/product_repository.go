package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/gimnasio-api/internal/domain"
	"github.com/jhoicas/gimnasio-api/internal/domain/entity"
	"github.com/jhoicas/gimnasio-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, price, stock, category, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto; asigna ID y timestamps si faltan.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	product.Normalize()
	if err := product.Validate(); err != nil {
		return err
	}
	now := time.Now()
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	if product.UpdatedAt.IsZero() {
		product.UpdatedAt = now
	}
	query := `INSERT INTO products (` + productColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.Price, product.Stock, product.Category, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Invalid("id", "ya existe un producto con ese ID")
		}
		return domain.StoreError("insert product", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.StoreError("get product", err)
	}
	return p, nil
}

// List devuelve el catálogo ordenado por nombre.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY name, id`)
	if err != nil {
		return nil, domain.StoreError("list products", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, domain.StoreError("scan product", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError("list products", err)
	}
	return list, nil
}

// Update modifica nombre, precio y categoría.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	product.Normalize()
	if err := product.Validate(); err != nil {
		return err
	}
	product.UpdatedAt = time.Now()
	tag, err := r.q.Exec(ctx,
		`UPDATE products SET name = $2, price = $3, category = $4, updated_at = $5 WHERE id = $1`,
		product.ID, product.Name, product.Price, product.Category, product.UpdatedAt,
	)
	if err != nil {
		return domain.StoreError("update product", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Resource: "product", ID: product.ID}
	}
	return nil
}

// UpdateStock sobrescribe el stock (ajuste manual).
func (r *ProductRepo) UpdateStock(ctx context.Context, id string, newStock int) error {
	if newStock < 0 {
		return domain.Invalid("stock", "no puede ser negativo")
	}
	tag, err := r.q.Exec(ctx, `UPDATE products SET stock = $2, updated_at = now() WHERE id = $1`, id, newStock)
	if err != nil {
		return domain.StoreError("update stock", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Resource: "product", ID: id}
	}
	return nil
}

// Delete elimina el producto. Las ventas y la bitácora no tienen FK hacia products.
func (r *ProductRepo) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, domain.StoreError("delete product", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListIDs devuelve el conjunto de IDs vigentes.
func (r *ProductRepo) ListIDs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.q.Query(ctx, `SELECT id FROM products`)
	if err != nil {
		return nil, domain.StoreError("list product ids", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, domain.StoreError("list product ids", err)
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// BulkDecrementStock descuenta en una sola transacción. Cada UPDATE es condicional
// (stock >= qty), de modo que dos ventas concurrentes no pueden dejar stock negativo:
// la segunda no encuentra fila que actualizar y se revierte todo el lote.
func (r *ProductRepo) BulkDecrementStock(ctx context.Context, quantities map[string]int) error {
	return inTx(ctx, r.q, func(tx pgx.Tx) error {
		for _, id := range sortedIDs(quantities) {
			qty := quantities[id]
			tag, err := tx.Exec(ctx,
				`UPDATE products SET stock = stock - $2, updated_at = now() WHERE id = $1 AND stock >= $2`, id, qty)
			if err != nil {
				return domain.StoreError("decrement stock", err)
			}
			if tag.RowsAffected() == 1 {
				continue
			}
			var (
				name  string
				stock int
			)
			err = tx.QueryRow(ctx, `SELECT name, stock FROM products WHERE id = $1`, id).Scan(&name, &stock)
			if errors.Is(err, pgx.ErrNoRows) {
				return &domain.NotFoundError{Resource: "product", ID: id}
			}
			if err != nil {
				return domain.StoreError("read stock", err)
			}
			return &domain.InsufficientStockError{ProductID: id, ProductName: name, Available: stock, Requested: qty}
		}
		return nil
	})
}

// BulkIncrementStock devuelve stock; productos eliminados entretanto se ignoran.
func (r *ProductRepo) BulkIncrementStock(ctx context.Context, quantities map[string]int) error {
	return inTx(ctx, r.q, func(tx pgx.Tx) error {
		for _, id := range sortedIDs(quantities) {
			if _, err := tx.Exec(ctx,
				`UPDATE products SET stock = stock + $2, updated_at = now() WHERE id = $1`, id, quantities[id]); err != nil {
				return domain.StoreError(fmt.Sprintf("increment stock %s", id), err)
			}
		}
		return nil
	})
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.Category, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
