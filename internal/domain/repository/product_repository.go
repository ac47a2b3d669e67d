package repository

import (
	"context"

	"github.com/jhoicas/gimnasio-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// GetByID devuelve (nil, nil) si el producto no existe.
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context) ([]*entity.Product, error)
	// Update modifica nombre, precio y categoría. El stock no se toca por esta vía.
	Update(ctx context.Context, product *entity.Product) error
	// UpdateStock sobrescribe el stock (ajuste manual). Devuelve ErrNotFound si no existe.
	UpdateStock(ctx context.Context, id string, newStock int) error
	// Delete elimina el producto; false si no existía.
	Delete(ctx context.Context, id string) (bool, error)
	// ListIDs devuelve el conjunto de IDs vigentes (usado por el barrido de ventas).
	ListIDs(ctx context.Context) (map[string]struct{}, error)
	// BulkDecrementStock aplica stock -= qty a todos los productos o a ninguno.
	// Cada decremento es condicional a stock >= qty; si alguno falla devuelve
	// *domain.InsufficientStockError (o NotFoundError) y no aplica nada.
	BulkDecrementStock(ctx context.Context, quantities map[string]int) error
	// BulkIncrementStock devuelve stock (compensación de una venta que no pudo persistirse).
	BulkIncrementStock(ctx context.Context, quantities map[string]int) error
}
