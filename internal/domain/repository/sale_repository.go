package repository

import (
	"context"
	"time"

	"github.com/jhoicas/gimnasio-api/internal/domain/entity"
)

// SaleFilter filtros combinables para consultar ventas. Campos vacíos no filtran.
type SaleFilter struct {
	ProductID   string     // ventas con al menos una línea que referencia el producto
	SellerID    string
	From        *time.Time // inclusivo
	To          *time.Time // inclusivo
	Limit       int        // 0 = sin límite
	NewestFirst bool
}

// SaleRepository define el puerto de persistencia para Sale y sus líneas embebidas.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	// GetByID devuelve (nil, nil) si la venta no existe.
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	Find(ctx context.Context, filter SaleFilter) ([]*entity.Sale, error)
	// Save reemplaza líneas y total de la venta en una sola operación.
	Save(ctx context.Context, sale *entity.Sale) error
	Delete(ctx context.Context, id string) error
}
