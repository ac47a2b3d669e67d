package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Category vacía = "General".
type CreateProductRequest struct {
	Name     string          `json:"name" validate:"required,min=1,max=200"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	Category string          `json:"category"`
}

// UpdateProductRequest entrada para actualizar un producto. El stock se corrige vía adjust-stock.
type UpdateProductRequest struct {
	Name     *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Price    *decimal.Decimal `json:"price"`
	Category *string          `json:"category"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	Category  string          `json:"category"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ProductListResponse lista de productos ordenada por nombre.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
}

// DeleteProductResponse resultado de eliminar un producto y reparar sus ventas.
type DeleteProductResponse struct {
	ProductID     string `json:"product_id"`
	SalesModified int    `json:"sales_modified"`
	SalesDeleted  int    `json:"sales_deleted"`
	SalesFailed   int    `json:"sales_failed"`
	SweepQueued   bool   `json:"sweep_queued"`
	Error         string `json:"error,omitempty"`
}
