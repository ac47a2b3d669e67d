package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea solicitada. UnitPrice nil = precio vigente del producto.
type SaleItemRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	Quantity  int              `json:"quantity" validate:"required,gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// CreateSaleRequest entrada de POST /api/sales.
// SellerID vacío = usuario autenticado. Total se recalcula siempre.
type CreateSaleRequest struct {
	Items    []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	SellerID string            `json:"seller_id"`
	Total    *decimal.Decimal  `json:"total,omitempty"`
}

// SaleItemResponse línea persistida con nombre y precio capturados al vender.
type SaleItemResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SaleResponse venta registrada.
type SaleResponse struct {
	ID         string             `json:"id"`
	Items      []SaleItemResponse `json:"items"`
	Total      decimal.Decimal    `json:"total"`
	SellerID   string             `json:"seller_id,omitempty"`
	SellerName string             `json:"seller_name,omitempty"`
	Date       time.Time          `json:"date"`
}

// SaleListResponse ventas recientes (más nuevas primero).
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
}
