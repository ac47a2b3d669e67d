package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SellerQuantityDTO cantidad vendida de un producto por un vendedor.
type SellerQuantityDTO struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// ProductSaleLogDTO una venta del producto dentro del historial.
type ProductSaleLogDTO struct {
	SaleID     string          `json:"sale_id"`
	Date       time.Time       `json:"date"`
	SellerName string          `json:"seller_name"`
	Quantity   int             `json:"quantity"`
	Amount     decimal.Decimal `json:"amount"`
}

// ProductStatsDTO estadísticas de venta de un producto.
type ProductStatsDTO struct {
	ProductID string              `json:"product_id"`
	TotalSold int                 `json:"total_sold"`
	Breakdown []SellerQuantityDTO `json:"breakdown"`
	SalesLog  []ProductSaleLogDTO `json:"sales_log"`
}

// ProductRevenueDTO agregado por producto dentro de un vendedor.
type ProductRevenueDTO struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// SellerStatsDTO agregado por vendedor.
type SellerStatsDTO struct {
	Name       string              `json:"name"`
	SalesCount int                 `json:"sales_count"`
	Revenue    decimal.Decimal     `json:"revenue"`
	Products   []ProductRevenueDTO `json:"products"`
}

// GeneralStatsDTO resumen de ventas en el rango (inclusivo, normalizado a días completos).
type GeneralStatsDTO struct {
	StartDate       *time.Time       `json:"start_date,omitempty"`
	EndDate         *time.Time       `json:"end_date,omitempty"`
	TotalRevenue    decimal.Decimal  `json:"total_revenue"`
	TotalSalesCount int              `json:"total_sales_count"`
	Breakdown       []SellerStatsDTO `json:"breakdown"`
}
