package dto

import "time"

// AdjustStockRequest ajuste manual: sobrescribe el stock y deja constancia del motivo.
type AdjustStockRequest struct {
	NewStock *int   `json:"new_stock" validate:"required,min=0"`
	Reason   string `json:"reason" validate:"required"`
}

// StockLogResponse registro de la bitácora de stock.
type StockLogResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	PreviousStock int       `json:"previous_stock"`
	NewStock      int       `json:"new_stock"`
	Change        int       `json:"change"`
	Reason        string    `json:"reason"`
	Date          time.Time `json:"date"`
}

// AdjustStockResponse producto actualizado más el registro creado.
type AdjustStockResponse struct {
	Product ProductResponse  `json:"product"`
	Log     StockLogResponse `json:"log"`
}
