package entity

import "time"

// StockLog registro de auditoría de un ajuste manual de stock. Solo se agrega, nunca se modifica,
// y sobrevive a la eliminación del producto.
type StockLog struct {
	ID            string
	ProductID     string
	PreviousStock int
	NewStock      int
	Change        int // NewStock - PreviousStock
	Reason        string
	Date          time.Time
}
