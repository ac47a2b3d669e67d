package entity

import (
	"strings"
	"time"

	"github.com/jhoicas/gimnasio-api/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultCategory categoría asignada cuando el producto no trae una.
const DefaultCategory = "General"

// MoneyScale decimales admitidos en precios; coincide con NUMERIC(14,2) del esquema.
const MoneyScale = 2

// ValidMoney indica si el monto no tiene más de MoneyScale decimales.
func ValidMoney(d decimal.Decimal) bool {
	return d.Equal(d.Round(MoneyScale))
}

// Product representa un artículo del catálogo de venta del gimnasio.
// Stock solo cambia por ventas (decremento relativo) o por ajuste manual (sobrescritura con bitácora).
type Product struct {
	ID        string
	Name      string
	Price     decimal.Decimal // precio de venta vigente
	Stock     int
	Category  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Normalize aplica valores por defecto antes de persistir.
func (p *Product) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Category = strings.TrimSpace(p.Category)
	if p.Category == "" {
		p.Category = DefaultCategory
	}
}

// Validate verifica los invariantes del producto en la frontera del ledger.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return domain.Invalid("name", "es requerido")
	}
	if p.Price.IsNegative() {
		return domain.Invalid("price", "no puede ser negativo")
	}
	if !ValidMoney(p.Price) {
		return domain.Invalid("price", "admite hasta 2 decimales")
	}
	if p.Stock < 0 {
		return domain.Invalid("stock", "no puede ser negativo")
	}
	return nil
}
