package entity

import (
	"time"

	"github.com/jhoicas/gimnasio-api/internal/domain"
	"github.com/shopspring/decimal"
)

// SaleItem línea de una venta. Name y Price son instantáneas tomadas al vender;
// ProductID puede quedar colgando si el producto se elimina (vacío = referencia nula).
type SaleItem struct {
	ProductID string
	Name      string
	Quantity  int
	Price     decimal.Decimal
}

// Subtotal devuelve Price × Quantity.
func (i SaleItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Sale transacción de punto de venta. Una venta sin ítems no debe existir.
type Sale struct {
	ID       string
	Items    []SaleItem
	Total    decimal.Decimal
	SellerID string // vacío = vendedor desconocido
	Date     time.Time
}

// ComputeTotal suma los subtotales de las líneas.
func (s *Sale) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// HasProduct indica si alguna línea referencia el producto.
func (s *Sale) HasProduct(productID string) bool {
	for _, it := range s.Items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}

// Validate verifica los invariantes de una venta antes de persistirla.
func (s *Sale) Validate() error {
	if len(s.Items) == 0 {
		return domain.Invalid("items", "la venta debe tener al menos un ítem")
	}
	for _, it := range s.Items {
		if it.Quantity <= 0 {
			return domain.Invalid("items.quantity", "debe ser mayor a cero")
		}
		if it.Price.IsNegative() {
			return domain.Invalid("items.price", "no puede ser negativo")
		}
		if !ValidMoney(it.Price) {
			return domain.Invalid("items.price", "admite hasta 2 decimales")
		}
	}
	if !s.Total.Equal(s.ComputeTotal()) {
		return domain.Invalid("total", "no coincide con la suma de los ítems")
	}
	return nil
}

// Clone copia profunda (las líneas son propiedad exclusiva de la venta).
func (s *Sale) Clone() *Sale {
	c := *s
	c.Items = append([]SaleItem(nil), s.Items...)
	return &c
}
