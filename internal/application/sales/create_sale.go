// Package sales contiene el registro de ventas y el barrido de integridad referencial.
package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/gimnasio-api/internal/domain"
	"github.com/jhoicas/gimnasio-api/internal/domain/entity"
	"github.com/jhoicas/gimnasio-api/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	defaultRecentLimit = 50
	maxRecentLimit     = 50
)

// ItemInput línea solicitada. UnitPrice nil = precio vigente del producto al validar.
type ItemInput struct {
	ProductID string
	Quantity  int
	UnitPrice *decimal.Decimal
}

// CreateSaleInput entrada del caso de uso. Total es informativo: siempre se recalcula.
type CreateSaleInput struct {
	Items    []ItemInput
	SellerID string
	Total    *decimal.Decimal
}

// CreateSaleUseCase valida todas las líneas contra el catálogo, descuenta stock en bloque
// y persiste la venta. Ninguna escritura ocurre antes de validar la venta completa.
type CreateSaleUseCase struct {
	products repository.ProductRepository
	sales    repository.SaleRepository
	log      zerolog.Logger
	now      func() time.Time
}

// NewCreateSaleUseCase construye el caso de uso.
func NewCreateSaleUseCase(products repository.ProductRepository, sales repository.SaleRepository, log zerolog.Logger) *CreateSaleUseCase {
	return &CreateSaleUseCase{
		products: products,
		sales:    sales,
		log:      log.With().Str("component", "sales").Logger(),
		now:      time.Now,
	}
}

// CreateSale registra una venta.
//
// Errores: *domain.ValidationError, *domain.NotFoundError, *domain.InsufficientStockError
// (sin efectos), ErrStoreFailure (sin efectos netos; reintentable) o
// ErrReconciliationRequired si el stock quedó descontado sin venta persistida.
func (uc *CreateSaleUseCase) CreateSale(ctx context.Context, in CreateSaleInput) (*entity.Sale, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	requested := make(map[string]int, len(in.Items))
	catalog := make(map[string]*entity.Product, len(in.Items))
	items := make([]entity.SaleItem, 0, len(in.Items))

	for _, it := range in.Items {
		id := strings.TrimSpace(it.ProductID)
		product, ok := catalog[id]
		if !ok {
			p, err := uc.products.GetByID(ctx, id)
			if err != nil {
				return nil, domain.WrapStore("buscar producto", err)
			}
			if p == nil {
				return nil, &domain.NotFoundError{Resource: "product", ID: id}
			}
			catalog[id] = p
			product = p
		}

		// Varias líneas del mismo producto se validan contra la cantidad acumulada.
		requested[id] += it.Quantity
		if product.Stock < requested[id] {
			return nil, &domain.InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Available:   product.Stock,
				Requested:   requested[id],
			}
		}

		price := product.Price
		if it.UnitPrice != nil {
			price = *it.UnitPrice
		}
		items = append(items, entity.SaleItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  it.Quantity,
			Price:     price,
		})
	}

	sale := &entity.Sale{
		ID:       uuid.New().String(),
		Items:    items,
		SellerID: strings.TrimSpace(in.SellerID),
		Date:     uc.now(),
	}
	sale.Total = sale.ComputeTotal()
	if in.Total != nil && !in.Total.Equal(sale.Total) {
		uc.log.Warn().
			Str("sale_id", sale.ID).
			Str("total_recibido", in.Total.String()).
			Str("total_calculado", sale.Total.String()).
			Msg("total de la venta no coincide con los ítems; se usa el calculado")
	}

	if err := uc.products.BulkDecrementStock(ctx, requested); err != nil {
		return nil, domain.WrapStore("descontar stock", err)
	}

	if err := uc.sales.Create(ctx, sale); err != nil {
		return nil, uc.compensate(ctx, sale, requested, err)
	}

	uc.log.Info().Str("sale_id", sale.ID).Str("seller_id", sale.SellerID).
		Int("items", len(sale.Items)).Str("total", sale.Total.String()).Msg("venta registrada")
	return sale, nil
}

// compensate devuelve el stock descontado cuando la venta no pudo guardarse.
func (uc *CreateSaleUseCase) compensate(ctx context.Context, sale *entity.Sale, requested map[string]int, cause error) error {
	if err := uc.products.BulkIncrementStock(ctx, requested); err != nil {
		ev := uc.log.Error().Bool("reconciliation", true).Str("sale_id", sale.ID).Str("seller_id", sale.SellerID).
			AnErr("persist_error", cause).AnErr("compensation_error", err)
		for id, qty := range requested {
			ev = ev.Int("qty_"+id, qty)
		}
		ev.Msg("stock descontado sin venta persistida")
		return fmt.Errorf("venta %s: %w", sale.ID, errors.Join(domain.ErrReconciliationRequired, cause, err))
	}
	uc.log.Warn().Str("sale_id", sale.ID).Err(cause).Msg("venta no persistida; stock restituido")
	return domain.WrapStore("guardar venta", cause)
}

// ListRecent devuelve las últimas ventas, más recientes primero.
func (uc *CreateSaleUseCase) ListRecent(ctx context.Context, limit int) ([]*entity.Sale, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	list, err := uc.sales.Find(ctx, repository.SaleFilter{Limit: limit, NewestFirst: true})
	if err != nil {
		return nil, domain.WrapStore("listar ventas", err)
	}
	return list, nil
}

func validateInput(in CreateSaleInput) error {
	if len(in.Items) == 0 {
		return domain.Invalid("items", "la venta debe tener al menos un ítem")
	}
	for i, it := range in.Items {
		if strings.TrimSpace(it.ProductID) == "" {
			return domain.Invalid(fmt.Sprintf("items[%d].product_id", i), "es requerido")
		}
		if it.Quantity <= 0 {
			return domain.Invalid(fmt.Sprintf("items[%d].quantity", i), "debe ser mayor a cero")
		}
		if it.UnitPrice != nil && it.UnitPrice.IsNegative() {
			return domain.Invalid(fmt.Sprintf("items[%d].unit_price", i), "no puede ser negativo")
		}
		if it.UnitPrice != nil && !entity.ValidMoney(*it.UnitPrice) {
			return domain.Invalid(fmt.Sprintf("items[%d].unit_price", i), "admite hasta 2 decimales")
		}
	}
	return nil
}
