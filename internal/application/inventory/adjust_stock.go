package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/gimnasio-api/internal/application/dto"
	"github.com/jhoicas/gimnasio-api/internal/domain"
	"github.com/jhoicas/gimnasio-api/internal/domain/entity"
	"github.com/jhoicas/gimnasio-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

const (
	defaultLogLimit = 5
	maxLogLimit     = 50
)

// AdjustStockUseCase corrección manual de stock con registro en bitácora.
// Sobrescribe el stock (no aplica un delta) y es la única vía fuera de una venta.
type AdjustStockUseCase struct {
	products repository.ProductRepository
	logs     repository.StockLogRepository
	log      zerolog.Logger
	now      func() time.Time
}

// NewAdjustStockUseCase construye el caso de uso.
func NewAdjustStockUseCase(products repository.ProductRepository, logs repository.StockLogRepository, log zerolog.Logger) *AdjustStockUseCase {
	return &AdjustStockUseCase{
		products: products,
		logs:     logs,
		log:      log.With().Str("component", "stock").Logger(),
		now:      time.Now,
	}
}

// AdjustStock fija el stock del producto en newStock y agrega un StockLog con change = new - previous.
// Las dos escrituras no son atómicas entre sí: si la bitácora falla el error se propaga
// y el ajuste ya aplicado queda registrado en el log de la aplicación.
func (uc *AdjustStockUseCase) AdjustStock(ctx context.Context, productID string, newStock int, reason string) (*dto.AdjustStockResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.Invalid("reason", "es requerido")
	}
	if newStock < 0 {
		return nil, domain.Invalid("new_stock", "debe ser un entero no negativo")
	}

	product, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, domain.WrapStore("buscar producto", err)
	}
	if product == nil {
		return nil, &domain.NotFoundError{Resource: "product", ID: productID}
	}

	previous := product.Stock
	if err := uc.products.UpdateStock(ctx, productID, newStock); err != nil {
		return nil, domain.WrapStore("actualizar stock", err)
	}
	now := uc.now()
	product.Stock = newStock
	product.UpdatedAt = now

	entry := &entity.StockLog{
		ID:            uuid.New().String(),
		ProductID:     productID,
		PreviousStock: previous,
		NewStock:      newStock,
		Change:        newStock - previous,
		Reason:        reason,
		Date:          now,
	}
	if err := uc.logs.Append(ctx, entry); err != nil {
		uc.log.Error().Err(err).Str("product_id", productID).Int("previous_stock", previous).
			Int("new_stock", newStock).Msg("stock ajustado sin registro en bitácora")
		return nil, domain.WrapStore("registrar ajuste", err)
	}

	uc.log.Info().Str("product_id", productID).Int("change", entry.Change).Str("reason", reason).Msg("stock ajustado")
	return &dto.AdjustStockResponse{
		Product: *toProductResponse(product),
		Log:     toStockLogResponse(entry),
	}, nil
}

// ListLogs devuelve los últimos ajustes del producto (5 por defecto, máximo 50).
// La bitácora sobrevive al producto, por eso no se exige que exista.
func (uc *AdjustStockUseCase) ListLogs(ctx context.Context, productID string, limit int) ([]dto.StockLogResponse, error) {
	if limit <= 0 {
		limit = defaultLogLimit
	}
	if limit > maxLogLimit {
		limit = maxLogLimit
	}
	list, err := uc.logs.ListByProduct(ctx, productID, limit)
	if err != nil {
		return nil, domain.WrapStore("listar bitácora", err)
	}
	out := make([]dto.StockLogResponse, 0, len(list))
	for _, l := range list {
		out = append(out, toStockLogResponse(l))
	}
	return out, nil
}

func toStockLogResponse(l *entity.StockLog) dto.StockLogResponse {
	return dto.StockLogResponse{
		ID:            l.ID,
		ProductID:     l.ProductID,
		PreviousStock: l.PreviousStock,
		NewStock:      l.NewStock,
		Change:        l.Change,
		Reason:        l.Reason,
		Date:          l.Date,
	}
}
