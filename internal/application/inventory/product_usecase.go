package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/gimnasio-api/internal/application/dto"
	"github.com/jhoicas/gimnasio-api/internal/domain"
	"github.com/jhoicas/gimnasio-api/internal/domain/entity"
	"github.com/jhoicas/gimnasio-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

// ProductUseCase catálogo de productos. El stock inicial se fija al crear;
// después solo cambia por ventas o por AdjustStock.
type ProductUseCase struct {
	repo      repository.ProductRepository
	cascade   CascadeRepairer
	scheduler SweepScheduler
	log       zerolog.Logger
}

// NewProductUseCase construye el caso de uso. scheduler puede ser nil.
func NewProductUseCase(repo repository.ProductRepository, cascade CascadeRepairer, scheduler SweepScheduler, log zerolog.Logger) *ProductUseCase {
	return &ProductUseCase{
		repo:      repo,
		cascade:   cascade,
		scheduler: scheduler,
		log:       log.With().Str("component", "products").Logger(),
	}
}

// Create crea un nuevo producto.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	now := time.Now()
	product := &entity.Product{
		Name:      in.Name,
		Price:     in.Price,
		Stock:     in.Stock,
		Category:  in.Category,
		CreatedAt: now,
		UpdatedAt: now,
	}
	product.Normalize()
	if err := product.Validate(); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, domain.WrapStore("crear producto", err)
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID; (nil, nil) si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.WrapStore("buscar producto", err)
	}
	return toProductResponse(product), nil
}

// Update actualiza nombre, precio y categoría.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.WrapStore("buscar producto", err)
	}
	if product == nil {
		return nil, &domain.NotFoundError{Resource: "product", ID: id}
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	product.Normalize()
	if err := product.Validate(); err != nil {
		return nil, err
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, domain.WrapStore("actualizar producto", err)
	}
	return toProductResponse(product), nil
}

// List lista el catálogo ordenado por nombre.
func (uc *ProductUseCase) List(ctx context.Context) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, domain.WrapStore("listar productos", err)
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items}, nil
}

// Delete elimina el producto y repara las ventas que lo referencian.
// Si alguna venta no pudo repararse y hay cola, se encola un barrido completo y la
// operación se considera exitosa; sin cola se devuelve el *domain.SweepError.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) (*dto.DeleteProductResponse, error) {
	deleted, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return nil, domain.WrapStore("eliminar producto", err)
	}
	if !deleted {
		return nil, &domain.NotFoundError{Resource: "product", ID: id}
	}

	report, err := uc.cascade.RepairAfterProductDeletion(ctx, id)
	out := &dto.DeleteProductResponse{
		ProductID:     id,
		SalesModified: report.Modified,
		SalesDeleted:  report.Deleted,
		SalesFailed:   report.Failed,
	}
	if err == nil {
		return out, nil
	}

	uc.log.Warn().Err(err).Str("product_id", id).Msg("reparación de ventas incompleta")
	if uc.scheduler == nil {
		return out, err
	}
	taskID, qerr := uc.scheduler.EnqueueSweep(ctx, false)
	if qerr != nil {
		uc.log.Error().Err(qerr).Str("product_id", id).Msg("no se pudo encolar el barrido de ventas")
		return out, errors.Join(err, qerr)
	}
	uc.log.Info().Str("product_id", id).Str("task_id", taskID).Msg("barrido de ventas encolado")
	out.SweepQueued = true
	return out, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Stock:     p.Stock,
		Category:  p.Category,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
