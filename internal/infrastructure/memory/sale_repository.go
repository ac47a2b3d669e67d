package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/gimnasio-api/internal/domain"
	"github.com/jhoicas/gimnasio-api/internal/domain/entity"
	"github.com/jhoicas/gimnasio-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas en memoria con índice producto → ventas para el borrado en cascada.
type SaleRepo struct {
	mu        sync.RWMutex
	sales     map[string]*entity.Sale
	order     []string // orden de inserción
	byProduct map[string]map[string]struct{}
}

// NewSaleRepository construye el repositorio vacío.
func NewSaleRepository() *SaleRepo {
	return &SaleRepo{
		sales:     make(map[string]*entity.Sale),
		byProduct: make(map[string]map[string]struct{}),
	}
}

// Create persiste una venta nueva.
func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	if err := sale.Validate(); err != nil {
		return err
	}
	if sale.ID == "" {
		sale.ID = uuid.New().String()
	}
	if sale.Date.IsZero() {
		sale.Date = time.Now()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sales[sale.ID]; ok {
		return domain.Invalid("id", "ya existe una venta con ese ID")
	}
	r.sales[sale.ID] = sale.Clone()
	r.order = append(r.order, sale.ID)
	r.index(sale)
	return nil
}

// GetByID obtiene una venta por ID.
func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sales[id]
	if !ok {
		return nil, nil
	}
	return s.Clone(), nil
}

// Find aplica los filtros sobre el índice o sobre todas las ventas.
func (r *SaleRepo) Find(_ context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	r.mu.RLock()
	var out []*entity.Sale
	for _, id := range r.order {
		s, ok := r.sales[id]
		if !ok {
			continue
		}
		if f.ProductID != "" {
			if _, hit := r.byProduct[f.ProductID][id]; !hit {
				continue
			}
		}
		if f.SellerID != "" && s.SellerID != f.SellerID {
			continue
		}
		if f.From != nil && s.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && s.Date.After(*f.To) {
			continue
		}
		out = append(out, s.Clone())
	}
	r.mu.RUnlock()

	if f.NewestFirst {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// Save reemplaza líneas y total.
func (r *SaleRepo) Save(_ context.Context, sale *entity.Sale) error {
	if err := sale.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.sales[sale.ID]
	if !ok {
		return &domain.NotFoundError{Resource: "sale", ID: sale.ID}
	}
	r.unindex(cur)
	next := cur.Clone()
	next.Items = append([]entity.SaleItem(nil), sale.Items...)
	next.Total = sale.Total
	r.sales[sale.ID] = next
	r.index(next)
	return nil
}

// Delete elimina la venta.
func (r *SaleRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.sales[id]
	if !ok {
		return &domain.NotFoundError{Resource: "sale", ID: id}
	}
	r.unindex(cur)
	delete(r.sales, id)
	for i, sid := range r.order {
		if sid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *SaleRepo) index(s *entity.Sale) {
	for _, it := range s.Items {
		if it.ProductID == "" {
			continue
		}
		set, ok := r.byProduct[it.ProductID]
		if !ok {
			set = make(map[string]struct{})
			r.byProduct[it.ProductID] = set
		}
		set[s.ID] = struct{}{}
	}
}

func (r *SaleRepo) unindex(s *entity.Sale) {
	for _, it := range s.Items {
		if set, ok := r.byProduct[it.ProductID]; ok {
			delete(set, s.ID)
			if len(set) == 0 {
				delete(r.byProduct, it.ProductID)
			}
		}
	}
}
