// Package memory implementa el ledger en memoria: driver de desarrollo y doble de pruebas.
// Cada repositorio protege su estado con un mutex y copia los registros al entrar y salir.
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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo catálogo de productos en memoria.
type ProductRepo struct {
	mu       sync.RWMutex
	products map[string]entity.Product
}

// NewProductRepository construye el repositorio vacío.
func NewProductRepository() *ProductRepo {
	return &ProductRepo{products: make(map[string]entity.Product)}
}

// Create persiste un nuevo producto; asigna ID y timestamps si faltan.
func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	product.Normalize()
	if err := product.Validate(); err != nil {
		return err
	}
	now := time.Now()
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	if product.UpdatedAt.IsZero() {
		product.UpdatedAt = now
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[product.ID]; ok {
		return domain.Invalid("id", "ya existe un producto con ese ID")
	}
	r.products[product.ID] = *product
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// List devuelve los productos ordenados por nombre.
func (r *ProductRepo) List(_ context.Context) ([]*entity.Product, error) {
	r.mu.RLock()
	list := make([]*entity.Product, 0, len(r.products))
	for _, p := range r.products {
		p := p
		list = append(list, &p)
	}
	r.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

// Update modifica nombre, precio y categoría.
func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	product.Normalize()
	if err := product.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.products[product.ID]
	if !ok {
		return &domain.NotFoundError{Resource: "product", ID: product.ID}
	}
	cur.Name = product.Name
	cur.Price = product.Price
	cur.Category = product.Category
	cur.UpdatedAt = time.Now()
	r.products[product.ID] = cur
	*product = cur
	return nil
}

// UpdateStock sobrescribe el stock.
func (r *ProductRepo) UpdateStock(_ context.Context, id string, newStock int) error {
	if newStock < 0 {
		return domain.Invalid("stock", "no puede ser negativo")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.products[id]
	if !ok {
		return &domain.NotFoundError{Resource: "product", ID: id}
	}
	cur.Stock = newStock
	cur.UpdatedAt = time.Now()
	r.products[id] = cur
	return nil
}

// Delete elimina el producto.
func (r *ProductRepo) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return false, nil
	}
	delete(r.products, id)
	return true, nil
}

// ListIDs devuelve el conjunto de IDs vigentes.
func (r *ProductRepo) ListIDs(_ context.Context) (map[string]struct{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make(map[string]struct{}, len(r.products))
	for id := range r.products {
		ids[id] = struct{}{}
	}
	return ids, nil
}

// BulkDecrementStock verifica todos los decrementos bajo el lock y luego los aplica juntos.
func (r *ProductRepo) BulkDecrementStock(_ context.Context, quantities map[string]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range sortedKeys(quantities) {
		qty := quantities[id]
		if qty <= 0 {
			return domain.Invalid("quantity", "debe ser mayor a cero")
		}
		p, ok := r.products[id]
		if !ok {
			return &domain.NotFoundError{Resource: "product", ID: id}
		}
		if p.Stock < qty {
			return &domain.InsufficientStockError{ProductID: id, ProductName: p.Name, Available: p.Stock, Requested: qty}
		}
	}
	now := time.Now()
	for id, qty := range quantities {
		p := r.products[id]
		p.Stock -= qty
		p.UpdatedAt = now
		r.products[id] = p
	}
	return nil
}

// BulkIncrementStock devuelve stock a los productos que aún existen.
func (r *ProductRepo) BulkIncrementStock(_ context.Context, quantities map[string]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for id, qty := range quantities {
		p, ok := r.products[id]
		if !ok {
			continue
		}
		p.Stock += qty
		p.UpdatedAt = now
		r.products[id] = p
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
