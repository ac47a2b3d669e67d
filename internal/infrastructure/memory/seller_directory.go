package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/gimnasio-api/internal/domain/entity"
	"github.com/jhoicas/gimnasio-api/internal/domain/repository"
)

var _ repository.SellerDirectory = (*SellerDirectory)(nil)

// SellerDirectory directorio de vendedores en memoria.
type SellerDirectory struct {
	mu      sync.RWMutex
	sellers map[string]entity.Seller
}

// NewSellerDirectory construye el directorio con los vendedores dados.
func NewSellerDirectory(sellers ...entity.Seller) *SellerDirectory {
	d := &SellerDirectory{sellers: make(map[string]entity.Seller, len(sellers))}
	for _, s := range sellers {
		d.sellers[s.ID] = s
	}
	return d
}

// Put agrega o reemplaza un vendedor.
func (d *SellerDirectory) Put(s entity.Seller) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sellers[s.ID] = s
}

// ResolveSeller busca el vendedor por ID.
func (d *SellerDirectory) ResolveSeller(_ context.Context, sellerID string) (entity.Seller, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, ok := d.sellers[sellerID]
	return s, ok, nil
}
