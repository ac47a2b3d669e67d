package sales_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jhoicas/gimnasio-api/internal/domain/entity"
	"github.com/jhoicas/gimnasio-api/internal/domain/repository"
	"github.com/jhoicas/gimnasio-api/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var errDisco = errors.New("disco lleno")

func nuevoProducto(t *testing.T, repo *memory.ProductRepo, name string, price int64, stock int) *entity.Product {
	t.Helper()
	p := &entity.Product{Name: name, Price: decimal.NewFromInt(price), Stock: stock}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func stockDe(t *testing.T, repo *memory.ProductRepo, id string) int {
	t.Helper()
	p, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}

func nuevaVenta(t *testing.T, repo *memory.SaleRepo, seller string, items ...entity.SaleItem) *entity.Sale {
	t.Helper()
	s := &entity.Sale{Items: items, SellerID: seller}
	s.Total = s.ComputeTotal()
	require.NoError(t, repo.Create(context.Background(), s))
	return s
}

func item(p *entity.Product, qty int) entity.SaleItem {
	return entity.SaleItem{ProductID: p.ID, Name: p.Name, Quantity: qty, Price: p.Price}
}

// failingSales falla Create siempre y Save/Delete para los IDs indicados.
type failingSales struct {
	*memory.SaleRepo
	failCreate bool
	mu         sync.Mutex
	failIDs    map[string]bool
}

func (f *failingSales) Create(ctx context.Context, s *entity.Sale) error {
	if f.failCreate {
		return errDisco
	}
	return f.SaleRepo.Create(ctx, s)
}

func (f *failingSales) Save(ctx context.Context, s *entity.Sale) error {
	f.mu.Lock()
	fail := f.failIDs[s.ID]
	f.mu.Unlock()
	if fail {
		return errDisco
	}
	return f.SaleRepo.Save(ctx, s)
}

func (f *failingSales) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	fail := f.failIDs[id]
	f.mu.Unlock()
	if fail {
		return errDisco
	}
	return f.SaleRepo.Delete(ctx, id)
}

// noRestock falla la compensación.
type noRestock struct {
	*memory.ProductRepo
}

func (noRestock) BulkIncrementStock(context.Context, map[string]int) error {
	return errors.New("conexión perdida")
}

func repositoryFilterAll() repository.SaleFilter {
	return repository.SaleFilter{}
}
