// Package sellers resuelve el nombre a mostrar de quien registró una venta.
package sellers

import (
	"context"

	"github.com/jhoicas/gimnasio-api/internal/domain"
	"github.com/jhoicas/gimnasio-api/internal/domain/entity"
	"github.com/jhoicas/gimnasio-api/internal/domain/repository"
)

// Names memoiza la resolución de vendedores durante una sola operación.
// No es seguro para uso concurrente; crear uno por llamada.
type Names struct {
	dir  repository.SellerDirectory
	memo map[string]string
}

// NewNames construye el resolvedor. dir nil = todo vendedor es desconocido.
func NewNames(dir repository.SellerDirectory) *Names {
	return &Names{dir: dir, memo: make(map[string]string)}
}

// Name devuelve el nombre compuesto del vendedor.
// Sin referencia o inexistente: entity.SellerUnknown. Existe pero sin nombre: entity.SellerNoName.
func (n *Names) Name(ctx context.Context, sellerID string) (string, error) {
	if sellerID == "" || n.dir == nil {
		return entity.SellerUnknown, nil
	}
	if name, ok := n.memo[sellerID]; ok {
		return name, nil
	}
	seller, found, err := n.dir.ResolveSeller(ctx, sellerID)
	if err != nil {
		return "", domain.StoreError("resolver vendedor", err)
	}
	name := entity.SellerUnknown
	if found {
		name = seller.DisplayName()
	}
	n.memo[sellerID] = name
	return name, nil
}
