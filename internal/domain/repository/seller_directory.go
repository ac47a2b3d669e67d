package repository

import (
	"context"

	"github.com/jhoicas/gimnasio-api/internal/domain/entity"
)

// SellerDirectory resuelve vendedores contra la capa de usuarios (colaborador externo).
type SellerDirectory interface {
	// ResolveSeller devuelve found=false si el ID no corresponde a ningún usuario.
	ResolveSeller(ctx context.Context, sellerID string) (seller entity.Seller, found bool, err error)
}
