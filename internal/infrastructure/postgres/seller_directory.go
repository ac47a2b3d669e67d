package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/gimnasio-api/internal/domain/entity"
	"github.com/jhoicas/gimnasio-api/internal/domain/repository"
)

var _ repository.SellerDirectory = (*SellerDirectory)(nil)

// SellerDirectory lee vendedores de la tabla `users` (administrada por la capa de usuarios).
type SellerDirectory struct {
	q Querier
}

// NewSellerDirectory construye el adaptador.
func NewSellerDirectory(q Querier) *SellerDirectory {
	return &SellerDirectory{q: q}
}

// ResolveSeller busca el usuario por ID; found=false si no existe.
func (d *SellerDirectory) ResolveSeller(ctx context.Context, sellerID string) (entity.Seller, bool, error) {
	var s entity.Seller
	err := d.q.QueryRow(ctx,
		`SELECT id, COALESCE(nombre, ''), COALESCE(apellido, '') FROM users WHERE id = $1`, sellerID).
		Scan(&s.ID, &s.Nombre, &s.Apellido)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.Seller{}, false, nil
	}
	if err != nil {
		return entity.Seller{}, false, err
	}
	return s, true, nil
}
