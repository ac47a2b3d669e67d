// Package cache contiene decoradores de lectura respaldados por Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jhoicas/gimnasio-api/internal/domain/entity"
	"github.com/jhoicas/gimnasio-api/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const sellerKeyPrefix = "gym:seller:"

var _ repository.SellerDirectory = (*SellerDirectory)(nil)

// cachedSeller se guarda también cuando el usuario no existe, para no repetir la consulta.
type cachedSeller struct {
	Found    bool   `json:"found"`
	ID       string `json:"id,omitempty"`
	Nombre   string `json:"nombre,omitempty"`
	Apellido string `json:"apellido,omitempty"`
}

// SellerDirectory read-through sobre otro SellerDirectory.
// Un Redis caído degrada a consultar directamente el directorio subyacente.
type SellerDirectory struct {
	next   repository.SellerDirectory
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewSellerDirectory envuelve next con caché de ttl.
func NewSellerDirectory(next repository.SellerDirectory, client *redis.Client, ttl time.Duration, log zerolog.Logger) *SellerDirectory {
	return &SellerDirectory{
		next:   next,
		client: client,
		ttl:    ttl,
		log:    log.With().Str("component", "seller_cache").Logger(),
	}
}

// ResolveSeller consulta Redis y, si no hay entrada, el directorio subyacente.
func (d *SellerDirectory) ResolveSeller(ctx context.Context, sellerID string) (entity.Seller, bool, error) {
	key := sellerKeyPrefix + sellerID
	data, err := d.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var c cachedSeller
		if jerr := json.Unmarshal(data, &c); jerr == nil {
			return entity.Seller{ID: c.ID, Nombre: c.Nombre, Apellido: c.Apellido}, c.Found, nil
		}
		d.log.Warn().Str("key", key).Msg("entrada de caché corrupta")
	case !errors.Is(err, redis.Nil):
		d.log.Warn().Err(err).Str("key", key).Msg("redis no disponible, consultando directorio")
	}

	seller, found, err := d.next.ResolveSeller(ctx, sellerID)
	if err != nil {
		return entity.Seller{}, false, err
	}
	payload, _ := json.Marshal(cachedSeller{Found: found, ID: seller.ID, Nombre: seller.Nombre, Apellido: seller.Apellido})
	if err := d.client.Set(ctx, key, payload, d.ttl).Err(); err != nil {
		d.log.Debug().Err(err).Str("key", key).Msg("no se pudo guardar en caché")
	}
	return seller, found, nil
}
