// Package ledger arma el Ledger Store según la configuración (PostgreSQL o memoria)
// y le agrega la caché Redis de vendedores cuando hay Redis.
package ledger

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/gimnasio-api/internal/domain/repository"
	"github.com/jhoicas/gimnasio-api/internal/infrastructure/cache"
	"github.com/jhoicas/gimnasio-api/internal/infrastructure/memory"
	"github.com/jhoicas/gimnasio-api/internal/infrastructure/postgres"
	"github.com/jhoicas/gimnasio-api/pkg/config"
)

// Ledger puertos del almacén listos para inyectar en los casos de uso.
type Ledger struct {
	Driver    string
	Products  repository.ProductRepository
	Sales     repository.SaleRepository
	StockLogs repository.StockLogRepository
	Sellers   repository.SellerDirectory

	closers []func()
}

// Open construye el ledger. Llamar Close al terminar.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Ledger, error) {
	l := &Ledger{Driver: cfg.Ledger.Driver}

	switch cfg.Ledger.Driver {
	case config.LedgerMemory:
		l.Products = memory.NewProductRepository()
		l.Sales = memory.NewSaleRepository()
		l.StockLogs = memory.NewStockLogRepository()
		l.Sellers = memory.NewSellerDirectory()
		log.Warn().Msg("ledger en memoria: los datos se pierden al reiniciar")
	case config.LedgerPostgres:
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(cfg.DB.ConnectionString(), log); err != nil {
				return nil, err
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.DB, log)
		if err != nil {
			return nil, err
		}
		l.closers = append(l.closers, pool.Close)
		l.Products = postgres.NewProductRepository(pool)
		l.Sales = postgres.NewSaleRepository(pool)
		l.StockLogs = postgres.NewStockLogRepository(pool)
		l.Sellers = postgres.NewSellerDirectory(pool)
	default:
		return nil, fmt.Errorf("ledger: driver desconocido %q", cfg.Ledger.Driver)
	}

	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		l.closers = append(l.closers, func() { _ = rdb.Close() })
		l.Sellers = cache.NewSellerDirectory(l.Sellers, rdb, cfg.Redis.SellerCacheTTL, log)
		log.Info().Str("redis_addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.SellerCacheTTL).Msg("caché de vendedores habilitada")
	}
	return l, nil
}

// Close libera conexiones en orden inverso a su apertura.
func (l *Ledger) Close() {
	for i := len(l.closers) - 1; i >= 0; i-- {
		l.closers[i]()
	}
	l.closers = nil
}
