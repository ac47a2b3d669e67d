package sales

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/gimnasio-api/internal/domain"
	"github.com/jhoicas/gimnasio-api/internal/domain/entity"
	"github.com/jhoicas/gimnasio-api/internal/domain/repository"
	domainsales "github.com/jhoicas/gimnasio-api/internal/domain/sales"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// SweepReport conteos de una reparación. Failed cuenta ventas que quedaron sin reparar.
type SweepReport struct {
	Scanned  int
	Modified int
	Deleted  int
	Failed   int
	DryRun   bool
}

// SweepOptions opciones del barrido completo.
type SweepOptions struct {
	DryRun bool // solo contar, sin escribir
}

// Sweeper elimina de las ventas las líneas que apuntan a productos inexistentes.
// Una venta que queda sin líneas se borra; si no, se guarda con el total recalculado.
type Sweeper struct {
	products    repository.ProductRepository
	sales       repository.SaleRepository
	concurrency int
	log         zerolog.Logger
}

// NewSweeper construye el barrido. concurrency <= 0 equivale a 1.
func NewSweeper(products repository.ProductRepository, sales repository.SaleRepository, concurrency int, log zerolog.Logger) *Sweeper {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Sweeper{
		products:    products,
		sales:       sales,
		concurrency: concurrency,
		log:         log.With().Str("component", "sweeper").Logger(),
	}
}

// RepairAfterProductDeletion quita el producto eliminado de todas las ventas que lo contienen.
func (s *Sweeper) RepairAfterProductDeletion(ctx context.Context, productID string) (SweepReport, error) {
	affected, err := s.sales.Find(ctx, repository.SaleFilter{ProductID: productID})
	if err != nil {
		return SweepReport{}, domain.WrapStore("buscar ventas del producto", err)
	}
	report, err := s.apply(ctx, affected, domainsales.WithoutProduct(productID), false)
	s.log.Info().Str("product_id", productID).Int("modified", report.Modified).
		Int("deleted", report.Deleted).Int("failed", report.Failed).Msg("ventas reparadas tras eliminar producto")
	return report, err
}

// Sweep recorre todas las ventas contra el catálogo vigente. Es idempotente:
// una segunda pasada sin cambios en productos no modifica nada.
func (s *Sweeper) Sweep(ctx context.Context, opts SweepOptions) (SweepReport, error) {
	valid, err := s.products.ListIDs(ctx)
	if err != nil {
		return SweepReport{DryRun: opts.DryRun}, domain.WrapStore("listar productos", err)
	}
	all, err := s.sales.Find(ctx, repository.SaleFilter{})
	if err != nil {
		return SweepReport{DryRun: opts.DryRun}, domain.WrapStore("listar ventas", err)
	}
	report, err := s.apply(ctx, all, domainsales.InCatalog(valid), opts.DryRun)
	s.log.Info().Bool("dry_run", opts.DryRun).Int("scanned", report.Scanned).Int("modified", report.Modified).
		Int("deleted", report.Deleted).Int("failed", report.Failed).Msg("barrido de ventas finalizado")
	return report, err
}

// apply repara cada venta de forma independiente; los fallos se acumulan en *domain.SweepError.
func (s *Sweeper) apply(ctx context.Context, list []*entity.Sale, keep func(entity.SaleItem) bool, dryRun bool) (SweepReport, error) {
	report := SweepReport{Scanned: len(list), DryRun: dryRun}
	var (
		mu       sync.Mutex
		failures []domain.SaleRepairFailure
	)

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for _, sale := range list {
		g.Go(func() error {
			repaired, action := domainsales.Repair(sale, keep)
			var err error
			if !dryRun {
				switch action {
				case domainsales.RepairDelete:
					err = s.sales.Delete(ctx, sale.ID)
				case domainsales.RepairUpdate:
					err = s.sales.Save(ctx, repaired)
				}
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed++
				failures = append(failures, domain.SaleRepairFailure{SaleID: sale.ID, Err: domain.WrapStore("reparar venta", err)})
				s.log.Error().Err(err).Str("sale_id", sale.ID).Str("action", action.String()).Msg("no se pudo reparar la venta")
				return nil
			}
			switch action {
			case domainsales.RepairDelete:
				report.Deleted++
			case domainsales.RepairUpdate:
				report.Modified++
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(failures) > 0 {
		sort.Slice(failures, func(i, j int) bool { return failures[i].SaleID < failures[j].SaleID })
		return report, &domain.SweepError{Failures: failures}
	}
	return report, nil
}
