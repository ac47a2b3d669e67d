// Package analytics contiene los reportes de ventas por producto y por vendedor.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/gimnasio-api/internal/application/dto"
	"github.com/jhoicas/gimnasio-api/internal/application/sellers"
	"github.com/jhoicas/gimnasio-api/internal/domain"
	"github.com/jhoicas/gimnasio-api/internal/domain/entity"
	"github.com/jhoicas/gimnasio-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// SalesStatsUseCase agrega estadísticas a partir de las ventas (solo lectura).
//
// Todo acumulador vive dentro de la llamada: no hay estado compartido entre reportes.
type SalesStatsUseCase struct {
	sales    repository.SaleRepository
	sellers  repository.SellerDirectory
	renderer ReportRenderer
	loc      *time.Location
}

// NewSalesStatsUseCase construye el caso de uso. loc define el día calendario
// usado al normalizar rangos; nil = time.Local. renderer puede ser nil.
func NewSalesStatsUseCase(sales repository.SaleRepository, sellers repository.SellerDirectory, renderer ReportRenderer, loc *time.Location) *SalesStatsUseCase {
	if loc == nil {
		loc = time.Local
	}
	return &SalesStatsUseCase{sales: sales, sellers: sellers, renderer: renderer, loc: loc}
}

// StatsForProduct resume las ventas de un producto, opcionalmente de un solo vendedor.
//
// Si una venta tiene varias líneas del producto se suman. El desglose por vendedor
// se ordena por cantidad descendente y el historial de la venta más reciente a la más antigua.
func (uc *SalesStatsUseCase) StatsForProduct(ctx context.Context, productID, sellerID string) (*dto.ProductStatsDTO, error) {
	if productID == "" {
		return nil, domain.Invalid("product_id", "es requerido")
	}
	list, err := uc.sales.Find(ctx, repository.SaleFilter{ProductID: productID, SellerID: sellerID, NewestFirst: true})
	if err != nil {
		return nil, domain.WrapStore("buscar ventas", err)
	}

	names := sellers.NewNames(uc.sellers)
	bySeller := make(map[string]int)
	out := &dto.ProductStatsDTO{
		ProductID: productID,
		Breakdown: []dto.SellerQuantityDTO{},
		SalesLog:  make([]dto.ProductSaleLogDTO, 0, len(list)),
	}

	for _, sale := range list {
		qty := 0
		amount := decimal.Zero
		for _, it := range sale.Items {
			if it.ProductID != productID {
				continue
			}
			qty += it.Quantity
			amount = amount.Add(it.Subtotal())
		}
		if qty == 0 {
			continue
		}
		name, err := names.Name(ctx, sale.SellerID)
		if err != nil {
			return nil, err
		}
		out.TotalSold += qty
		bySeller[name] += qty
		out.SalesLog = append(out.SalesLog, dto.ProductSaleLogDTO{
			SaleID:     sale.ID,
			Date:       sale.Date,
			SellerName: name,
			Quantity:   qty,
			Amount:     amount,
		})
	}

	for name, qty := range bySeller {
		out.Breakdown = append(out.Breakdown, dto.SellerQuantityDTO{Name: name, Quantity: qty})
	}
	sort.Slice(out.Breakdown, func(i, j int) bool {
		a, b := out.Breakdown[i], out.Breakdown[j]
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		return a.Name < b.Name
	})
	return out, nil
}

// sellerAcc acumulador por nombre de vendedor.
type sellerAcc struct {
	count    int
	revenue  decimal.Decimal
	products map[string]*dto.ProductRevenueDTO
}

// GeneralStats resume las ventas del rango agrupadas por vendedor.
//
// start se lleva a las 00:00:00.000 y end a las 23:59:59.999 de su día (ambos inclusivos);
// cualquiera de los dos puede omitirse. Vendedores y productos se ordenan por ingreso
// descendente. El ingreso del vendedor suma Sale.Total; el de cada producto, precio × cantidad.
func (uc *SalesStatsUseCase) GeneralStats(ctx context.Context, start, end *time.Time) (*dto.GeneralStatsDTO, error) {
	from, to := uc.normalizeRange(start, end)
	if from != nil && to != nil && from.After(*to) {
		return nil, domain.Invalid("start_date", "no puede ser posterior a end_date")
	}
	list, err := uc.sales.Find(ctx, repository.SaleFilter{From: from, To: to})
	if err != nil {
		return nil, domain.WrapStore("buscar ventas", err)
	}

	names := sellers.NewNames(uc.sellers)
	acc := make(map[string]*sellerAcc)
	out := &dto.GeneralStatsDTO{
		StartDate:    from,
		EndDate:      to,
		TotalRevenue: decimal.Zero,
		Breakdown:    []dto.SellerStatsDTO{},
	}

	for _, sale := range list {
		name, err := names.Name(ctx, sale.SellerID)
		if err != nil {
			return nil, err
		}
		a, ok := acc[name]
		if !ok {
			a = &sellerAcc{revenue: decimal.Zero, products: make(map[string]*dto.ProductRevenueDTO)}
			acc[name] = a
		}
		a.count++
		a.revenue = a.revenue.Add(sale.Total)
		for _, it := range sale.Items {
			pName := it.Name
			if pName == "" {
				pName = entity.ProductUnknown
			}
			p, ok := a.products[pName]
			if !ok {
				p = &dto.ProductRevenueDTO{Name: pName, Revenue: decimal.Zero}
				a.products[pName] = p
			}
			p.Quantity += it.Quantity
			p.Revenue = p.Revenue.Add(it.Subtotal())
		}
		out.TotalSalesCount++
		out.TotalRevenue = out.TotalRevenue.Add(sale.Total)
	}

	for name, a := range acc {
		s := dto.SellerStatsDTO{Name: name, SalesCount: a.count, Revenue: a.revenue, Products: make([]dto.ProductRevenueDTO, 0, len(a.products))}
		for _, p := range a.products {
			s.Products = append(s.Products, *p)
		}
		sort.Slice(s.Products, func(i, j int) bool {
			return byRevenue(s.Products[i].Revenue, s.Products[j].Revenue, s.Products[i].Name, s.Products[j].Name)
		})
		out.Breakdown = append(out.Breakdown, s)
	}
	sort.Slice(out.Breakdown, func(i, j int) bool {
		return byRevenue(out.Breakdown[i].Revenue, out.Breakdown[j].Revenue, out.Breakdown[i].Name, out.Breakdown[j].Name)
	})
	return out, nil
}

// GeneralStatsReport genera el PDF del resumen general.
func (uc *SalesStatsUseCase) GeneralStatsReport(ctx context.Context, start, end *time.Time) ([]byte, error) {
	if uc.renderer == nil {
		return nil, fmt.Errorf("analytics: generador de reportes no configurado")
	}
	stats, err := uc.GeneralStats(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return uc.renderer.RenderGeneralStats(ctx, stats)
}

// normalizeRange lleva los extremos al inicio y al final de su día calendario en uc.loc.
func (uc *SalesStatsUseCase) normalizeRange(start, end *time.Time) (from, to *time.Time) {
	if start != nil {
		s := start.In(uc.loc)
		f := time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, uc.loc)
		from = &f
	}
	if end != nil {
		e := end.In(uc.loc)
		t := time.Date(e.Year(), e.Month(), e.Day(), 23, 59, 59, int(999*time.Millisecond), uc.loc)
		to = &t
	}
	return from, to
}

func byRevenue(a, b decimal.Decimal, nameA, nameB string) bool {
	if c := a.Cmp(b); c != 0 {
		return c > 0
	}
	return nameA < nameB
}
