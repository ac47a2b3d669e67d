// Package pdf genera el reporte general de ventas en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del gimnasio  │  Período + fecha de emisión  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Ingresos totales / Cantidad de ventas              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  POR VENDEDOR: nombre, ventas, ingresos                      │
//	│     TABLA: Producto | Cant. | Ingresos                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gimnasio-api/internal/application/dto"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// StatsReportRenderer implementa analytics.ReportRenderer.
type StatsReportRenderer struct {
	title string
	now   func() time.Time
}

// NewStatsReportRenderer construye el renderer; title encabeza cada reporte.
func NewStatsReportRenderer(title string) *StatsReportRenderer {
	if title == "" {
		title = "Reporte de ventas"
	}
	return &StatsReportRenderer{title: title, now: time.Now}
}

// RenderGeneralStats genera el PDF y devuelve sus bytes.
func (r *StatsReportRenderer) RenderGeneralStats(ctx context.Context, stats *dto.GeneralStatsDTO) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if stats == nil {
		return nil, fmt.Errorf("pdf: estadísticas nulas")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(r.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(r.title, periodLabel(stats), r.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(stats))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	if len(stats.Breakdown) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Sin ventas en el período.", props.Text{Size: 9, Top: 3, Color: colorGray, Align: align.Center}),
		)))
	}
	for _, seller := range stats.Breakdown {
		m.AddRows(sellerRows(seller)...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(title, period string, issued time.Time) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
		),
		col.New(5).Add(
			text.New(period, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2}),
			text.New("Emitido: "+issued.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

func summaryRow(stats *dto.GeneralStatsDTO) core.Row {
	return row.New(14).Add(
		col.New(6).Add(
			text.New("INGRESOS TOTALES", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New("$"+formatMoney(stats.TotalRevenue), props.Text{Style: fontstyle.Bold, Size: 12, Top: 6}),
		),
		col.New(6).Add(
			text.New("CANTIDAD DE VENTAS", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1, Align: align.Right}),
			text.New(fmt.Sprintf("%d", stats.TotalSalesCount), props.Text{Style: fontstyle.Bold, Size: 12, Top: 6, Align: align.Right}),
		),
	)
}

// sellerRows: cabecera del vendedor más una fila por producto.
func sellerRows(s dto.SellerStatsDTO) []core.Row {
	rows := []core.Row{
		row.New(10).Add(
			col.New(8).Add(text.New(s.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 3, Color: colorPrimary})),
			col.New(4).Add(text.New(
				fmt.Sprintf("%d venta(s)  |  $%s", s.SalesCount, formatMoney(s.Revenue)),
				props.Text{Size: 9, Top: 3, Align: align.Right},
			)),
		),
		tableHeaderRow(),
	}
	for _, p := range s.Products {
		rows = append(rows, row.New(6).Add(
			col.New(7).Add(text.New(p.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(fmt.Sprintf("%d", p.Quantity), props.Text{Size: 8, Top: 1, Align: align.Center})),
			col.New(3).Add(text.New("$"+formatMoney(p.Revenue), props.Text{Size: 8, Top: 1, Align: align.Right, Right: 1})),
		))
	}
	return rows
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 1.5, Left: 1, Right: 1,
		}))
	}
	return row.New(7).Add(
		h("Producto", 7, align.Left),
		h("Cant.", 2, align.Center),
		h("Ingresos", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func periodLabel(stats *dto.GeneralStatsDTO) string {
	const layout = "02/01/2006"
	switch {
	case stats.StartDate != nil && stats.EndDate != nil:
		return "Período: " + stats.StartDate.Format(layout) + " - " + stats.EndDate.Format(layout)
	case stats.StartDate != nil:
		return "Desde: " + stats.StartDate.Format(layout)
	case stats.EndDate != nil:
		return "Hasta: " + stats.EndDate.Format(layout)
	default:
		return "Período: histórico completo"
	}
}

// formatMoney formatea con puntos de miles y coma decimal cuando hay centavos.
// Ej: 25000 → "25.000", 1234.5 → "1.234,50"
func formatMoney(d decimal.Decimal) string {
	neg := d.IsNegative()
	d = d.Abs()
	intPart := d.Truncate(0).StringFixed(0)
	frac := d.Sub(d.Truncate(0))

	n := len(intPart)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteByte(c)
	}
	if !frac.IsZero() {
		b.WriteByte(',')
		b.WriteString(d.StringFixed(2)[len(d.StringFixed(2))-2:])
	}
	return b.String()
}
