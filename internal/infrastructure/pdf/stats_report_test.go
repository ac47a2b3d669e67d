package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gimnasio-api/internal/application/dto"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":        "0",
		"250":      "250",
		"25000":    "25.000",
		"1000000":  "1.000.000",
		"1234.5":   "1.234,50",
		"-4500.25": "-4.500,25",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestPeriodLabel(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)

	assert.Equal(t, "Período: histórico completo", periodLabel(&dto.GeneralStatsDTO{}))
	assert.Equal(t, "Desde: 01/03/2024", periodLabel(&dto.GeneralStatsDTO{StartDate: &start}))
	assert.Equal(t, "Período: 01/03/2024 - 31/03/2024", periodLabel(&dto.GeneralStatsDTO{StartDate: &start, EndDate: &end}))
}

func TestRenderGeneralStats_GeneraPDF(t *testing.T) {
	r := NewStatsReportRenderer("Gimnasio Centro")
	stats := &dto.GeneralStatsDTO{
		TotalRevenue:    decimal.NewFromInt(36),
		TotalSalesCount: 2,
		Breakdown: []dto.SellerStatsDTO{{
			Name: "Ana Pérez", SalesCount: 2, Revenue: decimal.NewFromInt(36),
			Products: []dto.ProductRevenueDTO{
				{Name: "Proteína", Quantity: 2, Revenue: decimal.NewFromInt(20)},
				{Name: "Agua", Quantity: 8, Revenue: decimal.NewFromInt(16)},
			},
		}},
	}

	out, err := r.RenderGeneralStats(context.Background(), stats)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderGeneralStats_SinVentas(t *testing.T) {
	out, err := NewStatsReportRenderer("").RenderGeneralStats(context.Background(), &dto.GeneralStatsDTO{})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestRenderGeneralStats_Nil(t *testing.T) {
	_, err := NewStatsReportRenderer("").RenderGeneralStats(context.Background(), nil)
	assert.Error(t, err)
}
