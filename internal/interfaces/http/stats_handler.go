package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gimnasio-api/internal/application/analytics"
	"github.com/jhoicas/gimnasio-api/internal/domain"
)

// StatsHandler expone las estadísticas de ventas (protegido).
type StatsHandler struct {
	uc  *analytics.SalesStatsUseCase
	loc *time.Location
}

// NewStatsHandler construye el handler. loc interpreta las fechas sin zona horaria.
func NewStatsHandler(uc *analytics.SalesStatsUseCase, loc *time.Location) *StatsHandler {
	if loc == nil {
		loc = time.Local
	}
	return &StatsHandler{uc: uc, loc: loc}
}

// ProductStats godoc
// @Summary      Estadísticas de un producto
// @Description  Total vendido, desglose por vendedor e historial (más reciente primero).
// @Tags         stats
// @Security     Bearer
// @Produce      json
// @Param        id         path   string  true   "ID del producto"
// @Param        seller_id  query  string  false  "Filtrar por vendedor"
// @Success      200  {object}  dto.ProductStatsDTO
// @Router       /api/products/{id}/sales-stats [get]
func (h *StatsHandler) ProductStats(c *fiber.Ctx) error {
	out, err := h.uc.StatsForProduct(c.UserContext(), c.Params("id"), c.Query("seller_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GeneralStats godoc
// @Summary      Resumen general de ventas
// @Description  Agrupado por vendedor y ordenado por ingresos. Fechas YYYY-MM-DD o RFC3339, inclusivas por día completo.
// @Tags         stats
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "Desde"
// @Param        end_date    query  string  false  "Hasta"
// @Success      200  {object}  dto.GeneralStatsDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales/general-stats [get]
func (h *StatsHandler) GeneralStats(c *fiber.Ctx) error {
	start, end, err := h.dateRange(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.GeneralStats(c.UserContext(), start, end)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GeneralStatsPDF godoc
// @Summary      Resumen general de ventas en PDF
// @Tags         stats
// @Security     Bearer
// @Produce      application/pdf
// @Param        start_date  query  string  false  "Desde"
// @Param        end_date    query  string  false  "Hasta"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales/general-stats/pdf [get]
func (h *StatsHandler) GeneralStatsPDF(c *fiber.Ctx) error {
	start, end, err := h.dateRange(c)
	if err != nil {
		return respondError(c, err)
	}
	doc, err := h.uc.GeneralStatsReport(c.UserContext(), start, end)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="ventas-%s.pdf"`, time.Now().In(h.loc).Format("20060102")))
	return c.Send(doc)
}

func (h *StatsHandler) dateRange(c *fiber.Ctx) (start, end *time.Time, err error) {
	if start, err = parseDate(c.Query("start_date"), h.loc); err != nil {
		return nil, nil, domain.Invalid("start_date", err.Error())
	}
	if end, err = parseDate(c.Query("end_date"), h.loc); err != nil {
		return nil, nil, domain.Invalid("end_date", err.Error())
	}
	return start, end, nil
}

// parseDate acepta YYYY-MM-DD (en loc) o RFC3339. Vacío = sin límite.
func parseDate(s string, loc *time.Location) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, s, loc); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("fecha inválida %q (formato YYYY-MM-DD)", s)
	}
	return &t, nil
}
