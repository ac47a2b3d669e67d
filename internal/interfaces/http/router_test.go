package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gimnasio-api/internal/application/analytics"
	"github.com/jhoicas/gimnasio-api/internal/application/dto"
	"github.com/jhoicas/gimnasio-api/internal/application/inventory"
	"github.com/jhoicas/gimnasio-api/internal/application/sales"
	"github.com/jhoicas/gimnasio-api/internal/domain"
	"github.com/jhoicas/gimnasio-api/internal/domain/entity"
	"github.com/jhoicas/gimnasio-api/internal/infrastructure/memory"
	"github.com/jhoicas/gimnasio-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/gimnasio-api/internal/interfaces/http"
)

type testAPI struct {
	app      *fiber.App
	products *memory.ProductRepo
	sales    *memory.SaleRepo
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	log := zerolog.Nop()
	products := memory.NewProductRepository()
	salesRepo := memory.NewSaleRepository()
	logs := memory.NewStockLogRepository()
	dir := memory.NewSellerDirectory(entity.Seller{ID: testUserID, Nombre: "Ana", Apellido: "Pérez"})

	sweeper := sales.NewSweeper(products, salesRepo, 2, log)
	createSale := sales.NewCreateSaleUseCase(products, salesRepo, log)
	productUC := inventory.NewProductUseCase(products, sweeper, nil, log)
	adjust := inventory.NewAdjustStockUseCase(products, logs, log)
	stats := analytics.NewSalesStatsUseCase(salesRepo, dir, pdf.NewStatsReportRenderer("Test"), time.UTC)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Products:    apphttp.NewProductHandler(productUC, adjust),
		Sales:       apphttp.NewSaleHandler(createSale, dir),
		Stats:       apphttp.NewStatsHandler(stats, time.UTC),
		Maintenance: apphttp.NewMaintenanceHandler(sweeper, nil),
		JWTSecret:   testJWTSecret,
		LedgerName:  "memory",
	})
	return &testAPI{app: app, products: products, sales: salesRepo}
}

func (a *testAPI) seedProduct(t *testing.T, name string, price int64, stock int) string {
	t.Helper()
	p := &entity.Product{Name: name, Price: decimal.NewFromInt(price), Stock: stock}
	require.NoError(t, a.products.Create(context.Background(), p))
	return p.ID
}

func (a *testAPI) stock(t *testing.T, id string) int {
	t.Helper()
	p, err := a.products.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}

func (a *testAPI) do(t *testing.T, method, path, role string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	resp := api.do(t, http.MethodGet, "/health", "", nil)

	var out dto.HealthResponse
	decodeBody(t, resp, &out)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "memory", out.Ledger)
}

func TestAPI_SinToken_Retorna401(t *testing.T) {
	api := newTestAPI(t)
	resp := api.do(t, http.MethodGet, "/api/products", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProducts_CrearYObtener(t *testing.T) {
	api := newTestAPI(t)
	resp := api.do(t, http.MethodPost, "/api/products", "entrenador",
		dto.CreateProductRequest{Name: "Proteína", Price: decimal.NewFromInt(10), Stock: 5})

	var created dto.ProductResponse
	decodeBody(t, resp, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, entity.DefaultCategory, created.Category)

	resp = api.do(t, http.MethodGet, "/api/products/"+created.ID, "entrenador", nil)
	var got dto.ProductResponse
	decodeBody(t, resp, &got)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 5, got.Stock)
}

func TestProducts_Inexistente_Retorna404(t *testing.T) {
	api := newTestAPI(t)
	resp := api.do(t, http.MethodGet, "/api/products/nope", "entrenador", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProducts_CrearSinNombre_Retorna400(t *testing.T) {
	api := newTestAPI(t)
	resp := api.do(t, http.MethodPost, "/api/products", "entrenador", map[string]any{"price": "3"})

	var out dto.ErrorResponse
	decodeBody(t, resp, &out)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", out.Code)
}

func TestSales_CrearDescuentaStockYUsaVendedorDelToken(t *testing.T) {
	api := newTestAPI(t)
	id := api.seedProduct(t, "Proteína", 10, 10)

	resp := api.do(t, http.MethodPost, "/api/sales", "entrenador", dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: id, Quantity: 2}},
	})
	var sale dto.SaleResponse
	decodeBody(t, resp, &sale)

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, decimal.NewFromInt(20).Equal(sale.Total))
	assert.Equal(t, testUserID, sale.SellerID)
	assert.Equal(t, "Ana Pérez", sale.SellerName)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, "Proteína", sale.Items[0].Name)
	assert.Equal(t, 8, api.stock(t, id))
}

func TestSales_StockInsuficiente_Retorna409SinEfectos(t *testing.T) {
	api := newTestAPI(t)
	a := api.seedProduct(t, "Agua", 2, 10)
	b := api.seedProduct(t, "Barra", 5, 1)

	resp := api.do(t, http.MethodPost, "/api/sales", "entrenador", dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: a, Quantity: 3}, {ProductID: b, Quantity: 2}},
	})
	var out dto.ErrorResponse
	decodeBody(t, resp, &out)

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", out.Code)
	assert.Contains(t, out.Message, "Disponible: 1")
	assert.Equal(t, 10, api.stock(t, a))
	assert.Equal(t, 1, api.stock(t, b))
}

func TestSales_SinItems_Retorna400(t *testing.T) {
	api := newTestAPI(t)
	resp := api.do(t, http.MethodPost, "/api/sales", "entrenador", dto.CreateSaleRequest{})

	var out dto.ErrorResponse
	decodeBody(t, resp, &out)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", out.Code)
}

func TestSales_ProductoInexistente_Retorna404(t *testing.T) {
	api := newTestAPI(t)
	resp := api.do(t, http.MethodPost, "/api/sales", "entrenador", dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: "fantasma", Quantity: 1}},
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdjustStock_SoloAdmin(t *testing.T) {
	api := newTestAPI(t)
	id := api.seedProduct(t, "Guantes", 30, 4)
	body := map[string]any{"new_stock": 12, "reason": "conteo físico"}

	resp := api.do(t, http.MethodPost, "/api/products/"+id+"/adjust-stock", "entrenador", body)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = api.do(t, http.MethodPost, "/api/products/"+id+"/adjust-stock", "admin", body)
	var out dto.AdjustStockResponse
	decodeBody(t, resp, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 8, out.Log.Change)
	assert.Equal(t, 12, api.stock(t, id))

	resp = api.do(t, http.MethodGet, "/api/products/"+id+"/stock-logs", "entrenador", nil)
	var logs []dto.StockLogResponse
	decodeBody(t, resp, &logs)
	require.Len(t, logs, 1)
	assert.Equal(t, "conteo físico", logs[0].Reason)
}

func TestAdjustStock_SinMotivo_Retorna400(t *testing.T) {
	api := newTestAPI(t)
	id := api.seedProduct(t, "Guantes", 30, 4)

	resp := api.do(t, http.MethodPost, "/api/products/"+id+"/adjust-stock", "admin", map[string]any{"new_stock": 3})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 4, api.stock(t, id))
}

func TestDeleteProduct_ReparaVentas(t *testing.T) {
	api := newTestAPI(t)
	a := api.seedProduct(t, "Agua", 2, 10)
	b := api.seedProduct(t, "Barra", 5, 10)

	for _, items := range [][]dto.SaleItemRequest{
		{{ProductID: a, Quantity: 1}},
		{{ProductID: a, Quantity: 1}, {ProductID: b, Quantity: 1}},
	} {
		resp := api.do(t, http.MethodPost, "/api/sales", "entrenador", dto.CreateSaleRequest{Items: items})
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := api.do(t, http.MethodDelete, "/api/products/"+a, "admin", nil)
	var out dto.DeleteProductResponse
	decodeBody(t, resp, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, out.SalesDeleted)
	assert.Equal(t, 1, out.SalesModified)

	resp = api.do(t, http.MethodGet, "/api/sales", "entrenador", nil)
	var list dto.SaleListResponse
	decodeBody(t, resp, &list)
	require.Len(t, list.Items, 1)
	assert.True(t, decimal.NewFromInt(5).Equal(list.Items[0].Total))
}

func TestGeneralStats_FechaInvalida_Retorna400(t *testing.T) {
	api := newTestAPI(t)
	resp := api.do(t, http.MethodGet, "/api/sales/general-stats?start_date=ayer", "entrenador", nil)

	var out dto.ErrorResponse
	decodeBody(t, resp, &out)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", out.Code)
}

func TestGeneralStats_AgrupaPorVendedor(t *testing.T) {
	api := newTestAPI(t)
	id := api.seedProduct(t, "Proteína", 10, 10)
	resp := api.do(t, http.MethodPost, "/api/sales", "entrenador", dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: id, Quantity: 3}},
	})
	resp.Body.Close()

	today := time.Now().UTC().Format(time.DateOnly)
	resp = api.do(t, http.MethodGet, "/api/sales/general-stats?start_date="+today+"&end_date="+today, "entrenador", nil)
	var out dto.GeneralStatsDTO
	decodeBody(t, resp, &out)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, out.TotalSalesCount)
	require.Len(t, out.Breakdown, 1)
	assert.Equal(t, "Ana Pérez", out.Breakdown[0].Name)
	assert.True(t, decimal.NewFromInt(30).Equal(out.Breakdown[0].Revenue))
}

func TestGeneralStatsPDF(t *testing.T) {
	api := newTestAPI(t)
	resp := api.do(t, http.MethodGet, "/api/sales/general-stats/pdf", "entrenador", nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestProductStats(t *testing.T) {
	api := newTestAPI(t)
	id := api.seedProduct(t, "Proteína", 10, 10)
	resp := api.do(t, http.MethodPost, "/api/sales", "entrenador", dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: id, Quantity: 4}},
	})
	resp.Body.Close()

	resp = api.do(t, http.MethodGet, "/api/products/"+id+"/sales-stats", "entrenador", nil)
	var out dto.ProductStatsDTO
	decodeBody(t, resp, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 4, out.TotalSold)
	require.Len(t, out.SalesLog, 1)
	assert.Equal(t, "Ana Pérez", out.SalesLog[0].SellerName)
}

func TestMaintenanceSweep_SincronicoSoloAdmin(t *testing.T) {
	api := newTestAPI(t)
	sale := &entity.Sale{
		Items: []entity.SaleItem{{ProductID: "borrado", Name: "Viejo", Quantity: 1, Price: decimal.NewFromInt(3)}},
		Total: decimal.NewFromInt(3),
		Date:  time.Now(),
	}
	require.NoError(t, api.sales.Create(context.Background(), sale))

	resp := api.do(t, http.MethodPost, "/api/maintenance/sweep", "entrenador", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = api.do(t, http.MethodPost, "/api/maintenance/sweep?dry_run=true", "admin", nil)
	var dry dto.SweepResponse
	decodeBody(t, resp, &dry)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, dry.DryRun)
	assert.Equal(t, 1, dry.Deleted)

	resp = api.do(t, http.MethodPost, "/api/maintenance/sweep", "admin", nil)
	var out dto.SweepResponse
	decodeBody(t, resp, &out)
	assert.Equal(t, 1, out.Deleted)
	assert.False(t, out.Queued)

	got, err := api.sales.GetByID(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

type brokenCascade struct{}

func (brokenCascade) RepairAfterProductDeletion(context.Context, string) (sales.SweepReport, error) {
	return sales.SweepReport{}, domain.StoreError("buscar ventas", errors.New("conexión perdida"))
}

func TestDeleteProduct_FalloAlBuscarVentas_Retorna207(t *testing.T) {
	products := memory.NewProductRepository()
	p := &entity.Product{Name: "Agua", Price: decimal.NewFromInt(2), Stock: 3}
	require.NoError(t, products.Create(context.Background(), p))

	h := apphttp.NewProductHandler(inventory.NewProductUseCase(products, brokenCascade{}, nil, zerolog.Nop()), nil)
	app := fiber.New()
	app.Delete("/products/:id", h.Delete)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/products/"+p.ID, nil), -1)
	require.NoError(t, err)
	var out dto.DeleteProductResponse
	decodeBody(t, resp, &out)

	assert.Equal(t, http.StatusMultiStatus, resp.StatusCode)
	assert.Equal(t, p.ID, out.ProductID)
	assert.False(t, out.SweepQueued)
	assert.Contains(t, out.Error, "conexión perdida")

	got, err := products.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

type stubScheduler struct{ dryRun bool }

func (s *stubScheduler) EnqueueSweep(_ context.Context, dryRun bool) (string, error) {
	s.dryRun = dryRun
	return "task-1", nil
}

func TestMaintenanceSweep_ConColaEncola(t *testing.T) {
	sched := &stubScheduler{}
	h := apphttp.NewMaintenanceHandler(nil, sched)
	app := fiber.New()
	app.Post("/sweep", h.Sweep)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/sweep?dry_run=true", nil), -1)
	require.NoError(t, err)
	var out dto.SweepResponse
	decodeBody(t, resp, &out)

	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.True(t, out.Queued)
	assert.Equal(t, "task-1", out.TaskID)
	assert.True(t, sched.dryRun)
}
