package sales_test

import (
	"context"
	"testing"

	"github.com/jhoicas/gimnasio-api/internal/application/sales"
	"github.com/jhoicas/gimnasio-api/internal/domain"
	"github.com/jhoicas/gimnasio-api/internal/infrastructure/memory"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSale_DescuentaStockYCapturaNombre(t *testing.T) {
	ctx := context.Background()
	products := memory.NewProductRepository()
	salesRepo := memory.NewSaleRepository()
	a := nuevoProducto(t, products, "A", 100, 3)
	b := nuevoProducto(t, products, "B", 50, 10)
	uc := sales.NewCreateSaleUseCase(products, salesRepo, zerolog.Nop())

	sale, err := uc.CreateSale(ctx, sales.CreateSaleInput{
		Items:    []sales.ItemInput{{ProductID: a.ID, Quantity: 2}},
		SellerID: "s1",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, stockDe(t, products, a.ID))
	assert.Equal(t, 10, stockDe(t, products, b.ID), "otros productos no cambian")
	assert.True(t, decimal.NewFromInt(200).Equal(sale.Total))
	assert.Equal(t, "A", sale.Items[0].Name)
	assert.Equal(t, "s1", sale.SellerID)

	stored, err := salesRepo.GetByID(ctx, sale.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)

	_, err = uc.CreateSale(ctx, sales.CreateSaleInput{Items: []sales.ItemInput{{ProductID: a.ID, Quantity: 5}}})
	var insuf *domain.InsufficientStockError
	require.ErrorAs(t, err, &insuf)
	assert.Equal(t, 1, insuf.Available)
	assert.Equal(t, "stock insuficiente para A. Disponible: 1", err.Error())
	assert.Equal(t, 1, stockDe(t, products, a.ID))
}

func TestCreateSale_SinDescuentoParcial(t *testing.T) {
	ctx := context.Background()
	products := memory.NewProductRepository()
	a := nuevoProducto(t, products, "A", 10, 5)
	b := nuevoProducto(t, products, "B", 10, 1)
	uc := sales.NewCreateSaleUseCase(products, memory.NewSaleRepository(), zerolog.Nop())

	_, err := uc.CreateSale(ctx, sales.CreateSaleInput{Items: []sales.ItemInput{
		{ProductID: a.ID, Quantity: 2},
		{ProductID: b.ID, Quantity: 3},
	}})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 5, stockDe(t, products, a.ID))
	assert.Equal(t, 1, stockDe(t, products, b.ID))
}

func TestCreateSale_CantidadAcumuladaPorProducto(t *testing.T) {
	ctx := context.Background()
	products := memory.NewProductRepository()
	a := nuevoProducto(t, products, "A", 10, 3)
	uc := sales.NewCreateSaleUseCase(products, memory.NewSaleRepository(), zerolog.Nop())

	_, err := uc.CreateSale(ctx, sales.CreateSaleInput{Items: []sales.ItemInput{
		{ProductID: a.ID, Quantity: 2},
		{ProductID: a.ID, Quantity: 2},
	}})
	var insuf *domain.InsufficientStockError
	require.ErrorAs(t, err, &insuf)
	assert.Equal(t, 4, insuf.Requested)
	assert.Equal(t, 3, stockDe(t, products, a.ID))

	sale, err := uc.CreateSale(ctx, sales.CreateSaleInput{Items: []sales.ItemInput{
		{ProductID: a.ID, Quantity: 1},
		{ProductID: a.ID, Quantity: 2},
	}})
	require.NoError(t, err)
	assert.Len(t, sale.Items, 2)
	assert.Equal(t, 0, stockDe(t, products, a.ID))
}

func TestCreateSale_ProductoInexistente(t *testing.T) {
	products := memory.NewProductRepository()
	a := nuevoProducto(t, products, "A", 10, 3)
	uc := sales.NewCreateSaleUseCase(products, memory.NewSaleRepository(), zerolog.Nop())

	_, err := uc.CreateSale(context.Background(), sales.CreateSaleInput{Items: []sales.ItemInput{
		{ProductID: a.ID, Quantity: 1},
		{ProductID: "no-existe", Quantity: 1},
	}})
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "no-existe", nf.ID)
	assert.Equal(t, 3, stockDe(t, products, a.ID))
}

func TestCreateSale_EntradaInvalida(t *testing.T) {
	products := memory.NewProductRepository()
	a := nuevoProducto(t, products, "A", 10, 3)
	uc := sales.NewCreateSaleUseCase(products, memory.NewSaleRepository(), zerolog.Nop())
	neg := decimal.NewFromInt(-1)

	cases := map[string]sales.CreateSaleInput{
		"sin ítems":       {},
		"sin producto":    {Items: []sales.ItemInput{{Quantity: 1}}},
		"cantidad cero":   {Items: []sales.ItemInput{{ProductID: a.ID}}},
		"precio negativo": {Items: []sales.ItemInput{{ProductID: a.ID, Quantity: 1, UnitPrice: &neg}}},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.CreateSale(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Equal(t, 3, stockDe(t, products, a.ID))
}

func TestCreateSale_PrecioUnitarioYTotalRecalculado(t *testing.T) {
	products := memory.NewProductRepository()
	a := nuevoProducto(t, products, "A", 100, 5)
	uc := sales.NewCreateSaleUseCase(products, memory.NewSaleRepository(), zerolog.Nop())
	override := decimal.RequireFromString("80.50")
	wrongTotal := decimal.NewFromInt(1)

	sale, err := uc.CreateSale(context.Background(), sales.CreateSaleInput{
		Items: []sales.ItemInput{{ProductID: a.ID, Quantity: 2, UnitPrice: &override}},
		Total: &wrongTotal,
	})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("161").Equal(sale.Total))
	assert.True(t, override.Equal(sale.Items[0].Price))
}

func TestCreateSale_FallaAlGuardarRestituyeStock(t *testing.T) {
	products := memory.NewProductRepository()
	a := nuevoProducto(t, products, "A", 10, 4)
	salesRepo := &failingSales{SaleRepo: memory.NewSaleRepository(), failCreate: true}
	uc := sales.NewCreateSaleUseCase(products, salesRepo, zerolog.Nop())

	_, err := uc.CreateSale(context.Background(), sales.CreateSaleInput{Items: []sales.ItemInput{{ProductID: a.ID, Quantity: 3}}})
	assert.ErrorIs(t, err, domain.ErrStoreFailure)
	assert.NotErrorIs(t, err, domain.ErrReconciliationRequired)
	assert.Equal(t, 4, stockDe(t, products, a.ID))
}

func TestCreateSale_FallaCompensacionRequiereConciliacion(t *testing.T) {
	base := memory.NewProductRepository()
	a := nuevoProducto(t, base, "A", 10, 4)
	salesRepo := &failingSales{SaleRepo: memory.NewSaleRepository(), failCreate: true}
	uc := sales.NewCreateSaleUseCase(noRestock{base}, salesRepo, zerolog.Nop())

	_, err := uc.CreateSale(context.Background(), sales.CreateSaleInput{Items: []sales.ItemInput{{ProductID: a.ID, Quantity: 3}}})
	assert.ErrorIs(t, err, domain.ErrReconciliationRequired)
	assert.Equal(t, 1, stockDe(t, base, a.ID))
}

func TestListRecent_MasNuevasPrimeroConLimite(t *testing.T) {
	ctx := context.Background()
	products := memory.NewProductRepository()
	a := nuevoProducto(t, products, "A", 10, 100)
	uc := sales.NewCreateSaleUseCase(products, memory.NewSaleRepository(), zerolog.Nop())

	for i := 0; i < 3; i++ {
		_, err := uc.CreateSale(ctx, sales.CreateSaleInput{Items: []sales.ItemInput{{ProductID: a.ID, Quantity: 1}}})
		require.NoError(t, err)
	}

	list, err := uc.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.False(t, list[0].Date.Before(list[1].Date))
}

func TestCreateSale_PrecioConMasDeDosDecimales(t *testing.T) {
	ctx := context.Background()
	products := memory.NewProductRepository()
	a := nuevoProducto(t, products, "A", 10, 5)
	uc := sales.NewCreateSaleUseCase(products, memory.NewSaleRepository(), zerolog.Nop())

	precio := decimal.RequireFromString("0.333")
	_, err := uc.CreateSale(ctx, sales.CreateSaleInput{Items: []sales.ItemInput{
		{ProductID: a.ID, Quantity: 3, UnitPrice: &precio},
	}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 5, stockDe(t, products, a.ID))

	precio = decimal.RequireFromString("0.330")
	sale, err := uc.CreateSale(ctx, sales.CreateSaleInput{Items: []sales.ItemInput{
		{ProductID: a.ID, Quantity: 3, UnitPrice: &precio},
	}})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("0.99").Equal(sale.Total))
}
