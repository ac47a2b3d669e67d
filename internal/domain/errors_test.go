package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapStore_RespetaErroresDeDominio(t *testing.T) {
	nf := &NotFoundError{Resource: "product", ID: "p1"}
	assert.Same(t, error(nf), WrapStore("op", nf))

	wrapped := WrapStore("listar", errors.New("timeout"))
	assert.ErrorIs(t, wrapped, ErrStoreFailure)
	assert.Contains(t, wrapped.Error(), "listar")

	assert.NoError(t, WrapStore("op", nil))
}

func TestInsufficientStockError_Mensaje(t *testing.T) {
	err := &InsufficientStockError{ProductName: "Proteína", Available: 1, Requested: 5}
	assert.Equal(t, "stock insuficiente para Proteína. Disponible: 1", err.Error())
	assert.ErrorIs(t, fmt.Errorf("venta: %w", err), ErrInsufficientStock)
}

func TestSweepError_ResumeYDesenvuelve(t *testing.T) {
	var failures []SaleRepairFailure
	for i := 0; i < 7; i++ {
		failures = append(failures, SaleRepairFailure{SaleID: fmt.Sprintf("s%d", i), Err: StoreError("guardar", errors.New("x"))})
	}
	err := &SweepError{Failures: failures}
	assert.Contains(t, err.Error(), "7 venta(s)")
	assert.Contains(t, err.Error(), "(2 más)")
	assert.ErrorIs(t, err, ErrStoreFailure)
}
