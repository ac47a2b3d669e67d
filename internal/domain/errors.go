package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrStoreFailure           = errors.New("falla de persistencia")
	ErrReconciliationRequired = errors.New("inconsistencia stock/venta: requiere conciliación manual")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrForbidden              = errors.New("acceso denegado")
)

// NotFoundError identifica el recurso faltante. errors.Is(err, ErrNotFound) es verdadero.
type NotFoundError struct {
	Resource string // product, sale, seller
	ID       string
}

func (e *NotFoundError) Error() string {
	switch e.Resource {
	case "product":
		return fmt.Sprintf("producto con ID %s no encontrado", e.ID)
	case "sale":
		return fmt.Sprintf("venta con ID %s no encontrada", e.ID)
	default:
		return fmt.Sprintf("%s %s no encontrado", e.Resource, e.ID)
	}
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InsufficientStockError rechazo de negocio con el stock disponible al momento de validar.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s. Disponible: %d", e.ProductName, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// ValidationError detalla qué campo falló. errors.Is(err, ErrInvalidInput) es verdadero.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid construye un ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// StoreError envuelve un error del driver marcándolo como ErrStoreFailure.
func StoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, errors.Join(ErrStoreFailure, err))
}

// WrapStore deja pasar errores ya clasificados del dominio y marca el resto como ErrStoreFailure.
func WrapStore(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{ErrNotFound, ErrInvalidInput, ErrInsufficientStock, ErrStoreFailure, ErrReconciliationRequired} {
		if errors.Is(err, known) {
			return err
		}
	}
	return StoreError(op, err)
}

// SaleRepairFailure falla al reparar una venta concreta durante el barrido.
type SaleRepairFailure struct {
	SaleID string
	Err    error
}

// SweepError resume las ventas que no pudieron repararse; el resto del barrido sí se aplicó.
type SweepError struct {
	Failures []SaleRepairFailure
}

func (e *SweepError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d venta(s) no pudieron repararse", len(e.Failures))
	for i, f := range e.Failures {
		if i == 5 {
			fmt.Fprintf(&b, "; ... (%d más)", len(e.Failures)-5)
			break
		}
		fmt.Fprintf(&b, "; %s: %v", f.SaleID, f.Err)
	}
	return b.String()
}

// Unwrap expone los errores individuales para errors.Is/As.
func (e *SweepError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}
