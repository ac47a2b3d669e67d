package sales

import (
	"github.com/jhoicas/gimnasio-api/internal/domain/entity"
)

// RepairAction resultado de aplicar la política de reparación a una venta.
type RepairAction int

const (
	RepairNone   RepairAction = iota // ninguna línea removida
	RepairUpdate                     // quedan líneas: guardar con total recalculado
	RepairDelete                     // no quedan líneas: eliminar la venta
)

func (a RepairAction) String() string {
	switch a {
	case RepairUpdate:
		return "update"
	case RepairDelete:
		return "delete"
	default:
		return "none"
	}
}

// Repair filtra las líneas de la venta con keep y decide qué hacer con ella.
// Con RepairUpdate devuelve una copia con Items filtrados y Total recalculado;
// la venta original no se modifica.
func Repair(sale *entity.Sale, keep func(entity.SaleItem) bool) (*entity.Sale, RepairAction) {
	kept := make([]entity.SaleItem, 0, len(sale.Items))
	for _, it := range sale.Items {
		if keep(it) {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(sale.Items) {
		return sale, RepairNone
	}
	if len(kept) == 0 {
		return nil, RepairDelete
	}
	repaired := sale.Clone()
	repaired.Items = kept
	repaired.Total = repaired.ComputeTotal()
	return repaired, RepairUpdate
}

// WithoutProduct conserva las líneas que no referencian productID.
func WithoutProduct(productID string) func(entity.SaleItem) bool {
	return func(it entity.SaleItem) bool { return it.ProductID != productID }
}

// InCatalog conserva las líneas cuyo producto sigue existiendo; referencias nulas se descartan.
func InCatalog(valid map[string]struct{}) func(entity.SaleItem) bool {
	return func(it entity.SaleItem) bool {
		if it.ProductID == "" {
			return false
		}
		_, ok := valid[it.ProductID]
		return ok
	}
}
