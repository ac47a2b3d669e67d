package entity

import "strings"

// Roles de usuario relevantes para el núcleo de ventas.
const (
	RoleAdmin      = "admin"
	RoleEntrenador = "entrenador"
)

// Nombres a mostrar cuando el vendedor no puede resolverse.
const (
	SellerUnknown  = "Desconocido/Admin"
	SellerNoName   = "Sin Nombre"
	ProductUnknown = "Producto Desconocido"
)

// Seller vista mínima del usuario (entrenador/admin) que registró una venta.
// La administración de usuarios es externa; aquí solo se lee.
type Seller struct {
	ID       string
	Nombre   string
	Apellido string
}

// DisplayName compone "nombre apellido"; SellerNoName si queda vacío.
func (s Seller) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(s.Nombre) + " " + strings.TrimSpace(s.Apellido))
	if name == "" {
		return SellerNoName
	}
	return name
}
