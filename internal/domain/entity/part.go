package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Part representa un repuesto del catálogo (SKU único por organización).
// Es de solo lectura para el motor de stock: las operaciones de inventario
// lo referencian pero nunca lo modifican.
type Part struct {
	ID           string
	OrgID        string
	SKU          string // código único por organización
	Name         string
	Manufacturer string
	Cost         decimal.Decimal // costo unitario por defecto
	Price        decimal.Decimal // precio de venta por defecto
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
