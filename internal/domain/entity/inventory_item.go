package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem es el registro físico de stock de un repuesto en una ubicación.
// Única fila por (org, part, location). Quantity y ReservedQuantity son una
// proyección materializada del ledger de movimientos, siempre reconstruible.
//
// Invariante: 0 <= ReservedQuantity <= Quantity.
type InventoryItem struct {
	ID               string
	OrgID            string
	PartID           string
	Location         string
	Quantity         int64 // unidades físicas en la ubicación
	ReservedQuantity int64 // unidades comprometidas a órdenes de servicio
	MinimumQuantity  int64 // umbral de reorden
	UnitCost         *decimal.Decimal // override del costo del catálogo
	SalePrice        *decimal.Decimal // override del precio del catálogo
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AvailableQuantity devuelve las unidades libres para reservar.
// Derivada, nunca se persiste.
func (i *InventoryItem) AvailableQuantity() int64 {
	return i.Quantity - i.ReservedQuantity
}

// BelowMinimum indica si la disponibilidad está en o bajo el umbral de reorden.
func (i *InventoryItem) BelowMinimum() bool {
	return i.AvailableQuantity() <= i.MinimumQuantity
}

// CheckInvariant valida 0 <= ReservedQuantity <= Quantity.
func (i *InventoryItem) CheckInvariant() bool {
	return i.ReservedQuantity >= 0 && i.ReservedQuantity <= i.Quantity
}
