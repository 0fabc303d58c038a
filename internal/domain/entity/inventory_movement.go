package entity

import "time"

// Tipos de movimiento de inventario.
const (
	MovementTypeIN     = "IN"     // entrada física
	MovementTypeOUT    = "OUT"    // salida física
	MovementTypeADJUST = "ADJUST" // cambio de reserva sin tocar existencias
)

// InventoryMovement es una entrada inmutable del ledger: registra un cambio de
// cantidad y/o de reserva y su causa. El ledger es append-only; no existe
// update ni delete en el contrato del motor. Quantity es siempre positiva, la
// dirección la da Type; ReservedChange lleva signo propio.
type InventoryMovement struct {
	ID                 string
	OrgID              string
	ItemID             string
	PartID             string // desnormalizado para consultas
	Type               string
	Quantity           int64 // siempre > 0
	ReservedChange     int64 // con signo: cómo cambió ReservedQuantity
	ServiceOrderID     string // opcional
	ServiceOrderItemID string // opcional
	VehicleID          string // opcional
	ReferenceCode      string
	Notes              string
	CreatedAt          time.Time
	CreatedBy          string // UserID
}
