package repository

import (
	"context"
	"time"
)

// PartAvailability disponibilidad agregada de un repuesto entre ubicaciones.
type PartAvailability struct {
	PartID    string
	SKU       string
	PartName  string
	Locations int64
	Quantity  int64
	Reserved  int64
	Minimum   int64
	Available int64
}

// ConsumptionStat estadística de consumo (movimientos OUT) por repuesto.
type ConsumptionStat struct {
	PartID           string
	SKU              string
	PartName         string
	TotalConsumed    int64
	DistinctOrders   int64
	DistinctVehicles int64
	LastMovementAt   *time.Time
}

// ConsumptionFilter filtros opcionales para estadísticas de consumo.
type ConsumptionFilter struct {
	VehicleID      string
	ServiceOrderID string
	From           *time.Time
	To             *time.Time
}

// AvailabilityRepository consultas de solo lectura sobre la proyección de
// stock y el ledger. Deben tolerar un ledger vacío (resultado vacío, no error)
// y nunca se usan para mutar estado.
type AvailabilityRepository interface {
	// GetPartAvailability agrega por repuesto entre todas las ubicaciones.
	// partID vacío devuelve todos los repuestos con stock registrado.
	GetPartAvailability(ctx context.Context, orgID, partID string) ([]PartAvailability, error)
	// GetAvailabilityByVehicle agrega los repuestos movidos para un vehículo
	// (join del ledger con las órdenes de servicio del vehículo).
	GetAvailabilityByVehicle(ctx context.Context, orgID, vehicleID string) ([]PartAvailability, error)
	// GetAvailabilityByClient igual que por vehículo pero vía cliente.
	GetAvailabilityByClient(ctx context.Context, orgID, clientID string) ([]PartAvailability, error)
	GetConsumptionStats(ctx context.Context, orgID string, filter ConsumptionFilter) ([]ConsumptionStat, error)
}
