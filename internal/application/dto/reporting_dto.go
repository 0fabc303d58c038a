package dto

import (
	"time"

	"github.com/tallerpro/stock-api/internal/domain/repository"
)

// AvailabilityResponse disponibilidad agregada de un repuesto.
type AvailabilityResponse struct {
	PartID    string `json:"part_id"`
	SKU       string `json:"sku"`
	PartName  string `json:"part_name"`
	Locations int64  `json:"locations"`
	Quantity  int64  `json:"quantity"`
	Reserved  int64  `json:"reserved_quantity"`
	Minimum   int64  `json:"minimum_quantity"`
	Available int64  `json:"available_quantity"`
}

// ConsumptionStatResponse consumo histórico de un repuesto.
type ConsumptionStatResponse struct {
	PartID           string     `json:"part_id"`
	SKU              string     `json:"sku"`
	PartName         string     `json:"part_name"`
	TotalConsumed    int64      `json:"total_consumed"`
	DistinctOrders   int64      `json:"distinct_orders"`
	DistinctVehicles int64      `json:"distinct_vehicles"`
	LastMovementAt   *time.Time `json:"last_movement_at,omitempty"`
}

// ToAvailabilityResponses mapea filas del agregador.
func ToAvailabilityResponses(rows []repository.PartAvailability) []AvailabilityResponse {
	out := make([]AvailabilityResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, AvailabilityResponse{
			PartID:    r.PartID,
			SKU:       r.SKU,
			PartName:  r.PartName,
			Locations: r.Locations,
			Quantity:  r.Quantity,
			Reserved:  r.Reserved,
			Minimum:   r.Minimum,
			Available: r.Available,
		})
	}
	return out
}

// ToConsumptionStatResponses mapea estadísticas de consumo.
func ToConsumptionStatResponses(rows []repository.ConsumptionStat) []ConsumptionStatResponse {
	out := make([]ConsumptionStatResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, ConsumptionStatResponse{
			PartID:           r.PartID,
			SKU:              r.SKU,
			PartName:         r.PartName,
			TotalConsumed:    r.TotalConsumed,
			DistinctOrders:   r.DistinctOrders,
			DistinctVehicles: r.DistinctVehicles,
			LastMovementAt:   r.LastMovementAt,
		})
	}
	return out
}
