package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tallerpro/stock-api/internal/domain/entity"
)

// RegisterEntryRequest entrada física de stock.
type RegisterEntryRequest struct {
	PartID        string           `json:"part_id"`
	Location      string           `json:"location"`
	Quantity      int64            `json:"quantity"`
	UnitCost      *decimal.Decimal `json:"unit_cost,omitempty"`
	SalePrice     *decimal.Decimal `json:"sale_price,omitempty"`
	ReferenceCode string           `json:"reference_code,omitempty"`
	Notes         string           `json:"notes,omitempty"`
}

// OrderOpRequest reserva, consumo o cancelación contra un ítem de orden.
type OrderOpRequest struct {
	ServiceOrderItemID string `json:"service_order_item_id"`
	Quantity           int64  `json:"quantity"`
	Notes              string `json:"notes,omitempty"`
}

// ReturnRequest devolución al stock, opcionalmente re-reservada.
type ReturnRequest struct {
	ServiceOrderItemID string `json:"service_order_item_id"`
	Quantity           int64  `json:"quantity"`
	ReserveAfterReturn bool   `json:"reserve_after_return"`
	Notes              string `json:"notes,omitempty"`
}

// SetMinimumRequest umbral de reorden de un ítem.
type SetMinimumRequest struct {
	MinimumQuantity int64 `json:"minimum_quantity"`
}

// ItemResponse proyección actual de un ítem de stock.
type ItemResponse struct {
	ID               string           `json:"id"`
	PartID           string           `json:"part_id"`
	Location         string           `json:"location"`
	Quantity         int64            `json:"quantity"`
	ReservedQuantity int64            `json:"reserved_quantity"`
	AvailableQty     int64            `json:"available_quantity"`
	MinimumQuantity  int64            `json:"minimum_quantity"`
	UnitCost         *decimal.Decimal `json:"unit_cost,omitempty"`
	SalePrice        *decimal.Decimal `json:"sale_price,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// MovementResponse entrada del ledger.
type MovementResponse struct {
	ID                 string    `json:"id"`
	ItemID             string    `json:"item_id"`
	PartID             string    `json:"part_id"`
	Type               string    `json:"type"`
	Quantity           int64     `json:"quantity"`
	ReservedChange     int64     `json:"reserved_change"`
	ServiceOrderID     string    `json:"service_order_id,omitempty"`
	ServiceOrderItemID string    `json:"service_order_item_id,omitempty"`
	VehicleID          string    `json:"vehicle_id,omitempty"`
	ReferenceCode      string    `json:"reference_code,omitempty"`
	Notes              string    `json:"notes,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	CreatedBy          string    `json:"created_by,omitempty"`
}

// ToItemResponse mapea la entidad a la respuesta HTTP.
func ToItemResponse(i *entity.InventoryItem) *ItemResponse {
	if i == nil {
		return nil
	}
	return &ItemResponse{
		ID:               i.ID,
		PartID:           i.PartID,
		Location:         i.Location,
		Quantity:         i.Quantity,
		ReservedQuantity: i.ReservedQuantity,
		AvailableQty:     i.AvailableQuantity(),
		MinimumQuantity:  i.MinimumQuantity,
		UnitCost:         i.UnitCost,
		SalePrice:        i.SalePrice,
		CreatedAt:        i.CreatedAt,
		UpdatedAt:        i.UpdatedAt,
	}
}

// ToMovementResponse mapea la entidad a la respuesta HTTP.
func ToMovementResponse(m *entity.InventoryMovement) *MovementResponse {
	if m == nil {
		return nil
	}
	return &MovementResponse{
		ID:                 m.ID,
		ItemID:             m.ItemID,
		PartID:             m.PartID,
		Type:               m.Type,
		Quantity:           m.Quantity,
		ReservedChange:     m.ReservedChange,
		ServiceOrderID:     m.ServiceOrderID,
		ServiceOrderItemID: m.ServiceOrderItemID,
		VehicleID:          m.VehicleID,
		ReferenceCode:      m.ReferenceCode,
		Notes:              m.Notes,
		CreatedAt:          m.CreatedAt,
		CreatedBy:          m.CreatedBy,
	}
}

// ToMovementResponses mapea una lista de movimientos.
func ToMovementResponses(list []*entity.InventoryMovement) []*MovementResponse {
	out := make([]*MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, ToMovementResponse(m))
	}
	return out
}
