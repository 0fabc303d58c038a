package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tallerpro/stock-api/internal/domain/entity"
)

// CreatePartRequest alta de repuesto en el catálogo.
type CreatePartRequest struct {
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Manufacturer string          `json:"manufacturer,omitempty"`
	Cost         decimal.Decimal `json:"cost"`
	Price        decimal.Decimal `json:"price"`
}

// UpdatePartRequest edición parcial de un repuesto.
type UpdatePartRequest struct {
	Name         *string          `json:"name,omitempty"`
	Manufacturer *string          `json:"manufacturer,omitempty"`
	Cost         *decimal.Decimal `json:"cost,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	Active       *bool            `json:"active,omitempty"`
}

// PartResponse repuesto del catálogo.
type PartResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Manufacturer string          `json:"manufacturer,omitempty"`
	Cost         decimal.Decimal `json:"cost"`
	Price        decimal.Decimal `json:"price"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToPartResponse mapea la entidad a la respuesta HTTP.
func ToPartResponse(p *entity.Part) *PartResponse {
	if p == nil {
		return nil
	}
	return &PartResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Manufacturer: p.Manufacturer,
		Cost:         p.Cost,
		Price:        p.Price,
		Active:       p.Active,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
