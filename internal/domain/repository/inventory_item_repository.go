package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tallerpro/stock-api/internal/domain/entity"
)

// LowStockItem fila de consulta para ítems en o bajo su umbral de reorden.
type LowStockItem struct {
	ItemID   string
	PartID   string
	SKU      string
	PartName string
	Location string
	Quantity int64
	Reserved int64
	Minimum  int64
	UnitCost decimal.Decimal
	Price    decimal.Decimal
}

// InventoryItemRepository puerto de persistencia del stock por (repuesto, ubicación).
type InventoryItemRepository interface {
	// Create falla con domain.ErrDuplicate si ya existe la pareja (part, location).
	Create(ctx context.Context, item *entity.InventoryItem) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, orgID, id string) (*entity.InventoryItem, error)
	GetByPartAndLocation(ctx context.Context, orgID, partID, location string) (*entity.InventoryItem, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) dentro de la transacción
	// en curso. Devuelve nil, nil si no existe; el caller decide si crear.
	GetForUpdate(ctx context.Context, orgID, partID, location string) (*entity.InventoryItem, error)
	// UpdateQuantities persiste quantity/reserved y los overrides de costo y
	// precio de una fila bloqueada.
	UpdateQuantities(ctx context.Context, item *entity.InventoryItem) error
	// UpdateMinimum persiste el umbral de reorden.
	UpdateMinimum(ctx context.Context, item *entity.InventoryItem) error
	ListByPart(ctx context.Context, orgID, partID string) ([]*entity.InventoryItem, error)
	// ListBelowMinimum devuelve los ítems con disponibilidad <= mínimo.
	// location vacío considera todas las ubicaciones.
	ListBelowMinimum(ctx context.Context, orgID, location string) ([]LowStockItem, error)
}
