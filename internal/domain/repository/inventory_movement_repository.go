package repository

import (
	"context"
	"time"

	"github.com/tallerpro/stock-api/internal/domain/entity"
)

// InventoryMovementRepository puerto del ledger de movimientos.
// El ledger es append-only: solo Create y lecturas; no hay update ni delete.
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, orgID, id string) (*entity.InventoryMovement, error)
	ListByItem(ctx context.Context, orgID, itemID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error)
	ListByServiceOrder(ctx context.Context, orgID, serviceOrderID string) ([]*entity.InventoryMovement, error)
}
