package repository

import (
	"context"

	"github.com/tallerpro/stock-api/internal/domain/entity"
)

// PartRepository puerto de persistencia del catálogo de repuestos.
type PartRepository interface {
	Create(ctx context.Context, part *entity.Part) error
	// GetByID devuelve nil, nil si el repuesto no existe.
	GetByID(ctx context.Context, orgID, id string) (*entity.Part, error)
	GetBySKU(ctx context.Context, orgID, sku string) (*entity.Part, error)
	List(ctx context.Context, orgID string, limit, offset int) ([]*entity.Part, error)
	Update(ctx context.Context, part *entity.Part) error
}
