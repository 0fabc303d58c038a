package repository

import (
	"context"

	"github.com/tallerpro/stock-api/internal/domain/entity"
)

// ServiceOrderRepository resuelve el contexto de ítems de órdenes de servicio.
// El motor de stock no es dueño de las órdenes: solo necesita saber, dado un
// ítem, qué repuesto/ubicación afecta y a qué orden/vehículo/cliente referir
// el movimiento.
type ServiceOrderRepository interface {
	// GetItemContext devuelve nil, nil si el ítem de orden no existe.
	GetItemContext(ctx context.Context, orgID, serviceOrderItemID string) (*entity.OrderItemContext, error)
}
