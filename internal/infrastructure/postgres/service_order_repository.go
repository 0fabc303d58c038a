package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tallerpro/stock-api/internal/domain/entity"
	"github.com/tallerpro/stock-api/internal/domain/repository"
)

var _ repository.ServiceOrderRepository = (*ServiceOrderRepo)(nil)

// ServiceOrderRepo resuelve el contexto de ítems de órdenes de servicio.
// Solo lectura: el motor de stock no es dueño de las órdenes.
type ServiceOrderRepo struct {
	q Querier
}

// NewServiceOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewServiceOrderRepository(q Querier) *ServiceOrderRepo {
	return &ServiceOrderRepo{q: q}
}

// GetItemContext resuelve repuesto, ubicación, orden, vehículo y cliente de
// un ítem de orden. Devuelve nil, nil si el ítem no existe.
func (r *ServiceOrderRepo) GetItemContext(ctx context.Context, orgID, serviceOrderItemID string) (*entity.OrderItemContext, error) {
	query := `
		SELECT oi.id, oi.service_order_id, o.vehicle_id, o.client_id, oi.part_id, oi.location
		FROM service_order_items oi
		JOIN service_orders o ON o.id = oi.service_order_id
		WHERE o.org_id = $1 AND oi.id = $2`
	octx := entity.OrderItemContext{OrgID: orgID}
	err := r.q.QueryRow(ctx, query, orgID, serviceOrderItemID).Scan(
		&octx.ServiceOrderItemID, &octx.ServiceOrderID, &octx.VehicleID,
		&octx.ClientID, &octx.PartID, &octx.Location,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order item context: %w", err)
	}
	return &octx, nil
}
