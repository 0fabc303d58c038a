package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tallerpro/stock-api/internal/domain/entity"
	"github.com/tallerpro/stock-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo adaptador del ledger sobre PostgreSQL (usable con pool o tx).
// La tabla es append-only a nivel de aplicación: este repo no expone UPDATE ni DELETE.
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

const movementColumns = `id, org_id, item_id, part_id, type, quantity, reserved_change,
		service_order_id, service_order_item_id, vehicle_id, reference_code, notes, created_at, created_by`

// Create persiste una entrada del ledger.
func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	query := `
		INSERT INTO inventory_movements (id, org_id, item_id, part_id, type, quantity, reserved_change,
			service_order_id, service_order_item_id, vehicle_id, reference_code, notes, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.OrgID, m.ItemID, m.PartID, m.Type, m.Quantity, m.ReservedChange,
		nullIfEmpty(m.ServiceOrderID), nullIfEmpty(m.ServiceOrderItemID), nullIfEmpty(m.VehicleID),
		m.ReferenceCode, m.Notes, m.CreatedAt, nullIfEmpty(m.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("create inventory movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID. Devuelve nil, nil si no existe.
func (r *InventoryMovementRepo) GetByID(ctx context.Context, orgID, id string) (*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE org_id = $1 AND id = $2`
	var m entity.InventoryMovement
	if err := scanMovement(r.q.QueryRow(ctx, query, orgID, id), &m); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return &m, nil
}

// ListByItem lista el ledger de un ítem en un rango de fechas, más reciente primero.
func (r *InventoryMovementRepo) ListByItem(ctx context.Context, orgID, itemID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE org_id = $1 AND item_id = $2`
	args := []any{orgID, itemID}
	pos := 3
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	return r.list(ctx, query, args, "list movements by item")
}

// ListByServiceOrder lista los movimientos referidos a una orden de servicio.
func (r *InventoryMovementRepo) ListByServiceOrder(ctx context.Context, orgID, serviceOrderID string) ([]*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements
		WHERE org_id = $1 AND service_order_id = $2
		ORDER BY created_at DESC`
	return r.list(ctx, query, []any{orgID, serviceOrderID}, "list movements by service order")
}

func (r *InventoryMovementRepo) list(ctx context.Context, query string, args []any, op string) ([]*entity.InventoryMovement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		var m entity.InventoryMovement
		if err := scanMovement(rows, &m); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row, m *entity.InventoryMovement) error {
	var orderID, orderItemID, vehicleID, createdBy *string
	if err := row.Scan(
		&m.ID, &m.OrgID, &m.ItemID, &m.PartID, &m.Type, &m.Quantity, &m.ReservedChange,
		&orderID, &orderItemID, &vehicleID, &m.ReferenceCode, &m.Notes, &m.CreatedAt, &createdBy,
	); err != nil {
		return err
	}
	m.ServiceOrderID = deref(orderID)
	m.ServiceOrderItemID = deref(orderItemID)
	m.VehicleID = deref(vehicleID)
	m.CreatedBy = deref(createdBy)
	return nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
