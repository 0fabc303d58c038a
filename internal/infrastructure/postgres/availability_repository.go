package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tallerpro/stock-api/internal/domain/repository"
)

var _ repository.AvailabilityRepository = (*AvailabilityRepo)(nil)

// AvailabilityRepo consultas de solo lectura sobre la proyección de stock y el
// ledger. Corre con aislamiento read-committed: son reportes consultivos, no
// chequeos de invariantes. Ledger vacío produce resultado vacío, nunca error.
type AvailabilityRepo struct {
	pool *pgxpool.Pool
}

// NewAvailabilityRepository construye el adaptador de agregación.
func NewAvailabilityRepository(pool *pgxpool.Pool) *AvailabilityRepo {
	return &AvailabilityRepo{pool: pool}
}

// GetPartAvailability agrega disponibilidad por repuesto entre ubicaciones.
// partID vacío devuelve todos los repuestos con stock registrado.
func (r *AvailabilityRepo) GetPartAvailability(ctx context.Context, orgID, partID string) ([]repository.PartAvailability, error) {
	const query = `
	SELECT
	    p.id,
	    p.sku,
	    p.name,
	    COUNT(i.id)                                   AS locations,
	    COALESCE(SUM(i.quantity), 0)                  AS quantity,
	    COALESCE(SUM(i.reserved_quantity), 0)         AS reserved,
	    COALESCE(SUM(i.minimum_quantity), 0)          AS minimum,
	    COALESCE(SUM(i.quantity - i.reserved_quantity), 0) AS available
	FROM parts p
	JOIN inventory_items i ON i.part_id = p.id
	WHERE p.org_id = $1
	  AND ($2 = '' OR p.id = $2)
	GROUP BY p.id, p.sku, p.name
	ORDER BY p.sku`

	return r.queryAvailability(ctx, query, orgID, partID)
}

// GetAvailabilityByVehicle agrega los repuestos con movimientos referidos a
// un vehículo (vía ledger).
func (r *AvailabilityRepo) GetAvailabilityByVehicle(ctx context.Context, orgID, vehicleID string) ([]repository.PartAvailability, error) {
	const query = `
	SELECT
	    p.id,
	    p.sku,
	    p.name,
	    COUNT(i.id)                                   AS locations,
	    COALESCE(SUM(i.quantity), 0)                  AS quantity,
	    COALESCE(SUM(i.reserved_quantity), 0)         AS reserved,
	    COALESCE(SUM(i.minimum_quantity), 0)          AS minimum,
	    COALESCE(SUM(i.quantity - i.reserved_quantity), 0) AS available
	FROM parts p
	JOIN inventory_items i ON i.part_id = p.id
	WHERE p.org_id = $1
	  AND EXISTS (
	      SELECT 1 FROM inventory_movements m
	      WHERE m.org_id = $1 AND m.part_id = p.id AND m.vehicle_id = $2)
	GROUP BY p.id, p.sku, p.name
	ORDER BY p.sku`

	return r.queryAvailability(ctx, query, orgID, vehicleID)
}

// GetAvailabilityByClient igual que por vehículo, pero cruzando el ledger con
// las órdenes de servicio del cliente.
func (r *AvailabilityRepo) GetAvailabilityByClient(ctx context.Context, orgID, clientID string) ([]repository.PartAvailability, error) {
	const query = `
	SELECT
	    p.id,
	    p.sku,
	    p.name,
	    COUNT(i.id)                                   AS locations,
	    COALESCE(SUM(i.quantity), 0)                  AS quantity,
	    COALESCE(SUM(i.reserved_quantity), 0)         AS reserved,
	    COALESCE(SUM(i.minimum_quantity), 0)          AS minimum,
	    COALESCE(SUM(i.quantity - i.reserved_quantity), 0) AS available
	FROM parts p
	JOIN inventory_items i ON i.part_id = p.id
	WHERE p.org_id = $1
	  AND EXISTS (
	      SELECT 1
	      FROM inventory_movements m
	      JOIN service_orders o ON o.id = m.service_order_id
	      WHERE m.org_id = $1 AND m.part_id = p.id AND o.client_id = $2)
	GROUP BY p.id, p.sku, p.name
	ORDER BY p.sku`

	return r.queryAvailability(ctx, query, orgID, clientID)
}

// GetConsumptionStats estadísticas sobre movimientos OUT: total consumido,
// órdenes y vehículos distintos y fecha del último movimiento, por repuesto.
func (r *AvailabilityRepo) GetConsumptionStats(ctx context.Context, orgID string, filter repository.ConsumptionFilter) ([]repository.ConsumptionStat, error) {
	query := `
	SELECT
	    p.id,
	    p.sku,
	    p.name,
	    COALESCE(SUM(m.quantity), 0)          AS total_consumed,
	    COUNT(DISTINCT m.service_order_id)    AS distinct_orders,
	    COUNT(DISTINCT m.vehicle_id)          AS distinct_vehicles,
	    MAX(m.created_at)                     AS last_movement_at
	FROM inventory_movements m
	JOIN parts p ON p.id = m.part_id
	WHERE m.org_id = $1 AND m.type = 'OUT'`
	args := []any{orgID}
	pos := 2
	if filter.VehicleID != "" {
		query += fmt.Sprintf(" AND m.vehicle_id = $%d", pos)
		args = append(args, filter.VehicleID)
		pos++
	}
	if filter.ServiceOrderID != "" {
		query += fmt.Sprintf(" AND m.service_order_id = $%d", pos)
		args = append(args, filter.ServiceOrderID)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND m.created_at >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND m.created_at <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	query += `
	GROUP BY p.id, p.sku, p.name
	ORDER BY total_consumed DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("availability.GetConsumptionStats: %w", err)
	}
	defer rows.Close()

	var results []repository.ConsumptionStat
	for rows.Next() {
		var row repository.ConsumptionStat
		if err := rows.Scan(
			&row.PartID, &row.SKU, &row.PartName,
			&row.TotalConsumed, &row.DistinctOrders, &row.DistinctVehicles,
			&row.LastMovementAt,
		); err != nil {
			return nil, fmt.Errorf("availability.GetConsumptionStats scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// ListActiveOrgs organizaciones con movimientos en la ventana reciente del
// ledger. Alimenta el job de sincronización de historial.
func (r *AvailabilityRepo) ListActiveOrgs(ctx context.Context) ([]string, error) {
	const query = `
	SELECT DISTINCT org_id FROM inventory_movements
	WHERE created_at >= now() - interval '90 days'`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("availability.ListActiveOrgs: %w", err)
	}
	defer rows.Close()

	var orgs []string
	for rows.Next() {
		var orgID string
		if err := rows.Scan(&orgID); err != nil {
			return nil, fmt.Errorf("availability.ListActiveOrgs scan: %w", err)
		}
		orgs = append(orgs, orgID)
	}
	return orgs, rows.Err()
}

func (r *AvailabilityRepo) queryAvailability(ctx context.Context, query string, args ...any) ([]repository.PartAvailability, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("availability query: %w", err)
	}
	defer rows.Close()

	var results []repository.PartAvailability
	for rows.Next() {
		var row repository.PartAvailability
		if err := rows.Scan(
			&row.PartID, &row.SKU, &row.PartName,
			&row.Locations, &row.Quantity, &row.Reserved, &row.Minimum, &row.Available,
		); err != nil {
			return nil, fmt.Errorf("availability scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
