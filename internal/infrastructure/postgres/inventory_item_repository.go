package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tallerpro/stock-api/internal/domain"
	"github.com/tallerpro/stock-api/internal/domain/entity"
	"github.com/tallerpro/stock-api/internal/domain/repository"
)

var _ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)

// InventoryItemRepo implementación sobre PostgreSQL (usable con pool o tx).
type InventoryItemRepo struct {
	q Querier
}

// NewInventoryItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryItemRepository(q Querier) *InventoryItemRepo {
	return &InventoryItemRepo{q: q}
}

const itemColumns = `id, org_id, part_id, location, quantity, reserved_quantity, minimum_quantity, unit_cost, sale_price, created_at, updated_at`

// Create inserta la fila de stock. El constraint único (org, part, location)
// convierte duplicados en domain.ErrDuplicate.
func (r *InventoryItemRepo) Create(ctx context.Context, item *entity.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (id, org_id, part_id, location, quantity, reserved_quantity, minimum_quantity, unit_cost, sale_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.OrgID, item.PartID, item.Location,
		item.Quantity, item.ReservedQuantity, item.MinimumQuantity,
		item.UnitCost, item.SalePrice, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert inventory item: %w", err)
	}
	return nil
}

// GetByID obtiene un ítem por ID. Devuelve nil, nil si no existe.
func (r *InventoryItemRepo) GetByID(ctx context.Context, orgID, id string) (*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE org_id = $1 AND id = $2`
	return r.scanOne(r.q.QueryRow(ctx, query, orgID, id), "get inventory item")
}

// GetByPartAndLocation obtiene el ítem de la pareja (repuesto, ubicación).
func (r *InventoryItemRepo) GetByPartAndLocation(ctx context.Context, orgID, partID, location string) (*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE org_id = $1 AND part_id = $2 AND location = $3`
	return r.scanOne(r.q.QueryRow(ctx, query, orgID, partID, location), "get inventory item by part/location")
}

// GetForUpdate obtiene el ítem y bloquea la fila (SELECT FOR UPDATE) para
// serializar operaciones concurrentes sobre la misma pareja. Filas distintas
// no se serializan entre sí. Devuelve nil, nil si no existe.
func (r *InventoryItemRepo) GetForUpdate(ctx context.Context, orgID, partID, location string) (*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items
		WHERE org_id = $1 AND part_id = $2 AND location = $3
		FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, orgID, partID, location), "get inventory item for update")
}

// UpdateQuantities persiste cantidades y overrides de una fila ya bloqueada.
func (r *InventoryItemRepo) UpdateQuantities(ctx context.Context, item *entity.InventoryItem) error {
	query := `
		UPDATE inventory_items
		SET quantity = $1, reserved_quantity = $2, unit_cost = $3, sale_price = $4, updated_at = $5
		WHERE org_id = $6 AND id = $7`
	tag, err := r.q.Exec(ctx, query,
		item.Quantity, item.ReservedQuantity, item.UnitCost, item.SalePrice, item.UpdatedAt,
		item.OrgID, item.ID,
	)
	if err != nil {
		return fmt.Errorf("update inventory item quantities: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateMinimum persiste el umbral de reorden.
func (r *InventoryItemRepo) UpdateMinimum(ctx context.Context, item *entity.InventoryItem) error {
	query := `
		UPDATE inventory_items
		SET minimum_quantity = $1, updated_at = $2
		WHERE org_id = $3 AND id = $4`
	tag, err := r.q.Exec(ctx, query, item.MinimumQuantity, item.UpdatedAt, item.OrgID, item.ID)
	if err != nil {
		return fmt.Errorf("update inventory item minimum: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByPart lista las filas de stock de un repuesto en todas las ubicaciones.
func (r *InventoryItemRepo) ListByPart(ctx context.Context, orgID, partID string) ([]*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items
		WHERE org_id = $1 AND part_id = $2
		ORDER BY location`
	rows, err := r.q.Query(ctx, query, orgID, partID)
	if err != nil {
		return nil, fmt.Errorf("list inventory items by part: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryItem
	for rows.Next() {
		var i entity.InventoryItem
		if err := scanItem(rows, &i); err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		list = append(list, &i)
	}
	return list, rows.Err()
}

// ListBelowMinimum devuelve los ítems cuya disponibilidad (quantity - reserved)
// está en o bajo su umbral de reorden, con mayor déficit primero.
// location vacío considera todas las ubicaciones.
func (r *InventoryItemRepo) ListBelowMinimum(ctx context.Context, orgID, location string) ([]repository.LowStockItem, error) {
	query := `
		SELECT
			i.id,
			i.part_id,
			p.sku,
			p.name,
			i.location,
			i.quantity,
			i.reserved_quantity,
			i.minimum_quantity,
			COALESCE(i.unit_cost, p.cost)   AS unit_cost,
			COALESCE(i.sale_price, p.price) AS sale_price
		FROM inventory_items i
		JOIN parts p ON p.id = i.part_id
		WHERE i.org_id = $1
		  AND i.minimum_quantity > 0
		  AND (i.quantity - i.reserved_quantity) <= i.minimum_quantity
		  AND ($2 = '' OR i.location = $2)
		ORDER BY (i.minimum_quantity - (i.quantity - i.reserved_quantity)) DESC`
	rows, err := r.q.Query(ctx, query, orgID, location)
	if err != nil {
		return nil, fmt.Errorf("list items below minimum: %w", err)
	}
	defer rows.Close()
	var items []repository.LowStockItem
	for rows.Next() {
		var it repository.LowStockItem
		if err := rows.Scan(
			&it.ItemID, &it.PartID, &it.SKU, &it.PartName, &it.Location,
			&it.Quantity, &it.Reserved, &it.Minimum, &it.UnitCost, &it.Price,
		); err != nil {
			return nil, fmt.Errorf("scan low stock item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *InventoryItemRepo) scanOne(row pgx.Row, op string) (*entity.InventoryItem, error) {
	var i entity.InventoryItem
	if err := scanItem(row, &i); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &i, nil
}

func scanItem(row pgx.Row, i *entity.InventoryItem) error {
	return row.Scan(
		&i.ID, &i.OrgID, &i.PartID, &i.Location,
		&i.Quantity, &i.ReservedQuantity, &i.MinimumQuantity,
		&i.UnitCost, &i.SalePrice, &i.CreatedAt, &i.UpdatedAt,
	)
}
