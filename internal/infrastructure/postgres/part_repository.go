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

var _ repository.PartRepository = (*PartRepo)(nil)

// PartRepo implementación del catálogo de repuestos sobre PostgreSQL (usable con pool o tx).
type PartRepo struct {
	q Querier
}

// NewPartRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPartRepository(q Querier) *PartRepo {
	return &PartRepo{q: q}
}

const partColumns = `id, org_id, sku, name, manufacturer, cost, price, active, created_at, updated_at`

// Create persiste un repuesto nuevo. SKU único por organización.
func (r *PartRepo) Create(ctx context.Context, part *entity.Part) error {
	query := `
		INSERT INTO parts (id, org_id, sku, name, manufacturer, cost, price, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		part.ID, part.OrgID, part.SKU, part.Name, part.Manufacturer,
		part.Cost, part.Price, part.Active, part.CreatedAt, part.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert part: %w", err)
	}
	return nil
}

// GetByID obtiene un repuesto por ID. Devuelve nil, nil si no existe.
func (r *PartRepo) GetByID(ctx context.Context, orgID, id string) (*entity.Part, error) {
	query := `SELECT ` + partColumns + ` FROM parts WHERE org_id = $1 AND id = $2`
	return r.scanOne(r.q.QueryRow(ctx, query, orgID, id), "get part")
}

// GetBySKU obtiene un repuesto por organización y SKU.
func (r *PartRepo) GetBySKU(ctx context.Context, orgID, sku string) (*entity.Part, error) {
	query := `SELECT ` + partColumns + ` FROM parts WHERE org_id = $1 AND sku = $2`
	return r.scanOne(r.q.QueryRow(ctx, query, orgID, sku), "get part by sku")
}

// List lista el catálogo paginado, por SKU.
func (r *PartRepo) List(ctx context.Context, orgID string, limit, offset int) ([]*entity.Part, error) {
	query := `SELECT ` + partColumns + ` FROM parts
		WHERE org_id = $1 ORDER BY sku LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, orgID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list parts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Part
	for rows.Next() {
		var p entity.Part
		if err := scanPart(rows, &p); err != nil {
			return nil, fmt.Errorf("scan part: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Update persiste los campos editables de un repuesto.
func (r *PartRepo) Update(ctx context.Context, part *entity.Part) error {
	query := `
		UPDATE parts
		SET name = $1, manufacturer = $2, cost = $3, price = $4, active = $5, updated_at = $6
		WHERE org_id = $7 AND id = $8`
	tag, err := r.q.Exec(ctx, query,
		part.Name, part.Manufacturer, part.Cost, part.Price, part.Active, part.UpdatedAt,
		part.OrgID, part.ID,
	)
	if err != nil {
		return fmt.Errorf("update part: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PartRepo) scanOne(row pgx.Row, op string) (*entity.Part, error) {
	var p entity.Part
	if err := scanPart(row, &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

func scanPart(row pgx.Row, p *entity.Part) error {
	return row.Scan(
		&p.ID, &p.OrgID, &p.SKU, &p.Name, &p.Manufacturer,
		&p.Cost, &p.Price, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
}
