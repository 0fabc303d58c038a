package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tallerpro/stock-api/internal/application/dto"
	"github.com/tallerpro/stock-api/internal/domain"
	"github.com/tallerpro/stock-api/internal/domain/entity"
	"github.com/tallerpro/stock-api/internal/domain/repository"
)

// PartUseCase CRUD del catálogo de repuestos. Las cantidades nunca se tocan
// aquí: el stock se maneja exclusivamente vía el motor de reservas.
type PartUseCase struct {
	repo repository.PartRepository
}

// NewPartUseCase construye el caso de uso.
func NewPartUseCase(repo repository.PartRepository) *PartUseCase {
	return &PartUseCase{repo: repo}
}

// Create crea un repuesto. SKU único por organización.
func (uc *PartUseCase) Create(ctx context.Context, orgID string, in dto.CreatePartRequest) (*dto.PartResponse, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Cost.IsNegative() || in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetBySKU(ctx, orgID, in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	part := &entity.Part{
		ID:           uuid.New().String(),
		OrgID:        orgID,
		SKU:          in.SKU,
		Name:         in.Name,
		Manufacturer: in.Manufacturer,
		Cost:         in.Cost,
		Price:        in.Price,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, part); err != nil {
		return nil, err
	}
	return dto.ToPartResponse(part), nil
}

// GetByID obtiene un repuesto por ID.
func (uc *PartUseCase) GetByID(ctx context.Context, orgID, id string) (*dto.PartResponse, error) {
	part, err := uc.repo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, domain.ErrNotFound
	}
	return dto.ToPartResponse(part), nil
}

// List lista el catálogo paginado.
func (uc *PartUseCase) List(ctx context.Context, orgID string, page dto.PageRequest) ([]*dto.PartResponse, error) {
	page.DefaultPage()
	parts, err := uc.repo.List(ctx, orgID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PartResponse, 0, len(parts))
	for _, p := range parts {
		out = append(out, dto.ToPartResponse(p))
	}
	return out, nil
}

// Update edición parcial. SKU es inmutable.
func (uc *PartUseCase) Update(ctx context.Context, orgID, id string, in dto.UpdatePartRequest) (*dto.PartResponse, error) {
	part, err := uc.repo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		part.Name = *in.Name
	}
	if in.Manufacturer != nil {
		part.Manufacturer = *in.Manufacturer
	}
	if in.Cost != nil {
		if in.Cost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		part.Cost = *in.Cost
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		part.Price = *in.Price
	}
	if in.Active != nil {
		part.Active = *in.Active
	}
	part.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, part); err != nil {
		return nil, err
	}
	return dto.ToPartResponse(part), nil
}
