package repository

import (
	"context"

	"github.com/tallerpro/stock-api/internal/domain/entity"
)

// UserRepository puerto de persistencia de usuarios.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	// FindByEmail devuelve nil, nil si no existe.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByEmailAndOrg(ctx context.Context, email, orgID string) (*entity.User, error)
}
