package entity

import "time"

// Roles de usuario.
const (
	RoleAdmin       = "admin"
	RoleAlmacenista = "almacenista"
	RoleMecanico    = "mecanico"
)

// User representa un usuario del taller con acceso a la API.
type User struct {
	ID           string
	OrgID        string
	Email        string
	PasswordHash string
	Name         string
	Role         string // admin, almacenista, mecanico
	Status       string // active, disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
