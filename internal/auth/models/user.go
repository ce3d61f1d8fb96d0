package models

import (
	"strings"
	"time"

	"petadopt/pkg/domain"
)

// UserStatusActive is the status given to self-registered users.
const UserStatusActive = "Activo"

// User is a registered account. PasswordHash is a bcrypt hash and is never
// serialized.
type User struct {
	ID           domain.UserID `json:"id_usuario"`
	FirstName    string        `json:"nombre_usuario"`
	LastName     string        `json:"apellido"`
	Email        string        `json:"email"`
	PasswordHash string        `json:"-"`
	Phone        *string       `json:"telefono,omitempty"`
	Address      *string       `json:"direccion,omitempty"`
	RoleID       domain.RoleID `json:"id_rol"`
	Status       string        `json:"estado"`
	RegisteredAt time.Time     `json:"fecha_registro"`
}

// Identity is the token subject for u.
func (u *User) Identity() domain.Identity {
	return domain.Identity{
		UserID:   u.ID,
		RoleID:   u.RoleID,
		Username: u.FirstName,
		Email:    u.Email,
	}
}

// NormalizeEmail is the form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
