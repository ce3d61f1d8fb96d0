package handler

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// RegisterRequest is the body of POST /api/usuarios/register. Any id_rol or
// estado sent by the client is ignored.
type RegisterRequest struct {
	FirstName string  `json:"nombre_usuario"`
	LastName  string  `json:"apellido"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	Phone     *string `json:"telefono"`
	Address   *string `json:"direccion"`
}

func (r *RegisterRequest) Validate() error {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
	return validation.ValidateStruct(r,
		validation.Field(&r.FirstName, validation.Required, validation.RuneLength(1, 100)),
		validation.Field(&r.LastName, validation.Required, validation.RuneLength(1, 100)),
		validation.Field(&r.Email, validation.Required, validation.Length(3, 255), is.Email),
		// bcrypt ignores bytes past 72.
		validation.Field(&r.Password, validation.Required, validation.Length(6, 72)),
		validation.Field(&r.Phone, validation.Length(0, 20)),
		validation.Field(&r.Address, validation.Length(0, 255)),
	)
}
