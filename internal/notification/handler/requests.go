package handler

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"petadopt/internal/notification/models"
	"petadopt/pkg/domain"
)

// SendRequest is the body of POST /api/notificaciones.
type SendRequest struct {
	UserID  domain.UserID `json:"id_usuario"`
	Message string        `json:"mensaje"`
	Type    models.Type   `json:"tipo_notificacion"`
}

func (r *SendRequest) Validate() error {
	r.Message = strings.TrimSpace(r.Message)
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID, validation.Required, validation.Min(1)),
		validation.Field(&r.Message, validation.Required, validation.RuneLength(1, models.MaxMessageLength)),
		validation.Field(&r.Type, validation.Length(0, 50)),
	)
}

// parseTypes splits a comma separated ?tipo= value.
func parseTypes(raw string) []models.Type {
	if raw == "" {
		return nil
	}
	var out []models.Type
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, models.Type(part))
		}
	}
	return out
}
