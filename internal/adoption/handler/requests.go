package handler

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"petadopt/internal/adoption/models"
	"petadopt/pkg/domain"
)

// CreateRequest is the body of POST /api/solicitudes-adopcion. A zero
// id_usuario means the caller.
type CreateRequest struct {
	UserID domain.UserID `json:"id_usuario"`
	PetID  domain.PetID  `json:"id_mascota"`
	Motive *string       `json:"motivo"`
}

func (r *CreateRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID, validation.Min(0)),
		validation.Field(&r.PetID, validation.Required, validation.Min(1)),
		validation.Field(&r.Motive, validation.RuneLength(0, 2000)),
	)
}

// StatusRequest is the body of PUT /api/solicitudes-adopcion/{id}/estado.
type StatusRequest struct {
	Status   models.Status `json:"estado_solicitud"`
	Comments *string       `json:"comentarios"`
}

func (r *StatusRequest) Validate() error {
	allowed := make([]interface{}, len(models.Statuses))
	for i, s := range models.Statuses {
		allowed[i] = s
	}
	return validation.ValidateStruct(r,
		validation.Field(&r.Status, validation.Required, validation.In(allowed...)),
		validation.Field(&r.Comments, validation.RuneLength(0, 2000)),
	)
}

// parseStatuses splits a comma separated ?estado= value.
func parseStatuses(raw string) []models.Status {
	if raw == "" {
		return nil
	}
	var out []models.Status
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, models.Status(part))
		}
	}
	return out
}
