package models

import (
	"strings"
	"time"

	"petadopt/pkg/domain"
	dErrors "petadopt/pkg/domain-errors"
)

// Request is an adoption request as stored.
//
// Invariants:
//   - Status is one of Statuses
//   - DecisionAt is set iff Status.IsDecision()
type Request struct {
	ID              domain.AdoptionID `json:"id_solicitud"`
	RequesterUserID domain.UserID     `json:"id_usuario"`
	PetID           domain.PetID      `json:"id_mascota"`
	SubmittedAt     time.Time         `json:"fecha_solicitud"`
	Status          Status            `json:"estado_solicitud"`
	DecisionAt      *time.Time        `json:"fecha_aprobacion_rechazo"`
	Motive          *string           `json:"motivo"`
	Observations    *string           `json:"observaciones"`
}

// View is a request joined with the names shown to users and used in
// notification text.
type View struct {
	Request
	RequesterName     string `json:"solicitante_nombre"`
	RequesterLastName string `json:"solicitante_apellido"`
	PetName           string `json:"mascota_nombre"`
}

// NewRequest builds a pending request. A blank motive is stored as nil.
func NewRequest(requester domain.UserID, pet domain.PetID, motive *string, now time.Time) (*Request, error) {
	if requester <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "id_usuario is required")
	}
	if pet <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "id_mascota is required")
	}
	return &Request{
		RequesterUserID: requester,
		PetID:           pet,
		SubmittedAt:     now,
		Status:          StatusPending,
		Motive:          normalizeOptional(motive),
	}, nil
}

// ApplyStatusChange mutates r to reflect change.
func (r *Request) ApplyStatusChange(change StatusChange) {
	r.Status = change.Status
	r.Observations = change.Observations
	r.DecisionAt = change.DecisionAt
}

// ListFilter narrows a listing.
type ListFilter struct {
	Requester *domain.UserID
	Statuses  []Status
}

func (f ListFilter) Matches(r *Request) bool {
	if f.Requester != nil && r.RequesterUserID != *f.Requester {
		return false
	}
	if len(f.Statuses) == 0 {
		return true
	}
	for _, s := range f.Statuses {
		if r.Status == s {
			return true
		}
	}
	return false
}

func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// NormalizeObservations trims observations, mapping blank to nil.
func NormalizeObservations(s *string) *string {
	return normalizeOptional(s)
}
