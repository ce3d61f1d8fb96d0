package models

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of an adoption request. Values are stored and
// exchanged verbatim.
type Status string

const (
	StatusPending   Status = "Pendiente"
	StatusApproved  Status = "Aprobada"
	StatusRejected  Status = "Rechazada"
	StatusCancelled Status = "Cancelada"
)

// Statuses lists every valid status.
var Statuses = []Status{StatusPending, StatusApproved, StatusRejected, StatusCancelled}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// IsDecision reports whether s records an administrator decision. Decision
// statuses carry a decision date; the others never do.
func (s Status) IsDecision() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransitionTo reports whether a request in s may move to next. Every pair
// of valid statuses is allowed, including reversals such as Rechazada to
// Aprobada and re-applying the current status.
func (s Status) CanTransitionTo(next Status) bool {
	return s.IsValid() && next.IsValid()
}

func (s Status) String() string { return string(s) }

// StatusChange is the persisted effect of a transition.
type StatusChange struct {
	Status       Status
	Observations *string
	DecisionAt   *time.Time
}

// NewStatusChange computes the decision date for status: now for decisions,
// nil otherwise.
func NewStatusChange(status Status, observations *string, now time.Time) StatusChange {
	change := StatusChange{Status: status, Observations: observations}
	if status.IsDecision() {
		t := now
		change.DecisionAt = &t
	}
	return change
}

// StatusMessage is the notification text sent to the requester after a
// transition to status.
func StatusMessage(status Status, requesterName, petName string) string {
	switch status {
	case StatusApproved:
		return fmt.Sprintf("¡Felicitaciones, %s! Tu solicitud de adopción para '%s' ha sido APROBADA.", requesterName, petName)
	case StatusRejected:
		return fmt.Sprintf("Lamentamos informarte, %s, que tu solicitud de adopción para '%s' ha sido RECHAZADA.", requesterName, petName)
	case StatusCancelled:
		return fmt.Sprintf("Tu solicitud de adopción para '%s' ha sido CANCELADA.", petName)
	default:
		return fmt.Sprintf("El estado de tu solicitud de adopción para '%s' ha sido actualizado a PENDIENTE.", petName)
	}
}
