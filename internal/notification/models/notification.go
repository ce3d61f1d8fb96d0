package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"petadopt/pkg/domain"
	dErrors "petadopt/pkg/domain-errors"
)

// Type classifies a notification.
type Type string

const (
	// TypeAdoptionStatus is emitted when an adoption request changes status.
	TypeAdoptionStatus Type = "estado_solicitud"
	// TypeGeneral is the default for notifications sent by an administrator.
	TypeGeneral Type = "general"
)

// MaxMessageLength bounds the message body in runes.
const MaxMessageLength = 1000

// Notification is a message addressed to one user.
//
// Invariants:
//   - RecipientUserID is positive
//   - Message is non-empty after trimming and at most MaxMessageLength runes
//   - Read starts false and only ever flips to true
type Notification struct {
	ID              domain.NotificationID `json:"id_notificacion"`
	RecipientUserID domain.UserID         `json:"id_usuario"`
	Message         string                `json:"mensaje"`
	Read            bool                  `json:"leida"`
	Type            Type                  `json:"tipo_notificacion"`
	CreatedAt       time.Time             `json:"fecha_hora"`
}

// NewNotification validates and builds an unread notification.
func NewNotification(recipient domain.UserID, message string, typ Type, now time.Time) (*Notification, error) {
	if recipient <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "recipient user id is required")
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "message is required")
	}
	if utf8.RuneCountInString(message) > MaxMessageLength {
		return nil, dErrors.New(dErrors.CodeValidation, "message is too long")
	}
	typ = Type(strings.TrimSpace(string(typ)))
	if typ == "" {
		typ = TypeGeneral
	}
	return &Notification{
		RecipientUserID: recipient,
		Message:         message,
		Type:            typ,
		CreatedAt:       now,
	}, nil
}

// ListFilter narrows a listing. A nil Recipient lists every user's notifications.
type ListFilter struct {
	Recipient  *domain.UserID
	Types      []Type
	UnreadOnly bool
}

// Matches reports whether n passes the filter.
func (f ListFilter) Matches(n *Notification) bool {
	if f.Recipient != nil && n.RecipientUserID != *f.Recipient {
		return false
	}
	if f.UnreadOnly && n.Read {
		return false
	}
	if len(f.Types) == 0 {
		return true
	}
	for _, t := range f.Types {
		if n.Type == t {
			return true
		}
	}
	return false
}
