package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petadopt/pkg/domain"
	dErrors "petadopt/pkg/domain-errors"
)

func TestNewNotification(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("valid", func(t *testing.T) {
		n, err := NewNotification(4, "  hola  ", TypeAdoptionStatus, now)
		require.NoError(t, err)
		assert.Equal(t, "hola", n.Message)
		assert.False(t, n.Read)
		assert.Equal(t, now, n.CreatedAt)
		assert.Equal(t, TypeAdoptionStatus, n.Type)
	})

	t.Run("defaults type", func(t *testing.T) {
		n, err := NewNotification(4, "hola", "", now)
		require.NoError(t, err)
		assert.Equal(t, TypeGeneral, n.Type)
	})

	invalid := map[string]struct {
		recipient domain.UserID
		message   string
	}{
		"no recipient":  {0, "hola"},
		"blank message": {4, "   "},
		"too long":      {4, strings.Repeat("a", MaxMessageLength+1)},
	}
	for name, tc := range invalid {
		t.Run(name, func(t *testing.T) {
			_, err := NewNotification(tc.recipient, tc.message, TypeGeneral, now)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}

func TestListFilter(t *testing.T) {
	owner := domain.UserID(3)
	n := &Notification{RecipientUserID: 3, Type: TypeAdoptionStatus}

	assert.True(t, ListFilter{}.Matches(n))
	assert.True(t, ListFilter{Recipient: &owner}.Matches(n))
	assert.True(t, ListFilter{Types: []Type{TypeGeneral, TypeAdoptionStatus}}.Matches(n))
	assert.False(t, ListFilter{Types: []Type{TypeGeneral}}.Matches(n))

	other := domain.UserID(4)
	assert.False(t, ListFilter{Recipient: &other}.Matches(n))

	n.Read = true
	assert.False(t, ListFilter{UnreadOnly: true}.Matches(n))
}
