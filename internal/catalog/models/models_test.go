package models

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"petadopt/pkg/domain"
)

func TestPetFilterMatches(t *testing.T) {
	shelter := domain.ShelterID(2)
	other := domain.ShelterID(3)
	pet := &Pet{Species: "Perro", AdoptionStatus: PetStatusAvailable, ShelterID: &shelter}

	tests := []struct {
		name   string
		filter PetFilter
		want   bool
	}{
		{"empty filter", PetFilter{}, true},
		{"status listed", PetFilter{Statuses: []string{"Adoptado", PetStatusAvailable}}, true},
		{"status not listed", PetFilter{Statuses: []string{"Adoptado"}}, false},
		{"species ignores case", PetFilter{Species: "perro"}, true},
		{"other species", PetFilter{Species: "Gato"}, false},
		{"same shelter", PetFilter{ShelterID: &shelter}, true},
		{"other shelter", PetFilter{ShelterID: &other}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(pet))
		})
	}

	assert.False(t, PetFilter{ShelterID: &shelter}.Matches(&Pet{}), "pets without a shelter never match a shelter filter")
}

func TestNewerFirst(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	items := []*MediaItem{
		{ID: 1, UploadedAt: t0},
		{ID: 2, UploadedAt: t0.Add(time.Hour)},
		{ID: 3, UploadedAt: t0},
	}
	slices.SortFunc(items, NewerFirst)
	assert.Equal(t, []domain.MediaID{2, 3, 1}, []domain.MediaID{items[0].ID, items[1].ID, items[2].ID})
}
