// Package models holds the read-only catalog records: pets, shelters and
// their media gallery.
package models

import (
	"slices"
	"strings"
	"time"

	"petadopt/pkg/domain"
)

// PetStatusAvailable is the adoption status new pets start in.
const PetStatusAvailable = "Disponible"

type Pet struct {
	ID             domain.PetID      `json:"id_mascota"`
	Name           string            `json:"nombre"`
	Species        string            `json:"especie"`
	Breed          *string           `json:"raza"`
	Age            *int              `json:"edad"`
	Sex            *string           `json:"sexo"`
	Size           *string           `json:"tamano"`
	Description    *string           `json:"descripcion"`
	RescuedAt      *time.Time        `json:"fecha_rescate"`
	AdoptionStatus string            `json:"estado_adopcion"`
	ShelterID      *domain.ShelterID `json:"id_refugio"`
	// PhotoURL is the most recently uploaded gallery item, set on list reads.
	PhotoURL *string `json:"foto_url,omitempty"`
	// Gallery is only populated by single-pet reads.
	Gallery []*MediaItem `json:"galeria,omitempty"`
}

type Shelter struct {
	ID      domain.ShelterID `json:"id_refugio"`
	Name    string           `json:"nombre"`
	Address string           `json:"direccion"`
	City    string           `json:"ciudad"`
	Country string           `json:"pais"`
	Phone   *string          `json:"telefono"`
	Email   *string          `json:"email"`
	Status  string           `json:"estado"`
}

type MediaItem struct {
	ID          domain.MediaID `json:"id_multimedia"`
	PetID       domain.PetID   `json:"id_mascota"`
	MediaType   string         `json:"tipo_archivo"`
	URL         string         `json:"url_archivo"`
	Description *string        `json:"descripcion"`
	UploadedAt  time.Time      `json:"fecha_subida"`
	PetName     string         `json:"nombre_mascota,omitempty"`
}

// PetFilter narrows pet listings. Zero values match everything.
type PetFilter struct {
	Statuses  []string
	Species   string
	ShelterID *domain.ShelterID
}

func (f PetFilter) Matches(p *Pet) bool {
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, p.AdoptionStatus) {
		return false
	}
	if f.Species != "" && !strings.EqualFold(f.Species, p.Species) {
		return false
	}
	if f.ShelterID != nil && (p.ShelterID == nil || *p.ShelterID != *f.ShelterID) {
		return false
	}
	return true
}

// NewerFirst orders media by upload time, then id, newest first.
func NewerFirst(a, b *MediaItem) int {
	if c := b.UploadedAt.Compare(a.UploadedAt); c != 0 {
		return c
	}
	switch {
	case a.ID > b.ID:
		return -1
	case a.ID < b.ID:
		return 1
	}
	return 0
}
