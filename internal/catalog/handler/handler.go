package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"petadopt/internal/catalog/models"
	"petadopt/pkg/domain"
	"petadopt/pkg/platform/httputil"
	"petadopt/pkg/platform/routes"
)

type Service interface {
	ListPets(ctx context.Context, filter models.PetFilter) ([]*models.Pet, error)
	GetPet(ctx context.Context, id domain.PetID) (*models.Pet, error)
	ListShelters(ctx context.Context) ([]*models.Shelter, error)
	GetShelter(ctx context.Context, id domain.ShelterID) (*models.Shelter, error)
	ListGallery(ctx context.Context) ([]*models.MediaItem, error)
	ListPetGallery(ctx context.Context, petID domain.PetID) ([]*models.MediaItem, error)
}

// Handler serves the public catalog reads.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Routes returns the catalog entries of the route table. The {id} routes are
// the numeric-suffix public prefixes.
func (h *Handler) Routes() []routes.Route {
	return []routes.Route{
		{Method: http.MethodGet, Pattern: "/api/mascotas", Access: routes.Public(), Handler: h.handleListPets},
		{Method: http.MethodGet, Pattern: "/api/mascotas/{id}", Access: routes.Public(), Handler: h.handleGetPet},
		{Method: http.MethodGet, Pattern: "/api/refugios", Access: routes.Public(), Handler: h.handleListShelters},
		{Method: http.MethodGet, Pattern: "/api/refugios/{id}", Access: routes.Public(), Handler: h.handleGetShelter},
		{Method: http.MethodGet, Pattern: "/api/galeriamultimedia", Access: routes.Public(), Handler: h.handleListGallery},
		{Method: http.MethodGet, Pattern: "/api/galeriamultimedia/mascota/{id}", Access: routes.Public(), Handler: h.handleListPetGallery},
	}
}

// Register mounts the routes directly, without the route-table gates.
func (h *Handler) Register(r chi.Router) {
	for _, rt := range h.Routes() {
		r.Method(rt.Method, rt.Pattern, rt.Handler)
	}
}

func (h *Handler) handleListPets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.PetFilter{
		Statuses: splitList(q.Get("estado")),
		Species:  strings.TrimSpace(q.Get("especie")),
	}
	if raw := q.Get("refugio"); raw != "" {
		id, err := domain.ParseShelterID(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		filter.ShelterID = &id
	}

	pets, err := h.service.ListPets(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	writeList(w, "pets retrieved", "no pets found", pets)
}

func (h *Handler) handleGetPet(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParsePetID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	p, err := h.service.GetPet(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "pet retrieved", p)
}

func (h *Handler) handleListShelters(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListShelters(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	writeList(w, "shelters retrieved", "no shelters found", list)
}

func (h *Handler) handleGetShelter(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseShelterID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	sh, err := h.service.GetShelter(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "shelter retrieved", sh)
}

func (h *Handler) handleListGallery(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListGallery(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	writeList(w, "gallery retrieved", "gallery is empty", items)
}

func (h *Handler) handleListPetGallery(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParsePetID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	items, err := h.service.ListPetGallery(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	writeList(w, "gallery retrieved", "pet has no media", items)
}

// writeList answers an empty result with an info envelope and an empty array.
func writeList[T any](w http.ResponseWriter, found, empty string, items []T) {
	if len(items) == 0 {
		httputil.WriteJSON(w, http.StatusOK, httputil.Envelope{Status: httputil.StatusInfo, Message: empty, Data: []T{}})
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, found, items)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
