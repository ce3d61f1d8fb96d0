package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petadopt/internal/catalog/models"
	"petadopt/internal/catalog/service"
	catalogstore "petadopt/internal/catalog/store/catalog"
	"petadopt/pkg/testutil"
)

type fixture struct {
	router chi.Router
	store  *catalogstore.InMemory
	luna   *models.Pet
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := catalogstore.NewInMemory()

	shelter := &models.Shelter{Name: "Huellitas", City: "Quito", Country: "Ecuador", Status: "Activo"}
	require.NoError(t, store.AddShelter(ctx, shelter))
	luna := &models.Pet{Name: "Luna", Species: "Perro", ShelterID: &shelter.ID}
	require.NoError(t, store.AddPet(ctx, luna))
	require.NoError(t, store.AddPet(ctx, &models.Pet{Name: "Michi", Species: "Gato", AdoptionStatus: "Adoptado"}))
	require.NoError(t, store.AddMedia(ctx, &models.MediaItem{PetID: luna.ID, MediaType: "imagen", URL: "luna.jpg", UploadedAt: time.Now()}))

	r := chi.NewRouter()
	New(service.New(store, service.WithLogger(logger)), logger).Register(r)
	return &fixture{router: r, store: store, luna: luna}
}

type envelope[T any] struct {
	Status string `json:"status"`
	Data   T      `json:"data"`
}

func TestListPets(t *testing.T) {
	f := newFixture(t)

	rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/api/mascotas"))
	testutil.AssertStatusOK(t, rr)
	body := testutil.UnmarshalResponse[envelope[[]*models.Pet]](t, rr)
	assert.Len(t, body.Data, 2)

	rr = testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/api/mascotas?estado=Disponible"))
	body = testutil.UnmarshalResponse[envelope[[]*models.Pet]](t, rr)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Luna", body.Data[0].Name)
	require.NotNil(t, body.Data[0].PhotoURL)
	assert.Equal(t, "luna.jpg", *body.Data[0].PhotoURL)

	rr = testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/api/mascotas?especie=Loro"))
	testutil.AssertStatusOK(t, rr)
	testutil.AssertEnvelopeStatus(t, rr, "info")

	rr = testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/api/mascotas?refugio=abc"))
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "ValidationError")
}

func TestGetPet(t *testing.T) {
	f := newFixture(t)

	rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/api/mascotas/"+f.luna.ID.String()))
	testutil.AssertStatusOK(t, rr)
	body := testutil.UnmarshalResponse[envelope[models.Pet]](t, rr)
	assert.Equal(t, "Luna", body.Data.Name)
	assert.Len(t, body.Data.Gallery, 1)

	rr = testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/api/mascotas/999"))
	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "NotFoundError")
}

func TestShelters(t *testing.T) {
	f := newFixture(t)

	rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/api/refugios"))
	testutil.AssertStatusOK(t, rr)
	body := testutil.UnmarshalResponse[envelope[[]*models.Shelter]](t, rr)
	require.Len(t, body.Data, 1)

	rr = testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/api/refugios/"+body.Data[0].ID.String()))
	testutil.AssertStatusOK(t, rr)

	rr = testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/api/refugios/55"))
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}

func TestGallery(t *testing.T) {
	f := newFixture(t)

	rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/api/galeriamultimedia"))
	testutil.AssertStatusOK(t, rr)
	body := testutil.UnmarshalResponse[envelope[[]*models.MediaItem]](t, rr)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Luna", body.Data[0].PetName)

	rr = testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/api/galeriamultimedia/mascota/"+f.luna.ID.String()))
	testutil.AssertStatusOK(t, rr)

	rr = testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/api/galeriamultimedia/mascota/404"))
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}
