package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petadopt/internal/adoption/models"
	"petadopt/internal/adoption/service"
	requeststore "petadopt/internal/adoption/store/request"
	notificationService "petadopt/internal/notification/service"
	notificationstore "petadopt/internal/notification/store/notification"
	"petadopt/pkg/domain"
	"petadopt/pkg/platform/httputil"
	"petadopt/pkg/platform/sentinel"
	"petadopt/pkg/testutil"
)

type directory struct{}

func (directory) FullName(_ context.Context, id domain.UserID) (string, string, error) {
	switch id {
	case 2:
		return "Ana", "Pérez", nil
	case 3:
		return "Luis", "Gómez", nil
	}
	return "", "", sentinel.ErrNotFound
}

func (directory) PetName(_ context.Context, id domain.PetID) (string, error) {
	if id == 10 {
		return "Firulais", nil
	}
	return "", sentinel.ErrNotFound
}

type viewEnvelope struct {
	Status string      `json:"status"`
	Data   models.View `json:"data"`
}

type listEnvelope struct {
	Status string         `json:"status"`
	Data   []*models.View `json:"data"`
}

func newRouter(t *testing.T) chi.Router {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifier := notificationService.New(notificationstore.NewInMemory(), notificationService.WithLogger(logger))
	svc := service.New(requeststore.NewInMemory(directory{}, directory{}), notifier, service.WithLogger(logger))
	r := chi.NewRouter()
	New(svc, logger).Register(r)
	return r
}

func createRequest(t *testing.T, r chi.Router, as domain.UserID, body map[string]any) *models.View {
	t.Helper()
	req := testutil.AsAdopter(testutil.NewJSONRequest(t, http.MethodPost, "/api/solicitudes-adopcion", body), as)
	rr := testutil.DoRequest(r, req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return &testutil.UnmarshalResponse[viewEnvelope](t, rr).Data
}

func TestCreateDefaultsRequesterToCaller(t *testing.T) {
	r := newRouter(t)
	view := createRequest(t, r, 2, map[string]any{"id_mascota": 10, "motivo": "Tengo patio"})

	assert.Equal(t, domain.UserID(2), view.RequesterUserID)
	assert.Equal(t, models.StatusPending, view.Status)
	assert.Equal(t, "Firulais", view.PetName)
	assert.Nil(t, view.DecisionAt)
}

func TestCreateForAnotherUserIsForbidden(t *testing.T) {
	r := newRouter(t)
	req := testutil.AsAdopter(testutil.NewJSONRequest(t, http.MethodPost, "/api/solicitudes-adopcion",
		map[string]any{"id_usuario": 3, "id_mascota": 10}), 2)
	rr := testutil.DoRequest(r, req)
	testutil.AssertStatusAndError(t, rr, http.StatusForbidden, "AuthorizationError")
}

func TestCreateWithUnknownPet(t *testing.T) {
	r := newRouter(t)
	req := testutil.AsAdopter(testutil.NewJSONRequest(t, http.MethodPost, "/api/solicitudes-adopcion",
		map[string]any{"id_mascota": 99}), 2)
	rr := testutil.DoRequest(r, req)
	testutil.AssertStatusAndError(t, rr, http.StatusInternalServerError, "PersistenceError")
}

func TestCreateRequiresPet(t *testing.T) {
	r := newRouter(t)
	req := testutil.AsAdopter(testutil.NewJSONRequest(t, http.MethodPost, "/api/solicitudes-adopcion",
		map[string]any{"motivo": "x"}), 2)
	rr := testutil.DoRequest(r, req)
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "ValidationError")
}

func TestSetStatus(t *testing.T) {
	r := newRouter(t)
	created := createRequest(t, r, 2, map[string]any{"id_mascota": 10})
	path := "/api/solicitudes-adopcion/" + created.ID.String() + "/estado"

	t.Run("invalid status", func(t *testing.T) {
		req := testutil.AsAdmin(testutil.NewJSONRequest(t, http.MethodPut, path,
			map[string]any{"estado_solicitud": "Aceptada"}), 1)
		rr := testutil.DoRequest(r, req)
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "ValidationError")
	})

	t.Run("reject with comments", func(t *testing.T) {
		req := testutil.AsAdmin(testutil.NewJSONRequest(t, http.MethodPut, path,
			map[string]any{"estado_solicitud": "Rechazada", "comentarios": "Sin espacio"}), 1)
		rr := testutil.DoRequest(r, req)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		body := testutil.UnmarshalResponse[viewEnvelope](t, rr)
		assert.Equal(t, models.StatusRejected, body.Data.Status)
		assert.NotNil(t, body.Data.DecisionAt)
		require.NotNil(t, body.Data.Observations)
		assert.Equal(t, "Sin espacio", *body.Data.Observations)
	})

	t.Run("unknown request", func(t *testing.T) {
		req := testutil.AsAdmin(testutil.NewJSONRequest(t, http.MethodPut, "/api/solicitudes-adopcion/999/estado",
			map[string]any{"estado_solicitud": "Aprobada"}), 1)
		rr := testutil.DoRequest(r, req)
		testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "NotFoundError")
	})
}

func TestListByUser(t *testing.T) {
	r := newRouter(t)
	createRequest(t, r, 2, map[string]any{"id_mascota": 10})

	rr := testutil.DoRequest(r, testutil.AsAdopter(testutil.NewRequest(t, http.MethodGet, "/api/solicitudes-adopcion/usuario/2"), 2))
	testutil.AssertStatusOK(t, rr)
	body := testutil.UnmarshalResponse[listEnvelope](t, rr)
	assert.Equal(t, httputil.StatusSuccess, body.Status)
	assert.Len(t, body.Data, 1)

	rr = testutil.DoRequest(r, testutil.AsAdopter(testutil.NewRequest(t, http.MethodGet, "/api/solicitudes-adopcion/usuario/3"), 3))
	testutil.AssertStatusOK(t, rr)
	body = testutil.UnmarshalResponse[listEnvelope](t, rr)
	assert.Equal(t, httputil.StatusInfo, body.Status)
	assert.Empty(t, body.Data)
}

func TestListFiltersByStatus(t *testing.T) {
	r := newRouter(t)
	createRequest(t, r, 2, map[string]any{"id_mascota": 10})

	rr := testutil.DoRequest(r, testutil.AsAdmin(testutil.NewRequest(t, http.MethodGet, "/api/solicitudes-adopcion?estado=Aprobada"), 1))
	body := testutil.UnmarshalResponse[listEnvelope](t, rr)
	assert.Empty(t, body.Data)

	rr = testutil.DoRequest(r, testutil.AsAdmin(testutil.NewRequest(t, http.MethodGet, "/api/solicitudes-adopcion?estado=Pendiente"), 1))
	body = testutil.UnmarshalResponse[listEnvelope](t, rr)
	assert.Len(t, body.Data, 1)
}

func TestDeleteRequest(t *testing.T) {
	r := newRouter(t)
	created := createRequest(t, r, 2, map[string]any{"id_mascota": 10})
	path := "/api/solicitudes-adopcion/" + created.ID.String()

	rr := testutil.DoRequest(r, testutil.AsAdmin(testutil.NewRequest(t, http.MethodDelete, path), 1))
	testutil.AssertStatusOK(t, rr)

	rr = testutil.DoRequest(r, testutil.AsAdmin(testutil.NewRequest(t, http.MethodDelete, path), 1))
	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "NotFoundError")
}

func TestStatusRequestValidate(t *testing.T) {
	assert.Error(t, (&StatusRequest{}).Validate())
	assert.Error(t, (&StatusRequest{Status: "Done"}).Validate())
	assert.NoError(t, (&StatusRequest{Status: models.StatusCancelled}).Validate())
}
