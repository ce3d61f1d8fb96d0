//go:build integration

package request_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"petadopt/internal/adoption/models"
	"petadopt/internal/adoption/store/request"
	"petadopt/pkg/domain"
	"petadopt/pkg/platform/sentinel"
	"petadopt/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *request.PostgresStore
	userID   domain.UserID
	petID    domain.PetID
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = request.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateTables(ctx, "solicitudes_adopcion", "mascotas", "usuarios"))
	s.Require().NoError(s.postgres.DB.QueryRowContext(ctx, `
		INSERT INTO usuarios (nombre_usuario, apellido, email, password, id_rol)
		VALUES ('Ana', 'Pérez', 'ana@example.com', 'x', 2)
		RETURNING id_usuario`).Scan(&s.userID))
	s.Require().NoError(s.postgres.DB.QueryRowContext(ctx, `
		INSERT INTO mascotas (nombre, especie) VALUES ('Firulais', 'Perro')
		RETURNING id_mascota`).Scan(&s.petID))
}

func (s *PostgresStoreSuite) newRequest() *models.Request {
	motive := "Tengo jardín"
	r, err := models.NewRequest(s.userID, s.petID, &motive, time.Now().UTC().Truncate(time.Microsecond))
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(context.Background(), r))
	return r
}

func (s *PostgresStoreSuite) TestCreateAndFindView() {
	r := s.newRequest()

	v, err := s.store.FindViewByID(context.Background(), r.ID)
	s.Require().NoError(err)
	s.Equal("Ana", v.RequesterName)
	s.Equal("Pérez", v.RequesterLastName)
	s.Equal("Firulais", v.PetName)
	s.Equal(models.StatusPending, v.Status)
	s.Nil(v.DecisionAt)
}

func (s *PostgresStoreSuite) TestCreateWithUnknownPet() {
	r, err := models.NewRequest(s.userID, s.petID+1000, nil, time.Now())
	s.Require().NoError(err)
	s.Require().ErrorIs(s.store.Create(context.Background(), r), sentinel.ErrForeignKey)
}

func (s *PostgresStoreSuite) TestUpdateStatusLeavesMotive() {
	ctx := context.Background()
	r := s.newRequest()
	obs := "Todo en orden"
	now := time.Now().UTC().Truncate(time.Microsecond)

	ok, err := s.store.UpdateStatus(ctx, r.ID, models.NewStatusChange(models.StatusApproved, &obs, now))
	s.Require().NoError(err)
	s.True(ok)

	v, err := s.store.FindViewByID(ctx, r.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusApproved, v.Status)
	s.Require().NotNil(v.DecisionAt)
	s.True(now.Equal(*v.DecisionAt))
	s.Require().NotNil(v.Motive)
	s.Equal("Tengo jardín", *v.Motive)

	ok, err = s.store.UpdateStatus(ctx, r.ID+1000, models.NewStatusChange(models.StatusCancelled, nil, now))
	s.Require().NoError(err)
	s.False(ok)
}

func (s *PostgresStoreSuite) TestDecisionDateConstraint() {
	ctx := context.Background()
	r := s.newRequest()
	// A decision status without a decision date violates the table check.
	_, err := s.store.UpdateStatus(ctx, r.ID, models.StatusChange{Status: models.StatusRejected})
	s.Require().Error(err)
}

func (s *PostgresStoreSuite) TestListByStatus() {
	ctx := context.Background()
	first := s.newRequest()
	s.newRequest()
	_, err := s.store.UpdateStatus(ctx, first.ID, models.NewStatusChange(models.StatusRejected, nil, time.Now()))
	s.Require().NoError(err)

	got, err := s.store.List(ctx, models.ListFilter{Statuses: []models.Status{models.StatusRejected}})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(first.ID, got[0].ID)

	got, err = s.store.List(ctx, models.ListFilter{Requester: &s.userID})
	s.Require().NoError(err)
	s.Len(got, 2)
}

func (s *PostgresStoreSuite) TestDelete() {
	ctx := context.Background()
	r := s.newRequest()
	s.Require().NoError(s.store.Delete(ctx, r.ID))
	s.Require().ErrorIs(s.store.Delete(ctx, r.ID), sentinel.ErrNotFound)
}
