//go:build integration

package notification_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"petadopt/internal/notification/models"
	"petadopt/internal/notification/store/notification"
	"petadopt/pkg/domain"
	"petadopt/pkg/platform/sentinel"
	"petadopt/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *notification.PostgresStore
	userID   domain.UserID
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
	s.store = notification.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateTables(ctx, "notificaciones", "usuarios"))
	err := s.postgres.DB.QueryRowContext(ctx, `
		INSERT INTO usuarios (nombre_usuario, email, password, id_rol)
		VALUES ('Ana', 'ana@example.com', 'x', 2)
		RETURNING id_usuario`).Scan(&s.userID)
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) newNotification(typ models.Type) *models.Notification {
	n, err := models.NewNotification(s.userID, "Tu solicitud fue actualizada", typ, time.Now().UTC().Truncate(time.Microsecond))
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(context.Background(), n))
	return n
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	n := s.newNotification(models.TypeAdoptionStatus)
	s.Positive(int64(n.ID))

	found, err := s.store.FindByID(context.Background(), n.ID)
	s.Require().NoError(err)
	s.Equal(n.Message, found.Message)
	s.Equal(models.TypeAdoptionStatus, found.Type)
	s.False(found.Read)
	s.True(n.CreatedAt.Equal(found.CreatedAt))
}

func (s *PostgresStoreSuite) TestCreateUnknownRecipient() {
	n, err := models.NewNotification(s.userID+1000, "hola", models.TypeGeneral, time.Now())
	s.Require().NoError(err)
	err = s.store.Create(context.Background(), n)
	s.Require().ErrorIs(err, sentinel.ErrForeignKey)
}

func (s *PostgresStoreSuite) TestMarkReadTwice() {
	ctx := context.Background()
	n := s.newNotification(models.TypeGeneral)

	changed, err := s.store.MarkRead(ctx, n.ID)
	s.Require().NoError(err)
	s.True(changed)

	changed, err = s.store.MarkRead(ctx, n.ID)
	s.Require().NoError(err)
	s.False(changed)

	_, err = s.store.MarkRead(ctx, n.ID+1000)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListByTypeAndUnread() {
	ctx := context.Background()
	status := s.newNotification(models.TypeAdoptionStatus)
	general := s.newNotification(models.TypeGeneral)
	_, err := s.store.MarkRead(ctx, general.ID)
	s.Require().NoError(err)

	got, err := s.store.List(ctx, models.ListFilter{
		Recipient: &s.userID,
		Types:     []models.Type{models.TypeAdoptionStatus, models.TypeGeneral},
	})
	s.Require().NoError(err)
	s.Len(got, 2)

	got, err = s.store.List(ctx, models.ListFilter{UnreadOnly: true})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(status.ID, got[0].ID)
}

func (s *PostgresStoreSuite) TestMarkAllReadAndDelete() {
	ctx := context.Background()
	n := s.newNotification(models.TypeGeneral)
	s.newNotification(models.TypeGeneral)

	count, err := s.store.MarkAllReadForUser(ctx, s.userID)
	s.Require().NoError(err)
	s.Equal(int64(2), count)

	s.Require().NoError(s.store.Delete(ctx, n.ID))
	s.Require().ErrorIs(s.store.Delete(ctx, n.ID), sentinel.ErrNotFound)
}
