//go:build integration

package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"petadopt/internal/auth/models"
	"petadopt/internal/auth/store/user"
	"petadopt/pkg/domain"
	"petadopt/pkg/platform/sentinel"
	"petadopt/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *user.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = user.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "usuarios"))
}

func newUser(email string) *models.User {
	return &models.User{
		FirstName:    "Ana",
		LastName:     "Pérez",
		Email:        email,
		PasswordHash: "$2a$10$hash",
		RoleID:       domain.RoleAdopter,
		Status:       models.UserStatusActive,
		RegisteredAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	ctx := context.Background()
	u := newUser("Ana@Example.com")
	s.Require().NoError(s.store.Create(ctx, u))
	s.Positive(int64(u.ID))

	found, err := s.store.FindByEmail(ctx, "ana@example.com")
	s.Require().NoError(err)
	s.Equal(u.ID, found.ID)
	s.Equal("$2a$10$hash", found.PasswordHash)
	s.Nil(found.Phone)

	first, last, err := s.store.FullName(ctx, u.ID)
	s.Require().NoError(err)
	s.Equal("Ana", first)
	s.Equal("Pérez", last)
}

func (s *PostgresStoreSuite) TestDuplicateEmailIsConflict() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, newUser("dup@example.com")))
	s.Require().ErrorIs(s.store.Create(ctx, newUser("dup@example.com")), sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestNotFound() {
	_, err := s.store.FindByID(context.Background(), 12345)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
