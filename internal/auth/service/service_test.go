package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks UserStore,LockoutStore,TokenIssuer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"petadopt/internal/auth/models"
	"petadopt/internal/auth/service/mocks"
	"petadopt/internal/auth/store/lockout"
	userstore "petadopt/internal/auth/store/user"
	"petadopt/pkg/domain"
	dErrors "petadopt/pkg/domain-errors"
	"petadopt/pkg/platform/sentinel"
	"petadopt/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockUsers   *mocks.MockUserStore
	mockLockout *mocks.MockLockoutStore
	mockTokens  *mocks.MockTokenIssuer
	service     *Service
	user        *models.User
	expiresAt   time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockUsers = mocks.NewMockUserStore(s.ctrl)
	s.mockLockout = mocks.NewMockLockoutStore(s.ctrl)
	s.mockTokens = mocks.NewMockTokenIssuer(s.ctrl)
	s.service = New(s.mockUsers, s.mockLockout, s.mockTokens, WithLockout(3, time.Minute))

	hash, err := bcrypt.GenerateFromPassword([]byte("secreto"), bcrypt.MinCost)
	s.Require().NoError(err)
	s.user = &models.User{
		ID:           5,
		FirstName:    "Ana",
		Email:        "ana@example.com",
		PasswordHash: string(hash),
		RoleID:       domain.RoleAdopter,
		Status:       models.UserStatusActive,
	}
	s.expiresAt = time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) TestLogin() {
	ctx := context.Background()

	s.Run("valid credentials issue a token and reset failures", func() {
		s.mockLockout.EXPECT().Failures(gomock.Any(), "ana@example.com").Return(1, nil)
		s.mockUsers.EXPECT().FindByEmail(gomock.Any(), "ana@example.com").Return(s.user, nil)
		s.mockLockout.EXPECT().Reset(gomock.Any(), "ana@example.com").Return(nil)
		s.mockTokens.EXPECT().Issue(s.user.Identity()).Return("tok", s.expiresAt, nil)

		res, err := s.service.Login(ctx, "  Ana@Example.com ", "secreto")
		s.Require().NoError(err)
		s.Equal("tok", res.Token)
		s.Equal(s.expiresAt, res.ExpiresAt)
		s.Equal(s.user, res.User)
	})

	s.Run("wrong password records a failure", func() {
		s.mockLockout.EXPECT().Failures(gomock.Any(), "ana@example.com").Return(0, nil)
		s.mockUsers.EXPECT().FindByEmail(gomock.Any(), "ana@example.com").Return(s.user, nil)
		s.mockLockout.EXPECT().RecordFailure(gomock.Any(), "ana@example.com", time.Minute).Return(1, nil)

		_, err := s.service.Login(ctx, "ana@example.com", "nope")
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidCredentials))
	})

	s.Run("unknown email is indistinguishable from a wrong password", func() {
		s.mockLockout.EXPECT().Failures(gomock.Any(), "ghost@example.com").Return(0, nil)
		s.mockUsers.EXPECT().FindByEmail(gomock.Any(), "ghost@example.com").Return(nil, sentinel.ErrNotFound)
		s.mockLockout.EXPECT().RecordFailure(gomock.Any(), "ghost@example.com", time.Minute).Return(1, nil)

		_, err := s.service.Login(ctx, "ghost@example.com", "x")
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidCredentials))
	})

	s.Run("locked out email is refused before the password check", func() {
		s.mockLockout.EXPECT().Failures(gomock.Any(), "ana@example.com").Return(3, nil)

		_, err := s.service.Login(ctx, "ana@example.com", "secreto")
		s.True(dErrors.HasCode(err, dErrors.CodeRateLimited))
	})

	s.Run("lockout backend failure does not block login", func() {
		s.mockLockout.EXPECT().Failures(gomock.Any(), "ana@example.com").Return(0, errors.New("redis down"))
		s.mockUsers.EXPECT().FindByEmail(gomock.Any(), "ana@example.com").Return(s.user, nil)
		s.mockLockout.EXPECT().Reset(gomock.Any(), "ana@example.com").Return(errors.New("redis down"))
		s.mockTokens.EXPECT().Issue(gomock.Any()).Return("tok", s.expiresAt, nil)

		_, err := s.service.Login(ctx, "ana@example.com", "secreto")
		s.NoError(err)
	})

	s.Run("store failure is internal", func() {
		s.mockLockout.EXPECT().Failures(gomock.Any(), "ana@example.com").Return(0, nil)
		s.mockUsers.EXPECT().FindByEmail(gomock.Any(), "ana@example.com").Return(nil, errors.New("db down"))

		_, err := s.service.Login(ctx, "ana@example.com", "secreto")
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceSuite) TestRegister() {
	now := time.Date(2024, 2, 2, 10, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)
	blank := "  "

	s.Run("creates an active adopter with a bcrypt hash", func() {
		s.mockUsers.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, u *models.User) error {
				s.Equal("ana@example.com", u.Email)
				s.Equal(domain.RoleAdopter, u.RoleID)
				s.Equal(models.UserStatusActive, u.Status)
				s.Equal(now, u.RegisteredAt)
				s.Nil(u.Phone)
				s.NoError(bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secreto")))
				u.ID = 9
				return nil
			})

		u, err := s.service.Register(ctx, RegisterCommand{
			FirstName: " Ana ", LastName: "Gomez", Email: "ANA@example.com", Password: "secreto", Phone: &blank,
		})
		s.Require().NoError(err)
		s.Equal(domain.UserID(9), u.ID)
		s.Equal("Ana", u.FirstName)
	})

	s.Run("duplicate email is a conflict", func() {
		s.mockUsers.EXPECT().Create(gomock.Any(), gomock.Any()).Return(sentinel.ErrConflict)
		_, err := s.service.Register(ctx, RegisterCommand{FirstName: "A", LastName: "B", Email: "a@b.c", Password: "secreto"})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("other store errors are persistence errors", func() {
		s.mockUsers.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("boom"))
		_, err := s.service.Register(ctx, RegisterCommand{FirstName: "A", LastName: "B", Email: "a@b.c", Password: "secreto"})
		s.True(dErrors.HasCode(err, dErrors.CodePersistence))
	})
}

type fixedIssuer struct{}

func (fixedIssuer) Issue(domain.Identity) (string, time.Time, error) {
	return "tok", time.Unix(0, 0), nil
}

func TestLockoutAfterRepeatedFailures(t *testing.T) {
	ctx := context.Background()
	users := userstore.New()
	svc := New(users, lockout.NewInMemory(), fixedIssuer{}, WithLockout(2, time.Minute))

	_, err := svc.Register(ctx, RegisterCommand{FirstName: "Ana", LastName: "Gomez", Email: "ana@example.com", Password: "secreto"})
	require.NoError(t, err)

	for range 2 {
		_, err := svc.Login(ctx, "ana@example.com", "wrong")
		require.True(t, dErrors.HasCode(err, dErrors.CodeInvalidCredentials))
	}

	// Even the right password is refused while locked out.
	_, err = svc.Login(ctx, "ana@example.com", "secreto")
	require.True(t, dErrors.HasCode(err, dErrors.CodeRateLimited))
}
