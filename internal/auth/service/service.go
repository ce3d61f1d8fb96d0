package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"petadopt/internal/auth/device"
	"petadopt/internal/auth/models"
	"petadopt/internal/platform/metrics"
	"petadopt/pkg/domain"
	dErrors "petadopt/pkg/domain-errors"
	"petadopt/pkg/platform/sentinel"
	"petadopt/pkg/requestcontext"
)

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// LockoutStore counts failed logins per email within a sliding window that
// starts at the first failure.
type LockoutStore interface {
	Failures(ctx context.Context, key string) (int, error)
	RecordFailure(ctx context.Context, key string, window time.Duration) (int, error)
	Reset(ctx context.Context, key string) error
}

type TokenIssuer interface {
	Issue(identity domain.Identity) (string, time.Time, error)
}

const (
	defaultMaxAttempts = 5
	defaultWindow      = 15 * time.Minute
)

// Service authenticates users by email and password and registers adopters.
type Service struct {
	users       UserStore
	lockout     LockoutStore
	tokens      TokenIssuer
	logger      *slog.Logger
	metrics     *metrics.Metrics
	maxAttempts int
	window      time.Duration
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLockout sets how many failures within window lock an email out.
func WithLockout(maxAttempts int, window time.Duration) Option {
	return func(s *Service) {
		if maxAttempts > 0 {
			s.maxAttempts = maxAttempts
		}
		if window > 0 {
			s.window = window
		}
	}
}

func New(users UserStore, lockout LockoutStore, tokens TokenIssuer, opts ...Option) *Service {
	s := &Service{
		users:       users,
		lockout:     lockout,
		tokens:      tokens,
		logger:      slog.Default(),
		maxAttempts: defaultMaxAttempts,
		window:      defaultWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

var errInvalidCredentials = dErrors.New(dErrors.CodeInvalidCredentials, "invalid email or password")

// Login verifies the password for email and issues an access token. Repeated
// failures lock the email out until the window expires.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	requestID := requestcontext.RequestID(ctx)
	email = models.NormalizeEmail(email)

	if s.lockedOut(ctx, email) {
		s.metrics.IncrementLoginLockout()
		s.logger.WarnContext(ctx, "login refused: locked out",
			"email", email,
			"client_ip", requestcontext.ClientIP(ctx),
			"request_id", requestID,
		)
		return nil, dErrors.New(dErrors.CodeRateLimited, "too many failed login attempts; try again later")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, s.recordFailure(ctx, email)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, s.recordFailure(ctx, email)
	}

	if err := s.lockout.Reset(ctx, email); err != nil {
		s.logger.WarnContext(ctx, "failed to reset login failures", "error", err, "request_id", requestID)
	}

	token, expiresAt, err := s.tokens.Issue(user.Identity())
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	s.logger.InfoContext(ctx, "user logged in",
		"user_id", user.ID,
		"role_id", user.RoleID,
		"device", device.ParseUserAgent(requestcontext.UserAgent(ctx)),
		"client_ip", requestcontext.ClientIP(ctx),
		"request_id", requestID,
	)
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// lockedOut fails open: a counter backend outage must not block every login.
func (s *Service) lockedOut(ctx context.Context, email string) bool {
	n, err := s.lockout.Failures(ctx, email)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to read login failures",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return false
	}
	return n >= s.maxAttempts
}

func (s *Service) recordFailure(ctx context.Context, email string) error {
	requestID := requestcontext.RequestID(ctx)
	n, err := s.lockout.RecordFailure(ctx, email, s.window)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to record login failure", "error", err, "request_id", requestID)
	}
	s.logger.WarnContext(ctx, "login failed: invalid credentials",
		"email", email,
		"failures", n,
		"client_ip", requestcontext.ClientIP(ctx),
		"request_id", requestID,
	)
	return errInvalidCredentials
}

// RegisterCommand carries the self-registration fields. The role is not part
// of it: self-registered accounts are always adopters.
type RegisterCommand struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     *string
	Address   *string
}

// Register creates an active adopter account.
func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "password cannot be used")
	}

	u := &models.User{
		FirstName:    strings.TrimSpace(cmd.FirstName),
		LastName:     strings.TrimSpace(cmd.LastName),
		Email:        models.NormalizeEmail(cmd.Email),
		PasswordHash: string(hash),
		Phone:        trimmedOrNil(cmd.Phone),
		Address:      trimmedOrNil(cmd.Address),
		RoleID:       domain.RoleAdopter,
		Status:       models.UserStatusActive,
		RegisteredAt: requestcontext.Now(ctx),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, "email is already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodePersistence, "failed to create user")
	}

	s.logger.InfoContext(ctx, "user registered",
		"user_id", u.ID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return u, nil
}

func trimmedOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
