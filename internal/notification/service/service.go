package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"petadopt/internal/notification/metrics"
	"petadopt/internal/notification/models"
	"petadopt/pkg/domain"
	dErrors "petadopt/pkg/domain-errors"
	"petadopt/pkg/platform/authz"
	"petadopt/pkg/platform/sentinel"
	"petadopt/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, n *models.Notification) error
	FindByID(ctx context.Context, id domain.NotificationID) (*models.Notification, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id domain.NotificationID) (bool, error)
	MarkAllReadForUser(ctx context.Context, userID domain.UserID) (int64, error)
	Delete(ctx context.Context, id domain.NotificationID) error
}

// Service persists notifications and enforces recipient-or-admin access.
// Create is the internal dispatch entry point used by other modules and does
// not consult the caller identity; the remaining operations do.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
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

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: slog.Default(),
		tracer: otel.Tracer("petadopt/notification"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create persists an unread notification for recipient.
func (s *Service) Create(ctx context.Context, recipient domain.UserID, message string, typ models.Type) (*models.Notification, error) {
	ctx, span := s.tracer.Start(ctx, "notification.Create", trace.WithAttributes(
		attribute.Int64("notification.recipient", recipient.Int64()),
		attribute.String("notification.type", string(typ)),
	))
	defer span.End()

	n, err := models.NewNotification(recipient, message, typ, requestcontext.Now(ctx))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if err := s.store.Create(ctx, n); err != nil {
		s.metrics.IncrementDispatchFailure(string(n.Type))
		span.RecordError(err)
		span.SetStatus(codes.Error, "store create failed")
		if errors.Is(err, sentinel.ErrForeignKey) {
			return nil, dErrors.Wrap(err, dErrors.CodeValidation, "recipient user does not exist")
		}
		return nil, dErrors.Wrap(err, dErrors.CodePersistence, "failed to create notification")
	}
	s.metrics.IncrementCreated(string(n.Type))
	span.SetAttributes(attribute.Int64("notification.id", n.ID.Int64()))
	return n, nil
}

// Send is the administrator-facing variant of Create.
func (s *Service) Send(ctx context.Context, recipient domain.UserID, message string, typ models.Type) (*models.Notification, error) {
	if err := authz.RequireAdmin(requestcontext.IdentityPtr(ctx)); err != nil {
		return nil, err
	}
	n, err := s.Create(ctx, recipient, message, typ)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "notification sent",
		"notification_id", n.ID,
		"recipient", recipient,
		"request_id", requestcontext.RequestID(ctx),
	)
	return n, nil
}

// Get returns a notification visible to the caller.
func (s *Service) Get(ctx context.Context, id domain.NotificationID) (*models.Notification, error) {
	return s.loadAuthorized(ctx, id)
}

// List returns every notification for administrators and the caller's own
// otherwise. Types and UnreadOnly narrow the result.
func (s *Service) List(ctx context.Context, filter models.ListFilter) ([]*models.Notification, error) {
	identity := requestcontext.IdentityPtr(ctx)
	if identity == nil {
		return nil, dErrors.New(dErrors.CodeMissingToken, "authentication required")
	}
	if !identity.IsAdmin() {
		own := identity.UserID
		filter.Recipient = &own
	}
	out, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodePersistence, "failed to list notifications")
	}
	return out, nil
}

// MarkRead reports whether the notification changed. Marking an already read
// notification is not an error.
func (s *Service) MarkRead(ctx context.Context, id domain.NotificationID) (bool, error) {
	if _, err := s.loadAuthorized(ctx, id); err != nil {
		return false, err
	}
	changed, err := s.store.MarkRead(ctx, id)
	if err != nil {
		return false, translateStoreError(err, "failed to mark notification as read")
	}
	if changed {
		s.metrics.AddMarkedRead(1)
	}
	return changed, nil
}

// MarkAllReadForUser marks every unread notification of userID as read.
func (s *Service) MarkAllReadForUser(ctx context.Context, userID domain.UserID) (int64, error) {
	if err := authz.RequireAdminOrSelf(requestcontext.IdentityPtr(ctx), userID); err != nil {
		return 0, err
	}
	n, err := s.store.MarkAllReadForUser(ctx, userID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodePersistence, "failed to mark notifications as read")
	}
	s.metrics.AddMarkedRead(n)
	return n, nil
}

// Delete removes a notification owned by the caller, or any for administrators.
func (s *Service) Delete(ctx context.Context, id domain.NotificationID) error {
	n, err := s.loadAuthorized(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return translateStoreError(err, "failed to delete notification")
	}
	s.logger.InfoContext(ctx, "notification deleted",
		"notification_id", id,
		"recipient", n.RecipientUserID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

func (s *Service) loadAuthorized(ctx context.Context, id domain.NotificationID) (*models.Notification, error) {
	identity := requestcontext.IdentityPtr(ctx)
	if identity == nil {
		return nil, dErrors.New(dErrors.CodeMissingToken, "authentication required")
	}
	n, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, translateStoreError(err, "failed to load notification")
	}
	if err := authz.RequireAdminOrSelf(identity, n.RecipientUserID); err != nil {
		return nil, dErrors.New(dErrors.CodeForbidden, "you can only access your own notifications")
	}
	return n, nil
}

func translateStoreError(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "notification not found")
	}
	return dErrors.Wrap(err, dErrors.CodePersistence, msg)
}
