package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"petadopt/internal/adoption/metrics"
	"petadopt/internal/adoption/models"
	notificationModels "petadopt/internal/notification/models"
	"petadopt/pkg/domain"
	dErrors "petadopt/pkg/domain-errors"
	"petadopt/pkg/platform/authz"
	"petadopt/pkg/platform/sentinel"
	"petadopt/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, r *models.Request) error
	FindViewByID(ctx context.Context, id domain.AdoptionID) (*models.View, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.View, error)
	UpdateStatus(ctx context.Context, id domain.AdoptionID, change models.StatusChange) (bool, error)
	Delete(ctx context.Context, id domain.AdoptionID) error
}

// Notifier delivers the requester notification after a status change.
type Notifier interface {
	Create(ctx context.Context, recipient domain.UserID, message string, typ notificationModels.Type) (*notificationModels.Notification, error)
}

// Service runs the adoption request lifecycle.
type Service struct {
	store    Store
	notifier Notifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
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

func New(store Store, notifier Notifier, opts ...Option) *Service {
	s := &Service{
		store:    store,
		notifier: notifier,
		logger:   slog.Default(),
		tracer:   otel.Tracer("petadopt/adoption"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateCommand carries the fields a requester may set.
type CreateCommand struct {
	RequesterUserID domain.UserID
	PetID           domain.PetID
	Motive          *string
}

// Create submits a pending request. Non-administrators may only submit on
// their own behalf.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*models.View, error) {
	if err := authz.RequireAdminOrSelf(requestcontext.IdentityPtr(ctx), cmd.RequesterUserID); err != nil {
		return nil, err
	}
	r, err := models.NewRequest(cmd.RequesterUserID, cmd.PetID, cmd.Motive, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, r); err != nil {
		if errors.Is(err, sentinel.ErrForeignKey) {
			return nil, dErrors.Wrap(err, dErrors.CodePersistence,
				"could not create the request; make sure the user and pet exist")
		}
		return nil, dErrors.Wrap(err, dErrors.CodePersistence, "failed to create adoption request")
	}
	s.metrics.IncrementCreated()
	s.logger.InfoContext(ctx, "adoption request created",
		"adoption_id", r.ID,
		"user_id", r.RequesterUserID,
		"pet_id", r.PetID,
		"request_id", requestcontext.RequestID(ctx),
	)
	view, err := s.store.FindViewByID(ctx, r.ID)
	if err != nil {
		return &models.View{Request: *r}, nil
	}
	return view, nil
}

// Get returns a request visible to the caller: its requester or an administrator.
func (s *Service) Get(ctx context.Context, id domain.AdoptionID) (*models.View, error) {
	identity := requestcontext.IdentityPtr(ctx)
	if identity == nil {
		return nil, dErrors.New(dErrors.CodeMissingToken, "authentication required")
	}
	v, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireAdminOrSelf(identity, v.RequesterUserID); err != nil {
		return nil, dErrors.New(dErrors.CodeForbidden, "you do not have permission to view this request")
	}
	return v, nil
}

// List returns every request. Administrators only.
func (s *Service) List(ctx context.Context, statuses []models.Status) ([]*models.View, error) {
	if err := authz.RequireAdmin(requestcontext.IdentityPtr(ctx)); err != nil {
		return nil, err
	}
	return s.list(ctx, models.ListFilter{Statuses: statuses})
}

// ListByUser returns the requests submitted by userID.
func (s *Service) ListByUser(ctx context.Context, userID domain.UserID, statuses []models.Status) ([]*models.View, error) {
	if err := authz.RequireAdminOrSelf(requestcontext.IdentityPtr(ctx), userID); err != nil {
		return nil, err
	}
	return s.list(ctx, models.ListFilter{Requester: &userID, Statuses: statuses})
}

// SetStatus moves a request to status and notifies the requester. Only
// persistence failures are returned; a failed notification is logged.
func (s *Service) SetStatus(ctx context.Context, id domain.AdoptionID, status models.Status, observations *string) (*models.View, error) {
	ctx, span := s.tracer.Start(ctx, "adoption.SetStatus", trace.WithAttributes(
		attribute.Int64("adoption.id", id.Int64()),
		attribute.String("adoption.status", string(status)),
	))
	defer span.End()

	if err := authz.RequireAdmin(requestcontext.IdentityPtr(ctx)); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		span.SetStatus(codes.Error, "invalid status")
		return nil, dErrors.New(dErrors.CodeValidation,
			"invalid status; must be Pendiente, Aprobada, Rechazada or Cancelada")
	}

	view, err := s.find(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, "load failed")
		return nil, err
	}
	if !view.Status.CanTransitionTo(status) {
		return nil, dErrors.New(dErrors.CodeConflict, "status change not allowed")
	}

	change := models.NewStatusChange(status, models.NormalizeObservations(observations), requestcontext.Now(ctx))
	updated, err := s.store.UpdateStatus(ctx, id, change)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return nil, dErrors.Wrap(err, dErrors.CodePersistence, "failed to update adoption request status")
	}
	if !updated {
		span.SetStatus(codes.Error, "no rows changed")
		return nil, dErrors.New(dErrors.CodeOperationFailed, "the request status could not be updated or nothing changed")
	}
	s.metrics.IncrementTransition(string(status))

	previous := view.Status
	view.ApplyStatusChange(change)
	s.logger.InfoContext(ctx, "adoption request status changed",
		"adoption_id", id,
		"from", previous,
		"to", status,
		"request_id", requestcontext.RequestID(ctx),
	)

	s.notify(ctx, view)
	return view, nil
}

// Delete removes a request. Administrators only.
func (s *Service) Delete(ctx context.Context, id domain.AdoptionID) error {
	if err := authz.RequireAdmin(requestcontext.IdentityPtr(ctx)); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "adoption request not found")
		}
		return dErrors.Wrap(err, dErrors.CodePersistence, "failed to delete adoption request")
	}
	s.logger.InfoContext(ctx, "adoption request deleted",
		"adoption_id", id,
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

func (s *Service) notify(ctx context.Context, view *models.View) {
	message := models.StatusMessage(view.Status, view.RequesterName, view.PetName)
	n, err := s.notifier.Create(ctx, view.RequesterUserID, message, notificationModels.TypeAdoptionStatus)
	if err != nil {
		s.metrics.IncrementDispatchFailure()
		s.logger.ErrorContext(ctx, "failed to notify requester of status change",
			"error", err,
			"adoption_id", view.ID,
			"user_id", view.RequesterUserID,
			"request_id", requestcontext.RequestID(ctx),
		)
		return
	}
	s.logger.InfoContext(ctx, "requester notified of status change",
		"adoption_id", view.ID,
		"notification_id", n.ID,
		"user_id", view.RequesterUserID,
	)
}

func (s *Service) find(ctx context.Context, id domain.AdoptionID) (*models.View, error) {
	v, err := s.store.FindViewByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "adoption request not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodePersistence, "failed to load adoption request")
	}
	return v, nil
}

func (s *Service) list(ctx context.Context, filter models.ListFilter) ([]*models.View, error) {
	for _, st := range filter.Statuses {
		if !st.IsValid() {
			return nil, dErrors.New(dErrors.CodeValidation, "invalid status filter: "+string(st))
		}
	}
	out, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodePersistence, "failed to list adoption requests")
	}
	return out, nil
}
