package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"petadopt/internal/notification/models"
	"petadopt/pkg/domain"
	dErrors "petadopt/pkg/domain-errors"
	"petadopt/pkg/platform/httputil"
	"petadopt/pkg/platform/routes"
	"petadopt/pkg/requestcontext"
)

type Service interface {
	Send(ctx context.Context, recipient domain.UserID, message string, typ models.Type) (*models.Notification, error)
	Get(ctx context.Context, id domain.NotificationID) (*models.Notification, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id domain.NotificationID) (bool, error)
	MarkAllReadForUser(ctx context.Context, userID domain.UserID) (int64, error)
	Delete(ctx context.Context, id domain.NotificationID) error
}

// Handler serves the notification endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Routes returns the notification entries of the route table.
func (h *Handler) Routes() []routes.Route {
	return []routes.Route{
		{Method: http.MethodGet, Pattern: "/api/notificaciones", Access: routes.Authenticated(), Handler: h.handleList},
		{Method: http.MethodPost, Pattern: "/api/notificaciones", Access: routes.Role(domain.RoleAdmin), Handler: h.handleSend},
		{Method: http.MethodGet, Pattern: "/api/notificaciones/{id}", Access: routes.Authenticated(), Handler: h.handleGet},
		{Method: http.MethodPut, Pattern: "/api/notificaciones/{id}/leida", Access: routes.Authenticated(), Handler: h.handleMarkRead},
		{Method: http.MethodPut, Pattern: "/api/notificaciones/usuario/{userID}/marcar-leidas", Access: routes.SelfOrRole(domain.RoleAdmin, "userID"), Handler: h.handleMarkAllRead},
		{Method: http.MethodDelete, Pattern: "/api/notificaciones/{id}", Access: routes.Authenticated(), Handler: h.handleDelete},
	}
}

// Register mounts the routes directly, without the route-table gates.
func (h *Handler) Register(r chi.Router) {
	for _, rt := range h.Routes() {
		r.Method(rt.Method, rt.Pattern, rt.Handler)
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	q := r.URL.Query()
	filter := models.ListFilter{Types: parseTypes(q.Get("tipo"))}
	if raw := q.Get("no_leidas"); raw != "" {
		unread, err := strconv.ParseBool(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "no_leidas must be a boolean"))
			return
		}
		filter.UnreadOnly = unread
	}
	if raw := q.Get("usuario"); raw != "" {
		userID, err := domain.ParseUserID(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		filter.Recipient = &userID
	}

	list, err := h.service.List(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list notifications",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "notifications retrieved", list)
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[SendRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	n, err := h.service.Send(ctx, req.UserID, req.Message, req.Type)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to send notification",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusCreated, "notification created", n)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := domain.ParseNotificationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	n, err := h.service.Get(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "notification retrieved", n)
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := domain.ParseNotificationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	changed, err := h.service.MarkRead(ctx, id)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to mark notification as read",
			"error", err,
			"notification_id", id,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	if !changed {
		httputil.WriteInfo(w, http.StatusOK, "notification was already marked as read")
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "notification marked as read", nil)
}

type markAllResponse struct {
	Updated int64 `json:"actualizadas"`
}

func (h *Handler) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := domain.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	n, err := h.service.MarkAllReadForUser(ctx, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if n == 0 {
		httputil.WriteInfo(w, http.StatusOK, "no unread notifications")
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "notifications marked as read", markAllResponse{Updated: n})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := domain.ParseNotificationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Delete(ctx, id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "notification deleted", nil)
}
