package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"petadopt/internal/adoption/models"
	"petadopt/internal/adoption/service"
	"petadopt/pkg/domain"
	dErrors "petadopt/pkg/domain-errors"
	"petadopt/pkg/platform/httputil"
	"petadopt/pkg/platform/routes"
	"petadopt/pkg/requestcontext"
)

type Service interface {
	Create(ctx context.Context, cmd service.CreateCommand) (*models.View, error)
	Get(ctx context.Context, id domain.AdoptionID) (*models.View, error)
	List(ctx context.Context, statuses []models.Status) ([]*models.View, error)
	ListByUser(ctx context.Context, userID domain.UserID, statuses []models.Status) ([]*models.View, error)
	SetStatus(ctx context.Context, id domain.AdoptionID, status models.Status, observations *string) (*models.View, error)
	Delete(ctx context.Context, id domain.AdoptionID) error
}

// Handler serves the adoption request endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Routes returns the adoption entries of the route table.
func (h *Handler) Routes() []routes.Route {
	return []routes.Route{
		{Method: http.MethodGet, Pattern: "/api/solicitudes-adopcion", Access: routes.Role(domain.RoleAdmin), Handler: h.handleList},
		{Method: http.MethodPost, Pattern: "/api/solicitudes-adopcion", Access: routes.Authenticated(), Handler: h.handleCreate},
		{Method: http.MethodGet, Pattern: "/api/solicitudes-adopcion/{id}", Access: routes.Authenticated(), Handler: h.handleGet},
		{Method: http.MethodGet, Pattern: "/api/solicitudes-adopcion/usuario/{userID}", Access: routes.SelfOrRole(domain.RoleAdmin, "userID"), Handler: h.handleListByUser},
		{Method: http.MethodPut, Pattern: "/api/solicitudes-adopcion/{id}/estado", Access: routes.Role(domain.RoleAdmin), Handler: h.handleSetStatus},
		{Method: http.MethodDelete, Pattern: "/api/solicitudes-adopcion/{id}", Access: routes.Role(domain.RoleAdmin), Handler: h.handleDelete},
	}
}

// Register mounts the routes directly, without the route-table gates.
func (h *Handler) Register(r chi.Router) {
	for _, rt := range h.Routes() {
		r.Method(rt.Method, rt.Pattern, rt.Handler)
	}
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	requester := req.UserID
	if requester == 0 {
		requester = requestcontext.UserID(ctx)
	}
	view, err := h.service.Create(ctx, service.CreateCommand{
		RequesterUserID: requester,
		PetID:           req.PetID,
		Motive:          req.Motive,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "failed to create adoption request",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusCreated, "adoption request created", view)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := h.service.List(ctx, parseStatuses(r.URL.Query().Get("estado")))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	writeList(w, list)
}

func (h *Handler) handleListByUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := domain.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	list, err := h.service.ListByUser(ctx, userID, parseStatuses(r.URL.Query().Get("estado")))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	writeList(w, list)
}

func writeList(w http.ResponseWriter, list []*models.View) {
	if len(list) == 0 {
		httputil.WriteJSON(w, http.StatusOK, httputil.Envelope{
			Status:  httputil.StatusInfo,
			Message: "no adoption requests found",
			Data:    []*models.View{},
		})
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "adoption requests retrieved", list)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := domain.ParseAdoptionID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	view, err := h.service.Get(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "adoption request retrieved", view)
}

func (h *Handler) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	id, err := domain.ParseAdoptionID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[StatusRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	view, err := h.service.SetStatus(ctx, id, req.Status, req.Comments)
	if err != nil {
		if dErrors.KindOf(err) == dErrors.CodePersistence {
			h.logger.ErrorContext(ctx, "failed to update adoption request status",
				"error", err,
				"adoption_id", id,
				"request_id", requestID,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "adoption request status updated", view)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := domain.ParseAdoptionID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Delete(ctx, id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "adoption request deleted", nil)
}
