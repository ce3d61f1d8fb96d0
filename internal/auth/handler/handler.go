package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"petadopt/internal/auth/models"
	"petadopt/internal/auth/service"
	"petadopt/pkg/platform/httputil"
	"petadopt/pkg/platform/routes"
	"petadopt/pkg/requestcontext"
)

type Service interface {
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
	Register(ctx context.Context, cmd service.RegisterCommand) (*models.User, error)
}

// Handler serves login and self-registration.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Routes() []routes.Route {
	return []routes.Route{
		{Method: http.MethodPost, Pattern: "/api/login", Access: routes.Public(), Handler: h.handleLogin},
		{Method: http.MethodPost, Pattern: "/api/usuarios/register", Access: routes.Public(), Handler: h.handleRegister},
	}
}

// Register mounts the routes directly, without the route-table gates.
func (h *Handler) Register(r chi.Router) {
	for _, rt := range h.Routes() {
		r.Method(rt.Method, rt.Pattern, rt.Handler)
	}
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expira_en"`
	User      *models.User `json:"usuario"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[LoginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	res, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "login successful", loginResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		User:      res.User,
	})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	u, err := h.service.Register(ctx, service.RegisterCommand{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.Phone,
		Address:   req.Address,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "registration failed",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusCreated, "user created", u)
}
