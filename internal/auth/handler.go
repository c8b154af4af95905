package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/odyssey-erp/odyssey-users/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-users/internal/shared"
)

// Handler wires HTTP endpoints for login and token issuance.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(httprate.LimitByIP(10, time.Minute)).Post("/login", h.login)
	r.With(httprate.LimitByIP(10, time.Minute)).Post("/token", h.issueToken)
	r.Delete("/token", h.revokeToken)
}

type loginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenForm struct {
	ClientID     string `json:"client_id" validate:"required"`
	ClientSecret string `json:"client_secret" validate:"required"`
}

type tokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int64  `json:"expires_in"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var form loginForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Argument", "email and password are required")
		return
	}
	token, ttl, err := h.service.Login(r.Context(), form.Email, form.Password)
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid email or password")
		return
	case err != nil:
		h.logger.Error("login", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tokenResponse{Token: token, TokenType: "Bearer", ExpiresIn: int64(ttl.Seconds())})
}

func (h *Handler) issueToken(w http.ResponseWriter, r *http.Request) {
	var form tokenForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Argument", "client_id and client_secret are required")
		return
	}
	token, ttl, err := h.service.IssueServiceToken(r.Context(), form.ClientID, form.ClientSecret)
	switch {
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrCredentialsDisabled):
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid client credentials")
		return
	case err != nil:
		h.logger.Error("issue service token", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tokenResponse{Token: token, TokenType: "Bearer", ExpiresIn: int64(ttl.Seconds())})
}

func (h *Handler) revokeToken(w http.ResponseWriter, r *http.Request) {
	token := shared.TokenFromContext(r.Context())
	if token == "" {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "bearer token required")
		return
	}
	if err := h.service.Revoke(r.Context(), token); err != nil {
		h.logger.Error("revoke token", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
