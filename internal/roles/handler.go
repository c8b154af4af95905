package roles

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/odyssey-erp/odyssey-users/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-users/internal/shared"
)

// Handler manages role management endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers role routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listRoles)
	r.Post("/", h.createRole)
	r.Get("/count", h.countUsers)
	r.Get("/{id}", h.getRole)
	r.Put("/{id}", h.saveRole)
	r.Delete("/{id}", h.deleteRole)
	r.Get("/{id}/users", h.listUsers)
}

type roleForm struct {
	Name   string `json:"name" validate:"required,max=64"`
	Active *bool  `json:"active" validate:"required"`
}

type idResponse struct {
	ID int64 `json:"id"`
}

type countResponse struct {
	Role  string `json:"role"`
	Count int    `json:"count"`
}

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	active := true
	if raw := r.URL.Query().Get("active"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			httpx.RespondError(w, fmt.Errorf("%w: active must be a boolean", shared.ErrInvalidArgument))
			return
		}
		active = parsed
	}
	httpx.JSON(w, http.StatusOK, h.service.FindByStatus(r.Context(), active))
}

func (h *Handler) createRole(w http.ResponseWriter, r *http.Request) {
	form, ok := h.decodeForm(w, r)
	if !ok {
		return
	}
	id, err := h.service.Create(r.Context(), form.Name, *form.Active)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, idResponse{ID: id})
}

func (h *Handler) getRole(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	role, err := h.service.LookupByID(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, role)
}

func (h *Handler) saveRole(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	form, ok := h.decodeForm(w, r)
	if !ok {
		return
	}
	saved, err := h.service.Save(r.Context(), &SaveInput{ID: id, Name: form.Name, Active: form.Active})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, idResponse{ID: saved})
}

func (h *Handler) deleteRole(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	deleted, err := h.service.Delete(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, idResponse{ID: deleted})
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	list, err := h.service.GetUsersForRole(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) countUsers(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	count, err := h.service.GetCountByRole(r.Context(), role)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, countResponse{Role: role, Count: count})
}

func (h *Handler) decodeForm(w http.ResponseWriter, r *http.Request) (roleForm, bool) {
	var form roleForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.RespondError(w, err)
		return form, false
	}
	if err := h.validator.Struct(form); err != nil {
		h.logger.Debug("role form rejected", slog.Any("error", err))
		httpx.RespondError(w, fmt.Errorf("%w: %s", shared.ErrInvalidArgument, err.Error()))
		return form, false
	}
	return form, true
}
