package catalog

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-shop/meridian-shop/internal/authz"
	"github.com/meridian-shop/meridian-shop/internal/platform/httpx"
	"github.com/meridian-shop/meridian-shop/internal/shared"
)

// Handler manages category endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	authz     authz.Middleware
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw authz.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, authz: mw, validator: validator.New()}
}

// MountRoutes registers category routes. Reads are public so the storefront
// can browse without a session; mutations are gated per action.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listCategories)
	r.Get("/{slug}", h.getCategory)

	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequirePermission(authz.GrantSet{authz.ResourceCategory: {"create"}}))
		r.Post("/", h.createCategory)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequirePermission(authz.GrantSet{authz.ResourceCategory: {"update"}}))
		r.Patch("/{id}", h.updateCategory)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequirePermission(authz.GrantSet{authz.ResourceCategory: {"delete"}}))
		r.Delete("/{id}", h.deleteCategory)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequirePermission(authz.GrantSet{authz.ResourceCategory: {"reorder"}}))
		r.Post("/reorder", h.reorder)
	})
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("list categories", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": categories})
}

func (h *Handler) getCategory(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	category, err := h.service.GetCategory(r.Context(), slug)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, httpx.ErrNotFound)
			return
		}
		h.logger.Error("get category", slog.String("slug", slug), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": category})
}

type categoryRequest struct {
	Name string `json:"name" validate:"required,min=3"`
	Slug string `json:"slug" validate:"omitempty,min=3"`
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	category, err := h.service.CreateCategory(r.Context(), req.Name, req.Slug)
	if err != nil {
		if errors.Is(err, httpx.ErrDuplicate) {
			httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", "Category slug already exists")
			return
		}
		h.logger.Error("create category", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"data": category})
}

func (h *Handler) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid category id")
		return
	}
	var req categoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	category, err := h.service.UpdateCategory(r.Context(), id, req.Name, req.Slug)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrNotFound):
			httpx.RespondError(w, httpx.ErrNotFound)
		case errors.Is(err, httpx.ErrDuplicate):
			httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", "Category slug already exists")
		default:
			h.logger.Error("update category", slog.Int64("id", id), slog.Any("error", err))
			httpx.RespondError(w, err)
		}
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": category})
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid category id")
		return
	}
	if err := h.service.DeleteCategory(r.Context(), id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, httpx.ErrNotFound)
			return
		}
		h.logger.Error("delete category", slog.Int64("id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reorderRequest struct {
	IDs []int64 `json:"ids" validate:"required,min=1"`
}

func (h *Handler) reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	if err := h.service.Reorder(r.Context(), req.IDs); err != nil {
		switch {
		case errors.Is(err, ErrDuplicateReorderID), errors.Is(err, ErrEmptyReorder):
			httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
		case errors.Is(err, shared.ErrNotFound):
			httpx.RespondError(w, httpx.ErrNotFound)
		default:
			h.logger.Error("reorder categories", slog.Any("error", err))
			httpx.RespondError(w, err)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
