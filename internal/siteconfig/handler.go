package siteconfig

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-shop/meridian-shop/internal/authz"
	"github.com/meridian-shop/meridian-shop/internal/platform/httpx"
)

// Handler manages site configuration endpoints.
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

// MountRoutes registers the configuration routes. Reads are public so the
// storefront can render its chrome; writes require siteConfig update rights.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.getConfig)

	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequirePermission(authz.GrantSet{authz.ResourceSiteConfig: {"update"}}))
		r.Patch("/", h.updateConfig)
	})
}

func (h *Handler) getConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.service.Get(r.Context())
	if err != nil {
		h.logger.Error("get site config", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": cfg})
}

type updateRequest struct {
	SiteName        *string `json:"site_name" validate:"omitempty,min=1"`
	Tagline         *string `json:"tagline"`
	SupportEmail    *string `json:"support_email" validate:"omitempty,email"`
	Currency        *string `json:"currency" validate:"omitempty,len=3"`
	MaintenanceMode *bool   `json:"maintenance_mode"`
}

func (h *Handler) updateConfig(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	cfg, err := h.service.Update(r.Context(), UpdateParams{
		SiteName:        req.SiteName,
		Tagline:         req.Tagline,
		SupportEmail:    req.SupportEmail,
		Currency:        req.Currency,
		MaintenanceMode: req.MaintenanceMode,
	})
	if err != nil {
		if errors.Is(err, ErrEmptySiteName) {
			httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
			return
		}
		h.logger.Error("update site config", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": cfg})
}
