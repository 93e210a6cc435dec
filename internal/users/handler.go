package users

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-shop/meridian-shop/internal/authz"
	"github.com/meridian-shop/meridian-shop/internal/platform/httpx"
	"github.com/meridian-shop/meridian-shop/internal/shared"
)

// Handler manages user management endpoints.
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

// MountRoutes registers user routes. Every mutating route is gated by the
// matching user:* permission; registration is open because storefront
// customers sign themselves up.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.createUser)
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequirePermission(authz.GrantSet{authz.ResourceUser: {"list"}}))
		r.Get("/", h.listUsers)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequirePermission(authz.GrantSet{authz.ResourceUser: {"read"}}))
		r.Get("/{email}", h.getUser)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequirePermission(authz.GrantSet{authz.ResourceUser: {"change_role"}}))
		r.Post("/{email}/change-role/{role}", h.changeRole)
	})
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": users})
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	user, err := h.service.GetUser(r.Context(), email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, httpx.ErrNotFound)
			return
		}
		h.logger.Error("get user", slog.String("email", email), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": user})
}

type createUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=2"`
	Password string `json:"password" validate:"required,min=8"`
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	// Role is deliberately not accepted here; new accounts always get the
	// default role. Elevation goes through change-role.
	user, err := h.service.CreateUser(r.Context(), CreateInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, httpx.ErrDuplicate) {
			httpx.RespondError(w, httpx.ErrDuplicate)
			return
		}
		h.logger.Error("create user", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"data": user})
}

func (h *Handler) changeRole(w http.ResponseWriter, r *http.Request) {
	actorID, ok := shared.CurrentUserID(r.Context())
	if !ok {
		// RequirePermission already rejected anonymous callers; this only
		// trips if the route is mounted without the middleware.
		httpx.Unauthorized(w)
		return
	}
	email := chi.URLParam(r, "email")
	role := chi.URLParam(r, "role")

	user, err := h.service.ChangeRole(r.Context(), actorID, email, role)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownRole):
			httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", "unknown role: "+role)
		case errors.Is(err, shared.ErrNotFound):
			httpx.RespondError(w, httpx.ErrNotFound)
		case errors.Is(err, ErrSelfElevation):
			httpx.Forbidden(w, ErrSelfElevation.Error())
		default:
			h.logger.Error("change role", slog.String("email", email), slog.Any("error", err))
			httpx.RespondError(w, err)
		}
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": user, "message": "User role updated successfully"})
}
