package products

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

// Handler manages product endpoints.
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

// MountRoutes registers product routes. The storefront listing and detail
// endpoints are public; everything else is gated per action.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listProducts)
	r.Get("/{slug}", h.getProduct)

	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequirePermission(authz.GrantSet{authz.ResourceProduct: {"create"}}))
		r.Post("/", h.createProduct)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequirePermission(authz.GrantSet{authz.ResourceProduct: {"update"}}))
		r.Patch("/{id}", h.updateProduct)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequirePermission(authz.GrantSet{authz.ResourceProduct: {"publish"}}))
		r.Post("/{id}/publish", h.publishProduct)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequirePermission(authz.GrantSet{authz.ResourceProduct: {"unpublish"}}))
		r.Post("/{id}/unpublish", h.unpublishProduct)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequirePermission(authz.GrantSet{authz.ResourceProduct: {"manage_inventory"}}))
		r.Post("/{id}/stock", h.adjustStock)
	})
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	perPage, _ := strconv.Atoi(query.Get("per_page"))
	vendorID, _ := strconv.ParseInt(query.Get("vendor_id"), 10, 64)

	result, err := h.service.List(r.Context(), ListFilter{
		VendorID:      vendorID,
		PublishedOnly: true,
		Page:          page,
		PerPage:       perPage,
	})
	if err != nil {
		h.logger.Error("list products", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": result.Products, "pagination": result.Pagination})
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	product, err := h.service.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, httpx.ErrNotFound)
			return
		}
		h.logger.Error("get product", slog.String("slug", slug), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": product})
}

type productRequest struct {
	Name        string `json:"name" validate:"required,min=3"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents" validate:"min=0"`
	Stock       int    `json:"stock" validate:"min=0"`
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.CurrentUserID(r.Context())
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	var req productRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), userID, req.Name, req.Description, req.PriceCents, req.Stock)
	if err != nil {
		if errors.Is(err, httpx.ErrDuplicate) {
			httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", "Product slug already exists")
			return
		}
		h.logger.Error("create product", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"data": product})
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid product id")
		return
	}
	var req productRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), id, req.Name, req.Description, req.PriceCents)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, httpx.ErrNotFound)
			return
		}
		h.logger.Error("update product", slog.Int64("id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": product})
}

func (h *Handler) publishProduct(w http.ResponseWriter, r *http.Request) {
	h.setPublished(w, r, true)
}

func (h *Handler) unpublishProduct(w http.ResponseWriter, r *http.Request) {
	h.setPublished(w, r, false)
}

func (h *Handler) setPublished(w http.ResponseWriter, r *http.Request, published bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid product id")
		return
	}
	var product Product
	if published {
		product, err = h.service.Publish(r.Context(), id)
	} else {
		product, err = h.service.Unpublish(r.Context(), id)
	}
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, httpx.ErrNotFound)
			return
		}
		h.logger.Error("set product published", slog.Int64("id", id), slog.Bool("published", published), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": product})
}

type stockRequest struct {
	Delta int `json:"delta" validate:"required"`
}

func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid product id")
		return
	}
	var req stockRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	product, err := h.service.AdjustStock(r.Context(), id, req.Delta)
	if err != nil {
		switch {
		case errors.Is(err, ErrNegativeStock):
			httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
		case errors.Is(err, shared.ErrNotFound):
			httpx.RespondError(w, httpx.ErrNotFound)
		default:
			h.logger.Error("adjust stock", slog.Int64("id", id), slog.Any("error", err))
			httpx.RespondError(w, err)
		}
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": product})
}
