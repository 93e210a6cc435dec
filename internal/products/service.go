package products

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/meridian-shop/meridian-shop/internal/catalog"
	"github.com/meridian-shop/meridian-shop/internal/shared"
)

var (
	// ErrEmptyName rejects products without a display name.
	ErrEmptyName = errors.New("product name must not be empty")
	// ErrNegativePrice rejects prices below zero.
	ErrNegativePrice = errors.New("product price must not be negative")
	// ErrNegativeStock rejects stock adjustments that would go below zero.
	ErrNegativeStock = errors.New("product stock must not go below zero")
)

// ListResult bundles one page of products with pagination metadata.
type ListResult struct {
	Products   []Product         `json:"products"`
	Pagination shared.Pagination `json:"pagination"`
}

// Service implements product catalog use cases.
type Service struct {
	repo RepositoryPort
}

// NewService constructs the product service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List fetches one page of products together with the total count. The
// page query and the count query run concurrently against the pool.
func (s *Service) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	var (
		items []Product
		total int
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.repo.List(ctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(ctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return ListResult{}, err
	}
	if items == nil {
		items = []Product{}
	}
	return ListResult{
		Products:   items,
		Pagination: shared.NewPagination(filter.Page, filter.PerPage, total),
	}, nil
}

// GetBySlug returns a single product by its slug.
func (s *Service) GetBySlug(ctx context.Context, slug string) (Product, error) {
	return s.repo.FindBySlug(ctx, strings.TrimSpace(slug))
}

// CreateProduct inserts a new unpublished product owned by vendorID.
func (s *Service) CreateProduct(ctx context.Context, vendorID int64, name, description string, priceCents int64, stock int) (Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Product{}, ErrEmptyName
	}
	if priceCents < 0 {
		return Product{}, ErrNegativePrice
	}
	if stock < 0 {
		return Product{}, ErrNegativeStock
	}
	return s.repo.Create(ctx, CreateParams{
		VendorID:    vendorID,
		Name:        name,
		Slug:        catalog.Slugify(name),
		Description: strings.TrimSpace(description),
		PriceCents:  priceCents,
		Stock:       stock,
	})
}

// UpdateProduct rewrites the mutable fields of a product.
func (s *Service) UpdateProduct(ctx context.Context, id int64, name, description string, priceCents int64) (Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Product{}, ErrEmptyName
	}
	if priceCents < 0 {
		return Product{}, ErrNegativePrice
	}
	return s.repo.Update(ctx, id, UpdateParams{
		Name:        name,
		Description: strings.TrimSpace(description),
		PriceCents:  priceCents,
	})
}

// Publish makes a product visible on the storefront.
func (s *Service) Publish(ctx context.Context, id int64) (Product, error) {
	return s.repo.SetPublished(ctx, id, true)
}

// Unpublish hides a product from the storefront.
func (s *Service) Unpublish(ctx context.Context, id int64) (Product, error) {
	return s.repo.SetPublished(ctx, id, false)
}

// AdjustStock applies a relative stock change.
func (s *Service) AdjustStock(ctx context.Context, id int64, delta int) (Product, error) {
	p, err := s.repo.AdjustStock(ctx, id, delta)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) && delta < 0 {
			// The row may exist with insufficient stock. Distinguish
			// the two cases for callers.
			if _, findErr := s.repo.FindByID(ctx, id); findErr == nil {
				return Product{}, ErrNegativeStock
			}
		}
		return Product{}, err
	}
	return p, nil
}
