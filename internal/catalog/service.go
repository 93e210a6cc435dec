package catalog

import (
	"context"
	"errors"
	"strings"
)

// ErrEmptyName indicates a blank category name after trimming.
var ErrEmptyName = errors.New("catalog: category name required")

// ErrEmptyReorder indicates a reorder request without IDs.
var ErrEmptyReorder = errors.New("catalog: reorder requires at least one id")

// ErrDuplicateReorderID indicates the same category listed twice.
var ErrDuplicateReorderID = errors.New("catalog: duplicate id in reorder")

// Service handles category business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListCategories returns categories in display order.
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	return s.repo.ListCategories(ctx)
}

// GetCategory fetches a category by slug.
func (s *Service) GetCategory(ctx context.Context, slug string) (Category, error) {
	return s.repo.FindBySlug(ctx, slug)
}

// CreateCategory inserts a category. The slug is derived from the provided
// slug when given, otherwise from the name.
func (s *Service) CreateCategory(ctx context.Context, name, slug string) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, ErrEmptyName
	}
	if slug == "" {
		slug = name
	}
	return s.repo.Create(ctx, name, Slugify(slug))
}

// UpdateCategory rewrites a category's name and slug.
func (s *Service) UpdateCategory(ctx context.Context, id int64, name, slug string) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, ErrEmptyName
	}
	if slug == "" {
		slug = name
	}
	return s.repo.Update(ctx, id, name, Slugify(slug))
}

// DeleteCategory removes a category.
func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Reorder applies a new display order.
func (s *Service) Reorder(ctx context.Context, orderedIDs []int64) error {
	if len(orderedIDs) == 0 {
		return ErrEmptyReorder
	}
	seen := make(map[int64]struct{}, len(orderedIDs))
	for _, id := range orderedIDs {
		if _, dup := seen[id]; dup {
			return ErrDuplicateReorderID
		}
		seen[id] = struct{}{}
	}
	return s.repo.Reorder(ctx, orderedIDs)
}
