package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-shop/meridian-shop/internal/platform/db"
	"github.com/meridian-shop/meridian-shop/internal/platform/httpx"
	"github.com/meridian-shop/meridian-shop/internal/shared"
)

// RepositoryPort defines data access methods for categories.
type RepositoryPort interface {
	ListCategories(ctx context.Context) ([]Category, error)
	FindBySlug(ctx context.Context, slug string) (Category, error)
	Create(ctx context.Context, name, slug string) (Category, error)
	Update(ctx context.Context, id int64, name, slug string) (Category, error)
	Delete(ctx context.Context, id int64) error
	Reorder(ctx context.Context, orderedIDs []int64) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const categoryColumns = `id, name, slug, sort_order, created_at, updated_at`

// ListCategories returns all categories in display order.
func (r *Repository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY sort_order, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

// FindBySlug fetches a category by slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (Category, error) {
	var c Category
	err := r.pool.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug).
		Scan(&c.ID, &c.Name, &c.Slug, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, shared.ErrNotFound
		}
		return Category{}, err
	}
	return c, nil
}

// Create inserts a category at the end of the display order.
func (r *Repository) Create(ctx context.Context, name, slug string) (Category, error) {
	var c Category
	err := r.pool.QueryRow(ctx, `INSERT INTO categories (name, slug, sort_order, created_at, updated_at)
		VALUES ($1, $2, COALESCE((SELECT MAX(sort_order) FROM categories), 0) + 1, NOW(), NOW())
		RETURNING `+categoryColumns, name, slug).
		Scan(&c.ID, &c.Name, &c.Slug, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Category{}, httpx.ErrDuplicate
		}
		return Category{}, err
	}
	return c, nil
}

// Update rewrites name and slug for a category.
func (r *Repository) Update(ctx context.Context, id int64, name, slug string) (Category, error) {
	var c Category
	err := r.pool.QueryRow(ctx, `UPDATE categories SET name = $2, slug = $3, updated_at = NOW() WHERE id = $1 RETURNING `+categoryColumns, id, name, slug).
		Scan(&c.ID, &c.Name, &c.Slug, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, shared.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Category{}, httpx.ErrDuplicate
		}
		return Category{}, err
	}
	return c, nil
}

// Delete removes a category by ID.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Reorder rewrites sort_order so categories appear in the given sequence.
// Runs in one transaction so concurrent readers never observe a partial
// ordering.
func (r *Repository) Reorder(ctx context.Context, orderedIDs []int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		for position, id := range orderedIDs {
			tag, err := tx.Exec(ctx, `UPDATE categories SET sort_order = $2, updated_at = NOW() WHERE id = $1`, id, position+1)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return shared.ErrNotFound
			}
		}
		return nil
	})
}

var _ RepositoryPort = (*Repository)(nil)
