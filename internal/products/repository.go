package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-shop/meridian-shop/internal/platform/httpx"
	"github.com/meridian-shop/meridian-shop/internal/shared"
)

// CreateParams carries the fields needed to insert a product row.
type CreateParams struct {
	VendorID    int64
	Name        string
	Slug        string
	Description string
	PriceCents  int64
	Stock       int
}

// UpdateParams carries the mutable product fields.
type UpdateParams struct {
	Name        string
	Description string
	PriceCents  int64
}

// RepositoryPort defines data access methods for products.
type RepositoryPort interface {
	List(ctx context.Context, filter ListFilter) ([]Product, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
	FindBySlug(ctx context.Context, slug string) (Product, error)
	FindByID(ctx context.Context, id int64) (Product, error)
	Create(ctx context.Context, params CreateParams) (Product, error)
	Update(ctx context.Context, id int64, params UpdateParams) (Product, error)
	SetPublished(ctx context.Context, id int64, published bool) (Product, error)
	AdjustStock(ctx context.Context, id int64, delta int) (Product, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const productColumns = `id, vendor_id, name, slug, description, price_cents, stock, published, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.VendorID, &p.Name, &p.Slug, &p.Description, &p.PriceCents, &p.Stock, &p.Published, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func filterClause(filter ListFilter, args *[]any) string {
	var conds []string
	if filter.VendorID != 0 {
		*args = append(*args, filter.VendorID)
		conds = append(conds, fmt.Sprintf("vendor_id = $%d", len(*args)))
	}
	if filter.PublishedOnly {
		conds = append(conds, "published")
	}
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

// List returns one page of products.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Product, error) {
	args := []any{}
	query := `SELECT ` + productColumns + ` FROM products` + filterClause(filter, &args)
	pagination := shared.NewPagination(filter.Page, filter.PerPage, 0)
	args = append(args, pagination.PerPage, pagination.Offset())
	query += fmt.Sprintf(" ORDER BY id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the total number of products matching the filter.
func (r *Repository) Count(ctx context.Context, filter ListFilter) (int, error) {
	args := []any{}
	query := `SELECT COUNT(*) FROM products` + filterClause(filter, &args)
	var total int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// FindBySlug fetches a product by slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE slug = $1`, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, shared.ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

// FindByID fetches a product by ID.
func (r *Repository) FindByID(ctx context.Context, id int64) (Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, shared.ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

// Create inserts a product row.
func (r *Repository) Create(ctx context.Context, params CreateParams) (Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `INSERT INTO products (vendor_id, name, slug, description, price_cents, stock, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, NOW(), NOW()) RETURNING `+productColumns,
		params.VendorID, params.Name, params.Slug, params.Description, params.PriceCents, params.Stock))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Product{}, httpx.ErrDuplicate
		}
		return Product{}, err
	}
	return p, nil
}

// Update rewrites the mutable fields of a product.
func (r *Repository) Update(ctx context.Context, id int64, params UpdateParams) (Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `UPDATE products SET name = $2, description = $3, price_cents = $4, updated_at = NOW() WHERE id = $1 RETURNING `+productColumns,
		id, params.Name, params.Description, params.PriceCents))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, shared.ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

// SetPublished flips storefront visibility.
func (r *Repository) SetPublished(ctx context.Context, id int64, published bool) (Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `UPDATE products SET published = $2, updated_at = NOW() WHERE id = $1 RETURNING `+productColumns, id, published))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, shared.ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

// AdjustStock applies a relative stock change, refusing to go negative.
func (r *Repository) AdjustStock(ctx context.Context, id int64, delta int) (Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `UPDATE products SET stock = stock + $2, updated_at = NOW() WHERE id = $1 AND stock + $2 >= 0 RETURNING `+productColumns, id, delta))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, shared.ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

var _ RepositoryPort = (*Repository)(nil)
