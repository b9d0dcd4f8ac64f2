package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/tickart/internal/domain/catalog"
)

const (
	listCategoriesSQL = `SELECT c.id, c.name, p.id, p.name, p.price
		FROM categories c
		JOIN products p ON p.category_id = c.id
		ORDER BY c.position, c.id, p.position, p.id`

	getProductByIDSQL = `SELECT p.id, p.name, p.price, c.name
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1`

	upsertCategorySQL = `INSERT INTO categories (id, name, position)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = $2, position = $3`

	upsertProductSQL = `INSERT INTO products (id, name, price, category_id, position)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET name = $2, price = $3, category_id = $4, position = $5`
)

var _ catalog.Repository = (*CatalogRepository)(nil)

// CatalogRepository implements catalog.Repository backed by PostgreSQL.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository returns a CatalogRepository that uses the given pool.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// Categories returns the full catalog grouped by category, preserving
// the stored category and product positions.
func (r *CatalogRepository) Categories(ctx context.Context) ([]catalog.Category, error) {
	rows, err := r.pool.Query(ctx, listCategoriesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []catalog.Category
	for rows.Next() {
		var (
			categoryID, categoryName string
			p                        catalog.Product
			price                    decimal.Decimal
		)
		if err := rows.Scan(&categoryID, &categoryName, &p.ID, &p.Name, &price); err != nil {
			return nil, fmt.Errorf("scanning category row: %w", err)
		}
		p.Price = price
		p.Category = categoryName

		if len(categories) == 0 || categories[len(categories)-1].Name != categoryName {
			categories = append(categories, catalog.Category{Name: categoryName})
		}
		last := &categories[len(categories)-1]
		last.Products = append(last.Products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return categories, nil
}

// GetByID returns a single product by its identifier.
func (r *CatalogRepository) GetByID(ctx context.Context, id string) (*catalog.Product, error) {
	var (
		p     catalog.Product
		price decimal.Decimal
	)
	err := r.pool.QueryRow(ctx, getProductByIDSQL, id).
		Scan(&p.ID, &p.Name, &price, &p.Category)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}
	p.Price = price
	return &p, nil
}

// UpsertCategory inserts or updates one category. Used by the seeder.
func (r *CatalogRepository) UpsertCategory(ctx context.Context, id, name string, position int) error {
	if _, err := r.pool.Exec(ctx, upsertCategorySQL, id, name, position); err != nil {
		return fmt.Errorf("upserting category %q: %w", id, err)
	}
	return nil
}

// UpsertProduct inserts or updates one product. Used by the seeder.
func (r *CatalogRepository) UpsertProduct(ctx context.Context, p catalog.Product, categoryID string, position int) error {
	if _, err := r.pool.Exec(ctx, upsertProductSQL, p.ID, p.Name, p.Price, categoryID, position); err != nil {
		return fmt.Errorf("upserting product %q: %w", p.ID, err)
	}
	return nil
}
