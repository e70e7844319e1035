package repository

import (
	"context"

	"ayopashop/internal/model"
)

// ProductRepository defines data access for products using SQL queries only.
// No business logic here, only persistence operations.
type ProductRepository interface {
	// Create inserts a product row. The caller supplies the ID.
	Create(ctx context.Context, p model.Product) error

	// FindByID returns a product by its ID, or sql.ErrNoRows.
	FindByID(ctx context.Context, id int) (model.Product, error)

	// List returns a page of products ordered by ID and the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Product], error)

	// Rename changes a product's name. It returns sql.ErrNoRows if no row matched.
	Rename(ctx context.Context, id int, name string) error

	// Delete removes a product by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id int) error
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
