package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"unicode/utf8"

	"ayopashop/internal/catalog"
	"ayopashop/internal/model"
	"ayopashop/internal/repository"
)

// ProductMySQL is a MySQL implementation of repository.ProductRepository.
// It issues parameterized statements through a repository.Querier and builds
// records only through the catalog constructors.
type ProductMySQL struct {
	q repository.Querier
}

// NewProductMySQL creates a new ProductMySQL repository.
func NewProductMySQL(q repository.Querier) *ProductMySQL {
	return &ProductMySQL{q: q}
}

var _ repository.ProductRepository = (*ProductMySQL)(nil)

const productColumns = `id, kind, name, price, size, expiration_date, publish_year, author`

// Create inserts a product row; columns of other variants are stored as NULL.
func (r *ProductMySQL) Create(ctx context.Context, p model.Product) error {
	const q = `INSERT INTO products (` + productColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	var size, expiration, year, author any
	switch v := p.(type) {
	case model.ClothingProduct:
		size = string(v.Size)
	case model.FoodProduct:
		expiration = v.ExpirationDate
	case model.BookProduct:
		year = v.PublishYear
		author = v.Author
	default:
		return fmt.Errorf("%w: %T", repository.ErrUnknownKind, p)
	}

	base := p.Fields()
	_, err := r.q.Execute(ctx, q,
		base.ID,
		string(p.Kind()),
		base.Name,
		base.Price,
		size,
		expiration,
		year,
		author,
	)
	return err
}

// FindByID fetches a single product by its ID.
func (r *ProductMySQL) FindByID(ctx context.Context, id int) (model.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE id = ?`

	rows, err := r.q.Results(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, sql.ErrNoRows
	}
	return scanProduct(rows)
}

// List returns products using LIMIT/OFFSET pagination and a total count.
func (r *ProductMySQL) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Product], error) {
	const qCount = `SELECT COUNT(*) FROM products`
	total, err := r.count(ctx, qCount)
	if err != nil {
		return nil, err
	}

	const qList = `SELECT ` + productColumns + ` FROM products ORDER BY id LIMIT ? OFFSET ?`
	rows, err := r.q.Results(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Product]{
		Items: items,
		Total: total,
	}, nil
}

// Rename updates the name of the product with the given ID.
func (r *ProductMySQL) Rename(ctx context.Context, id int, name string) error {
	const q = `UPDATE products SET name = ? WHERE id = ?`
	res, err := r.q.Execute(ctx, q, name, id)
	if err != nil {
		return err
	}
	// A log-only Manager reports swallowed failures as a nil result.
	if res == nil {
		return nil
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a product by ID. It does not return an error if the row does not exist.
func (r *ProductMySQL) Delete(ctx context.Context, id int) error {
	const q = `DELETE FROM products WHERE id = ?`
	_, err := r.q.Execute(ctx, q, id)
	return err
}

func (r *ProductMySQL) count(ctx context.Context, q string) (int, error) {
	rows, err := r.q.Results(ctx, q)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var total int
	if rows.Next() {
		if err := rows.Scan(&total); err != nil {
			return 0, err
		}
	}
	return total, rows.Err()
}

func scanProduct(rows *sql.Rows) (model.Product, error) {
	var (
		id, price  int
		kind, name string
		size       sql.NullString
		expiration sql.NullTime
		year       sql.NullInt64
		author     sql.NullString
	)
	if err := rows.Scan(&id, &kind, &name, &price, &size, &expiration, &year, &author); err != nil {
		return nil, err
	}

	k, err := model.ParseKind(kind)
	if err != nil {
		return nil, fmt.Errorf("%w: product %d: %q", repository.ErrUnknownKind, id, kind)
	}

	switch k {
	case model.KindCloth:
		var r rune
		switch utf8.RuneCountInString(size.String) {
		case 0:
		case 1:
			r, _ = utf8.DecodeRuneInString(size.String)
		default:
			return nil, fmt.Errorf("product %d: size %q is not a single character", id, size.String)
		}
		return catalog.CreateClothProduct(id, name, price, r), nil
	case model.KindFood:
		return catalog.CreateFoodProduct(id, name, price, expiration.Time), nil
	default:
		return catalog.CreateBookProduct(id, name, price, int(year.Int64), author.String), nil
	}
}
