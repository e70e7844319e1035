// Package fixture creates and seeds the products table used for integration
// checks against a live database. It is not a schema migration tool: it only
// acts when the table is absent.
package fixture

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"ayopashop/internal/catalog"
	"ayopashop/internal/model"
	"ayopashop/internal/repository"
)

type step struct {
	Name string
	SQL  string
}

var steps = []step{
	{
		Name: "create_table_products",
		SQL: `CREATE TABLE products (
  id              INTEGER      NOT NULL PRIMARY KEY,
  kind            VARCHAR(16)  NOT NULL,
  name            VARCHAR(255) NOT NULL,
  price           INTEGER      NOT NULL,
  size            CHAR(1)      NULL,
  expiration_date DATE         NULL,
  publish_year    INTEGER      NULL,
  author          VARCHAR(255) NULL
)`,
	},
	{
		Name: "create_index_products_kind",
		SQL:  `CREATE INDEX idx_products_kind ON products (kind)`,
	},
	{
		Name: "create_index_products_name",
		SQL:  `CREATE INDEX idx_products_name ON products (name)`,
	},
}

const (
	sentinelQuery = `SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = 'products'`
	countQuery    = `SELECT COUNT(*) FROM products`
)

// ErrNotApplied is returned when a fixture statement reported no result or
// the seeded rows are missing afterwards, as happens when a log-only Manager
// swallows statement failures.
var ErrNotApplied = errors.New("fixture not applied")

// Products returns the fixture rows: two clothing items, two food items and
// a book with id 5.
func Products() []model.Product {
	return []model.Product{
		catalog.CreateClothProduct(1, "Ayopa Basic Tee", 150000, 'M'),
		catalog.CreateClothProduct(2, "Denim Jacket", 450000, 'L'),
		catalog.CreateFoodProduct(3, "Rendang Can", 55000, time.Date(2027, time.January, 31, 0, 0, 0, 0, time.UTC)),
		catalog.CreateFoodProduct(4, "Instant Noodles", 3500, time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC)),
		catalog.CreateBookProduct(5, "Laskar Pelangi", 89000, 2005, "Andrea Hirata"),
	}
}

// EnsureSeeded creates the products table and inserts Products() when the
// table does not exist yet. An existing table is left untouched.
func EnsureSeeded(ctx context.Context, q repository.Querier, repo repository.ProductRepository, logger zerolog.Logger) error {
	start := time.Now()
	logger = logger.With().Str("component", "database").Logger()

	logger.Info().Str("event", "db_fixture_check").Str("status", "starting").Msg("checking fixture table")

	exists, err := tableExists(ctx, q)
	if err != nil {
		logger.Error().
			Err(err).
			Str("event", "db_fixture_failed").
			Str("status", "error").
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("failed to check sentinel table")
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logger.Info().
			Str("event", "db_fixture_skip").
			Str("status", "success").
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("products table already exists, skipping fixture")
		return nil
	}

	for _, s := range steps {
		stepStart := time.Now()
		res, err := q.Execute(ctx, s.SQL)
		if err == nil && res == nil {
			err = ErrNotApplied
		}
		if err != nil {
			logger.Error().
				Err(err).
				Str("event", "db_fixture_failed").
				Str("status", "error").
				Str("fixture_step", s.Name).
				Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
				Msg("fixture step failed")
			return fmt.Errorf("fixture step %s failed: %w", s.Name, err)
		}
		logger.Debug().
			Str("event", "db_fixture_step").
			Str("fixture_step", s.Name).
			Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
			Msg("fixture step applied")
	}

	products := Products()
	for _, p := range products {
		if err := repo.Create(ctx, p); err != nil {
			return fmt.Errorf("seed product %d: %w", p.Fields().ID, err)
		}
	}

	n, err := count(ctx, q, countQuery)
	if err != nil {
		return fmt.Errorf("count seeded products: %w", err)
	}
	if n != len(products) {
		logger.Error().
			Str("event", "db_fixture_failed").
			Str("status", "error").
			Int("rows", n).
			Int("want_rows", len(products)).
			Msg("seeded rows missing")
		return fmt.Errorf("%w: %d of %d products stored", ErrNotApplied, n, len(products))
	}

	logger.Info().
		Str("event", "db_fixture_success").
		Str("status", "success").
		Int("rows", n).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("fixture table seeded")
	return nil
}

func tableExists(ctx context.Context, q repository.Querier) (bool, error) {
	n, err := count(ctx, q, sentinelQuery)
	return n > 0, err
}

func count(ctx context.Context, q repository.Querier, query string) (int, error) {
	rows, err := q.Results(ctx, query)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var n int
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, err
		}
	}
	return n, rows.Err()
}
