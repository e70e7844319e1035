package fixture

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ayopashop/internal/config"
	"ayopashop/internal/database"
	"ayopashop/internal/model"
	"ayopashop/internal/repository/mocks"
)

func newManager(t *testing.T, opts ...database.Option) (*database.Manager, sqlmock.Sqlmock) {
	t.Helper()
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	opts = append([]database.Option{database.WithDB(db), database.WithLogger(zerolog.Nop())}, opts...)
	return database.NewManager(config.DefaultDatabase(), opts...), sqlMock
}

func expectSteps(sqlMock sqlmock.Sqlmock) {
	for range steps {
		sqlMock.ExpectExec("CREATE").WillReturnResult(sqlmock.NewResult(0, 0))
	}
}

func TestProducts(t *testing.T) {
	products := Products()
	require.Len(t, products, 5)

	kinds := map[model.Kind]int{}
	ids := map[int]bool{}
	for _, p := range products {
		kinds[p.Kind()]++
		ids[p.Fields().ID] = true
	}
	assert.Equal(t, 2, kinds[model.KindCloth])
	assert.Equal(t, 2, kinds[model.KindFood])
	assert.Equal(t, 1, kinds[model.KindBook])
	assert.Len(t, ids, 5, "fixture ids must be unique")
	assert.Equal(t, model.KindBook, products[4].Kind())
	assert.Equal(t, 5, products[4].Fields().ID)
}

func TestEnsureSeeded(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and seeds missing table", func(t *testing.T) {
		m, sqlMock := newManager(t)
		repo := new(mocks.MockProductRepository)

		sqlMock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM information_schema.tables").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		sqlMock.ExpectExec("CREATE TABLE products").WillReturnResult(sqlmock.NewResult(0, 0))
		sqlMock.ExpectExec("CREATE INDEX idx_products_kind").WillReturnResult(sqlmock.NewResult(0, 0))
		sqlMock.ExpectExec("CREATE INDEX idx_products_name").WillReturnResult(sqlmock.NewResult(0, 0))

		for _, p := range Products() {
			repo.On("Create", mock.Anything, p).Return(nil).Once()
		}
		sqlMock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM products").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

		require.NoError(t, EnsureSeeded(ctx, m, repo, zerolog.Nop()))
		assert.NoError(t, sqlMock.ExpectationsWereMet())
		repo.AssertExpectations(t)
	})

	t.Run("sentinel is scoped to the current schema", func(t *testing.T) {
		m, sqlMock := newManager(t)
		repo := new(mocks.MockProductRepository)

		sqlMock.ExpectQuery(regexp.QuoteMeta(
			"SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = 'products'",
		)).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		require.NoError(t, EnsureSeeded(ctx, m, repo, zerolog.Nop()))
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("skips existing table", func(t *testing.T) {
		m, sqlMock := newManager(t)
		repo := new(mocks.MockProductRepository)

		sqlMock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM information_schema.tables").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		require.NoError(t, EnsureSeeded(ctx, m, repo, zerolog.Nop()))
		assert.NoError(t, sqlMock.ExpectationsWereMet())
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("sentinel failure", func(t *testing.T) {
		m, sqlMock := newManager(t)
		sqlMock.ExpectQuery("SELECT COUNT").WillReturnError(errors.New("access denied"))

		err := EnsureSeeded(ctx, m, new(mocks.MockProductRepository), zerolog.Nop())
		assert.ErrorIs(t, err, database.ErrQuery)
		assert.Contains(t, err.Error(), "failed to check sentinel table")
	})

	t.Run("step failure", func(t *testing.T) {
		m, sqlMock := newManager(t)
		sqlMock.ExpectQuery("SELECT COUNT").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		sqlMock.ExpectExec("CREATE TABLE products").WillReturnError(errors.New("no privilege"))

		err := EnsureSeeded(ctx, m, new(mocks.MockProductRepository), zerolog.Nop())
		assert.ErrorIs(t, err, database.ErrExecute)
		assert.Contains(t, err.Error(), "create_table_products")
	})

	t.Run("seed failure", func(t *testing.T) {
		m, sqlMock := newManager(t)
		repo := new(mocks.MockProductRepository)

		sqlMock.ExpectQuery("SELECT COUNT").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		expectSteps(sqlMock)
		repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("duplicate")).Once()

		err := EnsureSeeded(ctx, m, repo, zerolog.Nop())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "seed product 1")
	})

	t.Run("log only step failure is not reported as success", func(t *testing.T) {
		var buf bytes.Buffer
		m, sqlMock := newManager(t, database.WithExecPolicy(database.ExecLogOnly))
		repo := new(mocks.MockProductRepository)

		sqlMock.ExpectQuery("SELECT COUNT").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		sqlMock.ExpectExec("CREATE TABLE products").WillReturnError(errors.New("no privilege"))

		err := EnsureSeeded(ctx, m, repo, zerolog.New(&buf))
		assert.ErrorIs(t, err, ErrNotApplied)
		assert.Contains(t, err.Error(), "create_table_products")
		assert.NotContains(t, buf.String(), "db_fixture_success")
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("missing seeded rows", func(t *testing.T) {
		var buf bytes.Buffer
		m, sqlMock := newManager(t, database.WithExecPolicy(database.ExecLogOnly))
		repo := new(mocks.MockProductRepository)

		sqlMock.ExpectQuery("SELECT COUNT").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		expectSteps(sqlMock)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)
		sqlMock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM products").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		err := EnsureSeeded(ctx, m, repo, zerolog.New(&buf))
		assert.ErrorIs(t, err, ErrNotApplied)
		assert.Contains(t, err.Error(), "0 of 5 products stored")
		assert.NotContains(t, buf.String(), "db_fixture_success")
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})
}
