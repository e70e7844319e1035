package mocks

import (
	"context"

	"ayopashop/internal/model"
	"ayopashop/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockProductRepository struct {
	mock.Mock
}

var _ repository.ProductRepository = (*MockProductRepository)(nil)

func (m *MockProductRepository) Create(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id int) (model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Product], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Product]), args.Error(1)
}

func (m *MockProductRepository) Rename(ctx context.Context, id int, name string) error {
	args := m.Called(ctx, id, name)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
