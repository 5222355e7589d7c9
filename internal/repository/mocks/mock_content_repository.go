package mocks

import (
	"context"

	"contentapi/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockContentRepository struct {
	mock.Mock
}

func (m *MockContentRepository) FindByID(ctx context.Context, id int64) (*model.Content, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Content), args.Error(1)
}

func (m *MockContentRepository) Save(ctx context.Context, c *model.Content) (*model.Content, error) {
	args := m.Called(ctx, c)
	if f, ok := args.Get(0).(func(*model.Content) *model.Content); ok {
		return f(c), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Content), args.Error(1)
}

type MockContentTypeRepository struct {
	mock.Mock
}

func (m *MockContentTypeRepository) FindByAlias(ctx context.Context, alias string) (*model.ContentType, error) {
	args := m.Called(ctx, alias)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ContentType), args.Error(1)
}

func (m *MockContentTypeRepository) FindByID(ctx context.Context, id int64) (*model.ContentType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ContentType), args.Error(1)
}
