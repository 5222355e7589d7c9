package mocks

import (
	"context"

	"contentapi/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockContentService struct {
	mock.Mock
}

func (m *MockContentService) GetByID(ctx context.Context, id int64) (*model.ContentItemDisplay, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ContentItemDisplay), args.Error(1)
}

func (m *MockContentService) GetEmpty(ctx context.Context, contentTypeAlias string, parentID int64) (*model.ContentItemDisplay, error) {
	args := m.Called(ctx, contentTypeAlias, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ContentItemDisplay), args.Error(1)
}

func (m *MockContentService) Save(ctx context.Context, item *model.ContentItemSave) (*model.ContentItemDisplay, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ContentItemDisplay), args.Error(1)
}
