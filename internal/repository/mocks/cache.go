package mocks

import (
	"context"

	"github.com/RoGogDBD/inventory/internal/models"
)

type CacheMock struct {
	GetFunc     func(ctx context.Context, id string) (*models.Item, bool)
	SetFunc     func(ctx context.Context, item *models.Item)
	DeleteFunc  func(ctx context.Context, id string)
	GetCalls    int
	SetCalls    int
	DeleteCalls int
}

func (m *CacheMock) Get(ctx context.Context, id string) (*models.Item, bool) {
	m.GetCalls++
	if m.GetFunc == nil {
		return nil, false
	}
	return m.GetFunc(ctx, id)
}

func (m *CacheMock) Set(ctx context.Context, item *models.Item) {
	m.SetCalls++
	if m.SetFunc != nil {
		m.SetFunc(ctx, item)
	}
}

func (m *CacheMock) Delete(ctx context.Context, id string) {
	m.DeleteCalls++
	if m.DeleteFunc != nil {
		m.DeleteFunc(ctx, id)
	}
}
