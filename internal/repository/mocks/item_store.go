package mocks

import (
	"context"
	"errors"

	"github.com/RoGogDBD/inventory/internal/models"
	"github.com/RoGogDBD/inventory/internal/query"
)

type ItemStoreMock struct {
	CreateFunc   func(ctx context.Context, in models.ItemInput) (*models.Item, error)
	GetByIDFunc  func(ctx context.Context, id string) (*models.Item, error)
	UpdateFunc   func(ctx context.Context, id string, in models.ItemInput) (*models.Item, error)
	DeleteFunc   func(ctx context.Context, id string) error
	ListFunc     func(ctx context.Context, q query.ListQuery) ([]models.Item, int, error)
	AllFunc      func(ctx context.Context) ([]models.Item, error)
	LowStockFunc func(ctx context.Context, threshold int) ([]models.Item, error)
	PingFunc     func(ctx context.Context) error

	CreateCalls   int
	GetByIDCalls  int
	UpdateCalls   int
	DeleteCalls   int
	ListCalls     int
	AllCalls      int
	LowStockCalls int
}

func (m *ItemStoreMock) Create(ctx context.Context, in models.ItemInput) (*models.Item, error) {
	m.CreateCalls++
	if m.CreateFunc == nil {
		return nil, errors.New("CreateFunc not set")
	}
	return m.CreateFunc(ctx, in)
}

func (m *ItemStoreMock) GetByID(ctx context.Context, id string) (*models.Item, error) {
	m.GetByIDCalls++
	if m.GetByIDFunc == nil {
		return nil, errors.New("GetByIDFunc not set")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *ItemStoreMock) Update(ctx context.Context, id string, in models.ItemInput) (*models.Item, error) {
	m.UpdateCalls++
	if m.UpdateFunc == nil {
		return nil, errors.New("UpdateFunc not set")
	}
	return m.UpdateFunc(ctx, id, in)
}

func (m *ItemStoreMock) Delete(ctx context.Context, id string) error {
	m.DeleteCalls++
	if m.DeleteFunc == nil {
		return errors.New("DeleteFunc not set")
	}
	return m.DeleteFunc(ctx, id)
}

func (m *ItemStoreMock) List(ctx context.Context, q query.ListQuery) ([]models.Item, int, error) {
	m.ListCalls++
	if m.ListFunc == nil {
		return nil, 0, errors.New("ListFunc not set")
	}
	return m.ListFunc(ctx, q)
}

func (m *ItemStoreMock) All(ctx context.Context) ([]models.Item, error) {
	m.AllCalls++
	if m.AllFunc == nil {
		return nil, errors.New("AllFunc not set")
	}
	return m.AllFunc(ctx)
}

func (m *ItemStoreMock) LowStock(ctx context.Context, threshold int) ([]models.Item, error) {
	m.LowStockCalls++
	if m.LowStockFunc == nil {
		return nil, errors.New("LowStockFunc not set")
	}
	return m.LowStockFunc(ctx, threshold)
}

func (m *ItemStoreMock) Ping(ctx context.Context) error {
	if m.PingFunc == nil {
		return nil
	}
	return m.PingFunc(ctx)
}
