package mocks

import (
	"context"
	"errors"

	"github.com/RoGogDBD/inventory/internal/models"
)

type UserStoreMock struct {
	CreateUserFunc     func(ctx context.Context, u *models.User) error
	GetUserByEmailFunc func(ctx context.Context, email string) (*models.User, error)
	GetUserByIDFunc    func(ctx context.Context, id string) (*models.User, error)

	CreateUserCalls     int
	GetUserByEmailCalls int
	GetUserByIDCalls    int
}

func (m *UserStoreMock) CreateUser(ctx context.Context, u *models.User) error {
	m.CreateUserCalls++
	if m.CreateUserFunc == nil {
		return errors.New("CreateUserFunc not set")
	}
	return m.CreateUserFunc(ctx, u)
}

func (m *UserStoreMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.GetUserByEmailCalls++
	if m.GetUserByEmailFunc == nil {
		return nil, errors.New("GetUserByEmailFunc not set")
	}
	return m.GetUserByEmailFunc(ctx, email)
}

func (m *UserStoreMock) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	m.GetUserByIDCalls++
	if m.GetUserByIDFunc == nil {
		return nil, errors.New("GetUserByIDFunc not set")
	}
	return m.GetUserByIDFunc(ctx, id)
}
