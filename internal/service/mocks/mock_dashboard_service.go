package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docvault/internal/service"
)

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) AdminStats(ctx context.Context) (*service.AdminDashboard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AdminDashboard), args.Error(1)
}

func (m *MockDashboardService) UserStats(ctx context.Context, userID string) (*service.UserDashboard, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserDashboard), args.Error(1)
}
