package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docvault/internal/model"
	"docvault/internal/repository"
	repoMocks "docvault/internal/repository/mocks"
)

func TestDashboardService_AdminStats(t *testing.T) {
	ctx := context.Background()

	mUsers := new(repoMocks.MockUserRepository)
	mDocs := new(repoMocks.MockDocumentRepository)
	mTags := new(repoMocks.MockTagRepository)
	svc := NewDashboardService(mUsers, mDocs, mTags)

	mUsers.On("Counts", ctx).Return(&repository.UserCounts{Total: 10, Active: 8, Inactive: 2}, nil)
	mDocs.On("Count", ctx).Return(42, nil)
	mTags.On("ListInUse", ctx).Return([]model.Tag{{Name: "alpha"}, {Name: "beta"}}, nil)

	stats, err := svc.AdminStats(ctx)

	require.NoError(t, err)
	assert.Equal(t, 10, stats.Users.Total)
	assert.Equal(t, 42, stats.Documents)
	assert.Equal(t, 2, stats.Tags)
}

func TestDashboardService_UserStats(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		mDocs := new(repoMocks.MockDocumentRepository)
		svc := NewDashboardService(mUsers, mDocs, nil)

		mUsers.On("FindByID", ctx, "user-1").Return(&model.User{ID: "user-1", Name: "Jordan"}, nil)
		mDocs.On("CountByCreator", ctx, "user-1").Return(3, nil)

		stats, err := svc.UserStats(ctx, "user-1")

		require.NoError(t, err)
		assert.Equal(t, "Jordan", stats.User.Name)
		assert.Equal(t, 3, stats.DocumentsCreated)
	})

	t.Run("missing user", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		svc := NewDashboardService(mUsers, nil, nil)

		mUsers.On("FindByID", ctx, "ghost").Return(nil, sql.ErrNoRows)

		_, err := svc.UserStats(ctx, "ghost")

		assert.ErrorIs(t, err, ErrNotFound)
	})
}
