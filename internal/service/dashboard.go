package service

import (
	"context"
	"database/sql"
	"errors"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// AdminDashboard is the admin landing page payload.
type AdminDashboard struct {
	Users     *repository.UserCounts `json:"users"`
	Documents int                    `json:"documents"`
	Tags      int                    `json:"tags"`
}

// UserDashboard is the regular user landing page payload.
type UserDashboard struct {
	User             *model.User `json:"user"`
	DocumentsCreated int         `json:"documents_created"`
}

// DashboardService aggregates counts for the role-specific landing pages.
type DashboardService interface {
	AdminStats(ctx context.Context) (*AdminDashboard, error)
	UserStats(ctx context.Context, userID string) (*UserDashboard, error)
}

type dashboardService struct {
	users repository.UserRepository
	docs  repository.DocumentRepository
	tags  repository.TagRepository
}

// NewDashboardService constructs a new DashboardService.
func NewDashboardService(users repository.UserRepository, docs repository.DocumentRepository, tags repository.TagRepository) DashboardService {
	return &dashboardService{users: users, docs: docs, tags: tags}
}

func (s *dashboardService) AdminStats(ctx context.Context) (*AdminDashboard, error) {
	counts, err := s.users.Counts(ctx)
	if err != nil {
		return nil, err
	}
	docTotal, err := s.docs.Count(ctx)
	if err != nil {
		return nil, err
	}
	inUse, err := s.tags.ListInUse(ctx)
	if err != nil {
		return nil, err
	}
	return &AdminDashboard{Users: counts, Documents: docTotal, Tags: len(inUse)}, nil
}

func (s *dashboardService) UserStats(ctx context.Context, userID string) (*UserDashboard, error) {
	if userID == "" {
		return nil, ErrIDRequired
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	created, err := s.docs.CountByCreator(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserDashboard{User: user, DocumentsCreated: created}, nil
}
