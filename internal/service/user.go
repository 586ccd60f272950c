package service

import (
	"context"
	"fmt"
	"log/slog"

	"altis.app/tracker/internal/model"
	"altis.app/tracker/internal/store"
)

type UserService interface {
	ListByOrganization(ctx context.Context, orgID int64) ([]model.User, error)
}

type userService struct {
	userStore store.UserStore
}

func NewUserService(userStore store.UserStore) UserService {
	return &userService{userStore: userStore}
}

func (s *userService) ListByOrganization(ctx context.Context, orgID int64) ([]model.User, error) {
	users, err := s.userStore.ListByOrganization(ctx, orgID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list users", "error", err, "organization_id", orgID)
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}
