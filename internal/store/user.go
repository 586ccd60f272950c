package store

import (
	"context"

	"altis.app/tracker/core/db/sqlc"
	"altis.app/tracker/internal/model"
)

type userStore struct {
	queries *sqlc.Queries
}

func newUserStore(queries *sqlc.Queries) UserStore {
	return &userStore{queries: queries}
}

func (s *userStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	row, err := s.queries.GetUser(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return toUserModel(row), nil
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row, err := s.queries.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, translate(err)
	}
	return toUserModel(row), nil
}

func (s *userStore) GetInOrganization(ctx context.Context, id, orgID int64) (*model.User, error) {
	row, err := s.queries.GetUserInOrganization(ctx, sqlc.GetUserInOrganizationParams{
		ID:             id,
		OrganizationID: orgID,
	})
	if err != nil {
		return nil, translate(err)
	}
	return toUserModel(row), nil
}

func (s *userStore) Create(ctx context.Context, user *model.User) error {
	row, err := s.queries.CreateUser(ctx, sqlc.CreateUserParams{
		ID:             user.ID,
		Email:          user.Email,
		PasswordHash:   user.PasswordHash,
		Name:           user.Name,
		OrganizationID: user.OrganizationID,
	})
	if err != nil {
		return translate(err)
	}
	*user = *toUserModel(row)
	return nil
}

func (s *userStore) ListByOrganization(ctx context.Context, orgID int64) ([]model.User, error) {
	rows, err := s.queries.ListUsersByOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return toUserModels(rows), nil
}

func (s *userStore) ListByIDs(ctx context.Context, ids []int64) ([]model.User, error) {
	if len(ids) == 0 {
		return []model.User{}, nil
	}
	rows, err := s.queries.ListUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return toUserModels(rows), nil
}

func toUserModels(rows []sqlc.User) []model.User {
	users := make([]model.User, len(rows))
	for i, row := range rows {
		users[i] = *toUserModel(row)
	}
	return users
}

func toUserModel(row sqlc.User) *model.User {
	return &model.User{
		ID:             row.ID,
		Email:          row.Email,
		PasswordHash:   row.PasswordHash,
		Name:           row.Name,
		OrganizationID: row.OrganizationID,
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}
}
