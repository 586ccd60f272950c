package store

import (
	"context"

	"altis.app/tracker/core/db/sqlc"
	"altis.app/tracker/internal/model"
)

type organizationStore struct {
	queries *sqlc.Queries
}

func newOrganizationStore(queries *sqlc.Queries) OrganizationStore {
	return &organizationStore{queries: queries}
}

func (s *organizationStore) GetByID(ctx context.Context, id int64) (*model.Organization, error) {
	row, err := s.queries.GetOrganization(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return toOrganizationModel(row), nil
}

func (s *organizationStore) GetBySlug(ctx context.Context, slug string) (*model.Organization, error) {
	row, err := s.queries.GetOrganizationBySlug(ctx, slug)
	if err != nil {
		return nil, translate(err)
	}
	return toOrganizationModel(row), nil
}

func (s *organizationStore) Create(ctx context.Context, org *model.Organization) error {
	row, err := s.queries.CreateOrganization(ctx, sqlc.CreateOrganizationParams{
		ID:   org.ID,
		Name: org.Name,
		Slug: org.Slug,
	})
	if err != nil {
		return translate(err)
	}
	*org = *toOrganizationModel(row)
	return nil
}

func (s *organizationStore) List(ctx context.Context) ([]model.Organization, error) {
	rows, err := s.queries.ListOrganizations(ctx)
	if err != nil {
		return nil, err
	}
	orgs := make([]model.Organization, len(rows))
	for i, row := range rows {
		orgs[i] = *toOrganizationModel(row)
	}
	return orgs, nil
}

func (s *organizationStore) DeleteAll(ctx context.Context) error {
	return s.queries.DeleteAllOrganizations(ctx)
}

func toOrganizationModel(row sqlc.Organization) *model.Organization {
	return &model.Organization{
		ID:        row.ID,
		Name:      row.Name,
		Slug:      row.Slug,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}
