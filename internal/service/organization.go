package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"altis.app/tracker/common"
	"altis.app/tracker/common/id"
	"altis.app/tracker/internal/model"
	"altis.app/tracker/internal/store"
)

const maxSlugSuffix = 20

type OrganizationService interface {
	Get(ctx context.Context, orgID int64) (*model.Organization, error)
	Create(ctx context.Context, name string, slug *string) (*model.Organization, error)
}

type organizationService struct {
	orgStore store.OrganizationStore
}

func NewOrganizationService(orgStore store.OrganizationStore) OrganizationService {
	return &organizationService{orgStore: orgStore}
}

func (s *organizationService) Get(ctx context.Context, orgID int64) (*model.Organization, error) {
	org, err := s.orgStore.GetByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("getting organization: %w", err)
	}
	return org, nil
}

func (s *organizationService) Create(ctx context.Context, name string, slug *string) (*model.Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrMissingFields
	}

	finalSlug, err := s.ensureSlug(ctx, name, slug)
	if err != nil {
		return nil, err
	}

	org := &model.Organization{
		ID:   id.New(),
		Name: name,
		Slug: finalSlug,
	}
	if err := s.orgStore.Create(ctx, org); err != nil {
		slog.ErrorContext(ctx, "failed to create organization", "error", err, "slug", finalSlug)
		return nil, fmt.Errorf("creating organization: %w", err)
	}

	slog.InfoContext(ctx, "organization created", "organization_id", org.ID, "slug", org.Slug)
	return org, nil
}

func (s *organizationService) ensureSlug(ctx context.Context, name string, slug *string) (string, error) {
	input := name
	if slug != nil && strings.TrimSpace(*slug) != "" {
		input = *slug
	}

	base, err := common.Slugify(input, "org")
	if err != nil {
		return "", fmt.Errorf("generating slug: %w", err)
	}

	for i := 0; i <= maxSlugSuffix; i++ {
		candidate := base
		if i > 0 {
			candidate = fmt.Sprintf("%s-%d", base, i)
		}
		_, err := s.orgStore.GetBySlug(ctx, candidate)
		if errors.Is(err, store.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("checking slug availability: %w", err)
		}
	}

	return "", fmt.Errorf("%w for %q", ErrSlugUnavailable, base)
}
