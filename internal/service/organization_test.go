package service_test

import (
	"context"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"altis.app/tracker/internal/model"
	"altis.app/tracker/internal/service"
	"altis.app/tracker/internal/store"
)

var _ = Describe("OrganizationService", func() {
	var (
		svc     service.OrganizationService
		mockOrg *mockOrganizationStore
		ctx     context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		mockOrg = &mockOrganizationStore{}
		svc = service.NewOrganizationService(mockOrg)
	})

	It("creates organization with provided slug", func() {
		mockOrg.getBySlugFn = func(_ context.Context, slug string) (*model.Organization, error) {
			Expect(slug).To(Equal("custom-slug"))
			return nil, store.ErrNotFound
		}
		mockOrg.createFn = func(_ context.Context, org *model.Organization) error {
			Expect(org.Slug).To(Equal("custom-slug"))
			Expect(org.ID).NotTo(BeZero())
			return nil
		}

		org, err := svc.Create(ctx, "Acme", strPtr("custom-slug"))
		Expect(err).NotTo(HaveOccurred())
		Expect(org.Slug).To(Equal("custom-slug"))
		Expect(org.Name).To(Equal("Acme"))
		Expect(mockOrg.createCalls).To(Equal(1))
	})

	It("generates slug from name when missing", func() {
		org, err := svc.Create(ctx, "Acme Corp", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(org.Slug).To(Equal("acme-corp"))
	})

	It("appends a numeric suffix when the slug is taken", func() {
		taken := map[string]bool{"acme": true, "acme-1": true}
		mockOrg.getBySlugFn = func(_ context.Context, slug string) (*model.Organization, error) {
			if taken[slug] {
				return &model.Organization{Slug: slug}, nil
			}
			return nil, store.ErrNotFound
		}

		org, err := svc.Create(ctx, "Acme", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(org.Slug).To(Equal("acme-2"))
	})

	It("gives up after twenty suffixes", func() {
		mockOrg.getBySlugFn = func(_ context.Context, slug string) (*model.Organization, error) {
			return &model.Organization{Slug: slug}, nil
		}

		_, err := svc.Create(ctx, "Acme", nil)
		Expect(err).To(MatchError(service.ErrSlugUnavailable))
		Expect(mockOrg.createCalls).To(BeZero())
	})

	It("propagates lookup failures", func() {
		mockOrg.getBySlugFn = func(context.Context, string) (*model.Organization, error) {
			return nil, fmt.Errorf("connection reset")
		}
		_, err := svc.Create(ctx, "Acme", nil)
		Expect(err).To(MatchError(ContainSubstring("checking slug availability")))
	})

	It("requires a name", func() {
		_, err := svc.Create(ctx, "   ", nil)
		Expect(err).To(MatchError(service.ErrMissingFields))
	})

	It("maps a missing organization on Get", func() {
		mockOrg.getByIDFn = func(context.Context, int64) (*model.Organization, error) {
			return nil, store.ErrNotFound
		}
		_, err := svc.Get(ctx, 1)
		Expect(err).To(MatchError(service.ErrOrganizationNotFound))
	})
})
