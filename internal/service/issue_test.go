package service_test

import (
	"context"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"altis.app/tracker/internal/model"
	"altis.app/tracker/internal/service"
	"altis.app/tracker/internal/store"
)

var _ = Describe("IssueService", func() {
	const (
		orgID   int64 = 100
		actorID int64 = 10
	)

	var (
		ctx        context.Context
		users      *mockUserStore
		issues     *mockIssueStore
		comments   *mockCommentStore
		activities *mockActivityStore
		publisher  *mockPublisher
		svc        service.IssueService
		ana        = model.User{ID: 10, Name: "Ana", Email: "ana@acme.com", OrganizationID: 100}
		ben        = model.User{ID: 20, Name: "Ben", Email: "ben@acme.com", OrganizationID: 100}
	)

	BeforeEach(func() {
		ctx = context.Background()
		users = &mockUserStore{listByIDsFn: usersByID(ana, ben)}
		issues = &mockIssueStore{}
		comments = &mockCommentStore{}
		activities = &mockActivityStore{}
		publisher = &mockPublisher{}
		provider := &mockStoreProvider{users: users, issues: issues, comments: comments, activities: activities}
		svc = service.NewIssueService(
			issues, comments, activities,
			&mockTxRunner{provider: provider},
			service.NewUserDirectory(users),
			publisher,
		)
	})

	Describe("List", func() {
		It("combines the page, the count and resolved people", func() {
			issues.listFn = func(_ context.Context, f model.IssueFilter) ([]model.IssueSummary, error) {
				Expect(f.OrgID).To(Equal(orgID))
				return []model.IssueSummary{
					{Issue: model.Issue{ID: 1, CreatorID: 10, AssigneeID: int64Ptr(20)}, CommentCount: 2},
					{Issue: model.Issue{ID: 2, CreatorID: 20}},
				}, nil
			}
			issues.countFn = func(context.Context, model.IssueFilter) (int64, error) {
				return 21, nil
			}

			page, err := svc.List(ctx, model.IssueFilter{OrgID: orgID, Page: 1, Limit: 10})
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Total).To(Equal(int64(21)))
			Expect(page.TotalPages).To(Equal(int64(3)))
			Expect(page.Issues).To(HaveLen(2))
			Expect(page.Issues[0].Creator.Name).To(Equal("Ana"))
			Expect(page.Issues[0].Assignee.Name).To(Equal("Ben"))
			Expect(page.Issues[0].CommentCount).To(Equal(int64(2)))
			Expect(page.Issues[1].Assignee).To(BeNil())
		})

		It("reports zero pages for an empty result", func() {
			page, err := svc.List(ctx, model.IssueFilter{OrgID: orgID, Page: 1, Limit: 10})
			Expect(err).NotTo(HaveOccurred())
			Expect(page.TotalPages).To(BeZero())
		})

		It("fails when the count fails", func() {
			issues.countFn = func(context.Context, model.IssueFilter) (int64, error) {
				return 0, errors.New("boom")
			}
			_, err := svc.List(ctx, model.IssueFilter{OrgID: orgID, Page: 1, Limit: 10})
			Expect(err).To(MatchError(ContainSubstring("counting issues")))
		})
	})

	Describe("Get", func() {
		It("returns ErrIssueNotFound for issues of other organizations", func() {
			_, err := svc.Get(ctx, orgID, 1)
			Expect(err).To(MatchError(service.ErrIssueNotFound))
		})

		It("loads comments with authors and the latest activities", func() {
			issues.getFn = func(_ context.Context, id, org int64) (*model.Issue, error) {
				return &model.Issue{ID: id, OrgID: org, CreatorID: 10}, nil
			}
			comments.listByIssueFn = func(context.Context, int64) ([]model.Comment, error) {
				return []model.Comment{{ID: 5, AuthorID: 20, Content: "hi"}}, nil
			}
			activities.listFn = func(_ context.Context, _ int64, limit int32) ([]model.Activity, error) {
				Expect(limit).To(Equal(int32(20)))
				return []model.Activity{{ID: 9, Action: model.ActivityActionCreated}}, nil
			}

			detail, err := svc.Get(ctx, orgID, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(detail.Creator.Name).To(Equal("Ana"))
			Expect(detail.Comments).To(HaveLen(1))
			Expect(detail.Comments[0].Author.Name).To(Equal("Ben"))
			Expect(detail.Activities).To(HaveLen(1))
		})
	})

	Describe("Create", func() {
		It("applies defaults and records a created activity", func() {
			var stored *model.Issue
			issues.createFn = func(_ context.Context, issue *model.Issue) error {
				stored = issue
				return nil
			}

			summary, err := svc.Create(ctx, orgID, actorID, service.CreateIssueInput{Title: "  Crash on save  "})
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Title).To(Equal("Crash on save"))
			Expect(stored.Status).To(Equal(model.IssueStatusTodo))
			Expect(stored.Priority).To(Equal(model.IssuePriorityMedium))
			Expect(stored.Labels).To(BeEmpty())
			Expect(stored.CreatorID).To(Equal(actorID))
			Expect(stored.OrgID).To(Equal(orgID))
			Expect(summary.Creator.Name).To(Equal("Ana"))

			Expect(activities.created).To(HaveLen(1))
			Expect(activities.created[0].Action).To(Equal(model.ActivityActionCreated))
			Expect(*activities.created[0].Field).To(Equal("issue"))
			Expect(*activities.created[0].NewValue).To(Equal("Issue created"))
			Expect(publisher.batches).To(HaveLen(1))
			Expect(publisher.batches[0].orgID).To(Equal(orgID))
		})

		It("rejects a blank title", func() {
			_, err := svc.Create(ctx, orgID, actorID, service.CreateIssueInput{Title: "   "})
			Expect(err).To(MatchError(service.ErrTitleRequired))
		})

		It("rejects an unknown status", func() {
			_, err := svc.Create(ctx, orgID, actorID, service.CreateIssueInput{Title: "x", Status: "BLOCKED"})
			Expect(err).To(MatchError(service.ErrInvalidStatus))
		})

		It("rejects empty labels", func() {
			_, err := svc.Create(ctx, orgID, actorID, service.CreateIssueInput{Title: "t", Labels: []string{""}})
			Expect(err).To(MatchError(service.ErrInvalidLabels))
		})

		It("rejects an assignee from another organization", func() {
			users.getInOrganizationFn = func(context.Context, int64, int64) (*model.User, error) {
				return nil, store.ErrNotFound
			}
			_, err := svc.Create(ctx, orgID, actorID, service.CreateIssueInput{Title: "x", AssigneeID: int64Ptr(999)})
			Expect(err).To(MatchError(service.ErrAssigneeNotFound))
			Expect(activities.created).To(BeEmpty())
			Expect(publisher.batches).To(BeEmpty())
		})
	})

	Describe("Update", func() {
		var existing model.Issue

		BeforeEach(func() {
			existing = model.Issue{
				ID:         1,
				Title:      "Crash on save",
				Status:     model.IssueStatusTodo,
				Priority:   model.IssuePriorityMedium,
				Labels:     []string{"bug"},
				AssigneeID: int64Ptr(10),
				CreatorID:  10,
				OrgID:      orgID,
			}
			issues.getFn = func(_ context.Context, id, org int64) (*model.Issue, error) {
				if id != existing.ID || org != existing.OrgID {
					return nil, store.ErrNotFound
				}
				copied := existing
				return &copied, nil
			}
		})

		It("writes one activity per changed field", func() {
			summary, err := svc.Update(ctx, orgID, actorID, 1, service.UpdateIssueInput{
				Status:     model.Some(model.IssueStatusDone),
				AssigneeID: model.Some(int64(20)),
				Title:      model.Some("Crash on save"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.Status).To(Equal(model.IssueStatusDone))
			Expect(summary.Assignee.Name).To(Equal("Ben"))

			Expect(activities.created).To(HaveLen(2))
			fields := []string{*activities.created[0].Field, *activities.created[1].Field}
			Expect(fields).To(ConsistOf("status", "assignee"))
			for _, a := range activities.created {
				Expect(a.Action).To(Equal(model.ActivityActionUpdated))
				if *a.Field == "assignee" {
					Expect(*a.OldValue).To(Equal("Ana"))
					Expect(*a.NewValue).To(Equal("Ben"))
				}
			}
			Expect(publisher.batches).To(HaveLen(1))
			Expect(publisher.batches[0].activities).To(HaveLen(2))
		})

		It("unassigns on an explicit null", func() {
			summary, err := svc.Update(ctx, orgID, actorID, 1, service.UpdateIssueInput{
				AssigneeID: model.Null[int64](),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.AssigneeID).To(BeNil())
			Expect(activities.created).To(HaveLen(1))
			Expect(*activities.created[0].NewValue).To(Equal("Unassigned"))
		})

		It("writes nothing when labels only change order", func() {
			existing.Labels = []string{"bug", "urgent"}
			_, err := svc.Update(ctx, orgID, actorID, 1, service.UpdateIssueInput{
				Labels: model.Some([]string{"urgent", "bug"}),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(activities.created).To(BeEmpty())
		})

		It("rejects a blank title", func() {
			_, err := svc.Update(ctx, orgID, actorID, 1, service.UpdateIssueInput{Title: model.Some(" ")})
			Expect(err).To(MatchError(service.ErrTitleEmpty))
		})

		It("returns ErrIssueNotFound across organizations", func() {
			_, err := svc.Update(ctx, 999, actorID, 1, service.UpdateIssueInput{Title: model.Some("x")})
			Expect(err).To(MatchError(service.ErrIssueNotFound))
		})

		It("reports a foreign issue as missing even when the body is invalid", func() {
			_, err := svc.Update(ctx, 999, actorID, 1, service.UpdateIssueInput{Title: model.Some(" ")})
			Expect(err).To(MatchError(service.ErrIssueNotFound))

			_, err = svc.Update(ctx, 999, actorID, 1, service.UpdateIssueInput{Status: model.Some(model.IssueStatus("BLOCKED"))})
			Expect(err).To(MatchError(service.ErrIssueNotFound))
		})

		DescribeTable("rejects labels create would reject",
			func(labels []string) {
				_, err := svc.Update(ctx, orgID, actorID, 1, service.UpdateIssueInput{Labels: model.Some(labels)})
				Expect(err).To(MatchError(service.ErrInvalidLabels))
				Expect(activities.created).To(BeEmpty())
			},
			Entry("empty label", []string{"bug", ""}),
			Entry("label too long", []string{strings.Repeat("x", service.MaxLabelLen+1)}),
			Entry("too many labels", make([]string, service.MaxLabels+1)),
		)

		It("accepts a label of exactly the maximum length in characters", func() {
			_, err := svc.Update(ctx, orgID, actorID, 1, service.UpdateIssueInput{
				Labels: model.Some([]string{strings.Repeat("é", service.MaxLabelLen)}),
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects an assignee outside the organization", func() {
			users.getInOrganizationFn = func(context.Context, int64, int64) (*model.User, error) {
				return nil, store.ErrNotFound
			}
			_, err := svc.Update(ctx, orgID, actorID, 1, service.UpdateIssueInput{AssigneeID: model.Some(int64(77))})
			Expect(err).To(MatchError(service.ErrAssigneeNotFound))
			Expect(activities.created).To(BeEmpty())
		})
	})

	Describe("Delete", func() {
		It("maps a missing issue", func() {
			issues.deleteFn = func(context.Context, int64, int64) error { return store.ErrNotFound }
			Expect(svc.Delete(ctx, orgID, 1)).To(MatchError(service.ErrIssueNotFound))
		})

		It("scopes the delete to the organization", func() {
			issues.deleteFn = func(_ context.Context, id, org int64) error {
				Expect(id).To(Equal(int64(1)))
				Expect(org).To(Equal(orgID))
				return nil
			}
			Expect(svc.Delete(ctx, orgID, 1)).To(Succeed())
		})
	})
})
