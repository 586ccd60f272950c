package store_test

import (
	"context"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"altis.app/tracker/common/id"
	"altis.app/tracker/core/db/sqlc"
	"altis.app/tracker/internal/model"
	"altis.app/tracker/internal/store"
)

var _ = Describe("Stores", func() {
	var (
		ctx    context.Context
		stores *store.Stores
		org    *model.Organization
		other  *model.Organization
		alice  *model.User
		bob    *model.User
	)

	newOrg := func(name string) *model.Organization {
		o := &model.Organization{ID: id.New(), Name: name, Slug: fmt.Sprintf("%s-%d", name, id.New())}
		Expect(stores.Organizations().Create(ctx, o)).To(Succeed())
		return o
	}

	newUser := func(name string, orgID int64) *model.User {
		u := &model.User{
			ID:             id.New(),
			Email:          fmt.Sprintf("%s-%d@acme.test", name, id.New()),
			PasswordHash:   "hash",
			Name:           name,
			OrganizationID: orgID,
		}
		Expect(stores.Users().Create(ctx, u)).To(Succeed())
		return u
	}

	newIssue := func(title string, orgID, creatorID int64, mutate func(*model.Issue)) *model.Issue {
		i := &model.Issue{
			ID:        id.New(),
			Title:     title,
			Status:    model.IssueStatusTodo,
			Priority:  model.IssuePriorityMedium,
			CreatorID: creatorID,
			OrgID:     orgID,
		}
		if mutate != nil {
			mutate(i)
		}
		Expect(stores.Issues().Create(ctx, i)).To(Succeed())
		return i
	}

	BeforeEach(func() {
		ctx = context.Background()
		Expect(database.WithTx(ctx, func(q *sqlc.Queries) error {
			return q.DeleteAllOrganizations(ctx)
		})).To(Succeed())
		stores = store.NewStores(database.Queries())
		org = newOrg("acme")
		other = newOrg("globex")
		alice = newUser("Alice", org.ID)
		bob = newUser("Bob", org.ID)
	})

	Describe("UserStore", func() {
		It("rejects duplicate emails with ErrConflict", func() {
			dup := &model.User{ID: id.New(), Email: alice.Email, PasswordHash: "x", Name: "Dup", OrganizationID: org.ID}
			err := stores.Users().Create(ctx, dup)
			Expect(err).To(MatchError(store.ErrConflict))
		})

		It("lists organization users by name", func() {
			newUser("Zed", other.ID)
			users, err := stores.Users().ListByOrganization(ctx, org.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(2))
			Expect(users[0].Name).To(Equal("Alice"))
			Expect(users[1].Name).To(Equal("Bob"))
		})

		It("scopes lookups to the organization", func() {
			_, err := stores.Users().GetInOrganization(ctx, alice.ID, other.ID)
			Expect(err).To(MatchError(store.ErrNotFound))
		})
	})

	Describe("IssueStore", func() {
		It("filters, searches and paginates within an organization", func() {
			newIssue("Login bug", org.ID, alice.ID, func(i *model.Issue) {
				i.Status = model.IssueStatusInProgress
				i.AssigneeID = &bob.ID
			})
			newIssue("Dark mode", org.ID, alice.ID, func(i *model.Issue) {
				desc := "Support a LOGIN screen theme"
				i.Description = &desc
			})
			newIssue("Billing", org.ID, alice.ID, nil)
			newIssue("Login elsewhere", other.ID, newUser("Eve", other.ID).ID, nil)

			search := "login"
			filter := model.IssueFilter{OrgID: org.ID, Search: &search, Page: 1, Limit: 10}
			issues, err := stores.Issues().List(ctx, filter)
			Expect(err).NotTo(HaveOccurred())
			Expect(issues).To(HaveLen(2))

			total, err := stores.Issues().Count(ctx, filter)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(2)))

			status := model.IssueStatusInProgress
			issues, err = stores.Issues().List(ctx, model.IssueFilter{OrgID: org.ID, Status: &status, AssigneeID: &bob.ID, Page: 1, Limit: 10})
			Expect(err).NotTo(HaveOccurred())
			Expect(issues).To(HaveLen(1))
			Expect(issues[0].Title).To(Equal("Login bug"))

			page2, err := stores.Issues().List(ctx, model.IssueFilter{OrgID: org.ID, Page: 2, Limit: 2})
			Expect(err).NotTo(HaveOccurred())
			Expect(page2).To(HaveLen(1))
		})

		DescribeTable("matches search wildcards literally",
			func(search string, want []string) {
				newIssue("100% done", org.ID, alice.ID, nil)
				newIssue("1000 items", org.ID, alice.ID, nil)
				newIssue("snake_case names", org.ID, alice.ID, nil)
				newIssue("snakeXcase names", org.ID, alice.ID, nil)
				newIssue(`C:\temp path`, org.ID, alice.ID, nil)

				filter := model.IssueFilter{OrgID: org.ID, Search: &search, Page: 1, Limit: 10}
				issues, err := stores.Issues().List(ctx, filter)
				Expect(err).NotTo(HaveOccurred())
				titles := make([]string, 0, len(issues))
				for _, i := range issues {
					titles = append(titles, i.Title)
				}
				Expect(titles).To(ConsistOf(want))

				total, err := stores.Issues().Count(ctx, filter)
				Expect(err).NotTo(HaveOccurred())
				Expect(total).To(Equal(int64(len(want))))
			},
			Entry("percent", "100%", []string{"100% done"}),
			Entry("lone percent", "%", []string{"100% done"}),
			Entry("underscore", "snake_case", []string{"snake_case names"}),
			Entry("lone underscore", "_", []string{"snake_case names"}),
			Entry("backslash", `:\t`, []string{`C:\temp path`}),
		)

		It("orders by most recently updated", func() {
			first := newIssue("first", org.ID, alice.ID, nil)
			newIssue("second", org.ID, alice.ID, nil)
			first.Title = "first, edited"
			Expect(stores.Issues().Update(ctx, first)).To(Succeed())

			issues, err := stores.Issues().List(ctx, model.IssueFilter{OrgID: org.ID, Page: 1, Limit: 10})
			Expect(err).NotTo(HaveOccurred())
			Expect(issues[0].ID).To(Equal(first.ID))
		})

		It("counts comments and cascades deletes", func() {
			issue := newIssue("with comments", org.ID, alice.ID, nil)
			Expect(stores.Comments().Create(ctx, &model.Comment{ID: id.New(), Content: "hi", IssueID: issue.ID, AuthorID: bob.ID})).To(Succeed())
			Expect(stores.Activities().CreateBatch(ctx, []model.Activity{
				{ID: id.New(), IssueID: issue.ID, Action: model.ActivityActionCreated},
			})).To(Succeed())

			issues, err := stores.Issues().List(ctx, model.IssueFilter{OrgID: org.ID, Page: 1, Limit: 10})
			Expect(err).NotTo(HaveOccurred())
			Expect(issues[0].CommentCount).To(Equal(int64(1)))

			Expect(stores.Issues().Delete(ctx, issue.ID, other.ID)).To(MatchError(store.ErrNotFound))
			Expect(stores.Issues().Delete(ctx, issue.ID, org.ID)).To(Succeed())

			comments, err := stores.Comments().ListByIssue(ctx, issue.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(comments).To(BeEmpty())
			activities, err := stores.Activities().ListRecentByIssue(ctx, issue.ID, 20)
			Expect(err).NotTo(HaveOccurred())
			Expect(activities).To(BeEmpty())
		})
	})

	Describe("CommentStore", func() {
		It("returns the owning organization with the comment", func() {
			issue := newIssue("discussed", org.ID, alice.ID, nil)
			c := &model.Comment{ID: id.New(), Content: "first", IssueID: issue.ID, AuthorID: alice.ID}
			Expect(stores.Comments().Create(ctx, c)).To(Succeed())

			got, orgID, err := stores.Comments().GetByID(ctx, c.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(orgID).To(Equal(org.ID))
			Expect(got.Content).To(Equal("first"))

			updated, err := stores.Comments().UpdateContent(ctx, c.ID, "edited")
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Content).To(Equal("edited"))
		})
	})

	Describe("ActivityStore", func() {
		It("returns at most the requested number, newest first", func() {
			issue := newIssue("busy", org.ID, alice.ID, nil)
			for i := 0; i < 25; i++ {
				field := fmt.Sprintf("f%d", i)
				Expect(stores.Activities().Create(ctx, &model.Activity{
					ID: id.New(), IssueID: issue.ID, Action: model.ActivityActionUpdated, Field: &field,
				})).To(Succeed())
			}

			activities, err := stores.Activities().ListRecentByIssue(ctx, issue.ID, 20)
			Expect(err).NotTo(HaveOccurred())
			Expect(activities).To(HaveLen(20))
			Expect(*activities[0].Field).To(Equal("f24"))
		})
	})
})
