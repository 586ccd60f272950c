package seed_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"altis.app/tracker/internal/model"
	"altis.app/tracker/internal/seed"
)

var _ = Describe("Run", func() {
	var (
		ctx context.Context
		db  *memoryDB
	)

	BeforeEach(func() {
		ctx = context.Background()
		db = &memoryDB{}
	})

	It("loads the Acme demo dataset", func() {
		result, err := seed.Run(ctx, memoryTx{db}, plainHasher{}, seed.Options{Seed: 42})
		Expect(err).NotTo(HaveOccurred())

		Expect(db.wiped).To(Equal(1))
		Expect(db.organizations).To(HaveLen(1))
		Expect(db.organizations[0].Name).To(Equal("Acme"))

		Expect(db.users).To(HaveLen(3))
		for _, u := range db.users {
			Expect(u.PasswordHash).To(Equal("hashed:" + seed.DemoPassword))
			Expect(u.OrganizationID).To(Equal(result.Organization.ID))
		}
		Expect(db.users[0].Email).To(Equal("admin@acme.com"))

		Expect(db.issues).To(HaveLen(30))
		Expect(result.Issues).To(Equal(30))
		Expect(result.Comments).To(Equal(len(db.comments)))
	})

	It("writes one created activity per issue", func() {
		_, err := seed.Run(ctx, memoryTx{db}, plainHasher{}, seed.Options{Issues: 5, Seed: 7})
		Expect(err).NotTo(HaveOccurred())

		Expect(db.activities).To(HaveLen(5))
		for i, a := range db.activities {
			Expect(a.Action).To(Equal(model.ActivityActionCreated))
			Expect(a.IssueID).To(Equal(db.issues[i].ID))
		}
	})

	It("generates valid issues", func() {
		_, err := seed.Run(ctx, memoryTx{db}, plainHasher{}, seed.Options{Seed: 3})
		Expect(err).NotTo(HaveOccurred())

		userIDs := map[int64]bool{}
		for _, u := range db.users {
			userIDs[u.ID] = true
		}
		for _, issue := range db.issues {
			Expect(issue.Status.Valid()).To(BeTrue())
			Expect(issue.Priority.Valid()).To(BeTrue())
			Expect(len(issue.Labels)).To(BeNumerically("<=", 2))
			Expect(userIDs).To(HaveKey(issue.CreatorID))
			if issue.AssigneeID != nil {
				Expect(userIDs).To(HaveKey(*issue.AssigneeID))
			}
		}
		for _, c := range db.comments {
			Expect(userIDs).To(HaveKey(c.AuthorID))
		}
	})

	It("is reproducible for a fixed seed", func() {
		_, err := seed.Run(ctx, memoryTx{db}, plainHasher{}, seed.Options{Seed: 99})
		Expect(err).NotTo(HaveOccurred())
		first := make([]string, len(db.issues))
		for i, issue := range db.issues {
			first[i] = issue.Title
		}

		_, err = seed.Run(ctx, memoryTx{db}, plainHasher{}, seed.Options{Seed: 99})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.wiped).To(Equal(2))
		Expect(db.issues).To(HaveLen(len(first)))
		for i, issue := range db.issues {
			Expect(issue.Title).To(Equal(first[i]))
		}
	})
})
