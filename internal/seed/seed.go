package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"altis.app/tracker/common/id"
	"altis.app/tracker/internal/auth"
	"altis.app/tracker/internal/model"
	"altis.app/tracker/internal/service"
)

const DemoPassword = "password123"

var (
	createdField = "issue"
	createdValue = "Issue created"
)

var (
	demoUsers = []struct{ email, name string }{
		{"admin@acme.com", "Admin User"},
		{"member1@acme.com", "Member One"},
		{"member2@acme.com", "Member Two"},
	}
	statuses   = []model.IssueStatus{model.IssueStatusTodo, model.IssueStatusInProgress, model.IssueStatusDone}
	priorities = []model.IssuePriority{model.IssuePriorityLow, model.IssuePriorityMedium, model.IssuePriorityHigh}
	labels     = []string{"bug", "feature", "urgent", "documentation", "enhancement"}
	titles     = []string{
		"Fix login bug",
		"Add dark mode",
		"Improve performance",
		"Update documentation",
		"Refactor API",
		"Add unit tests",
		"Fix UI alignment",
		"Implement search",
		"Add export feature",
		"Optimize database queries",
	}
)

type Options struct {
	Issues int
	// Seed makes the generated data reproducible. Zero picks a random seed.
	Seed uint64
}

type Result struct {
	Organization model.Organization
	Users        []model.User
	Issues       int
	Comments     int
}

// Run wipes every organization (and, by cascade, all tenant data) and loads
// the Acme demo dataset in a single transaction.
func Run(ctx context.Context, txRunner service.TxRunner, hasher auth.PasswordHasher, opts Options) (*Result, error) {
	if opts.Issues <= 0 {
		opts.Issues = 30
	}
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1))

	hash, err := hasher.Hash(DemoPassword)
	if err != nil {
		return nil, fmt.Errorf("hashing demo password: %w", err)
	}

	result := &Result{}
	err = txRunner.WithTx(ctx, func(sp service.StoreProvider) error {
		if err := sp.Organizations().DeleteAll(ctx); err != nil {
			return fmt.Errorf("wiping organizations: %w", err)
		}

		org := model.Organization{ID: id.New(), Name: "Acme", Slug: "acme"}
		if err := sp.Organizations().Create(ctx, &org); err != nil {
			return fmt.Errorf("creating organization: %w", err)
		}
		result.Organization = org

		for _, du := range demoUsers {
			user := model.User{
				ID:             id.New(),
				Email:          du.email,
				PasswordHash:   hash,
				Name:           du.name,
				OrganizationID: org.ID,
			}
			if err := sp.Users().Create(ctx, &user); err != nil {
				return fmt.Errorf("creating user %s: %w", du.email, err)
			}
			result.Users = append(result.Users, user)
		}

		for i := 1; i <= opts.Issues; i++ {
			issue := randomIssue(rng, i, org.ID, result.Users)
			if err := sp.Issues().Create(ctx, &issue); err != nil {
				return fmt.Errorf("creating issue %d: %w", i, err)
			}
			if err := sp.Activities().Create(ctx, &model.Activity{
				ID:       id.New(),
				IssueID:  issue.ID,
				Action:   model.ActivityActionCreated,
				Field:    &createdField,
				NewValue: &createdValue,
			}); err != nil {
				return fmt.Errorf("creating activity for issue %d: %w", i, err)
			}
			result.Issues++

			for j := range rng.IntN(4) {
				comment := model.Comment{
					ID:       id.New(),
					Content:  fmt.Sprintf("Comment %d on issue %d", j+1, i),
					IssueID:  issue.ID,
					AuthorID: pick(rng, result.Users).ID,
				}
				if err := sp.Comments().Create(ctx, &comment); err != nil {
					return fmt.Errorf("creating comment on issue %d: %w", i, err)
				}
				result.Comments++
			}
		}
		return nil
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to seed demo data", "error", err)
		return nil, err
	}

	slog.InfoContext(ctx, "demo data seeded",
		"organization_id", result.Organization.ID,
		"issues", result.Issues,
		"comments", result.Comments,
		"seed", seed)
	return result, nil
}

func randomIssue(rng *rand.Rand, n int, orgID int64, users []model.User) model.Issue {
	description := fmt.Sprintf("Description for issue %d. This is a sample markdown content.\n\n**Bold text** and *italic text*.", n)

	issue := model.Issue{
		ID:          id.New(),
		Title:       fmt.Sprintf("Issue #%d: %s", n, pick(rng, titles)),
		Description: &description,
		Status:      pick(rng, statuses),
		Priority:    pick(rng, priorities),
		Labels:      randomLabels(rng),
		CreatorID:   pick(rng, users).ID,
		OrgID:       orgID,
	}
	if rng.Float64() > 0.2 {
		assignee := pick(rng, users).ID
		issue.AssigneeID = &assignee
	}
	return issue
}

func randomLabels(rng *rand.Rand) []string {
	out := []string{}
	seen := map[string]bool{}
	for range rng.IntN(3) {
		l := pick(rng, labels)
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}

func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.IntN(len(items))]
}
