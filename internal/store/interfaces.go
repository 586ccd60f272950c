package store

import (
	"context"
	"errors"

	"altis.app/tracker/internal/model"
)

var (
	// ErrNotFound is returned when a requested entity does not exist
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write violates a unique constraint
	ErrConflict = errors.New("conflict")
)

// OrganizationStore defines the contract for organization data access
type OrganizationStore interface {
	GetByID(ctx context.Context, id int64) (*model.Organization, error)
	GetBySlug(ctx context.Context, slug string) (*model.Organization, error)
	Create(ctx context.Context, org *model.Organization) error
	List(ctx context.Context) ([]model.Organization, error)
	DeleteAll(ctx context.Context) error
}

// UserStore defines the contract for user data access
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetInOrganization(ctx context.Context, id, orgID int64) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	ListByOrganization(ctx context.Context, orgID int64) ([]model.User, error)
	ListByIDs(ctx context.Context, ids []int64) ([]model.User, error)
}

// IssueStore defines the contract for issue data access. Every lookup is
// scoped to an organization.
type IssueStore interface {
	GetInOrganization(ctx context.Context, id, orgID int64) (*model.Issue, error)
	Create(ctx context.Context, issue *model.Issue) error
	Update(ctx context.Context, issue *model.Issue) error
	Delete(ctx context.Context, id, orgID int64) error
	// List returns one page ordered by last update, newest first. People are not resolved.
	List(ctx context.Context, filter model.IssueFilter) ([]model.IssueSummary, error)
	Count(ctx context.Context, filter model.IssueFilter) (int64, error)
}

// CommentStore defines the contract for comment data access
type CommentStore interface {
	// GetByID also returns the organization owning the comment's issue.
	GetByID(ctx context.Context, id int64) (*model.Comment, int64, error)
	Create(ctx context.Context, comment *model.Comment) error
	UpdateContent(ctx context.Context, id int64, content string) (*model.Comment, error)
	Delete(ctx context.Context, id int64) error
	ListByIssue(ctx context.Context, issueID int64) ([]model.Comment, error)
}

// ActivityStore defines the contract for the append-only activity log
type ActivityStore interface {
	Create(ctx context.Context, activity *model.Activity) error
	CreateBatch(ctx context.Context, activities []model.Activity) error
	ListRecentByIssue(ctx context.Context, issueID int64, limit int32) ([]model.Activity, error)
}
