package model

import (
	"math"
	"time"
)

type (
	IssueStatus   string
	IssuePriority string
)

const (
	IssueStatusTodo       IssueStatus = "TODO"
	IssueStatusInProgress IssueStatus = "IN_PROGRESS"
	IssueStatusDone       IssueStatus = "DONE"
)

const (
	IssuePriorityLow    IssuePriority = "LOW"
	IssuePriorityMedium IssuePriority = "MED"
	IssuePriorityHigh   IssuePriority = "HIGH"
)

func (s IssueStatus) Valid() bool {
	switch s {
	case IssueStatusTodo, IssueStatusInProgress, IssueStatusDone:
		return true
	}
	return false
}

func (p IssuePriority) Valid() bool {
	switch p {
	case IssuePriorityLow, IssuePriorityMedium, IssuePriorityHigh:
		return true
	}
	return false
}

type Issue struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Description *string       `json:"description,omitempty"`
	Status      IssueStatus   `json:"status"`
	Priority    IssuePriority `json:"priority"`
	Labels      []string      `json:"labels"`
	AssigneeID  *int64        `json:"assignee_id,omitempty"`
	CreatorID   int64         `json:"creator_id"`
	OrgID       int64         `json:"org_id"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// IssueSummary is an issue row in the list view with its people resolved.
type IssueSummary struct {
	Issue
	Assignee     *UserBrief `json:"assignee,omitempty"`
	Creator      *UserBrief `json:"creator,omitempty"`
	CommentCount int64      `json:"comment_count"`
}

// IssueDetail is a single issue with its discussion and recent history.
type IssueDetail struct {
	Issue
	Assignee   *UserBrief
	Creator    *UserBrief
	Comments   []CommentWithAuthor
	Activities []Activity
}

// IssueFilter narrows the issue list. Nil fields do not filter.
type IssueFilter struct {
	OrgID      int64
	Status     *IssueStatus
	Priority   *IssuePriority
	AssigneeID *int64
	Search     *string
	Page       int32
	Limit      int32
}

// MaxOffset is the largest row offset a page may start at.
const MaxOffset = math.MaxInt32

// OffsetInRange reports whether the page starts at an offset PostgreSQL can take.
func (f IssueFilter) OffsetInRange() bool {
	if f.Page < 1 {
		return true
	}
	return int64(f.Page-1)*int64(f.Limit) <= MaxOffset
}

func (f IssueFilter) Offset() int32 {
	if f.Page < 1 {
		return 0
	}
	return int32(min(int64(f.Page-1)*int64(f.Limit), MaxOffset))
}

type IssuePage struct {
	Issues     []IssueSummary
	Total      int64
	Page       int32
	Limit      int32
	TotalPages int64
}
