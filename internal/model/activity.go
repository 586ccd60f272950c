package model

import "time"

type ActivityAction string

const (
	ActivityActionCreated        ActivityAction = "created"
	ActivityActionUpdated        ActivityAction = "updated"
	ActivityActionAddedComment   ActivityAction = "added comment"
	ActivityActionDeletedComment ActivityAction = "deleted comment"
)

// Activity is an immutable audit entry on an issue.
type Activity struct {
	ID        int64          `json:"id"`
	IssueID   int64          `json:"issue_id"`
	Action    ActivityAction `json:"action"`
	Field     *string        `json:"field,omitempty"`
	OldValue  *string        `json:"old_value,omitempty"`
	NewValue  *string        `json:"new_value,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
