package service

import "errors"

var (
	ErrMissingFields        = errors.New("all fields are required")
	ErrEmailTaken           = errors.New("email already registered")
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUserNotFound         = errors.New("user not found")
	ErrSlugUnavailable      = errors.New("no available slug")

	ErrIssueNotFound    = errors.New("issue not found")
	ErrAssigneeNotFound = errors.New("assignee not found in organization")
	ErrTitleRequired    = errors.New("title is required")
	ErrTitleEmpty       = errors.New("title cannot be empty")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidPriority  = errors.New("invalid priority")
	ErrInvalidLabels    = errors.New("invalid labels")

	ErrCommentNotFound  = errors.New("comment not found")
	ErrContentRequired  = errors.New("content is required")
	ErrNotCommentAuthor = errors.New("not the comment author")
	ErrAccessDenied     = errors.New("access denied")
)
