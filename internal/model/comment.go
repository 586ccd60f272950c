package model

import "time"

type Comment struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	IssueID   int64     `json:"issue_id"`
	AuthorID  int64     `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CommentWithAuthor struct {
	Comment
	Author *UserBrief `json:"author,omitempty"`
}
