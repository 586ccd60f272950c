package dto

import (
	"time"

	"altis.app/tracker/internal/model"
)

type CreateCommentRequest struct {
	Content string `json:"content"`
	IssueID *ID    `json:"issueId"`
}

type UpdateCommentRequest struct {
	Content string `json:"content"`
}

type CommentResponse struct {
	ID        int64      `json:"id,string"`
	Content   string     `json:"content"`
	IssueID   int64      `json:"issueId,string"`
	AuthorID  int64      `json:"authorId,string"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Author    *UserBrief `json:"author"`
}

func ToCommentResponse(c *model.CommentWithAuthor) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		Content:   c.Content,
		IssueID:   c.IssueID,
		AuthorID:  c.AuthorID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Author:    ToUserBrief(c.Author),
	}
}

func ToCommentResponses(comments []model.CommentWithAuthor) []CommentResponse {
	out := make([]CommentResponse, len(comments))
	for i := range comments {
		out[i] = ToCommentResponse(&comments[i])
	}
	return out
}
