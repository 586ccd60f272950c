package store

import (
	"context"

	"altis.app/tracker/core/db/sqlc"
	"altis.app/tracker/internal/model"
)

type commentStore struct {
	queries *sqlc.Queries
}

func newCommentStore(queries *sqlc.Queries) CommentStore {
	return &commentStore{queries: queries}
}

func (s *commentStore) GetByID(ctx context.Context, id int64) (*model.Comment, int64, error) {
	row, err := s.queries.GetComment(ctx, id)
	if err != nil {
		return nil, 0, translate(err)
	}
	return &model.Comment{
		ID:        row.ID,
		Content:   row.Content,
		IssueID:   row.IssueID,
		AuthorID:  row.AuthorID,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}, row.OrgID, nil
}

func (s *commentStore) Create(ctx context.Context, comment *model.Comment) error {
	row, err := s.queries.CreateComment(ctx, sqlc.CreateCommentParams{
		ID:       comment.ID,
		Content:  comment.Content,
		IssueID:  comment.IssueID,
		AuthorID: comment.AuthorID,
	})
	if err != nil {
		return translate(err)
	}
	*comment = *toCommentModel(row)
	return nil
}

func (s *commentStore) UpdateContent(ctx context.Context, id int64, content string) (*model.Comment, error) {
	row, err := s.queries.UpdateCommentContent(ctx, sqlc.UpdateCommentContentParams{
		ID:      id,
		Content: content,
	})
	if err != nil {
		return nil, translate(err)
	}
	return toCommentModel(row), nil
}

func (s *commentStore) Delete(ctx context.Context, id int64) error {
	return s.queries.DeleteComment(ctx, id)
}

func (s *commentStore) ListByIssue(ctx context.Context, issueID int64) ([]model.Comment, error) {
	rows, err := s.queries.ListCommentsByIssue(ctx, issueID)
	if err != nil {
		return nil, err
	}
	comments := make([]model.Comment, len(rows))
	for i, row := range rows {
		comments[i] = *toCommentModel(row)
	}
	return comments, nil
}

func toCommentModel(row sqlc.Comment) *model.Comment {
	return &model.Comment{
		ID:        row.ID,
		Content:   row.Content,
		IssueID:   row.IssueID,
		AuthorID:  row.AuthorID,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}
