package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"altis.app/tracker/common/id"
	"altis.app/tracker/common/logger"
	"altis.app/tracker/internal/model"
	"altis.app/tracker/internal/store"
)

type CommentService interface {
	ListByIssue(ctx context.Context, orgID, issueID int64) ([]model.CommentWithAuthor, error)
	Create(ctx context.Context, orgID, authorID, issueID int64, content string) (*model.CommentWithAuthor, error)
	Update(ctx context.Context, orgID, actorID, commentID int64, content string) (*model.CommentWithAuthor, error)
	Delete(ctx context.Context, orgID, actorID, commentID int64) error
}

type commentService struct {
	issues    store.IssueStore
	comments  store.CommentStore
	txRunner  TxRunner
	directory UserDirectory
	publisher ActivityPublisher
}

func NewCommentService(
	issues store.IssueStore,
	comments store.CommentStore,
	txRunner TxRunner,
	directory UserDirectory,
	publisher ActivityPublisher,
) CommentService {
	return &commentService{
		issues:    issues,
		comments:  comments,
		txRunner:  txRunner,
		directory: directory,
		publisher: publisher,
	}
}

func (s *commentService) ListByIssue(ctx context.Context, orgID, issueID int64) ([]model.CommentWithAuthor, error) {
	if _, err := s.issues.GetInOrganization(ctx, issueID, orgID); err != nil {
		return nil, issueLookupErr(ctx, err)
	}

	comments, err := s.comments.ListByIssue(ctx, issueID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list comments", "error", err, "issue_id", issueID)
		return nil, fmt.Errorf("listing comments: %w", err)
	}

	ids := make([]int64, len(comments))
	for i, c := range comments {
		ids[i] = c.AuthorID
	}
	people, err := s.directory.Lookup(ctx, ids...)
	if err != nil {
		return nil, err
	}
	return withAuthors(comments, people), nil
}

func (s *commentService) Create(ctx context.Context, orgID, authorID, issueID int64, content string) (*model.CommentWithAuthor, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrContentRequired
	}
	ctx = logger.WithLogFields(ctx, logger.LogFields{IssueID: &issueID})

	author, err := s.author(ctx, authorID)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		ID:       id.New(),
		Content:  content,
		IssueID:  issueID,
		AuthorID: authorID,
	}
	activity := model.Activity{
		ID:       id.New(),
		IssueID:  issueID,
		Action:   model.ActivityActionAddedComment,
		Field:    logger.Ptr(authorName(author)),
		NewValue: logger.Ptr(Preview(content)),
	}

	err = s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		if _, err := stores.Issues().GetInOrganization(ctx, issueID, orgID); err != nil {
			return issueLookupErr(ctx, err)
		}
		if err := stores.Comments().Create(ctx, comment); err != nil {
			return fmt.Errorf("creating comment: %w", err)
		}
		if err := stores.Activities().Create(ctx, &activity); err != nil {
			return fmt.Errorf("recording activity: %w", err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrIssueNotFound) {
			slog.ErrorContext(ctx, "failed to create comment", "error", err)
		}
		return nil, err
	}

	slog.InfoContext(ctx, "comment created", "comment_id", comment.ID)
	s.publisher.Publish(ctx, orgID, authorID, []model.Activity{activity})
	return &model.CommentWithAuthor{Comment: *comment, Author: author}, nil
}

func (s *commentService) Update(ctx context.Context, orgID, actorID, commentID int64, content string) (*model.CommentWithAuthor, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrContentRequired
	}

	if _, err := s.authorize(ctx, orgID, actorID, commentID); err != nil {
		return nil, err
	}

	updated, err := s.comments.UpdateContent(ctx, commentID, content)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		slog.ErrorContext(ctx, "failed to update comment", "error", err, "comment_id", commentID)
		return nil, fmt.Errorf("updating comment: %w", err)
	}

	author, err := s.author(ctx, updated.AuthorID)
	if err != nil {
		return nil, err
	}
	return &model.CommentWithAuthor{Comment: *updated, Author: author}, nil
}

func (s *commentService) Delete(ctx context.Context, orgID, actorID, commentID int64) error {
	comment, err := s.authorize(ctx, orgID, actorID, commentID)
	if err != nil {
		return err
	}
	ctx = logger.WithLogFields(ctx, logger.LogFields{IssueID: &comment.IssueID})

	author, err := s.author(ctx, comment.AuthorID)
	if err != nil {
		return err
	}

	activity := model.Activity{
		ID:       id.New(),
		IssueID:  comment.IssueID,
		Action:   model.ActivityActionDeletedComment,
		Field:    logger.Ptr(authorName(author)),
		OldValue: logger.Ptr(Preview(comment.Content)),
	}

	err = s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		if err := stores.Comments().Delete(ctx, commentID); err != nil {
			return fmt.Errorf("deleting comment: %w", err)
		}
		if err := stores.Activities().Create(ctx, &activity); err != nil {
			return fmt.Errorf("recording activity: %w", err)
		}
		return nil
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to delete comment", "error", err, "comment_id", commentID)
		return err
	}

	slog.InfoContext(ctx, "comment deleted", "comment_id", commentID)
	s.publisher.Publish(ctx, orgID, actorID, []model.Activity{activity})
	return nil
}

// authorize loads a comment and checks that actorID may change it.
func (s *commentService) authorize(ctx context.Context, orgID, actorID, commentID int64) (*model.Comment, error) {
	comment, commentOrgID, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		slog.ErrorContext(ctx, "failed to load comment", "error", err, "comment_id", commentID)
		return nil, fmt.Errorf("getting comment: %w", err)
	}
	if comment.AuthorID != actorID {
		return nil, ErrNotCommentAuthor
	}
	if commentOrgID != orgID {
		return nil, ErrAccessDenied
	}
	return comment, nil
}

func (s *commentService) author(ctx context.Context, userID int64) (*model.UserBrief, error) {
	people, err := s.directory.Lookup(ctx, userID)
	if err != nil {
		return nil, err
	}
	return people[userID], nil
}

func authorName(author *model.UserBrief) string {
	if author == nil {
		return unknownName
	}
	return author.Name
}
