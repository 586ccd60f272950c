package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"altis.app/tracker/common/id"
	"altis.app/tracker/common/logger"
	"altis.app/tracker/internal/model"
	"altis.app/tracker/internal/store"
)

const recentActivityLimit = 20

const (
	MaxLabels   = 50
	MaxLabelLen = 50
)

type CreateIssueInput struct {
	Title       string
	Description *string
	Status      model.IssueStatus
	Priority    model.IssuePriority
	AssigneeID  *int64
	Labels      []string
}

// UpdateIssueInput carries a partial update. Fields left unset keep their value.
type UpdateIssueInput struct {
	Title       model.Optional[string]
	Description model.Optional[string]
	Status      model.Optional[model.IssueStatus]
	Priority    model.Optional[model.IssuePriority]
	AssigneeID  model.Optional[int64]
	Labels      model.Optional[[]string]
}

type IssueService interface {
	List(ctx context.Context, filter model.IssueFilter) (*model.IssuePage, error)
	Get(ctx context.Context, orgID, issueID int64) (*model.IssueDetail, error)
	Create(ctx context.Context, orgID, actorID int64, in CreateIssueInput) (*model.IssueSummary, error)
	Update(ctx context.Context, orgID, actorID, issueID int64, in UpdateIssueInput) (*model.IssueSummary, error)
	Delete(ctx context.Context, orgID, issueID int64) error
}

type issueService struct {
	issues     store.IssueStore
	comments   store.CommentStore
	activities store.ActivityStore
	txRunner   TxRunner
	directory  UserDirectory
	publisher  ActivityPublisher
	now        func() time.Time
}

func NewIssueService(
	issues store.IssueStore,
	comments store.CommentStore,
	activities store.ActivityStore,
	txRunner TxRunner,
	directory UserDirectory,
	publisher ActivityPublisher,
) IssueService {
	return &issueService{
		issues:     issues,
		comments:   comments,
		activities: activities,
		txRunner:   txRunner,
		directory:  directory,
		publisher:  publisher,
		now:        time.Now,
	}
}

func (s *issueService) List(ctx context.Context, filter model.IssueFilter) (*model.IssuePage, error) {
	var (
		issues []model.IssueSummary
		total  int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		issues, err = s.issues.List(gctx, filter)
		if err != nil {
			return fmt.Errorf("listing issues: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		total, err = s.issues.Count(gctx, filter)
		if err != nil {
			return fmt.Errorf("counting issues: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		slog.ErrorContext(ctx, "failed to load issue page", "error", err, "organization_id", filter.OrgID)
		return nil, err
	}

	ids := make([]int64, 0, len(issues)*2)
	for _, issue := range issues {
		ids = append(ids, issue.CreatorID)
		if issue.AssigneeID != nil {
			ids = append(ids, *issue.AssigneeID)
		}
	}
	people, err := s.directory.Lookup(ctx, ids...)
	if err != nil {
		return nil, err
	}
	for i := range issues {
		attachPeople(&issues[i], people)
	}

	var totalPages int64
	if filter.Limit > 0 {
		totalPages = (total + int64(filter.Limit) - 1) / int64(filter.Limit)
	}

	return &model.IssuePage{
		Issues:     issues,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *issueService) Get(ctx context.Context, orgID, issueID int64) (*model.IssueDetail, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{IssueID: &issueID})

	issue, err := s.issues.GetInOrganization(ctx, issueID, orgID)
	if err != nil {
		return nil, issueLookupErr(ctx, err)
	}

	var (
		comments   []model.Comment
		activities []model.Activity
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		comments, err = s.comments.ListByIssue(gctx, issueID)
		if err != nil {
			return fmt.Errorf("listing comments: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		activities, err = s.activities.ListRecentByIssue(gctx, issueID, recentActivityLimit)
		if err != nil {
			return fmt.Errorf("listing activities: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		slog.ErrorContext(ctx, "failed to load issue detail", "error", err)
		return nil, err
	}

	ids := []int64{issue.CreatorID}
	if issue.AssigneeID != nil {
		ids = append(ids, *issue.AssigneeID)
	}
	for _, c := range comments {
		ids = append(ids, c.AuthorID)
	}
	people, err := s.directory.Lookup(ctx, ids...)
	if err != nil {
		return nil, err
	}

	detail := &model.IssueDetail{
		Issue:      *issue,
		Creator:    people[issue.CreatorID],
		Comments:   withAuthors(comments, people),
		Activities: activities,
	}
	if issue.AssigneeID != nil {
		detail.Assignee = people[*issue.AssigneeID]
	}
	return detail, nil
}

func (s *issueService) Create(ctx context.Context, orgID, actorID int64, in CreateIssueInput) (*model.IssueSummary, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if in.Status == "" {
		in.Status = model.IssueStatusTodo
	}
	if in.Priority == "" {
		in.Priority = model.IssuePriorityMedium
	}
	if !in.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if !in.Priority.Valid() {
		return nil, ErrInvalidPriority
	}
	if err := validateLabels(in.Labels); err != nil {
		return nil, err
	}
	if in.Labels == nil {
		in.Labels = []string{}
	}

	issue := &model.Issue{
		ID:          id.New(),
		Title:       title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		Labels:      in.Labels,
		AssigneeID:  in.AssigneeID,
		CreatorID:   actorID,
		OrgID:       orgID,
	}
	activity := model.Activity{
		ID:       id.New(),
		IssueID:  issue.ID,
		Action:   model.ActivityActionCreated,
		Field:    logger.Ptr("issue"),
		NewValue: logger.Ptr("Issue created"),
	}

	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		if in.AssigneeID != nil {
			if err := checkAssignee(ctx, stores.Users(), *in.AssigneeID, orgID); err != nil {
				return err
			}
		}
		if err := stores.Issues().Create(ctx, issue); err != nil {
			return fmt.Errorf("creating issue: %w", err)
		}
		if err := stores.Activities().Create(ctx, &activity); err != nil {
			return fmt.Errorf("recording activity: %w", err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrAssigneeNotFound) {
			slog.ErrorContext(ctx, "failed to create issue", "error", err)
		}
		return nil, err
	}

	slog.InfoContext(ctx, "issue created", "issue_id", issue.ID)
	s.publisher.Publish(ctx, orgID, actorID, []model.Activity{activity})
	return s.summarize(ctx, issue)
}

func (s *issueService) Update(ctx context.Context, orgID, actorID, issueID int64, in UpdateIssueInput) (*model.IssueSummary, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{IssueID: &issueID})

	var (
		updated *model.Issue
		written []model.Activity
	)
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		before, err := stores.Issues().GetInOrganization(ctx, issueID, orgID)
		if err != nil {
			return issueLookupErr(ctx, err)
		}
		// Validated after the lookup so a foreign issue is a 404 whatever the body.
		if err := validateIssueUpdate(in); err != nil {
			return err
		}

		after := applyIssueUpdate(*before, in)
		if in.AssigneeID.Set && after.AssigneeID != nil {
			if err := checkAssignee(ctx, stores.Users(), *after.AssigneeID, orgID); err != nil {
				return err
			}
		}

		if err := stores.Issues().Update(ctx, &after); err != nil {
			return fmt.Errorf("updating issue: %w", err)
		}

		names, err := s.assigneeNames(ctx, before.AssigneeID, after.AssigneeID)
		if err != nil {
			return err
		}

		now := s.now()
		for _, change := range DiffIssue(before, &after, names) {
			written = append(written, model.Activity{
				ID:        id.New(),
				IssueID:   issueID,
				Action:    model.ActivityActionUpdated,
				Field:     logger.Ptr(change.Field),
				OldValue:  logger.Ptr(change.OldValue),
				NewValue:  logger.Ptr(change.NewValue),
				CreatedAt: now,
			})
		}
		if err := stores.Activities().CreateBatch(ctx, written); err != nil {
			return fmt.Errorf("recording activities: %w", err)
		}

		updated = &after
		return nil
	})
	if err != nil {
		if !isIssueInputErr(err) {
			slog.ErrorContext(ctx, "failed to update issue", "error", err)
		}
		return nil, err
	}

	slog.InfoContext(ctx, "issue updated", "changes", len(written))
	s.publisher.Publish(ctx, orgID, actorID, written)
	return s.summarize(ctx, updated)
}

func validateIssueUpdate(in UpdateIssueInput) error {
	if in.Title.Set && (in.Title.Value == nil || strings.TrimSpace(*in.Title.Value) == "") {
		return ErrTitleEmpty
	}
	if in.Status.Set && (in.Status.Value == nil || !in.Status.Value.Valid()) {
		return ErrInvalidStatus
	}
	if in.Priority.Set && (in.Priority.Value == nil || !in.Priority.Value.Valid()) {
		return ErrInvalidPriority
	}
	if in.Labels.Set && in.Labels.Value != nil {
		return validateLabels(*in.Labels.Value)
	}
	return nil
}

// validateLabels allows at most MaxLabels labels of 1 to MaxLabelLen characters.
func validateLabels(labels []string) error {
	if len(labels) > MaxLabels {
		return ErrInvalidLabels
	}
	for _, l := range labels {
		if n := utf8.RuneCountInString(l); n == 0 || n > MaxLabelLen {
			return ErrInvalidLabels
		}
	}
	return nil
}

func isIssueInputErr(err error) bool {
	for _, target := range []error{
		ErrIssueNotFound, ErrAssigneeNotFound, ErrTitleEmpty,
		ErrInvalidStatus, ErrInvalidPriority, ErrInvalidLabels,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (s *issueService) Delete(ctx context.Context, orgID, issueID int64) error {
	if err := s.issues.Delete(ctx, issueID, orgID); err != nil {
		return issueLookupErr(ctx, err)
	}
	slog.InfoContext(ctx, "issue deleted", "issue_id", issueID)
	return nil
}

func (s *issueService) assigneeNames(ctx context.Context, ids ...*int64) (map[int64]string, error) {
	var lookup []int64
	for _, userID := range ids {
		if userID != nil {
			lookup = append(lookup, *userID)
		}
	}
	names := make(map[int64]string, len(lookup))
	if len(lookup) == 0 {
		return names, nil
	}
	people, err := s.directory.Lookup(ctx, lookup...)
	if err != nil {
		return nil, err
	}
	for userID, brief := range people {
		names[userID] = brief.Name
	}
	return names, nil
}

func (s *issueService) summarize(ctx context.Context, issue *model.Issue) (*model.IssueSummary, error) {
	ids := []int64{issue.CreatorID}
	if issue.AssigneeID != nil {
		ids = append(ids, *issue.AssigneeID)
	}
	people, err := s.directory.Lookup(ctx, ids...)
	if err != nil {
		return nil, err
	}
	summary := &model.IssueSummary{Issue: *issue}
	attachPeople(summary, people)
	return summary, nil
}

func applyIssueUpdate(issue model.Issue, in UpdateIssueInput) model.Issue {
	if in.Title.Set {
		issue.Title = strings.TrimSpace(*in.Title.Value)
	}
	if in.Description.Set {
		issue.Description = in.Description.Value
	}
	if in.Status.Set {
		issue.Status = *in.Status.Value
	}
	if in.Priority.Set {
		issue.Priority = *in.Priority.Value
	}
	if in.AssigneeID.Set {
		issue.AssigneeID = in.AssigneeID.Value
	}
	if in.Labels.Set {
		issue.Labels = []string{}
		if in.Labels.Value != nil {
			issue.Labels = *in.Labels.Value
		}
	}
	return issue
}

func checkAssignee(ctx context.Context, users store.UserStore, assigneeID, orgID int64) error {
	if _, err := users.GetInOrganization(ctx, assigneeID, orgID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAssigneeNotFound
		}
		return fmt.Errorf("checking assignee: %w", err)
	}
	return nil
}

func issueLookupErr(ctx context.Context, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrIssueNotFound
	}
	slog.ErrorContext(ctx, "failed to load issue", "error", err)
	return fmt.Errorf("getting issue: %w", err)
}

func attachPeople(summary *model.IssueSummary, people map[int64]*model.UserBrief) {
	summary.Creator = people[summary.CreatorID]
	if summary.AssigneeID != nil {
		summary.Assignee = people[*summary.AssigneeID]
	}
}

func withAuthors(comments []model.Comment, people map[int64]*model.UserBrief) []model.CommentWithAuthor {
	out := make([]model.CommentWithAuthor, len(comments))
	for i, c := range comments {
		out[i] = model.CommentWithAuthor{Comment: c, Author: people[c.AuthorID]}
	}
	return out
}
