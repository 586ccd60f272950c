package store

import (
	"context"
	"strings"

	"altis.app/tracker/core/db/sqlc"
	"altis.app/tracker/internal/model"
)

type issueStore struct {
	queries *sqlc.Queries
}

func newIssueStore(queries *sqlc.Queries) IssueStore {
	return &issueStore{queries: queries}
}

func (s *issueStore) GetInOrganization(ctx context.Context, id, orgID int64) (*model.Issue, error) {
	row, err := s.queries.GetIssueInOrganization(ctx, sqlc.GetIssueInOrganizationParams{
		ID:    id,
		OrgID: orgID,
	})
	if err != nil {
		return nil, translate(err)
	}
	return toIssueModel(row), nil
}

func (s *issueStore) Create(ctx context.Context, issue *model.Issue) error {
	row, err := s.queries.CreateIssue(ctx, sqlc.CreateIssueParams{
		ID:          issue.ID,
		Title:       issue.Title,
		Description: issue.Description,
		Status:      string(issue.Status),
		Priority:    string(issue.Priority),
		Labels:      nonNilLabels(issue.Labels),
		AssigneeID:  issue.AssigneeID,
		CreatorID:   issue.CreatorID,
		OrgID:       issue.OrgID,
	})
	if err != nil {
		return translate(err)
	}
	*issue = *toIssueModel(row)
	return nil
}

func (s *issueStore) Update(ctx context.Context, issue *model.Issue) error {
	row, err := s.queries.UpdateIssue(ctx, sqlc.UpdateIssueParams{
		ID:          issue.ID,
		OrgID:       issue.OrgID,
		Title:       issue.Title,
		Description: issue.Description,
		Status:      string(issue.Status),
		Priority:    string(issue.Priority),
		Labels:      nonNilLabels(issue.Labels),
		AssigneeID:  issue.AssigneeID,
	})
	if err != nil {
		return translate(err)
	}
	*issue = *toIssueModel(row)
	return nil
}

func (s *issueStore) Delete(ctx context.Context, id, orgID int64) error {
	n, err := s.queries.DeleteIssue(ctx, sqlc.DeleteIssueParams{ID: id, OrgID: orgID})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *issueStore) List(ctx context.Context, filter model.IssueFilter) ([]model.IssueSummary, error) {
	rows, err := s.queries.ListIssues(ctx, sqlc.ListIssuesParams{
		OrgID:      filter.OrgID,
		Status:     (*string)(filter.Status),
		Priority:   (*string)(filter.Priority),
		AssigneeID: filter.AssigneeID,
		Search:     escapeLike(filter.Search),
		PageLimit:  filter.Limit,
		PageOffset: filter.Offset(),
	})
	if err != nil {
		return nil, err
	}

	issues := make([]model.IssueSummary, len(rows))
	for i, row := range rows {
		issues[i] = model.IssueSummary{
			Issue: *toIssueModel(sqlc.Issue{
				ID:          row.ID,
				Title:       row.Title,
				Description: row.Description,
				Status:      row.Status,
				Priority:    row.Priority,
				Labels:      row.Labels,
				AssigneeID:  row.AssigneeID,
				CreatorID:   row.CreatorID,
				OrgID:       row.OrgID,
				CreatedAt:   row.CreatedAt,
				UpdatedAt:   row.UpdatedAt,
			}),
			CommentCount: row.CommentCount,
		}
	}
	return issues, nil
}

func (s *issueStore) Count(ctx context.Context, filter model.IssueFilter) (int64, error) {
	return s.queries.CountIssues(ctx, sqlc.CountIssuesParams{
		OrgID:      filter.OrgID,
		Status:     (*string)(filter.Status),
		Priority:   (*string)(filter.Priority),
		AssigneeID: filter.AssigneeID,
		Search:     escapeLike(filter.Search),
	})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes search match literally inside ILIKE, whose escape character is backslash.
func escapeLike(search *string) *string {
	if search == nil {
		return nil
	}
	escaped := likeEscaper.Replace(*search)
	return &escaped
}

func nonNilLabels(labels []string) []string {
	if labels == nil {
		return []string{}
	}
	return labels
}

func toIssueModel(row sqlc.Issue) *model.Issue {
	return &model.Issue{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Status:      model.IssueStatus(row.Status),
		Priority:    model.IssuePriority(row.Priority),
		Labels:      nonNilLabels(row.Labels),
		AssigneeID:  row.AssigneeID,
		CreatorID:   row.CreatorID,
		OrgID:       row.OrgID,
		CreatedAt:   row.CreatedAt.Time,
		UpdatedAt:   row.UpdatedAt.Time,
	}
}
