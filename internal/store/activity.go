package store

import (
	"context"

	"altis.app/tracker/core/db/sqlc"
	"altis.app/tracker/internal/model"
)

type activityStore struct {
	queries *sqlc.Queries
}

func newActivityStore(queries *sqlc.Queries) ActivityStore {
	return &activityStore{queries: queries}
}

func (s *activityStore) Create(ctx context.Context, activity *model.Activity) error {
	row, err := s.queries.CreateActivity(ctx, sqlc.CreateActivityParams{
		ID:       activity.ID,
		IssueID:  activity.IssueID,
		Action:   string(activity.Action),
		Field:    activity.Field,
		OldValue: activity.OldValue,
		NewValue: activity.NewValue,
	})
	if err != nil {
		return translate(err)
	}
	*activity = *toActivityModel(row)
	return nil
}

// CreateBatch writes all activities with a single COPY.
func (s *activityStore) CreateBatch(ctx context.Context, activities []model.Activity) error {
	if len(activities) == 0 {
		return nil
	}
	params := make([]sqlc.CreateActivitiesParams, len(activities))
	for i, a := range activities {
		params[i] = sqlc.CreateActivitiesParams{
			ID:       a.ID,
			IssueID:  a.IssueID,
			Action:   string(a.Action),
			Field:    a.Field,
			OldValue: a.OldValue,
			NewValue: a.NewValue,
		}
	}
	_, err := s.queries.CreateActivities(ctx, params)
	return err
}

func (s *activityStore) ListRecentByIssue(ctx context.Context, issueID int64, limit int32) ([]model.Activity, error) {
	rows, err := s.queries.ListRecentActivitiesByIssue(ctx, sqlc.ListRecentActivitiesByIssueParams{
		IssueID: issueID,
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}
	activities := make([]model.Activity, len(rows))
	for i, row := range rows {
		activities[i] = *toActivityModel(row)
	}
	return activities, nil
}

func toActivityModel(row sqlc.Activity) *model.Activity {
	return &model.Activity{
		ID:        row.ID,
		IssueID:   row.IssueID,
		Action:    model.ActivityAction(row.Action),
		Field:     row.Field,
		OldValue:  row.OldValue,
		NewValue:  row.NewValue,
		CreatedAt: row.CreatedAt.Time,
	}
}
