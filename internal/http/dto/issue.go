package dto

import (
	"time"

	"altis.app/tracker/internal/model"
)

type ListIssuesQuery struct {
	Status     string `form:"status" binding:"omitempty,issue_status"`
	Priority   string `form:"priority" binding:"omitempty,issue_priority"`
	AssigneeID string `form:"assigneeId" binding:"omitempty,numeric"`
	Search     string `form:"search" binding:"omitempty,max=200"`
	Page       int32  `form:"page,default=1" binding:"min=1"`
	Limit      int32  `form:"limit,default=10" binding:"min=1,max=1000"`
}

type CreateIssueRequest struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	Status      string   `json:"status" binding:"omitempty,issue_status"`
	Priority    string   `json:"priority" binding:"omitempty,issue_priority"`
	AssigneeID  *ID      `json:"assigneeId"`
	Labels      []string `json:"labels" binding:"omitempty,max=50,dive,min=1,max=50"`
}

// UpdateIssueRequest distinguishes omitted fields from explicit nulls.
type UpdateIssueRequest struct {
	Title       model.Optional[string]   `json:"title"`
	Description model.Optional[string]   `json:"description"`
	Status      model.Optional[string]   `json:"status"`
	Priority    model.Optional[string]   `json:"priority"`
	AssigneeID  model.Optional[ID]       `json:"assigneeId"`
	Labels      model.Optional[[]string] `json:"labels"`
}

type IssueResponse struct {
	ID          int64      `json:"id,string"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Labels      []string   `json:"labels"`
	AssigneeID  *int64     `json:"assigneeId,string"`
	CreatorID   int64      `json:"creatorId,string"`
	OrgID       int64      `json:"orgId,string"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Assignee    *UserBrief `json:"assignee"`
	Creator     *UserBrief `json:"creator"`
}

type IssueCount struct {
	Comments int64 `json:"comments"`
}

type IssueListItem struct {
	IssueResponse
	Count IssueCount `json:"_count"`
}

type Pagination struct {
	Total      int64 `json:"total"`
	Page       int32 `json:"page"`
	Limit      int32 `json:"limit"`
	TotalPages int64 `json:"totalPages"`
}

type IssueListResponse struct {
	Issues     []IssueListItem `json:"issues"`
	Pagination Pagination      `json:"pagination"`
}

type IssueDetailResponse struct {
	IssueResponse
	Comments   []CommentResponse  `json:"comments"`
	Activities []ActivityResponse `json:"activities"`
}

type ActivityResponse struct {
	ID        int64     `json:"id,string"`
	IssueID   int64     `json:"issueId,string"`
	Action    string    `json:"action"`
	Field     *string   `json:"field"`
	OldValue  *string   `json:"oldValue"`
	NewValue  *string   `json:"newValue"`
	CreatedAt time.Time `json:"createdAt"`
}

func ToIssueResponse(issue *model.Issue, assignee, creator *model.UserBrief) IssueResponse {
	labels := issue.Labels
	if labels == nil {
		labels = []string{}
	}
	return IssueResponse{
		ID:          issue.ID,
		Title:       issue.Title,
		Description: issue.Description,
		Status:      string(issue.Status),
		Priority:    string(issue.Priority),
		Labels:      labels,
		AssigneeID:  issue.AssigneeID,
		CreatorID:   issue.CreatorID,
		OrgID:       issue.OrgID,
		CreatedAt:   issue.CreatedAt,
		UpdatedAt:   issue.UpdatedAt,
		Assignee:    ToUserBrief(assignee),
		Creator:     ToUserBrief(creator),
	}
}

func ToIssueSummaryResponse(s *model.IssueSummary) IssueResponse {
	return ToIssueResponse(&s.Issue, s.Assignee, s.Creator)
}

func ToIssueListResponse(page *model.IssuePage) IssueListResponse {
	items := make([]IssueListItem, len(page.Issues))
	for i := range page.Issues {
		items[i] = IssueListItem{
			IssueResponse: ToIssueSummaryResponse(&page.Issues[i]),
			Count:         IssueCount{Comments: page.Issues[i].CommentCount},
		}
	}
	return IssueListResponse{
		Issues: items,
		Pagination: Pagination{
			Total:      page.Total,
			Page:       page.Page,
			Limit:      page.Limit,
			TotalPages: page.TotalPages,
		},
	}
}

func ToIssueDetailResponse(d *model.IssueDetail) IssueDetailResponse {
	activities := make([]ActivityResponse, len(d.Activities))
	for i, a := range d.Activities {
		activities[i] = ToActivityResponse(a)
	}
	return IssueDetailResponse{
		IssueResponse: ToIssueResponse(&d.Issue, d.Assignee, d.Creator),
		Comments:      ToCommentResponses(d.Comments),
		Activities:    activities,
	}
}

func ToActivityResponse(a model.Activity) ActivityResponse {
	return ActivityResponse{
		ID:        a.ID,
		IssueID:   a.IssueID,
		Action:    string(a.Action),
		Field:     a.Field,
		OldValue:  a.OldValue,
		NewValue:  a.NewValue,
		CreatedAt: a.CreatedAt,
	}
}
