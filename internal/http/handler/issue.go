package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"altis.app/tracker/common/logger"
	"altis.app/tracker/internal/http/dto"
	"altis.app/tracker/internal/model"
	"altis.app/tracker/internal/service"
)

type IssueHandler struct {
	issueService service.IssueService
}

func NewIssueHandler(issueService service.IssueService) *IssueHandler {
	return &IssueHandler{issueService: issueService}
}

func (h *IssueHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := caller(c)
	if !ok {
		return
	}

	var q dto.ListIssuesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		msg := dto.ValidationMessage(err)
		if msg == "Invalid request" {
			msg = "Invalid query parameters"
		}
		respondError(c, http.StatusBadRequest, msg)
		return
	}

	filter := model.IssueFilter{
		OrgID: identity.OrganizationID,
		Page:  q.Page,
		Limit: q.Limit,
	}
	if !filter.OffsetInRange() {
		respondError(c, http.StatusBadRequest, "page is out of range")
		return
	}
	if q.Status != "" {
		filter.Status = logger.Ptr(model.IssueStatus(q.Status))
	}
	if q.Priority != "" {
		filter.Priority = logger.Ptr(model.IssuePriority(q.Priority))
	}
	if q.AssigneeID != "" {
		assigneeID, err := strconv.ParseInt(q.AssigneeID, 10, 64)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid value for assigneeId")
			return
		}
		filter.AssigneeID = &assigneeID
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		filter.Search = &search
	}

	page, err := h.issueService.List(ctx, filter)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list issues", "error", err)
		respondError(c, http.StatusInternalServerError, "Error fetching issues")
		return
	}

	c.JSON(http.StatusOK, dto.ToIssueListResponse(page))
}

func (h *IssueHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := caller(c)
	if !ok {
		return
	}
	issueID, ok := pathID(c, "id", "issue ID")
	if !ok {
		return
	}

	detail, err := h.issueService.Get(ctx, identity.OrganizationID, issueID)
	if err != nil {
		h.respondIssueError(c, err, "Error fetching issue")
		return
	}

	c.JSON(http.StatusOK, dto.ToIssueDetailResponse(detail))
}

func (h *IssueHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := caller(c)
	if !ok {
		return
	}

	var req dto.CreateIssueRequest
	if !bindJSON(c, &req) {
		return
	}

	issue, err := h.issueService.Create(ctx, identity.OrganizationID, identity.UserID, service.CreateIssueInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      model.IssueStatus(req.Status),
		Priority:    model.IssuePriority(req.Priority),
		AssigneeID:  req.AssigneeID.Int64(),
		Labels:      req.Labels,
	})
	if err != nil {
		h.respondIssueError(c, err, "Error creating issue")
		return
	}

	c.JSON(http.StatusCreated, dto.ToIssueSummaryResponse(issue))
}

// Update applies a partial update. It serves both PUT and PATCH.
func (h *IssueHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := caller(c)
	if !ok {
		return
	}
	issueID, ok := pathID(c, "id", "issue ID")
	if !ok {
		return
	}

	var req dto.UpdateIssueRequest
	if !bindJSON(c, &req) {
		return
	}

	in := service.UpdateIssueInput{
		Title:       req.Title,
		Description: req.Description,
		Labels:      req.Labels,
	}
	if req.Status.Set {
		in.Status = model.Optional[model.IssueStatus]{Set: true}
		if req.Status.Value != nil {
			in.Status.Value = logger.Ptr(model.IssueStatus(*req.Status.Value))
		}
	}
	if req.Priority.Set {
		in.Priority = model.Optional[model.IssuePriority]{Set: true}
		if req.Priority.Value != nil {
			in.Priority.Value = logger.Ptr(model.IssuePriority(*req.Priority.Value))
		}
	}
	if req.AssigneeID.Set {
		in.AssigneeID = model.Optional[int64]{Set: true, Value: req.AssigneeID.Value.Int64()}
	}

	issue, err := h.issueService.Update(ctx, identity.OrganizationID, identity.UserID, issueID, in)
	if err != nil {
		h.respondIssueError(c, err, "Error updating issue")
		return
	}

	c.JSON(http.StatusOK, dto.ToIssueSummaryResponse(issue))
}

func (h *IssueHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := caller(c)
	if !ok {
		return
	}
	issueID, ok := pathID(c, "id", "issue ID")
	if !ok {
		return
	}

	if err := h.issueService.Delete(ctx, identity.OrganizationID, issueID); err != nil {
		h.respondIssueError(c, err, "Error deleting issue")
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Issue deleted successfully"})
}

func (h *IssueHandler) respondIssueError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrIssueNotFound):
		respondError(c, http.StatusNotFound, "Issue not found")
	case errors.Is(err, service.ErrAssigneeNotFound):
		respondError(c, http.StatusNotFound, "Assignee not found in organization")
	case errors.Is(err, service.ErrTitleRequired):
		respondError(c, http.StatusBadRequest, "Title is required")
	case errors.Is(err, service.ErrTitleEmpty):
		respondError(c, http.StatusBadRequest, "Title cannot be empty")
	case errors.Is(err, service.ErrInvalidStatus):
		respondError(c, http.StatusBadRequest, "Invalid status. Must be one of TODO, IN_PROGRESS, DONE")
	case errors.Is(err, service.ErrInvalidPriority):
		respondError(c, http.StatusBadRequest, "Invalid priority. Must be one of LOW, MED, HIGH")
	case errors.Is(err, service.ErrInvalidLabels):
		respondError(c, http.StatusBadRequest, "labels is out of range")
	default:
		slog.ErrorContext(c.Request.Context(), "request failed", "operation", fallback, "error", err)
		respondError(c, http.StatusInternalServerError, fallback)
	}
}
