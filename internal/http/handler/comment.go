package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"altis.app/tracker/internal/http/dto"
	"altis.app/tracker/internal/service"
)

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (h *CommentHandler) ListByIssue(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := caller(c)
	if !ok {
		return
	}
	issueID, ok := pathID(c, "issueId", "issue ID")
	if !ok {
		return
	}

	comments, err := h.commentService.ListByIssue(ctx, identity.OrganizationID, issueID)
	if err != nil {
		respondCommentError(c, err, "Error fetching comments", "")
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentResponses(comments))
}

func (h *CommentHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := caller(c)
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if !bindJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		respondError(c, http.StatusBadRequest, "Content is required")
		return
	}
	if req.IssueID == nil {
		respondError(c, http.StatusBadRequest, "Issue ID is required")
		return
	}

	comment, err := h.commentService.Create(ctx, identity.OrganizationID, identity.UserID, int64(*req.IssueID), req.Content)
	if err != nil {
		respondCommentError(c, err, "Error creating comment", "")
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentResponse(comment))
}

func (h *CommentHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := caller(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "id", "comment ID")
	if !ok {
		return
	}

	var req dto.UpdateCommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.commentService.Update(ctx, identity.OrganizationID, identity.UserID, commentID, req.Content)
	if err != nil {
		respondCommentError(c, err, "Error updating comment", "You can only edit your own comments")
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentResponse(comment))
}

func (h *CommentHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := caller(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "id", "comment ID")
	if !ok {
		return
	}

	if err := h.commentService.Delete(ctx, identity.OrganizationID, identity.UserID, commentID); err != nil {
		respondCommentError(c, err, "Error deleting comment", "You can only delete your own comments")
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Comment deleted successfully"})
}

func respondCommentError(c *gin.Context, err error, fallback, notAuthorMsg string) {
	switch {
	case errors.Is(err, service.ErrContentRequired):
		respondError(c, http.StatusBadRequest, "Content is required")
	case errors.Is(err, service.ErrIssueNotFound):
		respondError(c, http.StatusNotFound, "Issue not found")
	case errors.Is(err, service.ErrCommentNotFound):
		respondError(c, http.StatusNotFound, "Comment not found")
	case errors.Is(err, service.ErrNotCommentAuthor):
		respondError(c, http.StatusForbidden, notAuthorMsg)
	case errors.Is(err, service.ErrAccessDenied):
		respondError(c, http.StatusForbidden, "Access denied")
	default:
		slog.ErrorContext(c.Request.Context(), "request failed", "operation", fallback, "error", err)
		respondError(c, http.StatusInternalServerError, fallback)
	}
}
