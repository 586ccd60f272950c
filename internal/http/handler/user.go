package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"altis.app/tracker/internal/http/dto"
	"altis.app/tracker/internal/service"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := caller(c)
	if !ok {
		return
	}

	users, err := h.userService.ListByOrganization(ctx, identity.OrganizationID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list users", "error", err)
		respondError(c, http.StatusInternalServerError, "Error fetching users")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponses(users))
}
