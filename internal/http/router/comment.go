package router

import (
	"github.com/gin-gonic/gin"

	"altis.app/tracker/internal/http/handler"
)

func CommentRouter(rg *gin.RouterGroup, h *handler.CommentHandler) {
	rg.GET("/issue/:issueId", h.ListByIssue)
	rg.POST("", h.Create)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}
