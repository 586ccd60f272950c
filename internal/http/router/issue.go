package router

import (
	"github.com/gin-gonic/gin"

	"altis.app/tracker/internal/http/handler"
)

func IssueRouter(rg *gin.RouterGroup, h *handler.IssueHandler) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}
