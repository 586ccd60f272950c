package router

import (
	"github.com/gin-gonic/gin"

	"altis.app/tracker/internal/http/handler"
)

func UserRouter(rg *gin.RouterGroup, h *handler.UserHandler) {
	rg.GET("", h.List)
}
