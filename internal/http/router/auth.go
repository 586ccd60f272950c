package router

import (
	"github.com/gin-gonic/gin"

	"altis.app/tracker/internal/http/handler"
)

func AuthRouter(rg *gin.RouterGroup, h *handler.AuthHandler, authenticate, limit gin.HandlerFunc) {
	rg.POST("/register", limit, h.Register)
	rg.POST("/login", limit, h.Login)
	rg.POST("/logout", h.Logout)
	rg.GET("/me", authenticate, h.Me)
}
