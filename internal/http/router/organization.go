package router

import (
	"github.com/gin-gonic/gin"

	"altis.app/tracker/internal/http/handler"
)

// OrganizationRouter sets up organization routes
// - /organizations/current needs a signed-in user
// - /admin/organizations requires the admin API key
func OrganizationRouter(rg *gin.RouterGroup, adminRg *gin.RouterGroup, h *handler.OrganizationHandler) {
	rg.GET("/current", h.Current)

	admin := adminRg.Group("")
	admin.Use(h.RequireAdminAPIKey())
	{
		admin.POST("", h.Create)
	}
}
