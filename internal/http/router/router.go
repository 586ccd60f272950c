package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	"altis.app/tracker/internal/http/dto"
	"altis.app/tracker/internal/http/handler"
	"altis.app/tracker/internal/http/middleware"
	"altis.app/tracker/internal/service"
)

type RouterConfig struct {
	IsProduction bool
	FrontendURL  string
	AdminAPIKey  string
	LimiterStore limiter.Store
	GeneralRate  limiter.Rate
	AuthRate     limiter.Rate
	DB           handler.Pinger
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	dto.RegisterValidators()

	router.Use(middleware.Secure(middleware.SecureOptions(!cfg.IsProduction)))
	router.Use(middleware.CORS(cfg.FrontendURL))

	router.GET("/health", handler.NewHealthHandler(cfg.DB).Check)
	router.GET("/metrics", middleware.MetricsHandler())

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewError(http.StatusNotFound, "Route not found"))
	})

	authenticate := middleware.Authenticate(services.Tokens(), cfg.IsProduction)
	authLimiter := middleware.RateLimit(cfg.LimiterStore, cfg.AuthRate, "auth", middleware.AuthRateLimitMessage)

	api := router.Group("/api")
	api.Use(middleware.RateLimit(cfg.LimiterStore, cfg.GeneralRate, "api", middleware.GeneralRateLimitMessage))
	{
		authHandler := handler.NewAuthHandler(services.Auth(), int(services.Tokens().TTL().Seconds()), cfg.IsProduction)
		AuthRouter(api.Group("/auth"), authHandler, authenticate, authLimiter)

		userHandler := handler.NewUserHandler(services.Users())
		UserRouter(api.Group("/users", authenticate), userHandler)

		orgHandler := handler.NewOrganizationHandler(services.Organizations(), cfg.AdminAPIKey)
		OrganizationRouter(api.Group("/organizations", authenticate), api.Group("/admin/organizations"), orgHandler)

		issueHandler := handler.NewIssueHandler(services.Issues())
		IssueRouter(api.Group("/issues", authenticate), issueHandler)

		commentHandler := handler.NewCommentHandler(services.Comments())
		CommentRouter(api.Group("/comments", authenticate), commentHandler)
	}
}
