package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"altis.app/tracker/internal/http/dto"
	"altis.app/tracker/internal/http/middleware"
	"altis.app/tracker/internal/service"
)

type AuthHandler struct {
	authService  service.AuthService
	cookieMaxAge int
	isProduction bool
}

func NewAuthHandler(authService service.AuthService, cookieMaxAge int, isProduction bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		cookieMaxAge: cookieMaxAge,
		isProduction: isProduction,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	var orgID int64
	if req.OrganizationID != nil {
		orgID = int64(*req.OrganizationID)
	}

	session, err := h.authService.Register(ctx, service.RegisterInput{
		Email:          req.Email,
		Password:       req.Password,
		Name:           req.Name,
		OrganizationID: orgID,
	})
	if err != nil {
		middleware.RecordAuthAttempt("register", false)
		switch {
		case errors.Is(err, service.ErrMissingFields):
			respondError(c, http.StatusBadRequest, "All fields are required")
		case errors.Is(err, service.ErrEmailTaken):
			respondError(c, http.StatusBadRequest, "Email already registered")
		case errors.Is(err, service.ErrOrganizationNotFound):
			respondError(c, http.StatusNotFound, "Organization not found")
		default:
			slog.ErrorContext(ctx, "failed to register user", "error", err)
			respondError(c, http.StatusInternalServerError, "Error registering user")
		}
		return
	}

	middleware.RecordAuthAttempt("register", true)
	middleware.SetTokenCookie(c, session.Token, h.cookieMaxAge, h.isProduction)
	c.JSON(http.StatusCreated, dto.AuthResponse{
		User:  dto.ToUserResponse(session.User),
		Token: session.Token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	session, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		middleware.RecordAuthAttempt("login", false)
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		slog.ErrorContext(ctx, "failed to log in", "error", err)
		respondError(c, http.StatusInternalServerError, "Error logging in")
		return
	}

	middleware.RecordAuthAttempt("login", true)
	slog.InfoContext(ctx, "user logged in", "user_id", session.User.ID)
	middleware.SetTokenCookie(c, session.Token, h.cookieMaxAge, h.isProduction)
	c.JSON(http.StatusOK, dto.AuthResponse{
		User:  dto.ToUserResponse(session.User),
		Token: session.Token,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.ClearTokenCookie(c, h.isProduction)
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Logged out successfully"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := caller(c)
	if !ok {
		return
	}

	user, err := h.authService.Me(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, "User not found")
			return
		}
		slog.ErrorContext(ctx, "failed to load current user", "error", err)
		respondError(c, http.StatusInternalServerError, "Error fetching user")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}
