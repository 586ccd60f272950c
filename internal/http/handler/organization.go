package handler

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"altis.app/tracker/internal/http/dto"
	"altis.app/tracker/internal/service"
)

type OrganizationHandler struct {
	orgService  service.OrganizationService
	adminAPIKey string
}

func NewOrganizationHandler(orgService service.OrganizationService, adminAPIKey string) *OrganizationHandler {
	return &OrganizationHandler{
		orgService:  orgService,
		adminAPIKey: adminAPIKey,
	}
}

func (h *OrganizationHandler) Current(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := caller(c)
	if !ok {
		return
	}

	org, err := h.orgService.Get(ctx, identity.OrganizationID)
	if err != nil {
		if errors.Is(err, service.ErrOrganizationNotFound) {
			respondError(c, http.StatusNotFound, "Organization not found")
			return
		}
		slog.ErrorContext(ctx, "failed to load organization", "error", err)
		respondError(c, http.StatusInternalServerError, "Error fetching organization")
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationResponse(org))
}

// Create creates an organization (admin only)
func (h *OrganizationHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateOrganizationRequest
	if !bindJSON(c, &req) {
		return
	}

	org, err := h.orgService.Create(ctx, req.Name, req.Slug)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			respondError(c, http.StatusBadRequest, "name is required")
		case errors.Is(err, service.ErrSlugUnavailable):
			respondError(c, http.StatusConflict, "Slug is not available")
		default:
			slog.ErrorContext(ctx, "failed to create organization", "error", err)
			respondError(c, http.StatusInternalServerError, "Error creating organization")
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToOrganizationResponse(org))
}

// RequireAdminAPIKey middleware checks for valid admin API key
func (h *OrganizationHandler) RequireAdminAPIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.adminAPIKey == "" {
			respondError(c, http.StatusServiceUnavailable, "Admin API not configured")
			return
		}

		apiKey := c.GetHeader("X-Admin-API-Key")
		if apiKey == "" {
			apiKey = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}

		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(h.adminAPIKey)) != 1 {
			respondError(c, http.StatusUnauthorized, "Invalid or missing API key")
			return
		}

		c.Next()
	}
}
