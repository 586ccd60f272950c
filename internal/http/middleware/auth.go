package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"altis.app/tracker/common/logger"
	"altis.app/tracker/internal/auth"
	"altis.app/tracker/internal/http/dto"
)

const TokenCookieName = "token"

// Authenticate verifies the session token from the token cookie, or from an
// Authorization bearer header when the cookie is absent.
func Authenticate(tokens *auth.TokenIssuer, isProduction bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(TokenCookieName)
		if token == "" {
			if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
				token = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			}
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewError(http.StatusUnauthorized, "No token provided"))
			return
		}

		identity, err := tokens.Verify(token)
		if err != nil {
			ClearTokenCookie(c, isProduction)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewError(http.StatusUnauthorized, "Invalid or expired token"))
			return
		}

		SetIdentity(c, identity)
		ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{
			UserID:         &identity.UserID,
			OrganizationID: &identity.OrganizationID,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func SetTokenCookie(c *gin.Context, token string, maxAge int, isProduction bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(TokenCookieName, token, maxAge, "/", "", isProduction, true)
}

func ClearTokenCookie(c *gin.Context, isProduction bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(TokenCookieName, "", -1, "/", "", isProduction, true)
}
