package middleware

import (
	"github.com/gin-gonic/gin"

	"altis.app/tracker/internal/auth"
)

const identityKey = "tracker.identity"

func SetIdentity(c *gin.Context, identity auth.Identity) {
	c.Set(identityKey, identity)
}

// IdentityFrom returns the caller set by Authenticate. ok is false on public routes.
func IdentityFrom(c *gin.Context) (auth.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return auth.Identity{}, false
	}
	identity, ok := v.(auth.Identity)
	return identity, ok
}
