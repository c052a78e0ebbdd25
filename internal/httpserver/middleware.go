package httpserver

import (
	"log"
	"net/http"
	"strings"

	"storefront/internal/domain"
	"github.com/gin-gonic/gin"
)

const (
	identityKey  = "identity"
	currentUser  = "currentUser"
	anonymousHdr = "X-Anonymous-Token"
)

// identityMiddleware resolves the caller to exactly one identity: a user
// from a Bearer access token, else an anonymous session from the
// X-Anonymous-Token header. Requests with neither proceed unidentified;
// handlers that need an identity reject them.
func identityMiddleware(auth authService, anon anonymousService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c.GetHeader("Authorization")); token != "" {
			u, err := auth.LookupByToken(c.Request.Context(), token)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			c.Set(identityKey, domain.UserIdentity(u.ID))
			c.Set(currentUser, u)
			c.Next()
			return
		}

		if token := strings.TrimSpace(c.GetHeader(anonymousHdr)); token != "" {
			sessionID, err := anon.LookupByToken(c.Request.Context(), token)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid anonymous token"})
				return
			}
			c.Set(identityKey, domain.AnonymousIdentity(sessionID))
		}

		c.Next()
	}
}

// identityFrom returns the resolved identity, zero when unidentified.
func identityFrom(c *gin.Context) domain.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return domain.Identity{}
	}
	id, _ := v.(domain.Identity)
	return id
}

// userFrom returns the authenticated user, nil for guests.
func userFrom(c *gin.Context) *domain.User {
	v, ok := c.Get(currentUser)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// maintenanceMiddleware turns the storefront away while the maintenance
// flag is set. Lookup failures fail open: a broken settings read must not
// take the shop down.
func maintenanceMiddleware(settings settingsStore, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if settings == nil {
			c.Next()
			return
		}
		enabled, err := settings.MaintenanceMode(c.Request.Context())
		if err != nil {
			logger.Printf("maintenance lookup failed: %v", err)
			c.Next()
			return
		}
		if enabled {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "down for maintenance"})
			return
		}
		c.Next()
	}
}

func adminKeyMiddleware(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" || c.GetHeader("X-Admin-Key") != key {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin key required"})
			return
		}
		c.Next()
	}
}
