package auth

import (
	"net/http"

	"smartpersona/pkg/logger"

	"github.com/gin-gonic/gin"
)

const ginIdentityKey = "identity"

// Roles accepted from a token signed with the user access secret on
// user-tier routes. Admin tokens signed with the admin secret are tried next.
var userTierRoles = map[Role]struct{}{
	RoleUserAndCompany: {},
	RoleAdmin:          {},
}

// RequireUser protects user-tier routes. The token is first checked against
// the user access secret, then against the admin access secret, so admins
// pass without the user tier ever holding the admin key.
func RequireUser(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := AccessToken(c)
		if !ok {
			unauthorized(c)
			return
		}
		now := m.Now()

		claims, err := m.Verify(tok, TierUser, TokenTypeAccess, now)
		if err == nil {
			if _, allowed := userTierRoles[claims.Role]; allowed {
				accept(c, claims)
				return
			}
		}

		claims, adminErr := m.Verify(tok, TierAdmin, TokenTypeAccess, now)
		if adminErr == nil && claims.Role == RoleAdmin {
			accept(c, claims)
			return
		}

		reject(c, "user", err)
	}
}

// RequireAdmin protects admin-only routes. It never consults the user secrets.
func RequireAdmin(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := AccessToken(c)
		if !ok {
			unauthorized(c)
			return
		}

		claims, err := m.Verify(tok, TierAdmin, TokenTypeAccess, m.Now())
		if err == nil && claims.Role == RoleAdmin {
			accept(c, claims)
			return
		}
		reject(c, "admin", err)
	}
}

// FromGin returns the identity placed on c by RequireUser or RequireAdmin.
func FromGin(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(ginIdentityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

func accept(c *gin.Context, claims Claims) {
	id := Identity{Subject: claims.Subject, Role: claims.Role}
	c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), id))
	// Also store on gin context for handler convenience.
	c.Set(ginIdentityKey, id)
	c.Next()
}

func reject(c *gin.Context, tier string, err error) {
	reason := "role not allowed"
	if err != nil {
		reason = err.Error()
	}
	logger.FromGin(c).Debug("access token rejected", "tier", tier, "reason", reason)
	unauthorized(c)
}

// Every rejection looks the same to the client.
func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}
