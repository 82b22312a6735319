package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	AccessCookieName  = "act"
	RefreshCookieName = "rft"
)

// SessionTransport carries a passport in HttpOnly cookies.
// MaxAge is applied to both cookies regardless of the tokens' own expiry.
type SessionTransport struct {
	Production bool
	MaxAge     time.Duration
}

func (t SessionTransport) Attach(c *gin.Context, p Passport) {
	t.write(c, AccessCookieName, p.AccessToken, int(t.MaxAge/time.Second))
	t.write(c, RefreshCookieName, p.RefreshToken, int(t.MaxAge/time.Second))
}

// Clear expires both session cookies on the client.
func (t SessionTransport) Clear(c *gin.Context) {
	t.write(c, AccessCookieName, "", -1)
	t.write(c, RefreshCookieName, "", -1)
}

func (t SessionTransport) write(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", t.Production, true)
}

// AccessToken reads the act cookie. ok is false when it is absent.
func AccessToken(c *gin.Context) (token string, ok bool) {
	return cookie(c, AccessCookieName)
}

// RefreshToken reads the rft cookie. ok is false when it is absent.
func RefreshToken(c *gin.Context) (token string, ok bool) {
	return cookie(c, RefreshCookieName)
}

func cookie(c *gin.Context, name string) (string, bool) {
	v, err := c.Cookie(name)
	if err != nil || v == "" {
		return "", false
	}
	return v, true
}
