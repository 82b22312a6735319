package httpapi

import (
	"context"
	"errors"
	"net/http"

	"smartpersona/internal/audit"
	"smartpersona/internal/auth"
	"smartpersona/internal/authentication"
	"smartpersona/internal/users"
	"smartpersona/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.
type Handlers struct {
	Auth    *authentication.Service
	Users   *users.Service
	Session auth.SessionTransport
	Audit   *audit.Service
	// Ping reports storage health for the health check. Optional.
	Ping func(ctx context.Context) error
}

// --- Authentication ---

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h Handlers) UserLogin(c *gin.Context)  { h.login(c, auth.TierUser) }
func (h Handlers) AdminLogin(c *gin.Context) { h.login(c, auth.TierAdmin) }

func (h Handlers) UserRefresh(c *gin.Context)  { h.refresh(c, auth.TierUser) }
func (h Handlers) AdminRefresh(c *gin.Context) { h.refresh(c, auth.TierAdmin) }

func (h Handlers) login(c *gin.Context, tier auth.Tier) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "username and password required"})
		return
	}

	passport, err := h.Auth.Login(c.Request.Context(), tier, authentication.LoginRequest{
		Username:  req.Username,
		Password:  req.Password,
		IPAddress: c.ClientIP(),
	})
	switch {
	case err == nil:
	case errors.Is(err, authentication.ErrInvalidCredentials):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	case errors.Is(err, authentication.ErrTooManyAttempts):
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many login attempts"})
		return
	default:
		logger.FromGin(c).Error("login failed", "tier", tier.String(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	h.Session.Attach(c, passport)
	c.JSON(http.StatusOK, gin.H{"message": "login successful"})
}

func (h Handlers) refresh(c *gin.Context, tier auth.Tier) {
	tok, ok := auth.RefreshToken(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "refresh token not found"})
		return
	}

	passport, err := h.Auth.Refresh(c.Request.Context(), tier, tok, c.ClientIP())
	if errors.Is(err, authentication.ErrUnauthorized) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if err != nil {
		logger.FromGin(c).Error("refresh failed", "tier", tier.String(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "refresh failed"})
		return
	}

	h.Session.Attach(c, passport)
	c.JSON(http.StatusOK, gin.H{"message": "token refreshed"})
}

// Logout expires the session cookies. Tokens already issued stay valid
// until they expire.
func (h Handlers) Logout(c *gin.Context) {
	h.Session.Clear(c)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// --- Users ---

type registerRequest struct {
	Username  string `json:"username" binding:"required"`
	FirstName string `json:"firstname" binding:"required"`
	LastName  string `json:"lastname" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

func (h Handlers) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "username, firstname, lastname, password required"})
		return
	}

	id, err := h.Users.Register(c.Request.Context(), users.RegisterRequest{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	switch {
	case err == nil:
	case errors.Is(err, users.ErrInvalidArgument):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, users.ErrUsernameTaken):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "username already taken"})
		return
	default:
		logger.FromGin(c).Error("register failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	if h.Audit != nil {
		if err := h.Audit.Append(c.Request.Context(), audit.Event{
			Type:        audit.EventUserRegistered,
			Tier:        auth.TierUser.String(),
			Username:    req.Username,
			ActorUserID: id.String(),
			ActorRole:   auth.RoleUser.String(),
			IPAddress:   c.ClientIP(),
		}); err != nil {
			logger.FromGin(c).Warn("audit append failed", "err", err)
		}
	}
	c.JSON(http.StatusCreated, gin.H{"id": id.String()})
}

// Me returns the identity recovered from the access token.
func (h Handlers) Me(c *gin.Context) {
	id, err := auth.IdentityFrom(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": id.Subject, "role": id.Role.String()})
}

// --- Admin ---

func (h Handlers) AdminDashboard(c *gin.Context) {
	id, _ := auth.FromGin(c)
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to the Admin Dashboard!", "admin_id": id.Subject})
}

// --- Health ---

func (h Handlers) Health(c *gin.Context) {
	if h.Ping != nil {
		if err := h.Ping(c.Request.Context()); err != nil {
			logger.FromGin(c).Error("health check failed", "err", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
