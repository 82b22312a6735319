package httpapi

import (
	"smartpersona/internal/auth"

	"github.com/gin-gonic/gin"
)

// Mount wires HTTP routes to handlers.
// Keep this free of business logic. Handlers delegate to internal modules.
func (h Handlers) Mount(r gin.IRouter, tokens *auth.Manager) {
	r.GET("/health-check", h.Health)

	users := r.Group("/users")
	{
		users.POST("", h.Register)
		users.GET("/me", auth.RequireUser(tokens), h.Me)
	}

	authn := r.Group("/authentication")
	{
		authn.POST("/login", h.UserLogin)
		authn.POST("/refresh-token", h.UserRefresh)
		authn.POST("/admin/login", h.AdminLogin)
		authn.POST("/admin/refresh-token", h.AdminRefresh)
		authn.POST("/logout", h.Logout)
	}

	admin := r.Group("/admin")
	admin.Use(auth.RequireAdmin(tokens))
	{
		admin.GET("/dashboard", h.AdminDashboard)
	}
}
