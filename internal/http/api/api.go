// Package api wires the dashboard routes, the session middleware, and the
// role guards onto a gin engine.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/minn2020/minndash/internal/auth"
	"github.com/minn2020/minndash/internal/config"
	"github.com/minn2020/minndash/internal/http/api/handlers"
	"github.com/minn2020/minndash/internal/minerals"
	"github.com/minn2020/minndash/internal/models"
	"github.com/minn2020/minndash/internal/security"
)

// RegisterRoutes registers all routes, middleware, and handlers.
func RegisterRoutes(r *gin.Engine, guard *auth.Guard, loader *minerals.Loader, cfg config.Config) {
	if r == nil || guard == nil {
		return
	}

	r.Use(sessionMiddleware(cfg.SecretKey))

	healthHandler := handlers.NewHealthHandler(guard)
	r.GET("/healthz", healthHandler.Healthz)

	authHandler := handlers.NewAuthHandler(guard, cfg)
	r.GET("/", authHandler.Home)
	r.GET("/login", authHandler.LoginPage)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)
	r.POST("/signup", authHandler.Signup)
	r.POST("/reset-request", authHandler.ResetRequest)
	r.GET("/reset/:token", authHandler.ResetVerify)
	r.POST("/reset/:token", authHandler.ResetPassword)

	dashboardHandler := handlers.NewDashboardHandler(guard, loader)
	r.GET("/dashboard/admin", RequireRole(models.RoleAdministrator), dashboardHandler.Admin)
	r.GET("/dashboard/investor", RequireRole(models.RoleInvestor), dashboardHandler.Investor)
	r.GET("/dashboard/researcher", RequireRole(models.RoleResearcher), dashboardHandler.Researcher)

	adminHandler := handlers.NewAdminHandler(guard)
	r.POST("/admin/unlock/:user_id", RequireRole(models.RoleAdministrator), adminHandler.Unlock)

	mfaHandler := handlers.NewMFAHandler(guard)
	mfaGroup := r.Group("/mfa", RequireRole(models.RoleAdministrator))
	mfaGroup.GET("/status", mfaHandler.Status)
	mfaGroup.POST("/totp/prepare", mfaHandler.PrepareTOTP)
	mfaGroup.POST("/totp/confirm", mfaHandler.ConfirmTOTP)
	mfaGroup.POST("/totp/disable", mfaHandler.DisableTOTP)

	mineralsHandler := handlers.NewMineralsHandler(loader)
	r.GET("/minerals", mineralsHandler.List)
	r.GET("/minerals/:name", mineralsHandler.Detail)
}

// sessionMiddleware parses the session cookie when present and loads the
// claims into the request context. A missing or invalid cookie is not an
// error; protected routes decide via RequireRole.
func sessionMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(handlers.SessionCookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}
		claims, errParse := security.ParseSessionToken(secret, token)
		if errParse != nil {
			c.Next()
			return
		}
		c.Set("sessionUsername", claims.Username)
		c.Set("sessionRole", claims.Role)
		c.Set("sessionUserID", claims.UserID)
		c.Next()
	}
}

// RequireRole admits the request only when the session carries one of the
// allowed roles. Unauthenticated or denied requests are redirected to the
// authentication entry point instead of erroring.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("sessionUsername") == "" {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		role := models.Role(c.GetString("sessionRole"))
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.Redirect(http.StatusSeeOther, "/login?error=permission_denied")
		c.Abort()
	}
}
