package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/minn2020/minndash/internal/auth"
	"github.com/minn2020/minndash/internal/minerals"
	"github.com/minn2020/minndash/internal/models"
)

// DashboardHandler serves the role-gated dashboard data.
type DashboardHandler struct {
	guard  *auth.Guard
	loader *minerals.Loader
}

// NewDashboardHandler constructs a DashboardHandler.
func NewDashboardHandler(guard *auth.Guard, loader *minerals.Loader) *DashboardHandler {
	return &DashboardHandler{guard: guard, loader: loader}
}

// Admin returns the user roster and per-role counts. Password hashes and
// TOTP secrets never leave the store.
func (h *DashboardHandler) Admin(c *gin.Context) {
	users, err := h.guard.Users()
	if err != nil {
		log.WithError(err).Error("list users failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	roleCounts := map[models.Role]int{
		models.RoleAdministrator: 0,
		models.RoleInvestor:      0,
		models.RoleResearcher:    0,
	}
	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		if _, known := roleCounts[u.Role]; known {
			roleCounts[u.Role]++
		}
		out = append(out, gin.H{
			"user_id":       u.UserID,
			"username":      u.Username,
			"first_name":    u.FirstName,
			"last_name":     u.LastName,
			"email":         u.Email,
			"country":       u.Country,
			"organization":  u.Organization,
			"role":          u.Role,
			"created_at":    u.CreatedAt,
			"failed_logins": u.FailedLogins,
			"locked_until":  u.LockedUntil,
		})
	}
	c.JSON(http.StatusOK, gin.H{"users": out, "role_counts": roleCounts})
}

// Investor serves the investor dashboard payload.
func (h *DashboardHandler) Investor(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"role": models.RoleInvestor})
}

// Researcher serves the minerals dataset behind the researcher dashboard.
func (h *DashboardHandler) Researcher(c *gin.Context) {
	all, err := h.loader.Load()
	if err != nil {
		log.WithError(err).Error("load minerals failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": models.RoleResearcher, "minerals": all})
}
