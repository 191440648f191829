package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/minn2020/minndash/internal/auth"
)

// AdminHandler serves administrator-only account operations.
type AdminHandler struct {
	guard *auth.Guard
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(guard *auth.Guard) *AdminHandler {
	return &AdminHandler{guard: guard}
}

// Unlock clears the lockout state of the given account.
func (h *AdminHandler) Unlock(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("user_id"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user_id"})
		return
	}

	errUnlock := h.guard.Unlock(userID)
	switch {
	case errUnlock == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Account unlocked."})
	case errors.Is(errUnlock, auth.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Could not find user."})
	default:
		log.WithError(errUnlock).Error("unlock failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
