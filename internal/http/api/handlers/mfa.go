package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/minn2020/minndash/internal/auth"
	"github.com/minn2020/minndash/internal/security"
)

// MFAHandler manages the TOTP second factor for administrator accounts.
type MFAHandler struct {
	guard *auth.Guard
}

// NewMFAHandler constructs an MFAHandler.
func NewMFAHandler(guard *auth.Guard) *MFAHandler {
	return &MFAHandler{guard: guard}
}

// Status reports whether TOTP is enabled for the session account.
func (h *MFAHandler) Status(c *gin.Context) {
	user, err := h.guard.FindByUsername(c.GetString("sessionUsername"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "account not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"totp_enabled": user.TOTPSecret != ""})
}

// PrepareTOTP provisions a fresh secret. Nothing is persisted until the
// caller confirms with a valid code.
func (h *MFAHandler) PrepareTOTP(c *gin.Context) {
	secret, url, err := security.GenerateTOTPSecret(c.GetString("sessionUsername"))
	if err != nil {
		log.WithError(err).Error("totp prepare failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"secret": secret, "url": url})
}

// confirmTOTPRequest defines the request body for enabling TOTP.
type confirmTOTPRequest struct {
	Secret string `json:"secret"`
	Code   string `json:"code"`
}

// ConfirmTOTP verifies the first code and persists the secret.
func (h *MFAHandler) ConfirmTOTP(c *gin.Context) {
	var body confirmTOTPRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	secret := strings.TrimSpace(body.Secret)
	if secret == "" || !security.ValidateTOTP(body.Code, secret) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid totp code"})
		return
	}
	if err := h.guard.UpdateTOTPSecret(c.GetString("sessionUsername"), secret); err != nil {
		log.WithError(err).Error("totp confirm failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "totp enabled"})
}

// DisableTOTP removes the second factor from the session account.
func (h *MFAHandler) DisableTOTP(c *gin.Context) {
	if err := h.guard.UpdateTOTPSecret(c.GetString("sessionUsername"), ""); err != nil {
		log.WithError(err).Error("totp disable failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "totp disabled"})
}
