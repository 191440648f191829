package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/minn2020/minndash/internal/auth"
	"github.com/minn2020/minndash/internal/config"
	"github.com/minn2020/minndash/internal/models"
	"github.com/minn2020/minndash/internal/security"
)

// SessionCookieName carries the signed session token.
const SessionCookieName = "minndash_session"

// AuthHandler serves login, logout, signup, and password reset.
type AuthHandler struct {
	guard *auth.Guard
	cfg   config.Config
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(guard *auth.Guard, cfg config.Config) *AuthHandler {
	return &AuthHandler{guard: guard, cfg: cfg}
}

// Home redirects an authenticated caller to its role dashboard, everyone
// else to the login entry point.
func (h *AuthHandler) Home(c *gin.Context) {
	switch models.Role(c.GetString("sessionRole")) {
	case models.RoleAdministrator:
		c.Redirect(http.StatusSeeOther, "/dashboard/admin")
	case models.RoleInvestor:
		c.Redirect(http.StatusSeeOther, "/dashboard/investor")
	case models.RoleResearcher:
		c.Redirect(http.StatusSeeOther, "/dashboard/researcher")
	default:
		c.Redirect(http.StatusSeeOther, "/login")
	}
}

// LoginPage is the authentication entry point.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "please log in"})
}

// loginRequest defines the request body for login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	TOTPCode string `json:"totp_code"`
}

// Login authenticates the caller and establishes the session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var body loginRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	username := strings.TrimSpace(body.Username)

	user, errAuth := h.guard.Authenticate(username, body.Password, body.TOTPCode, c.ClientIP())
	switch {
	case errAuth == nil:
	case errors.Is(errAuth, auth.ErrAccountLocked):
		c.JSON(http.StatusForbidden, gin.H{"error": errAuth.Error()})
		return
	case errors.Is(errAuth, auth.ErrTOTPRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "totp code required"})
		return
	case errors.Is(errAuth, auth.ErrInvalidCredential):
		// Unknown username, wrong password, and wrong code read the same.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials."})
		return
	default:
		log.WithError(errAuth).Error("authenticate failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	token, errToken := security.NewSessionToken(h.cfg.SecretKey, user.Username, string(user.Role), user.UserID, h.cfg.SessionLifetime())
	if errToken != nil {
		log.WithError(errToken).Error("session token failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.SetCookie(SessionCookieName, token, int(h.cfg.SessionLifetime().Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"message":  "Login successful.",
		"username": user.Username,
		"role":     user.Role,
		"user_id":  user.UserID,
	})
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(SessionCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out."})
}

// signupRequest defines the request body for account creation.
type signupRequest struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Country      string `json:"country"`
	Organization string `json:"organization"`
	Role         string `json:"role"`
	Password     string `json:"password"`
	Confirm      string `json:"confirm"`
}

// Signup creates an Investor or Researcher account.
func (h *AuthHandler) Signup(c *gin.Context) {
	var body signupRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	firstName := strings.TrimSpace(body.FirstName)
	lastName := strings.TrimSpace(body.LastName)
	email := strings.TrimSpace(body.Email)
	country := strings.TrimSpace(body.Country)
	org := strings.TrimSpace(body.Organization)
	if firstName == "" || lastName == "" || email == "" || country == "" || body.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill in all required fields."})
		return
	}
	if body.Password != body.Confirm {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match."})
		return
	}

	role := models.Role(strings.TrimSpace(body.Role))
	if role == "" {
		role = models.RoleResearcher
	}
	if role == models.RoleAdministrator {
		c.JSON(http.StatusForbidden, gin.H{"error": "Administrator accounts must be created by an admin."})
		return
	}

	user, errCreate := h.guard.CreateUser(firstName, lastName, email, country, org, role, body.Password)
	switch {
	case errCreate == nil:
	case errors.Is(errCreate, auth.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "An account with that email already exists."})
		return
	case errors.Is(errCreate, auth.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	default:
		log.WithError(errCreate).Error("create user failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Account created. Your username is " + user.Username + ". Please login.",
		"username": user.Username,
		"user_id":  user.UserID,
	})
}

// resetRequestBody defines the request body for requesting a reset link.
type resetRequestBody struct {
	Email string `json:"email"`
}

// ResetRequest issues a password-reset token. The response reads the same
// whether or not the account exists.
func (h *AuthHandler) ResetRequest(c *gin.Context) {
	var body resetRequestBody
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	email := strings.TrimSpace(body.Email)

	resp := gin.H{"message": "If an account exists with that email, a link will be sent."}
	user, errFind := h.guard.FindByEmail(email)
	if errFind == nil {
		token, errToken := security.GenerateResetToken(h.cfg.SecretKey, user.Email)
		if errToken != nil {
			log.WithError(errToken).Error("reset token failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		// Demo behavior carried over: the link is returned in the response
		// instead of being mailed out.
		resp["reset_token"] = token
		resp["reset_link"] = "/reset/" + token
	} else if !errors.Is(errFind, auth.ErrNotFound) {
		log.WithError(errFind).Error("reset request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ResetVerify checks a reset token without consuming it.
func (h *AuthHandler) ResetVerify(c *gin.Context) {
	if _, err := h.verifyToken(c.Param("token")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Token valid."})
}

// resetPasswordBody defines the request body for completing a reset.
type resetPasswordBody struct {
	Password string `json:"password"`
	Confirm  string `json:"confirm"`
}

// ResetPassword redeems a reset token and replaces the password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	email, errVerify := h.verifyToken(c.Param("token"))
	if errVerify != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token."})
		return
	}

	var body resetPasswordBody
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.Password == "" || body.Password != body.Confirm {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match."})
		return
	}

	if errReset := h.guard.ResetPassword(email, body.Password); errReset != nil {
		if errors.Is(errReset, auth.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token."})
			return
		}
		log.WithError(errReset).Error("reset password failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset. Please login."})
}

// verifyToken distinguishes expiry from tampering in the log only; callers
// surface one message for both.
func (h *AuthHandler) verifyToken(token string) (string, error) {
	email, err := security.VerifyResetToken(h.cfg.SecretKey, token, h.cfg.ResetTokenMaxAge())
	if err != nil {
		if errors.Is(err, security.ErrTokenExpired) {
			log.WithField("kind", "expired").Debug("reset token rejected")
		} else {
			log.WithField("kind", "invalid").Debug("reset token rejected")
		}
		return "", err
	}
	return email, nil
}
