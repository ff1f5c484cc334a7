package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/factrix/factrix-api/config"
	"github.com/factrix/factrix-api/middleware"
	"github.com/factrix/factrix-api/models"
	"github.com/factrix/factrix-api/services"
	"github.com/factrix/factrix-api/utils"
)

// SendOTPRequest represents the request body for requesting a verification code
type SendOTPRequest struct {
	EmailID          string `json:"emailId" binding:"required,email"`
	OrganisationName string `json:"organisationName" binding:"required"`
}

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	FirstName        string `json:"firstName" binding:"required"`
	LastName         string `json:"lastName"`
	EmailID          string `json:"emailId" binding:"required,email"`
	Password         string `json:"password" binding:"required"`
	PhoneNumber      string `json:"phoneNumber"`
	OrganisationName string `json:"organisationName" binding:"required"`
	Role             string `json:"role" binding:"required"`
	OTP              string `json:"otp" binding:"required"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	EmailID  string `json:"emailId" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest represents the request body for a password change
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// ForgotPasswordRequest represents the request body for a reset code request
type ForgotPasswordRequest struct {
	EmailID string `json:"emailId" binding:"required,email"`
}

// ResetPasswordRequest represents the request body for an OTP-gated reset
type ResetPasswordRequest struct {
	EmailID         string `json:"emailId" binding:"required,email"`
	OTP             string `json:"otp" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// userReply is the safe subset of a User returned to clients
func userReply(user *models.User) gin.H {
	return gin.H{
		"id":               user.ID,
		"firstName":        user.FirstName,
		"lastName":         user.LastName,
		"emailId":          user.EmailID,
		"organisationName": user.OrganisationName,
		"role":             user.Role,
		"isActive":         user.IsActive,
	}
}

// SendOTP handles POST /auth/send-otp - emails a verification code to a new registrant
func SendOTP(c *gin.Context) {
	var req SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Email and Organisation Name are required to generate OTP.",
			},
		})
		return
	}

	db := config.GetDB()
	emailID := strings.ToLower(strings.TrimSpace(req.EmailID))

	var count int64
	db.Model(&models.User{}).Where("email_id = ?", emailID).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CONFLICT",
				"message": "User is already registered with this email.",
			},
		})
		return
	}

	db.Model(&models.User{}).Where("LOWER(organisation_name) = LOWER(?)", strings.TrimSpace(req.OrganisationName)).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CONFLICT",
				"message": "Organisation Name is already registered.",
			},
		})
		return
	}

	code, err := generateUniqueOTP(db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "OTP_ERROR",
				"message": "Could not generate OTP. Please try again later.",
			},
		})
		return
	}

	otp := models.OTP{EmailID: emailID, Code: code}
	if err := db.Create(&otp).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Could not send OTP. Please try again later.",
			},
		})
		return
	}

	if err := services.GetMailService().Send(services.BuildOTPEmail(emailID, code)); err != nil {
		log.Printf("OTP email failed to send: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MAIL_ERROR",
				"message": "Could not send OTP. Please try again later.",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OTP sent successfully!",
	})
}

// Register handles POST /auth/register - creates an account after OTP verification
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "All fields are required.",
				"details": err.Error(),
			},
		})
		return
	}

	role, err := models.ParseRole(req.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Role must be either merchant or factory.",
			},
		})
		return
	}

	if err := validatePasswordStrength(req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	emailID := strings.ToLower(strings.TrimSpace(req.EmailID))

	recentOTP, err := verifyRecentOTP(db, emailID, req.OTP)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_OTP",
				"message": err.Error(),
			},
		})
		return
	}

	var count int64
	db.Model(&models.User{}).Where("LOWER(organisation_name) = LOWER(?)", strings.TrimSpace(req.OrganisationName)).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CONFLICT",
				"message": "Organisation Name is already registered.",
			},
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Error during registration.",
			},
		})
		return
	}

	user := models.User{
		FirstName:        strings.TrimSpace(req.FirstName),
		LastName:         strings.TrimSpace(req.LastName),
		EmailID:          emailID,
		PhoneNumber:      strings.TrimSpace(req.PhoneNumber),
		OrganisationName: strings.TrimSpace(req.OrganisationName),
		Role:             role,
		PasswordHash:     string(hash),
		IsActive:         true,
	}

	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "CONFLICT",
					"message": "User is already registered with this email.",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Error during registration.",
			},
		})
		return
	}

	token, err := services.IssueToken(&user, services.RegisterTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TOKEN_ERROR",
				"message": "Could not create a session. Please log in.",
			},
		})
		return
	}
	setSessionCookie(c, token, services.RegisterTokenTTL)

	// Welcome email failures are logged and swallowed: the registration
	// itself already succeeded
	welcome := services.BuildWelcomeEmail(user.EmailID, user.FirstName, string(user.Role))
	if err := services.GetMailService().Send(welcome); err != nil {
		log.Printf("Welcome email failed to send: %v", err)
	}

	// The code is single-use
	db.Delete(&models.OTP{}, recentOTP.ID)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User Registered Successfully",
		"user":    userReply(&user),
	})
}

// Login handles POST /auth/login - verifies credentials and issues a 24h session
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Email and Password are required.",
			},
		})
		return
	}

	db := config.GetDB()
	var user models.User
	if err := db.Where("email_id = ?", strings.ToLower(strings.TrimSpace(req.EmailID))).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CREDENTIALS",
				"message": "Invalid Credentials: User not found.",
			},
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CREDENTIALS",
				"message": "Invalid Credentials: Password mismatch.",
			},
		})
		return
	}

	token, err := services.IssueToken(&user, services.LoginTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TOKEN_ERROR",
				"message": "Could not create a session. Please try again.",
			},
		})
		return
	}
	setSessionCookie(c, token, services.LoginTokenTTL)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Welcome back, " + user.FirstName + "! Login successful.",
		"user":    userReply(&user),
	})
}

// Logout handles POST /auth/logout - blacklists the current token and clears the cookie
func Logout(c *gin.Context) {
	tokenString, err := c.Cookie(middleware.TokenCookieName)
	if err != nil || tokenString == "" {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Already logged out.",
		})
		return
	}

	// Best-effort revocation: an unreachable blacklist store must not trap
	// the user in a session they asked to end
	if err := services.RevokeToken(config.GetDB(), tokenString); err != nil {
		log.Printf("Token revocation failed: %v", err)
	}

	clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User logged out successfully!",
	})
}

// ChangePassword handles POST /auth/change-password for authenticated users
func ChangePassword(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "All fields are required.",
			},
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CREDENTIALS",
				"message": "Incorrect current password.",
			},
		})
		return
	}

	if req.OldPassword == req.NewPassword {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "New password cannot be the same as old.",
			},
		})
		return
	}

	if err := validatePasswordStrength(req.NewPassword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Could not update password.",
			},
		})
		return
	}

	if err := config.GetDB().Model(user).Update("password_hash", string(hash)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Could not update password.",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password updated successfully!",
	})
}

// ForgotPassword handles POST /auth/forgot-password - emails a reset code
func ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Email is required.",
			},
		})
		return
	}

	db := config.GetDB()
	emailID := strings.ToLower(strings.TrimSpace(req.EmailID))

	var user models.User
	if err := db.Where("email_id = ?", emailID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "User not found with this email.",
			},
		})
		return
	}

	code, err := generateUniqueOTP(db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "OTP_ERROR",
				"message": "Internal server error.",
			},
		})
		return
	}

	otp := models.OTP{EmailID: emailID, Code: code}
	if err := db.Create(&otp).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Internal server error.",
			},
		})
		return
	}

	if err := services.GetMailService().Send(services.BuildOTPEmail(emailID, code)); err != nil {
		log.Printf("Password reset email failed to send: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MAIL_ERROR",
				"message": "Internal server error.",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password reset OTP sent to your email.",
	})
}

// ResetPassword handles POST /auth/reset-password - OTP-gated credential rotation
func ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "All fields are required.",
			},
		})
		return
	}

	if req.NewPassword != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Passwords do not match.",
			},
		})
		return
	}

	if err := validatePasswordStrength(req.NewPassword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	emailID := strings.ToLower(strings.TrimSpace(req.EmailID))

	recentOTP, err := verifyRecentOTP(db, emailID, req.OTP)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_OTP",
				"message": "Invalid or expired OTP.",
			},
		})
		return
	}

	var user models.User
	if err := db.Where("email_id = ?", emailID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "User not found.",
			},
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Failed to reset password.",
			},
		})
		return
	}

	if err := db.Model(&user).Update("password_hash", string(hash)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to reset password.",
			},
		})
		return
	}

	db.Delete(&models.OTP{}, recentOTP.ID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password reset successful. You can now log in.",
	})
}

// CheckSession handles GET /auth/check - echoes the resolved session user
func CheckSession(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Authenticated session is valid.",
		"user":    userReply(user),
	})
}

// verifyRecentOTP checks a submitted code against the most recent unexpired
// code for the email, returning the matched record so it can be deleted
// after use
func verifyRecentOTP(db *gorm.DB, emailID, code string) (*models.OTP, error) {
	var recent models.OTP
	if err := db.Where("email_id = ?", emailID).Order("created_at DESC").First(&recent).Error; err != nil {
		return nil, errors.New("OTP Not Found or Expired.")
	}
	if recent.Expired(time.Now()) {
		return nil, errors.New("OTP Not Found or Expired.")
	}
	if recent.Code != code {
		return nil, errors.New("Invalid OTP.")
	}
	return &recent, nil
}

// generateUniqueOTP produces a code not currently present in the OTP table
func generateUniqueOTP(db *gorm.DB) (string, error) {
	for attempts := 0; attempts < 10; attempts++ {
		code, err := utils.GenerateOTP()
		if err != nil {
			return "", err
		}
		var count int64
		if err := db.Model(&models.OTP{}).Where("code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", errors.New("could not generate a unique OTP")
}

// validatePasswordStrength enforces the registration password policy
func validatePasswordStrength(password string) error {
	if len(password) < 8 {
		return errors.New("Password must be at least 8 characters long and include uppercase, lowercase, number, and symbol.")
	}
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSymbol {
		return errors.New("Password must be at least 8 characters long and include uppercase, lowercase, number, and symbol.")
	}
	return nil
}

// setSessionCookie attaches the session credential to the response
func setSessionCookie(c *gin.Context, token string, ttl time.Duration) {
	secure := false
	if cfg := config.GetConfig(); cfg != nil {
		secure = cfg.IsProduction()
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.TokenCookieName, token, int(ttl.Seconds()), "/", "", secure, true)
}

// clearSessionCookie removes the session credential from the client
func clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.TokenCookieName, "", -1, "/", "", false, true)
}
