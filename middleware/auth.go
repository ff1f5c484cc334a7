package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/factrix/factrix-api/config"
	"github.com/factrix/factrix-api/models"
	"github.com/factrix/factrix-api/services"
)

// TokenCookieName is the cookie carrying the session credential
const TokenCookieName = "token"

// currentUserKey is the gin context key the resolved user is stored under
const currentUserKey = "current_user"

// Authenticated validates the session cookie, rejects revoked or expired
// credentials, resolves the account, and attaches it to the request
// context. Every protected route goes through here.
func Authenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(TokenCookieName)
		if err != nil || tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "No token provided. Please login again.",
				},
			})
			c.Abort()
			return
		}

		// Revocation check against the blacklist. When the store is
		// unreachable this fails open unless AUTH_FAIL_CLOSED is set.
		revoked, err := services.IsTokenRevoked(config.GetDB(), tokenString)
		if err != nil {
			log.Printf("Token blacklist check failed: %v", err)
			if config.GetConfig() != nil && config.GetConfig().AuthFailClosed {
				c.JSON(http.StatusUnauthorized, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "UNAUTHORIZED",
						"message": "Could not verify session. Please login again.",
					},
				})
				c.Abort()
				return
			}
		}
		if revoked {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Session expired or logged out. Please login again.",
				},
			})
			c.Abort()
			return
		}

		claims, err := services.ParseToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Invalid or expired authentication token.",
				},
			})
			c.Abort()
			return
		}

		var user models.User
		if err := config.GetDB().First(&user, claims.UserID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "USER_NOT_FOUND",
					"message": "User account not found.",
				},
			})
			c.Abort()
			return
		}

		if !user.IsActive {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "This account has been deactivated.",
				},
			})
			c.Abort()
			return
		}

		c.Set(currentUserKey, &user)
		c.Next()
	}
}

// MerchantOnly additionally requires the resolved account to have the
// merchant role. It must run after Authenticated.
func MerchantOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := CurrentUser(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Could not extract user information",
				},
			})
			c.Abort()
			return
		}

		if user.Role != models.RoleMerchant {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Only merchants can perform this action.",
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUser extracts the authenticated user from the gin context
func CurrentUser(c *gin.Context) (*models.User, error) {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil, &AuthError{Code: "MISSING_USER", Message: "User not found in context"}
	}

	user, ok := value.(*models.User)
	if !ok {
		return nil, &AuthError{Code: "INVALID_USER", Message: "Context user has unexpected type"}
	}

	return user, nil
}

// SetCurrentUser attaches a user to the gin context (primarily for testing)
func SetCurrentUser(c *gin.Context, user *models.User) {
	c.Set(currentUserKey, user)
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
