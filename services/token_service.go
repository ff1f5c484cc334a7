package services

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/factrix/factrix-api/config"
	"github.com/factrix/factrix-api/models"
)

// Session token lifetimes. Registration hands out a longer first session;
// regular logins get 24 hours.
const (
	RegisterTokenTTL = 168 * time.Hour
	LoginTokenTTL    = 24 * time.Hour
)

// SessionClaims are the claims carried by a session credential
type SessionClaims struct {
	UserID  uint        `json:"uid"`
	EmailID string      `json:"emailId"`
	Role    models.Role `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs a session credential for a user with the given lifetime
func IssueToken(user *models.User, ttl time.Duration) (string, error) {
	cfg := config.GetConfig()
	if cfg == nil || cfg.JWTSecret == "" {
		return "", errors.New("jwt secret is not configured")
	}

	now := time.Now()
	claims := SessionClaims{
		UserID:  user.ID,
		EmailID: user.EmailID,
		Role:    user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ParseToken validates a session credential and returns its claims
func ParseToken(tokenString string) (*SessionClaims, error) {
	cfg := config.GetConfig()
	if cfg == nil || cfg.JWTSecret == "" {
		return nil, errors.New("jwt secret is not configured")
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Ensure the signing method is what we expect
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}

// RevokeToken blacklists a credential until its natural expiry. Tokens that
// are already invalid or expired are ignored; there is nothing to revoke.
func RevokeToken(db *gorm.DB, tokenString string) error {
	claims, err := ParseToken(tokenString)
	if err != nil {
		return nil
	}

	expiresAt := time.Now().Add(LoginTokenTTL)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if !expiresAt.After(time.Now()) {
		return nil
	}

	// Purge dead rows while we are here; the table only needs to cover
	// still-live tokens
	db.Where("expires_at < ?", time.Now()).Delete(&models.RevokedToken{})

	revoked := models.RevokedToken{
		TokenHash: hashToken(tokenString),
		ExpiresAt: expiresAt,
	}
	if err := db.Create(&revoked).Error; err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

// IsTokenRevoked reports whether a credential has been blacklisted
func IsTokenRevoked(db *gorm.DB, tokenString string) (bool, error) {
	var count int64
	err := db.Model(&models.RevokedToken{}).
		Where("token_hash = ? AND expires_at > ?", hashToken(tokenString), time.Now()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func hashToken(tokenString string) string {
	sum := sha256.Sum256([]byte(tokenString))
	return hex.EncodeToString(sum[:])
}
