package jwtutil

import (
	"time"

	"procurement-service/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

var (
	signingKey      []byte
	expirationHours int
)

// Initialize sets up the JWT utility with configuration
func Initialize(cfg *config.JWTConfig) {
	signingKey = []byte(cfg.SigningKey)
	expirationHours = cfg.ExpirationHours
}

// UserClaims represents the JWT claims for user authentication
type UserClaims struct {
	UserID      uint     `json:"user_id"`
	Email       string   `json:"email"`
	Name        string   `json:"name,omitempty"`
	Role        string   `json:"role,omitempty"`
	Permissions []string `json:"permissions,omitempty"` // capability set resolved at login
	jwt.RegisteredClaims
}

// HasPermission reports whether the claims carry the named capability.
func (c *UserClaims) HasPermission(perm string) bool {
	for _, p := range c.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// GenerateToken creates a signed JWT for the given user identity
func GenerateToken(userID uint, email, name, role string, permissions []string) (string, error) {
	now := time.Now()
	claims := &UserClaims{
		UserID:      userID,
		Email:       email,
		Name:        name,
		Role:        role,
		Permissions: permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expirationHours) * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingKey)
}

// ValidateToken validates and parses the JWT token
func ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return signingKey, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
