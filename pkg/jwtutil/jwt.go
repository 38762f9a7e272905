package jwtutil

import (
	"time"

	"github.com/golang-jwt/jwt/v4"

	"devhub-api/pkg/config"
)

var (
	secret          = []byte("devhubsecretkey")
	expirationHours = 24
)

// Initialize configures the signing key and token lifetime
func Initialize(cfg *config.JWTConfig) {
	if cfg.SigningKey != "" {
		secret = []byte(cfg.SigningKey)
	}
	if cfg.ExpirationHours > 0 {
		expirationHours = cfg.ExpirationHours
	}
}

// UserClaims represents the JWT claims for user authentication. The
// claims carry the caller context the tenant isolation layer consumes:
// system id, role, founder flag and tenant membership.
type UserClaims struct {
	Email      string  `json:"email"`
	UserID     string  `json:"user_id"` // system id, USR-NNN
	Role       string  `json:"role,omitempty"`
	IsFounder  bool    `json:"is_founder,omitempty"`
	TenantID   *string `json:"tenant_id,omitempty"`
	TenantName string  `json:"tenant_name,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken creates a JWT token carrying the user's caller context
func GenerateToken(email, userID, role string, isFounder bool, tenantID *string, tenantName string) (string, error) {
	claims := UserClaims{
		Email:      email,
		UserID:     userID,
		Role:       role,
		IsFounder:  isFounder,
		TenantID:   tenantID,
		TenantName: tenantName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expirationHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken validates and parses the JWT token
func ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
