package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents admin session JWT claims.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// JWT mints and validates admin session tokens backed by symmetric HMAC.
type JWT struct {
	secretKey string
}

// NewJWT creates a new JWT token manager with the provided secret key.
func NewJWT(secretKey string) *JWT {
	return &JWT{secretKey: secretKey}
}

const (
	// sessionTTL matches the dashboard's 15-minute login window.
	sessionTTL = 15 * time.Minute
	roleAdmin  = "admin"
)

// GenerateAdminToken creates a short-lived admin session token.
func (j *JWT) GenerateAdminToken() (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
		Role: roleAdmin,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign admin token: %w", err)
	}

	return tokenString, nil
}

// ValidateAdminToken checks signature, expiry and role of a session token.
func (j *JWT) ValidateAdminToken(tokenString string) error {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return fmt.Errorf("failed to parse admin token: %w", err)
	}
	if !token.Valid {
		return fmt.Errorf("admin token is invalid")
	}
	if claims.Role != roleAdmin {
		return fmt.Errorf("token role mismatch: %s", claims.Role)
	}
	return nil
}
