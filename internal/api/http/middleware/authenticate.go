package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/elioraretreat/registration-server/internal/logger"
)

// TokenService validates admin session tokens.
type TokenService interface {
	ValidateAdminToken(token string) error
}

// Authenticate guards admin routes behind a Bearer session token.
type Authenticate struct {
	tokenService TokenService
	logger       *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenService TokenService, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenService: tokenService, logger: logger}
}

// Handler rejects requests without a valid Bearer token.
func (m *Authenticate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		if tokenString == "" || tokenString == authHeader {
			m.unauthorized(w, "missing authorization token")
			return
		}

		if err := m.tokenService.ValidateAdminToken(tokenString); err != nil {
			m.logger.Debug("Rejected admin token", "error", err)
			m.unauthorized(w, "invalid authorization token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *Authenticate) unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
