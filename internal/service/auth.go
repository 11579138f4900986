package service

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/elioraretreat/registration-server/internal/logger"
)

// ErrInvalidPassword is returned when the submitted admin password does not
// match the configured secret.
var ErrInvalidPassword = errors.New("incorrect password")

// TokenManager mints admin session tokens.
type TokenManager interface {
	GenerateAdminToken() (string, error)
}

// Auth is the admin capability gate: a shared-password check that yields a
// short-lived session token. It is the only place that decides whether a
// caller may see admin data, so it can be swapped for a real account system
// without touching the filter engine or handlers.
type Auth struct {
	password string
	tokens   TokenManager
	logger   *logger.Logger
}

func NewAuth(password string, tokens TokenManager, logger *logger.Logger) *Auth {
	return &Auth{
		password: password,
		tokens:   tokens,
		logger:   logger,
	}
}

// Login compares the submitted password against the configured secret in
// constant time and returns a session token on success.
func (a *Auth) Login(password string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) != 1 {
		return "", ErrInvalidPassword
	}

	token, err := a.tokens.GenerateAdminToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate admin token: %w", err)
	}

	return token, nil
}
