package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/elioraretreat/registration-server/internal/logger"
	"github.com/elioraretreat/registration-server/internal/service"
)

// AuthService exchanges the shared admin password for a session token.
type AuthService interface {
	Login(password string) (string, error)
}

// Auth handles the admin password gate.
type Auth struct {
	authService AuthService
	logger      *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, logger *logger.Logger) *Auth {
	return &Auth{
		authService: authService,
		logger:      logger,
	}
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token,omitempty"`
}

// Login checks the submitted password and returns a session token.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, loginResponse{Success: false, Message: "invalid request body"})
		return
	}

	token, err := h.authService.Login(req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPassword) {
			writeJSON(w, http.StatusUnauthorized, loginResponse{Success: false, Message: "Incorrect password"})
			return
		}
		h.logger.Error("Auth handler: login failed", "error", err)
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Success: true, Token: token})
}
