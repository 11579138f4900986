package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/elioraretreat/registration-server/internal/logger"
)

// MockTokenManager mocks the TokenManager interface
type MockTokenManager struct {
	mock.Mock
}

func (m *MockTokenManager) GenerateAdminToken() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func TestAuthService_Login(t *testing.T) {
	t.Run("correct password", func(t *testing.T) {
		mockTokens := &MockTokenManager{}
		mockTokens.On("GenerateAdminToken").Return("token-123", nil)

		auth := NewAuth("letmein", mockTokens, logger.New(0))

		token, err := auth.Login("letmein")
		require.NoError(t, err)
		assert.Equal(t, "token-123", token)
		mockTokens.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		mockTokens := &MockTokenManager{}
		auth := NewAuth("letmein", mockTokens, logger.New(0))

		_, err := auth.Login("guess")
		assert.ErrorIs(t, err, ErrInvalidPassword)
		mockTokens.AssertNotCalled(t, "GenerateAdminToken")
	})

	t.Run("empty password", func(t *testing.T) {
		auth := NewAuth("letmein", &MockTokenManager{}, logger.New(0))

		_, err := auth.Login("")
		assert.ErrorIs(t, err, ErrInvalidPassword)
	})

	t.Run("token generation failure", func(t *testing.T) {
		mockTokens := &MockTokenManager{}
		mockTokens.On("GenerateAdminToken").Return("", errors.New("bad key"))

		auth := NewAuth("letmein", mockTokens, logger.New(0))

		_, err := auth.Login("letmein")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidPassword)
	})
}
