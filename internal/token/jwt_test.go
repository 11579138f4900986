package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_GenerateAndValidate(t *testing.T) {
	j := NewJWT("test-secret")

	tokenString, err := j.GenerateAdminToken()
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	assert.NoError(t, j.ValidateAdminToken(tokenString))
}

func TestJWT_GeneratedClaims(t *testing.T) {
	j := NewJWT("test-secret")

	tokenString, err := j.GenerateAdminToken()
	require.NoError(t, err)

	claims := &Claims{}
	_, err = jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)

	assert.Equal(t, "admin", claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	require.NotNil(t, claims.IssuedAt)
	assert.Equal(t, sessionTTL, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestJWT_ValidateAdminToken(t *testing.T) {
	t.Run("wrong secret", func(t *testing.T) {
		tokenString, err := NewJWT("secret-a").GenerateAdminToken()
		require.NoError(t, err)

		assert.Error(t, NewJWT("secret-b").ValidateAdminToken(tokenString))
	})

	t.Run("garbage token", func(t *testing.T) {
		assert.Error(t, NewJWT("secret").ValidateAdminToken("not.a.token"))
	})

	t.Run("expired token", func(t *testing.T) {
		now := time.Now().Add(-time.Hour)
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
			},
			Role: roleAdmin,
		})
		tokenString, err := token.SignedString([]byte("secret"))
		require.NoError(t, err)

		assert.Error(t, NewJWT("secret").ValidateAdminToken(tokenString))
	})

	t.Run("missing role", func(t *testing.T) {
		now := time.Now()
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
			},
		})
		tokenString, err := token.SignedString([]byte("secret"))
		require.NoError(t, err)

		err = NewJWT("secret").ValidateAdminToken(tokenString)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "role mismatch")
	})

	t.Run("wrong signing method", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
			},
			Role: roleAdmin,
		})
		tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		assert.Error(t, NewJWT("secret").ValidateAdminToken(tokenString))
	})
}
