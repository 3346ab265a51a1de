package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenManager(t *testing.T) {
	manager := NewTokenManager("test-secret", 60)

	t.Run("Round trip", func(t *testing.T) {
		token, err := manager.GenerateAccessToken(42, "staff@example.com", "ADMIN")
		assert.NoError(t, err)
		assert.NotEmpty(t, token)

		claims, err := manager.ValidateToken(token)
		assert.NoError(t, err)
		assert.Equal(t, int32(42), claims.UserID)
		assert.Equal(t, "staff@example.com", claims.Email)
		assert.Equal(t, "ADMIN", claims.Role)
	})

	t.Run("Wrong secret is rejected", func(t *testing.T) {
		other := NewTokenManager("another-secret", 60)
		token, err := other.GenerateAccessToken(42, "staff@example.com", "COORDINATOR")
		assert.NoError(t, err)

		_, err = manager.ValidateToken(token)
		assert.Equal(t, ErrInvalidToken, err)
	})

	t.Run("Garbage is rejected", func(t *testing.T) {
		_, err := manager.ValidateToken("not-a-jwt")
		assert.Equal(t, ErrInvalidToken, err)
	})
}
