package auth

import (
	"errors"
	"testing"
	"time"

	"gigmarket_backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	token, err := m.GenerateToken("user-1", models.UserRoleFreelancer)
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)

	caller := claims.Caller()
	assert.True(t, caller.IsFreelancer())
	assert.False(t, caller.IsClient())
	assert.True(t, caller.Is("user-1"))
	assert.False(t, caller.Is(""))
}

func TestValidateToken_Rejects(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	good, err := m.GenerateToken("user-1", models.UserRoleClient)
	require.NoError(t, err)

	expired := NewTokenManager("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.GenerateToken("user-1", models.UserRoleClient)
	require.NoError(t, err)

	otherKey, err := NewTokenManager("other", time.Hour).GenerateToken("user-1", models.UserRoleClient)
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "user-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Role: models.UserRoleClient}).
		SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "abc.def.ghi"},
		{"expired", old},
		{"wrong key", otherKey},
		{"alg none", noneAlg},
		{"no user id", noSubject},
		{"tampered", good + "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.ValidateToken(tt.token)
			assert.True(t, errors.Is(err, ErrInvalidToken), "got %v", err)
		})
	}
}

func TestDefaultTTL(t *testing.T) {
	m := NewTokenManager("secret", 0)
	assert.Equal(t, 7*24*time.Hour, m.ttl)
}

func TestPasswordHelpers(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("secret123", hash))
	assert.False(t, CheckPasswordHash("secret124", hash))

	assert.Error(t, ValidatePassword("12345"))
	assert.NoError(t, ValidatePassword("123456"))

	assert.True(t, ValidateRole(models.UserRoleClient))
	assert.False(t, ValidateRole("admin"))
}
