package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	token, err := svc.GenerateToken("admin@crimesense.com", RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@crimesense.com", claims.Email)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, "crimesense", claims.Issuer)
	assert.True(t, claims.IsAdmin())
}

func TestValidateToken_WrongSecret(t *testing.T) {
	issuer := NewService("secret-a", time.Hour)
	verifier := NewService("secret-b", time.Hour)

	token, err := issuer.GenerateToken("admin@crimesense.com", RoleAdmin)
	require.NoError(t, err)

	claims, err := verifier.ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := NewService("test-secret", -time.Minute)

	token, err := svc.GenerateToken("admin@crimesense.com", RoleAdmin)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	claims, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestIsAdmin_UserRole(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	token, err := svc.GenerateToken("someone@example.com", RoleUser)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.False(t, claims.IsAdmin())
}
