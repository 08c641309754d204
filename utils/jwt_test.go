package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret")
	tok, err := m.GenerateToken("tech-1", RoleTechnician, time.Hour)
	require.NoError(t, err)

	claims, err := m.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "tech-1", claims.Subject)
	assert.Equal(t, RoleTechnician, claims.Role)
}

func TestTokenManager_Rejects(t *testing.T) {
	m := NewTokenManager("secret")

	expired, err := m.GenerateToken("u-1", RoleUser, -time.Minute)
	require.NoError(t, err)
	_, err = m.ValidateToken(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other, err := NewTokenManager("other").GenerateToken("u-1", RoleUser, time.Hour)
	require.NoError(t, err)
	_, err = m.ValidateToken(other)
	assert.ErrorIs(t, err, ErrInvalidToken)

	badRole, err := m.GenerateToken("u-1", "admin", time.Hour)
	require.NoError(t, err)
	_, err = m.ValidateToken(badRole)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
