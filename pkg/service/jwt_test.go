package service

import (
	"testing"
	"time"

	apperrors "inspection-system/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)

	token, err := svc.GenerateToken("user-1", "employee")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "employee", claims.Role)
}

func TestJWTExpired(t *testing.T) {
	svc := &jwtService{
		SecretKey:      "secret",
		AccessTokenExp: time.Minute,
		now:            func() time.Time { return time.Now().Add(-time.Hour) },
	}

	token, err := svc.GenerateToken("user-1", "admin")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestJWTWrongKey(t *testing.T) {
	token, err := NewJWTService("secret", time.Hour).GenerateToken("user-1", "admin")
	require.NoError(t, err)

	_, err = NewJWTService("other", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
