package server

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/domain/errors"
)

const testSecret = "testsecret"

func TestIssueAndVerifyToken(t *testing.T) {
	token, err := IssueToken(testSecret, time.Hour, "user123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := VerifyToken(testSecret, token)
	assert.NoError(t, err)
	assert.Equal(t, "user123", userID)
}

func TestIssueTokenWithoutSecret(t *testing.T) {
	token, err := IssueToken("", time.Hour, "user123")
	assert.ErrorIs(t, err, errors.ErrJWTSecretMissing)
	assert.Empty(t, token)
}

func TestVerifyToken(t *testing.T) {
	expired, err := IssueToken(testSecret, -time.Hour, "user123")
	require.NoError(t, err)

	foreign, err := IssueToken("othersecret", time.Hour, "user123")
	require.NoError(t, err)

	noUserID := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	noUserIDString, err := noUserID.SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  struct {
			err error
		}
	}{
		{
			name:  "expired token",
			token: expired,
			want: struct {
				err error
			}{
				err: errors.ErrInvalidToken,
			},
		},
		{
			name:  "token signed with different secret",
			token: foreign,
			want: struct {
				err error
			}{
				err: errors.ErrInvalidToken,
			},
		},
		{
			name:  "token without user_id claim",
			token: noUserIDString,
			want: struct {
				err error
			}{
				err: errors.ErrInvalidToken,
			},
		},
		{
			name:  "malformed token",
			token: "not.a.token",
			want: struct {
				err error
			}{
				err: errors.ErrInvalidToken,
			},
		},
		{
			name:  "empty token",
			token: "",
			want: struct {
				err error
			}{
				err: errors.ErrInvalidToken,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userID, err := VerifyToken(testSecret, tt.token)
			assert.ErrorIs(t, err, tt.want.err)
			assert.Empty(t, userID)
		})
	}
}
