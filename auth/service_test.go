package auth

import (
	"testing"
	"time"

	"github.com/Conversia-AI/craftable-serialx/errx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, ttl time.Duration) *TokenService {
	t.Helper()
	s, err := NewTokenService([]byte("test-secret"), ttl)
	require.NoError(t, err)
	return s
}

func TestGenerateAndValidate(t *testing.T) {
	s := newService(t, time.Hour)

	token, err := s.GenerateToken("ci", ScopeRead)
	require.NoError(t, err)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ci", claims.Subject)
	assert.Equal(t, "serialx", claims.Issuer)
	assert.True(t, claims.HasScope(ScopeRead))
	assert.False(t, claims.HasScope(ScopeValidate))
	require.NotNil(t, claims.ExpiresAt)
}

func TestValidateRejectsBadTokens(t *testing.T) {
	s := newService(t, time.Hour)

	other, err := NewTokenService([]byte("other-secret"), time.Hour)
	require.NoError(t, err)
	foreign, _ := other.GenerateToken("x")

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "serialx",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	expiredToken, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"malformed": "not.a.token",
		"signature": foreign,
		"expired":   expiredToken,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := s.ValidateToken(token)
			assert.True(t, errx.IsCode(err, ErrInvalidToken))
		})
	}
}

func TestAuthorize(t *testing.T) {
	s := newService(t, 0)
	readOnly, _ := s.GenerateToken("reader", ScopeRead)
	full, _ := s.GenerateToken("admin")

	assert.NoError(t, s.Authorize("Bearer "+readOnly, ScopeRead))
	assert.NoError(t, s.Authorize("bearer "+full, ScopeValidate))

	err := s.Authorize("Bearer "+readOnly, ScopeValidate)
	assert.True(t, errx.IsCode(err, ErrInsufficientScope))
	assert.Equal(t, 403, errx.StatusOf(err))

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer  "} {
		err := s.Authorize(header, ScopeRead)
		assert.True(t, errx.IsCode(err, ErrMissingToken), header)
	}
}

func TestEmptySecret(t *testing.T) {
	_, err := NewTokenService(nil, time.Hour)
	assert.True(t, errx.IsCode(err, ErrEmptySecret))
}
