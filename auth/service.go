package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/Conversia-AI/craftable-serialx/errx"
	"github.com/golang-jwt/jwt/v5"
)

// Define error codes/types
var (
	// ErrorRegistry for auth package
	authErrors = errx.NewRegistry("AUTH")

	ErrMissingToken      = authErrors.Register("MISSING_TOKEN", errx.TypeAuthorization, 401, "Bearer token required")
	ErrInvalidToken      = authErrors.Register("INVALID_TOKEN", errx.TypeAuthorization, 401, "Invalid or expired token")
	ErrInsufficientScope = authErrors.Register("INSUFFICIENT_SCOPE", errx.TypeAuthorization, 403, "Token lacks the required scope")
	ErrTokenGeneration   = authErrors.Register("TOKEN_GENERATION_FAILED", errx.TypeInternal, 500, "Failed to generate JWT token")
	ErrEmptySecret       = authErrors.Register("EMPTY_SECRET", errx.TypeValidation, 400, "JWT secret must not be empty")
)

// Scopes granted to API clients
const (
	ScopeRead     = "schemas:read"
	ScopeValidate = "schemas:validate"
)

// Claims are the JWT claims issued to API clients
type Claims struct {
	Scopes []string `json:"scopes,omitempty"`
	jwt.RegisteredClaims
}

// HasScope reports whether the claims grant scope. A token without scopes
// grants everything.
func (c *Claims) HasScope(scope string) bool {
	if len(c.Scopes) == 0 {
		return true
	}
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// TokenService issues and verifies HS256 tokens
type TokenService struct {
	jwtSecret       []byte
	tokenExpiration time.Duration
	issuer          string
}

// NewTokenService creates a token service. A zero expiration issues tokens
// that never expire.
func NewTokenService(jwtSecret []byte, tokenExpiration time.Duration) (*TokenService, error) {
	if len(jwtSecret) == 0 {
		return nil, authErrors.New(ErrEmptySecret)
	}
	return &TokenService{
		jwtSecret:       jwtSecret,
		tokenExpiration: tokenExpiration,
		issuer:          "serialx",
	}, nil
}

// GenerateToken signs a token for subject
func (s *TokenService) GenerateToken(subject string, scopes ...string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Scopes: scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  subject,
			Issuer:   s.issuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.tokenExpiration > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.tokenExpiration))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", authErrors.New(ErrTokenGeneration).
			WithDetail("subject", subject).
			WithCause(err)
	}

	return tokenString, nil
}

// ValidateToken verifies a JWT token and returns the claims
func (s *TokenService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, authErrors.New(ErrInvalidToken).
				WithDetail("error", "invalid signing method")
		}
		return s.jwtSecret, nil
	}, jwt.WithIssuer(s.issuer))

	if err != nil {
		reason := err.Error()
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			reason = "token expired"
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			reason = "token not valid yet"
		case errors.Is(err, jwt.ErrTokenMalformed):
			reason = "token malformed"
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			reason = "invalid signature"
		}
		return nil, authErrors.New(ErrInvalidToken).
			WithDetail("error", reason).
			WithCause(err)
	}

	if !token.Valid {
		return nil, authErrors.New(ErrInvalidToken).
			WithDetail("error", "token validation failed")
	}

	return claims, nil
}

// Authorize checks an Authorization header value ("Bearer <token>") and the
// scope the request needs
func (s *TokenService) Authorize(header, scope string) error {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return authErrors.New(ErrMissingToken)
	}

	claims, err := s.ValidateToken(strings.TrimSpace(token))
	if err != nil {
		return err
	}
	if !claims.HasScope(scope) {
		return authErrors.New(ErrInsufficientScope).
			WithDetail("scope", scope).
			WithDetail("subject", claims.Subject)
	}
	return nil
}
