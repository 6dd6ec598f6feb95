package utils

import (
	"errors" // Error inspection
	"fmt"    // Error wrapping
	"time"   // Token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// Distinct token failures; the HTTP layer collapses them to 401.
var (
	ErrTokenMalformed        = errors.New("token is malformed")
	ErrTokenInvalidSignature = errors.New("token signature is invalid")
	ErrTokenExpired          = errors.New("token is expired")
)

// JWT Claims
type Claims struct {
	UserID               string `json:"id"`    // Custom claim for user ID
	Email                string `json:"email"` // Custom claim for user email
	jwt.RegisteredClaims        // Standard JWT claims (iat, exp)
}

// TokenManager issues and verifies HS256 identity tokens
type TokenManager struct {
	secret   []byte           // HMAC secret
	lifetime time.Duration    // Token lifetime
	now      func() time.Time // Clock, replaceable in tests
}

// NewTokenManager creates a TokenManager for the given secret and lifetime
func NewTokenManager(secret string, lifetime time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if lifetime <= 0 {
		return nil, fmt.Errorf("jwt lifetime must be positive, got %s", lifetime)
	}
	return &TokenManager{secret: []byte(secret), lifetime: lifetime, now: time.Now}, nil
}

// WithClock returns a copy of m that reads time from now
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	cp := *m
	cp.now = now
	return &cp
}

// Lifetime returns the configured token lifetime
func (m *TokenManager) Lifetime() time.Duration {
	return m.lifetime
}

// Issue creates a signed token for the given user and returns it with its expiry
func (m *TokenManager) Issue(userID, email string) (string, time.Time, error) {
	issuedAt := m.now().Truncate(time.Second) // NumericDate has second precision
	expiresAt := issuedAt.Add(m.lifetime)
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	signed, err := token.SignedString(m.secret)                // Sign the token with the secret
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse verifies signature and expiry and returns the token's claims
func (m *TokenManager) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		return m.secret, nil // Return the secret key for validation
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, mapJWTError(err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

// mapJWTError translates jwt library errors into the three token failure kinds
func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrTokenInvalidSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	default:
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
}
