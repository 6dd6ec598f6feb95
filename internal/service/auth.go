package service

import (
	"context" // Request-scoped cancellation
	"strings" // Input trimming
	"time"    // Token expiry

	"finflow/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging
)

// UserStore is the credential store the auth flow needs
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
}

// Hasher hashes and verifies passwords
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

// TokenIssuer mints identity tokens
type TokenIssuer interface {
	Issue(userID, email string) (string, time.Time, error)
}

// SignupInput is the data a new user submits
type SignupInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AuthResult is returned by a successful signup or login
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// AuthService implements signup and login
type AuthService struct {
	users  UserStore
	hasher Hasher
	tokens TokenIssuer
	// dummyDigest is verified against when the email is unknown so both
	// failure paths cost one bcrypt comparison.
	dummyDigest string
}

// NewAuthService wires the auth flow to its collaborators
func NewAuthService(users UserStore, hasher Hasher, tokens TokenIssuer) (*AuthService, error) {
	dummy, err := hasher.Hash("finflow-dummy-password")
	if err != nil {
		return nil, err
	}
	return &AuthService{users: users, hasher: hasher, tokens: tokens, dummyDigest: dummy}, nil
}

// Signup registers a new user and issues a token for it.
//
// The existence check and the insert are not atomic: two concurrent signups
// for one email can both pass the check. The unique index on users.email is
// the authoritative guard and the store reports its violation as Conflict.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.InvalidInput("Email and password required")
	}

	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.Conflict("User already exists")
	case !domain.IsKind(err, domain.KindNotFound):
		return nil, err
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, domain.Internal("Failed to hash password", err)
	}
	user := &domain.User{
		Email:        email,
		PasswordHash: digest,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	result, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	logrus.WithField("user_id", user.ID).Info("User signed up")
	return result, nil
}

// Login authenticates by email and password. An unknown email and a wrong
// password produce the same InvalidCredentials error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.InvalidInput("Email and password required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			s.hasher.Verify(password, s.dummyDigest)
			return nil, domain.InvalidCredentials()
		}
		return nil, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.InvalidCredentials()
	}

	result, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	logrus.WithField("user_id", user.ID).Info("User logged in")
	return result, nil
}

func (s *AuthService) issue(user *domain.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, domain.Internal("Failed to generate token", err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}
