package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cybercase-service/internal/domain"

	"github.com/google/uuid"
)

// PasswordHasher abstracts credential hashing (bcrypt in production).
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// TokenIssuer mints opaque session tokens for authenticated users.
type TokenIssuer interface {
	Generate(userID string) (string, error)
}

// AuthService covers signup and login. Everything downstream only ever sees
// the authenticated user id.
type AuthService struct {
	users     UserRepository
	passwords PasswordHasher
	tokens    TokenIssuer
	now       func() time.Time
}

func NewAuthService(users UserRepository, passwords PasswordHasher, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, passwords: passwords, tokens: tokens, now: time.Now}
}

// Signup registers a new user. A duplicate email surfaces as ErrEmailTaken
// so the caller can prompt a retry instead of crashing.
func (s *AuthService) Signup(ctx context.Context, username, email, password string) (domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return domain.User{}, "", domain.ErrInvalidInput
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		ID:             uuid.NewString(),
		Username:       strings.TrimSpace(username),
		Email:          email,
		HashedPassword: hash,
		LastBadge:      domain.BadgePracticing,
		CreatedAt:      s.now(),
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return domain.User{}, "", domain.ErrEmailTaken
		}
		return domain.User{}, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("generate token: %w", err)
	}
	user.HashedPassword = ""
	return user, token, nil
}

// Login checks credentials and issues a token. Failures are reported as one
// generic credential error.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, "", fmt.Errorf("find user: %w", err)
	}

	if !s.passwords.Compare(user.HashedPassword, password) {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("generate token: %w", err)
	}
	user.HashedPassword = ""
	return user, token, nil
}
