package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cybercase-service/internal/app"
	"cybercase-service/internal/domain"
	"cybercase-service/internal/infra/memory"
	"cybercase-service/internal/security"
)

func newAuthService() (*app.AuthService, *memory.UserStore) {
	store := memory.NewUserStore()
	tokens := security.NewTokenManager([]byte("test-secret"), time.Hour)
	return app.NewAuthService(store, security.NewBcryptHasher(), tokens), store
}

func TestSignupAndLogin(t *testing.T) {
	ctx := context.Background()
	auth, _ := newAuthService()

	user, token, err := auth.Signup(ctx, "Alice", "  Alice@Example.COM ", "s3cret")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if user.ID == "" || token == "" {
		t.Fatal("signup should return an id and a token")
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("email should be normalized, got %q", user.Email)
	}
	if user.HashedPassword != "" {
		t.Fatal("hashed password must not leave the service")
	}
	if user.LastBadge != domain.BadgePracticing {
		t.Fatalf("new users start at %q, got %q", domain.BadgePracticing, user.LastBadge)
	}

	logged, token, err := auth.Login(ctx, "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if logged.ID != user.ID || token == "" {
		t.Fatal("login should return the same user and a token")
	}
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	auth, _ := newAuthService()

	if _, _, err := auth.Signup(ctx, "Alice", "alice@example.com", "s3cret"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	_, _, err := auth.Signup(ctx, "Imposter", "ALICE@example.com", "other")
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected email-taken error, got %v", err)
	}
}

func TestSignupValidatesInput(t *testing.T) {
	ctx := context.Background()
	auth, _ := newAuthService()

	if _, _, err := auth.Signup(ctx, "Alice", "", "s3cret"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for empty email, got %v", err)
	}
	if _, _, err := auth.Signup(ctx, "Alice", "alice@example.com", ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for empty password, got %v", err)
	}
}

func TestLoginFailuresAreGeneric(t *testing.T) {
	ctx := context.Background()
	auth, _ := newAuthService()

	if _, _, err := auth.Signup(ctx, "Alice", "alice@example.com", "s3cret"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	if _, _, err := auth.Login(ctx, "alice@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected credential error for wrong password, got %v", err)
	}
	if _, _, err := auth.Login(ctx, "nobody@example.com", "s3cret"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected credential error for unknown email, got %v", err)
	}
}
