package tests

import (
	"context"
	"testing"
	"time"

	"carpool/internal/auth"
	"carpool/internal/domain"
	"carpool/internal/service"
)

// ──────────────────────────────────────────────
// 10. REGISTRATION, LOGIN AND SESSION TOKENS
// ──────────────────────────────────────────────

func newAuthService(userRepo *MockUserRepository) (*service.AuthService, *auth.TokenManager) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return service.NewAuthService(userRepo, tokens), tokens
}

func TestRegister_IssuesTokenWithClaims(t *testing.T) {
	t.Parallel()

	userRepo := NewMockUserRepository()
	svc, tokens := newAuthService(userRepo)

	result, err := svc.Register(context.Background(), service.RegisterRequest{
		Name:     "Nadia",
		Email:    "Nadia@Example.com",
		Password: "s3cret-pass",
		Phone:    "+201001234567",
		Role:     domain.RoleCarOwner,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Email is normalized to lower case.
	if result.User.Email != "nadia@example.com" {
		t.Errorf("expected lowercased email, got %q", result.User.Email)
	}
	if result.User.PasswordHash == "s3cret-pass" {
		t.Error("password must not be stored in plain text")
	}

	claims, err := tokens.Parse(result.Token)
	if err != nil {
		t.Fatalf("issued token failed to parse: %v", err)
	}
	if claims.UserID != result.User.ID {
		t.Errorf("expected sub %s, got %s", result.User.ID, claims.UserID)
	}
	if claims.Role != domain.RoleCarOwner {
		t.Errorf("expected role %s, got %s", domain.RoleCarOwner, claims.Role)
	}
	if claims.Name != "Nadia" {
		t.Errorf("expected name claim Nadia, got %q", claims.Name)
	}
}

func TestRegister_DefaultsToPassengerRole(t *testing.T) {
	t.Parallel()

	svc, _ := newAuthService(NewMockUserRepository())

	result, err := svc.Register(context.Background(), service.RegisterRequest{
		Name:     "Nadia",
		Email:    "nadia@example.com",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.User.Role != domain.RolePassenger {
		t.Errorf("expected default role %s, got %s", domain.RolePassenger, result.User.Role)
	}
}

func TestRegister_RejectsUnknownRole(t *testing.T) {
	t.Parallel()

	svc, _ := newAuthService(NewMockUserRepository())

	_, err := svc.Register(context.Background(), service.RegisterRequest{
		Name:     "Nadia",
		Email:    "nadia@example.com",
		Password: "s3cret-pass",
		Role:     "SUPERUSER",
	})
	if err != service.ErrInvalidRole {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}
}

func TestRegister_MissingFields(t *testing.T) {
	t.Parallel()

	svc, _ := newAuthService(NewMockUserRepository())

	_, err := svc.Register(context.Background(), service.RegisterRequest{
		Name:  "Nadia",
		Email: "nadia@example.com",
	})
	if err != service.ErrMissingCredentials {
		t.Errorf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	userRepo := NewMockUserRepository()
	svc, _ := newAuthService(userRepo)

	ctx := context.Background()
	req := service.RegisterRequest{
		Name:     "Nadia",
		Email:    "nadia@example.com",
		Password: "s3cret-pass",
	}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req.Name = "Other Nadia"
	_, err := svc.Register(ctx, req)
	if err != service.ErrEmailTaken {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
	if userRepo.CountUsers() != 1 {
		t.Errorf("expected 1 user, got %d", userRepo.CountUsers())
	}
}

func TestLogin_Succeeds(t *testing.T) {
	t.Parallel()

	userRepo := NewMockUserRepository()
	svc, tokens := newAuthService(userRepo)

	ctx := context.Background()
	registered, err := svc.Register(ctx, service.RegisterRequest{
		Name:     "Nadia",
		Email:    "nadia@example.com",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Credentials are matched case-insensitively on the email.
	result, err := svc.Login(ctx, "NADIA@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.User.ID != registered.User.ID {
		t.Errorf("expected user %s, got %s", registered.User.ID, result.User.ID)
	}
	if _, err := tokens.Parse(result.Token); err != nil {
		t.Errorf("issued token failed to parse: %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()

	svc, _ := newAuthService(NewMockUserRepository())

	ctx := context.Background()
	if _, err := svc.Register(ctx, service.RegisterRequest{
		Name:     "Nadia",
		Email:    "nadia@example.com",
		Password: "s3cret-pass",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.Login(ctx, "nadia@example.com", "wrong-pass")
	if err != service.ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	t.Parallel()

	svc, _ := newAuthService(NewMockUserRepository())

	// Unknown email and wrong password are indistinguishable to the caller.
	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	if err != service.ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestToken_RejectsForeignSignature(t *testing.T) {
	t.Parallel()

	issuer := auth.NewTokenManager("secret-a", time.Hour)
	verifier := auth.NewTokenManager("secret-b", time.Hour)

	token, err := issuer.Issue(&domain.User{ID: "user-1", Name: "Nadia", Role: domain.RolePassenger})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := verifier.Parse(token); err != auth.ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestToken_RejectsExpired(t *testing.T) {
	t.Parallel()

	tokens := auth.NewTokenManager("test-secret", -time.Minute)

	token, err := tokens.Issue(&domain.User{ID: "user-1", Name: "Nadia", Role: domain.RolePassenger})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := tokens.Parse(token); err != auth.ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for an expired token, got %v", err)
	}
}

func TestToken_RejectsGarbage(t *testing.T) {
	t.Parallel()

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	if _, err := tokens.Parse("not.a.token"); err != auth.ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}
