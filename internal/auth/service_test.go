package auth

import (
	"context"
	"fmt"
	"testing"

	"github.com/codecuphq/codecup-backend/pkg/config"
	"github.com/codecuphq/codecup-backend/pkg/db/models"
	pkgerrors "github.com/codecuphq/codecup-backend/pkg/errors"
	"github.com/codecuphq/codecup-backend/pkg/security"
)

type stubAccountRepo struct {
	users     map[string]*models.User
	createErr error
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{users: make(map[string]*models.User)}
}

func (s *stubAccountRepo) Create(ctx context.Context, user *models.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	if _, exists := s.users[user.Email]; exists {
		return fmt.Errorf("duplicate key value violates unique constraint \"users_pkey\"")
	}
	s.users[user.Email] = user
	return nil
}

func (s *stubAccountRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := s.users[email]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

type stubSessionManager struct {
	revoked []string
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	return "refresh-" + accessID, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	return "rotated-id", "rotated-token", nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret-test-secret-test-123",
		Issuer:            "codecup-test",
		ExpirationMinutes: 15,
	}
}

func newAuthService(t *testing.T, repo accountRepository) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		AccountRepo:    repo,
		SessionManager: &stubSessionManager{},
		JWTConfig:      testJWTConfig(),
		PasswordConfig: config.PasswordConfig{},
	})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc
}

func registerReq(email string) RegisterRequest {
	return RegisterRequest{
		Email:    email,
		Password: "correct horse battery",
		FullName: "Test User",
		Phone:    "555-0100",
		Address:  "12 Bean St",
	}
}

func TestRegisterCreatesEmptyCard(t *testing.T) {
	t.Parallel()

	repo := newStubAccountRepo()
	svc := newAuthService(t, repo)

	resp, err := svc.Register(context.Background(), registerReq("Amy@Example.com "))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected token pair")
	}
	if resp.Account.Email != "amy@example.com" {
		t.Fatalf("expected normalized email, got %q", resp.Account.Email)
	}
	if resp.Account.Stamps != 0 || resp.Account.Points != 0 {
		t.Fatalf("expected empty card, got stamps=%d points=%d", resp.Account.Stamps, resp.Account.Points)
	}

	stored := repo.users["amy@example.com"]
	if stored == nil {
		t.Fatal("expected persisted account")
	}
	if stored.PasswordHash == "correct horse battery" {
		t.Fatal("password must be hashed")
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	t.Parallel()

	repo := newStubAccountRepo()
	svc := newAuthService(t, repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerReq("amy@example.com")); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(ctx, registerReq("amy@example.com"))
	if !pkgerrors.HasCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestLoginVerifiesPassword(t *testing.T) {
	t.Parallel()

	repo := newStubAccountRepo()
	hash, err := security.HashPassword("right password", config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hashing: %v", err)
	}
	repo.users["amy@example.com"] = &models.User{
		Email:        "amy@example.com",
		FullName:     "Amy",
		PasswordHash: hash,
	}
	svc := newAuthService(t, repo)
	ctx := context.Background()

	if _, err := svc.Login(ctx, LoginRequest{Email: "amy@example.com", Password: "right password"}); err != nil {
		t.Fatalf("expected login success, got %v", err)
	}

	_, err = svc.Login(ctx, LoginRequest{Email: "amy@example.com", Password: "wrong password"})
	if !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestLoginUnknownUserIsUnauthorized(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t, newStubAccountRepo())

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "x"})
	if !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}
