package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/quizhub/quizhub-api/internal/domain/user"
	"github.com/quizhub/quizhub-api/internal/pkg/jwt"
	"github.com/quizhub/quizhub-api/internal/pkg/password"
)

type fakeUserRepo struct {
	created *user.User
	byID    *user.User
}

func (f *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	f.created = u
	f.byID = u
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if f.byID != nil && f.byID.ID == id {
		return f.byID, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	if f.byID != nil && f.byID.Username == username {
		return f.byID, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if f.byID != nil && f.byID.Email == email {
		return f.byID, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, u *user.User) error { return nil }
func (f *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return nil
}
func (f *fakeUserRepo) SetBanned(ctx context.Context, id uuid.UUID, banned bool) error { return nil }
func (f *fakeUserRepo) ApplyEntitlements(ctx context.Context, id uuid.UUID, upd user.EntitlementUpdate) (*user.User, error) {
	return f.byID, nil
}
func (f *fakeUserRepo) ResetEntitlements(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return f.byID, nil
}
func (f *fakeUserRepo) ConsumeFreeAccess(ctx context.Context, id uuid.UUID, minCount int) (int, error) {
	return 0, user.ErrFreeAccessUnavailable
}
func (f *fakeUserRepo) GrantFreeAccess(ctx context.Context, id uuid.UUID, count int) error {
	return nil
}
func (f *fakeUserRepo) AppendPaymentID(ctx context.Context, id uuid.UUID, paymentID uuid.UUID) error {
	return nil
}

func newAuthService(repo *fakeUserRepo) *Service {
	jwtSvc := jwt.NewService("test-secret", 15*time.Minute, 24*time.Hour)
	return NewService(repo, jwtSvc, nil, nil, "https://quizhub.test")
}

func TestRegisterGrantsSignupFreeAccess(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := newAuthService(repo)

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Username: "NewStudent",
		Email:    "Student@Example.COM",
		Password: "secret-password",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if repo.created == nil {
		t.Fatal("expected user to be created")
	}
	if repo.created.Email != "student@example.com" {
		t.Fatalf("expected normalized email, got %q", repo.created.Email)
	}
	if repo.created.Username != "newstudent" {
		t.Fatalf("expected normalized username, got %q", repo.created.Username)
	}
	if repo.created.Role != user.RoleStudent {
		t.Fatalf("expected student role, got %s", repo.created.Role)
	}
	if !repo.created.HasFreeAccess || repo.created.FreeAccessCount != 3 {
		t.Fatalf("expected signup grant of 3 free accesses, got count=%d has=%v",
			repo.created.FreeAccessCount, repo.created.HasFreeAccess)
	}
	if repo.created.AccessType != user.AccessDefault {
		t.Fatalf("expected default access type, got %s", repo.created.AccessType)
	}
	if resp.Tokens.AccessToken == "" || resp.Tokens.RefreshToken == "" {
		t.Fatal("expected both tokens issued")
	}
	if resp.User.FreeAccessCount != 3 {
		t.Fatalf("expected free access count in response, got %d", resp.User.FreeAccessCount)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := newAuthService(repo)

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Username: "first",
		Email:    "taken@example.com",
		Password: "secret-password",
	})
	if err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	_, err = svc.Register(context.Background(), &RegisterRequest{
		Username: "second",
		Email:    "taken@example.com",
		Password: "secret-password",
	})
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestLoginWithValidCredentials(t *testing.T) {
	hash, err := password.Hash("correct-password")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	repo := &fakeUserRepo{byID: &user.User{
		ID:           uuid.New(),
		Username:     "student1",
		Email:        "s@example.com",
		PasswordHash: hash,
		Role:         user.RoleStudent,
	}}
	svc := newAuthService(repo)

	resp, err := svc.Login(context.Background(), &LoginRequest{
		Username: "student1",
		Password: "correct-password",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resp.Tokens.AccessToken == "" {
		t.Fatal("expected access token")
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	hash, _ := password.Hash("correct-password")
	repo := &fakeUserRepo{byID: &user.User{
		ID:           uuid.New(),
		Username:     "student1",
		PasswordHash: hash,
	}}
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), &LoginRequest{
		Username: "student1",
		Password: "wrong-password",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginRejectsUnknownUser(t *testing.T) {
	svc := newAuthService(&fakeUserRepo{})

	_, err := svc.Login(context.Background(), &LoginRequest{
		Username: "ghost",
		Password: "whatever-password",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginRejectsBannedUser(t *testing.T) {
	hash, _ := password.Hash("correct-password")
	repo := &fakeUserRepo{byID: &user.User{
		ID:           uuid.New(),
		Username:     "banned1",
		PasswordHash: hash,
		IsBanned:     true,
	}}
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), &LoginRequest{
		Username: "banned1",
		Password: "correct-password",
	})
	if !errors.Is(err, ErrUserBanned) {
		t.Fatalf("expected ErrUserBanned, got %v", err)
	}
}

func TestLoginRejectsDeletedUser(t *testing.T) {
	hash, _ := password.Hash("correct-password")
	repo := &fakeUserRepo{byID: &user.User{
		ID:           uuid.New(),
		Username:     "gone1",
		PasswordHash: hash,
		IsDeleted:    true,
	}}
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), &LoginRequest{
		Username: "gone1",
		Password: "correct-password",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRefreshWithoutRedisFails(t *testing.T) {
	svc := newAuthService(&fakeUserRepo{})

	_, err := svc.Refresh(context.Background(), "some-refresh-token")
	if !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}

	_, err = svc.Refresh(context.Background(), "")
	if !errors.Is(err, ErrRefreshTokenRequired) {
		t.Fatalf("expected ErrRefreshTokenRequired, got %v", err)
	}
}
