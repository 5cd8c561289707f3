package payment

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/quizhub/quizhub-api/internal/domain/packages"
	"github.com/quizhub/quizhub-api/internal/domain/user"
	"github.com/quizhub/quizhub-api/internal/pkg/webhook"
)

const testSecret = "webhook-test-secret"

type fakePaymentRepo struct {
	payments map[uuid.UUID]*Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[uuid.UUID]*Payment)}
}

func (f *fakePaymentRepo) Create(ctx context.Context, p *Payment) error {
	f.payments[p.ID] = p
	return nil
}

func (f *fakePaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*Payment, error) {
	return f.payments[id], nil
}

func (f *fakePaymentRepo) GetByExternalID(ctx context.Context, externalID string) (*Payment, error) {
	for _, p := range f.payments {
		if p.ExternalID.Valid && p.ExternalID.String == externalID {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePaymentRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Payment, error) {
	var out []*Payment
	for _, p := range f.payments {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) ListSuccessfulByIDs(ctx context.Context, ids []uuid.UUID) ([]*Payment, error) {
	var out []*Payment
	for _, id := range ids {
		if p, ok := f.payments[id]; ok && p.Status == StatusSuccess {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) MarkSuccess(ctx context.Context, id uuid.UUID, endsAt *time.Time) error {
	p, ok := f.payments[id]
	if !ok {
		return ErrPaymentNotFound
	}
	if p.Status != StatusPending {
		return ErrAlreadyProcessed
	}
	p.Status = StatusSuccess
	if endsAt != nil {
		p.EndsAt.Time = *endsAt
		p.EndsAt.Valid = true
	}
	return nil
}

func (f *fakePaymentRepo) MarkFailed(ctx context.Context, id uuid.UUID) error {
	p, ok := f.payments[id]
	if !ok {
		return ErrPaymentNotFound
	}
	p.Status = StatusFailed
	return nil
}

func (f *fakePaymentRepo) SetExternalID(ctx context.Context, id uuid.UUID, externalID string) error {
	p, ok := f.payments[id]
	if !ok {
		return ErrPaymentNotFound
	}
	p.ExternalID.String = externalID
	p.ExternalID.Valid = true
	return nil
}

type fakePackageRepo struct {
	pkgs map[uuid.UUID]*packages.Package
}

func (f *fakePackageRepo) Create(ctx context.Context, pkg *packages.Package) error {
	f.pkgs[pkg.ID] = pkg
	return nil
}

func (f *fakePackageRepo) GetByID(ctx context.Context, id uuid.UUID) (*packages.Package, error) {
	return f.pkgs[id], nil
}

func (f *fakePackageRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*packages.Package, error) {
	var out []*packages.Package
	for _, id := range ids {
		if pkg, ok := f.pkgs[id]; ok {
			out = append(out, pkg)
		}
	}
	return out, nil
}

func (f *fakePackageRepo) ListActive(ctx context.Context) ([]*packages.Package, error) {
	var out []*packages.Package
	for _, pkg := range f.pkgs {
		if pkg.IsActive {
			out = append(out, pkg)
		}
	}
	return out, nil
}

func (f *fakePackageRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if pkg, ok := f.pkgs[id]; ok {
		pkg.IsActive = active
	}
	return nil
}

type fakeUserRepo struct {
	users      map[uuid.UUID]*user.User
	paymentIDs map[uuid.UUID][]uuid.UUID
}

func (f *fakeUserRepo) Create(ctx context.Context, u *user.User) error { return nil }
func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return f.users[id], nil
}
func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) Update(ctx context.Context, u *user.User) error { return nil }
func (f *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	return nil
}
func (f *fakeUserRepo) SetBanned(ctx context.Context, id uuid.UUID, banned bool) error { return nil }
func (f *fakeUserRepo) ApplyEntitlements(ctx context.Context, id uuid.UUID, upd user.EntitlementUpdate) (*user.User, error) {
	return f.users[id], nil
}
func (f *fakeUserRepo) ResetEntitlements(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return f.users[id], nil
}
func (f *fakeUserRepo) ConsumeFreeAccess(ctx context.Context, id uuid.UUID, minCount int) (int, error) {
	return 0, user.ErrFreeAccessUnavailable
}
func (f *fakeUserRepo) GrantFreeAccess(ctx context.Context, id uuid.UUID, count int) error {
	return nil
}
func (f *fakeUserRepo) AppendPaymentID(ctx context.Context, id uuid.UUID, paymentID uuid.UUID) error {
	f.paymentIDs[id] = append(f.paymentIDs[id], paymentID)
	return nil
}

type fakeGranter struct {
	grants map[uuid.UUID]int
}

func (f *fakeGranter) AddPurchased(ctx context.Context, userID uuid.UUID, amount int, description string) error {
	f.grants[userID] += amount
	return nil
}

type paymentFixture struct {
	svc      *Service
	repo     *fakePaymentRepo
	pkgs     *fakePackageRepo
	users    *fakeUserRepo
	granter  *fakeGranter
	userID   uuid.UUID
	pkg      *packages.Package
	payments map[uuid.UUID]*Payment
}

func newPaymentFixture(access packages.Access) *paymentFixture {
	repo := newFakePaymentRepo()
	pkgs := &fakePackageRepo{pkgs: make(map[uuid.UUID]*packages.Package)}
	users := &fakeUserRepo{
		users:      make(map[uuid.UUID]*user.User),
		paymentIDs: make(map[uuid.UUID][]uuid.UUID),
	}
	granter := &fakeGranter{grants: make(map[uuid.UUID]int)}

	userID := uuid.New()
	users.users[userID] = &user.User{ID: userID, Username: "buyer", Email: "buyer@example.com"}

	pkg := &packages.Package{
		ID:       uuid.New(),
		Name:     "Test Package",
		Price:    49.99,
		Access:   access,
		IsActive: true,
	}
	if access == packages.AccessCredits {
		pkg.CreditAmount = 1500
	}
	if access == packages.AccessDuration {
		pkg.DurationDays = 30
	}
	pkgs.pkgs[pkg.ID] = pkg

	return &paymentFixture{
		svc:      NewService(repo, users, pkgs, granter, nil, testSecret),
		repo:     repo,
		pkgs:     pkgs,
		users:    users,
		granter:  granter,
		userID:   userID,
		pkg:      pkg,
		payments: repo.payments,
	}
}

func signedNotification(t *testing.T, paymentID uuid.UUID, status string) ([]byte, string, *WebhookNotification) {
	t.Helper()
	notif := &WebhookNotification{
		PaymentID:  paymentID,
		Status:     status,
		ExternalID: "prov-123",
	}
	body, err := json.Marshal(notif)
	if err != nil {
		t.Fatalf("marshal notification: %v", err)
	}
	return body, webhook.GenerateSignature(body, testSecret), notif
}

func TestInitiatePurchaseCreatesPendingPayment(t *testing.T) {
	fx := newPaymentFixture(packages.AccessDuration)

	p, err := fx.svc.InitiatePurchase(context.Background(), fx.userID, &InitiatePurchaseRequest{
		PackageID: fx.pkg.ID,
	})
	if err != nil {
		t.Fatalf("initiate failed: %v", err)
	}
	if p.Status != StatusPending {
		t.Fatalf("expected pending payment, got %s", p.Status)
	}
	if p.Type != string(packages.AccessDuration) {
		t.Fatalf("expected payment type mirrored from package, got %q", p.Type)
	}
	if p.Currency != "USD" {
		t.Fatalf("expected default currency USD, got %q", p.Currency)
	}
	if got := fx.users.paymentIDs[fx.userID]; len(got) != 1 || got[0] != p.ID {
		t.Fatalf("expected payment recorded on user, got %v", got)
	}
}

func TestInitiatePurchaseInactivePackage(t *testing.T) {
	fx := newPaymentFixture(packages.AccessDuration)
	fx.pkg.IsActive = false

	_, err := fx.svc.InitiatePurchase(context.Background(), fx.userID, &InitiatePurchaseRequest{
		PackageID: fx.pkg.ID,
	})
	if !errors.Is(err, packages.ErrPackageNotFound) {
		t.Fatalf("expected ErrPackageNotFound, got %v", err)
	}
}

func TestConfirmWebhookRejectsBadSignature(t *testing.T) {
	fx := newPaymentFixture(packages.AccessDuration)
	p, _ := fx.svc.InitiatePurchase(context.Background(), fx.userID, &InitiatePurchaseRequest{PackageID: fx.pkg.ID})

	body, _, notif := signedNotification(t, p.ID, "success")

	err := fx.svc.ConfirmWebhook(context.Background(), body, "deadbeef", notif)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
	if fx.payments[p.ID].Status != StatusPending {
		t.Fatal("unsigned webhook must not change payment state")
	}
}

func TestConfirmWebhookSuccessComputesExpiry(t *testing.T) {
	fx := newPaymentFixture(packages.AccessDuration)
	p, _ := fx.svc.InitiatePurchase(context.Background(), fx.userID, &InitiatePurchaseRequest{PackageID: fx.pkg.ID})

	body, sig, notif := signedNotification(t, p.ID, "success")
	if err := fx.svc.ConfirmWebhook(context.Background(), body, sig, notif); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	stored := fx.payments[p.ID]
	if stored.Status != StatusSuccess {
		t.Fatalf("expected success, got %s", stored.Status)
	}
	if !stored.EndsAt.Valid {
		t.Fatal("expected computed expiry on duration package")
	}
	want := p.Date.AddDate(0, 0, 30)
	if !stored.EndsAt.Time.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, stored.EndsAt.Time)
	}
	if !stored.ExternalID.Valid || stored.ExternalID.String != "prov-123" {
		t.Fatalf("expected provider reference stored, got %+v", stored.ExternalID)
	}
}

func TestConfirmWebhookGrantsPurchasedCredits(t *testing.T) {
	fx := newPaymentFixture(packages.AccessCredits)
	p, _ := fx.svc.InitiatePurchase(context.Background(), fx.userID, &InitiatePurchaseRequest{PackageID: fx.pkg.ID})

	body, sig, notif := signedNotification(t, p.ID, "success")
	if err := fx.svc.ConfirmWebhook(context.Background(), body, sig, notif); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	if got := fx.granter.grants[fx.userID]; got != 1500 {
		t.Fatalf("expected 1500 credits granted, got %d", got)
	}
	if fx.payments[p.ID].EndsAt.Valid {
		t.Fatal("credits package must not carry an expiry")
	}
}

func TestConfirmWebhookIsIdempotent(t *testing.T) {
	fx := newPaymentFixture(packages.AccessCredits)
	p, _ := fx.svc.InitiatePurchase(context.Background(), fx.userID, &InitiatePurchaseRequest{PackageID: fx.pkg.ID})

	body, sig, notif := signedNotification(t, p.ID, "success")
	if err := fx.svc.ConfirmWebhook(context.Background(), body, sig, notif); err != nil {
		t.Fatalf("first confirm failed: %v", err)
	}

	err := fx.svc.ConfirmWebhook(context.Background(), body, sig, notif)
	if !errors.Is(err, ErrAlreadyProcessed) {
		t.Fatalf("expected ErrAlreadyProcessed, got %v", err)
	}
	if got := fx.granter.grants[fx.userID]; got != 1500 {
		t.Fatalf("replayed webhook must not double-grant, got %d", got)
	}
}

func TestConfirmWebhookFailedStatus(t *testing.T) {
	fx := newPaymentFixture(packages.AccessDuration)
	p, _ := fx.svc.InitiatePurchase(context.Background(), fx.userID, &InitiatePurchaseRequest{PackageID: fx.pkg.ID})

	body, sig, notif := signedNotification(t, p.ID, "failed")
	if err := fx.svc.ConfirmWebhook(context.Background(), body, sig, notif); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if fx.payments[p.ID].Status != StatusFailed {
		t.Fatalf("expected failed, got %s", fx.payments[p.ID].Status)
	}
}

func TestConfirmWebhookUnknownStatus(t *testing.T) {
	fx := newPaymentFixture(packages.AccessDuration)
	p, _ := fx.svc.InitiatePurchase(context.Background(), fx.userID, &InitiatePurchaseRequest{PackageID: fx.pkg.ID})

	body, sig, notif := signedNotification(t, p.ID, "refunded")
	err := fx.svc.ConfirmWebhook(context.Background(), body, sig, notif)
	if !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("expected ErrUnknownStatus, got %v", err)
	}
}

func TestConfirmWebhookUnknownPayment(t *testing.T) {
	fx := newPaymentFixture(packages.AccessDuration)

	body, sig, notif := signedNotification(t, uuid.New(), "success")
	err := fx.svc.ConfirmWebhook(context.Background(), body, sig, notif)
	if !errors.Is(err, ErrPaymentNotFound) {
		t.Fatalf("expected ErrPaymentNotFound, got %v", err)
	}
}
