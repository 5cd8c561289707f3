package access

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/quizhub/quizhub-api/internal/domain/credit"
	"github.com/quizhub/quizhub-api/internal/domain/packages"
	"github.com/quizhub/quizhub-api/internal/domain/payment"
	"github.com/quizhub/quizhub-api/internal/domain/user"
)

/* =========================
   In-memory fakes
   ========================= */

// fakeStore backs UserStore, PaymentStore, PackageStore, QuizCatalog and
// ModerationCounter with a single in-memory user, mirroring the conditional
// update semantics of the SQL repositories.
type fakeStore struct {
	mu   sync.Mutex
	user *user.User

	payments  []*payment.Payment
	pkgs      []*packages.Package
	quizzes   map[uuid.UUID]*QuizInfo
	moderated int
	moderr    error

	applyCalls   int
	resetCalls   int
	consumeCalls int
}

func newFakeStore(u *user.User) *fakeStore {
	return &fakeStore{
		user:    u,
		quizzes: make(map[uuid.UUID]*QuizInfo),
	}
}

func (f *fakeStore) snapshot() *user.User {
	cp := *f.user
	cp.PackageIDs = append(cp.PackageIDs[:0:0], cp.PackageIDs...)
	cp.PaymentIDs = append(cp.PaymentIDs[:0:0], cp.PaymentIDs...)
	cp.Courses = append(cp.Courses[:0:0], cp.Courses...)
	return &cp
}

func (f *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.user == nil || f.user.ID != id {
		return nil, nil
	}
	return f.snapshot(), nil
}

func (f *fakeStore) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.user == nil || f.user.Username != username {
		return nil, nil
	}
	return f.snapshot(), nil
}

func (f *fakeStore) ApplyEntitlements(ctx context.Context, id uuid.UUID, upd user.EntitlementUpdate) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applyCalls++

	f.user.PackageIDs = append(f.user.PackageIDs[:0:0], upd.PackageIDs...)

	gone := make(map[uuid.UUID]bool, len(upd.ExpiredPaymentIDs))
	for _, pid := range upd.ExpiredPaymentIDs {
		gone[pid] = true
	}
	kept := f.user.PaymentIDs[:0:0]
	for _, pid := range f.user.PaymentIDs {
		if !gone[pid] {
			kept = append(kept, pid)
		}
	}
	f.user.PaymentIDs = kept

	have := make(map[uuid.UUID]bool, len(f.user.Courses))
	for _, cid := range f.user.Courses {
		have[cid] = true
	}
	for _, cid := range upd.Courses {
		if !have[cid] {
			have[cid] = true
			f.user.Courses = append(f.user.Courses, cid)
		}
	}

	f.user.IsSubscribed = upd.IsSubscribed
	f.user.AccessType = upd.AccessType
	return f.snapshot(), nil
}

func (f *fakeStore) ResetEntitlements(ctx context.Context, id uuid.UUID) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetCalls++

	f.user.PackageIDs = nil
	f.user.PaymentIDs = nil
	f.user.IsSubscribed = false
	f.user.AccessType = user.AccessDefault
	f.user.QuizCredits = 0
	f.user.HasFreeAccess = false
	f.user.FreeAccessCount = 0
	return f.snapshot(), nil
}

func (f *fakeStore) ConsumeFreeAccess(ctx context.Context, id uuid.UUID, minCount int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.consumeCalls++

	if minCount < 1 {
		minCount = 1
	}
	if !f.user.HasFreeAccess || f.user.FreeAccessCount < minCount {
		return 0, user.ErrFreeAccessUnavailable
	}
	f.user.FreeAccessCount--
	f.user.HasFreeAccess = f.user.FreeAccessCount > 0
	return f.user.FreeAccessCount, nil
}

func (f *fakeStore) ListSuccessfulByIDs(ctx context.Context, ids []uuid.UUID) ([]*payment.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []*payment.Payment
	for _, p := range f.payments {
		if want[p.ID] && p.Status == payment.StatusSuccess {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*packages.Package, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []*packages.Package
	for _, pkg := range f.pkgs {
		if want[pkg.ID] {
			out = append(out, pkg)
		}
	}
	return out, nil
}

func (f *fakeStore) GetQuizInfo(ctx context.Context, quizID uuid.UUID) (*QuizInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.quizzes[quizID], nil
}

func (f *fakeStore) CountModeratedBy(ctx context.Context, userID uuid.UUID, questionIDs []uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.moderr != nil {
		return 0, f.moderr
	}
	return f.moderated, nil
}

// fakeLedger debits the fake user's balance with the same conditional
// semantics as the SQL ledger.
type fakeLedger struct {
	store   *fakeStore
	deducts []int
}

func (f *fakeLedger) Deduct(ctx context.Context, userID uuid.UUID, amount int, meta credit.TxMeta) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if f.store.user.QuizCredits < amount {
		return credit.ErrInsufficientCredits
	}
	f.store.user.QuizCredits -= amount
	f.deducts = append(f.deducts, amount)
	return nil
}

func (f *fakeLedger) DeductWithFloor(ctx context.Context, userID uuid.UUID, amount, floor int, meta credit.TxMeta) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if f.store.user.QuizCredits < floor {
		return credit.ErrInsufficientCredits
	}
	f.store.user.QuizCredits -= amount
	f.deducts = append(f.deducts, amount)
	return nil
}

func newTestService(store *fakeStore) (*Service, *fakeLedger) {
	ledger := &fakeLedger{store: store}
	return NewService(store, store, store, store, store, ledger), ledger
}

func testUser(opts func(*user.User)) *user.User {
	u := &user.User{
		ID:         uuid.New(),
		Username:   "student1",
		Role:       user.RoleStudent,
		AccessType: user.AccessDefault,
	}
	if opts != nil {
		opts(u)
	}
	return u
}

func addQuiz(store *fakeStore, creditHours int, questionCount int) *QuizInfo {
	q := &QuizInfo{
		ID:          uuid.New(),
		CourseID:    uuid.New(),
		CreditHours: creditHours,
	}
	for i := 0; i < questionCount; i++ {
		q.QuestionIDs = append(q.QuestionIDs, uuid.New())
	}
	store.quizzes[q.ID] = q
	return q
}

/* =========================
   Cost table
   ========================= */

func TestQuizCreditCost(t *testing.T) {
	cases := []struct {
		hours int
		want  int
	}{
		{1, 125},
		{2, 200},
		{3, 300},
		{0, 300},
		{-1, 300},
		{4, 300},
		{100, 300},
	}
	for _, c := range cases {
		if got := QuizCreditCost(c.hours); got != c.want {
			t.Errorf("QuizCreditCost(%d) = %d, want %d", c.hours, got, c.want)
		}
	}
}

/* =========================
   Quiz authorization
   ========================= */

func TestAuthorizeQuizDebitsExactCost(t *testing.T) {
	store := newFakeStore(testUser(func(u *user.User) {
		u.QuizCredits = 300
	}))
	q := addQuiz(store, 3, 0)
	svc, ledger := newTestService(store)

	err := svc.AuthorizeQuizAccess(context.Background(), "student1", q.ID)
	if err != nil {
		t.Fatalf("expected allow, got %v", err)
	}
	if store.user.QuizCredits != 0 {
		t.Fatalf("expected balance 0, got %d", store.user.QuizCredits)
	}
	if len(ledger.deducts) != 1 || ledger.deducts[0] != 300 {
		t.Fatalf("expected one deduction of 300, got %v", ledger.deducts)
	}
	// No-payment credit holders land on the credit-gated plan.
	if store.user.AccessType != user.AccessQuiz {
		t.Fatalf("expected access type quiz after reconcile, got %s", store.user.AccessType)
	}
}

func TestAuthorizeQuizInsufficientBalance(t *testing.T) {
	store := newFakeStore(testUser(func(u *user.User) {
		u.QuizCredits = 100
	}))
	q := addQuiz(store, 3, 0)
	svc, ledger := newTestService(store)

	err := svc.AuthorizeQuizAccess(context.Background(), "student1", q.ID)
	if !errors.Is(err, ErrInsufficientCredits) {
		t.Fatalf("expected ErrInsufficientCredits, got %v", err)
	}
	if store.user.QuizCredits != 100 {
		t.Fatalf("denied attempt must not touch balance, got %d", store.user.QuizCredits)
	}
	if len(ledger.deducts) != 0 {
		t.Fatalf("expected no deductions, got %v", ledger.deducts)
	}
}

func TestAuthorizeQuizFreeAccessSpendsOneUnit(t *testing.T) {
	store := newFakeStore(testUser(func(u *user.User) {
		u.HasFreeAccess = true
		u.FreeAccessCount = 1
	}))
	q := addQuiz(store, 3, 0)
	svc, ledger := newTestService(store)

	err := svc.AuthorizeQuizAccess(context.Background(), "student1", q.ID)
	if err != nil {
		t.Fatalf("expected allow, got %v", err)
	}
	if store.user.FreeAccessCount != 0 || store.user.HasFreeAccess {
		t.Fatalf("expected counter exhausted, got count=%d has=%v",
			store.user.FreeAccessCount, store.user.HasFreeAccess)
	}
	// The fast path skips reconciliation and the cost table entirely.
	if store.applyCalls != 0 || store.resetCalls != 0 {
		t.Fatalf("free path must not reconcile: apply=%d reset=%d", store.applyCalls, store.resetCalls)
	}
	if len(ledger.deducts) != 0 {
		t.Fatalf("free path must not debit credits, got %v", ledger.deducts)
	}
}

func TestAuthorizeQuizAdminBypassHasNoSideEffects(t *testing.T) {
	store := newFakeStore(testUser(func(u *user.User) {
		u.Role = user.RoleAdmin
		u.HasFreeAccess = true
		u.FreeAccessCount = 3
		u.QuizCredits = 1000
	}))
	q := addQuiz(store, 3, 0)
	svc, ledger := newTestService(store)

	err := svc.AuthorizeQuizAccess(context.Background(), "student1", q.ID)
	if err != nil {
		t.Fatalf("expected allow, got %v", err)
	}
	if store.consumeCalls != 0 || store.applyCalls != 0 || store.resetCalls != 0 || len(ledger.deducts) != 0 {
		t.Fatal("admin bypass must not mutate any state")
	}
	if store.user.QuizCredits != 1000 || store.user.FreeAccessCount != 3 {
		t.Fatal("admin state changed")
	}
}

func TestAuthorizeQuizModerationBypass(t *testing.T) {
	store := newFakeStore(testUser(nil))
	q := addQuiz(store, 3, 10)
	store.moderated = 6
	svc, ledger := newTestService(store)

	err := svc.AuthorizeQuizAccess(context.Background(), "student1", q.ID)
	if err != nil {
		t.Fatalf("expected moderation bypass to allow, got %v", err)
	}
	if len(ledger.deducts) != 0 {
		t.Fatalf("bypass must not debit, got %v", ledger.deducts)
	}
}

func TestAuthorizeQuizModerationBelowThreshold(t *testing.T) {
	store := newFakeStore(testUser(nil))
	q := addQuiz(store, 3, 10)
	store.moderated = 4
	svc, _ := newTestService(store)

	err := svc.AuthorizeQuizAccess(context.Background(), "student1", q.ID)
	if err == nil {
		t.Fatal("expected denial below moderation threshold")
	}
}

func TestAuthorizeQuizModerationCountFailsClosed(t *testing.T) {
	store := newFakeStore(testUser(func(u *user.User) {
		u.QuizCredits = 1000
	}))
	q := addQuiz(store, 1, 10)
	store.moderr = errors.New("db down")
	svc, ledger := newTestService(store)

	err := svc.AuthorizeQuizAccess(context.Background(), "student1", q.ID)
	if !errors.Is(err, ErrAccessValidation) {
		t.Fatalf("expected ErrAccessValidation, got %v", err)
	}
	if len(ledger.deducts) != 0 {
		t.Fatal("validation failure must not debit")
	}
}

func TestAuthorizeQuizCourseEntitlementIsFree(t *testing.T) {
	pkgID := uuid.New()
	payID := uuid.New()
	courseID := uuid.New()

	store := newFakeStore(testUser(func(u *user.User) {
		u.PaymentIDs = []uuid.UUID{payID}
	}))
	store.payments = []*payment.Payment{{
		ID:        payID,
		PackageID: pkgID,
		Status:    payment.StatusSuccess,
		Type:      "course",
		Date:      time.Now().Add(-time.Hour),
	}}
	store.pkgs = []*packages.Package{{
		ID:      pkgID,
		Access:  packages.AccessCourse,
		Courses: []uuid.UUID{courseID},
	}}

	q := addQuiz(store, 2, 0)
	q.CourseID = courseID
	svc, ledger := newTestService(store)

	err := svc.AuthorizeQuizAccess(context.Background(), "student1", q.ID)
	if err != nil {
		t.Fatalf("expected allow via course grant, got %v", err)
	}
	if len(ledger.deducts) != 0 {
		t.Fatalf("course-covered quiz must not debit, got %v", ledger.deducts)
	}
}

func TestAuthorizeQuizCourseMismatchFallsBackToCredits(t *testing.T) {
	pkgID := uuid.New()
	payID := uuid.New()

	store := newFakeStore(testUser(func(u *user.User) {
		u.PaymentIDs = []uuid.UUID{payID}
		u.QuizCredits = 125
	}))
	store.payments = []*payment.Payment{{
		ID:        payID,
		PackageID: pkgID,
		Status:    payment.StatusSuccess,
		Type:      "course",
		Date:      time.Now().Add(-time.Hour),
	}}
	store.pkgs = []*packages.Package{{
		ID:      pkgID,
		Access:  packages.AccessCourse,
		Courses: []uuid.UUID{uuid.New()},
	}}

	q := addQuiz(store, 1, 0) // different course
	svc, ledger := newTestService(store)

	err := svc.AuthorizeQuizAccess(context.Background(), "student1", q.ID)
	if err != nil {
		t.Fatalf("expected allow via credits, got %v", err)
	}
	if len(ledger.deducts) != 1 || ledger.deducts[0] != 125 {
		t.Fatalf("expected deduction of 125, got %v", ledger.deducts)
	}
}

func TestAuthorizeQuizDurationSubscription(t *testing.T) {
	pkgID := uuid.New()
	payID := uuid.New()

	store := newFakeStore(testUser(func(u *user.User) {
		u.PaymentIDs = []uuid.UUID{payID}
	}))
	store.payments = []*payment.Payment{{
		ID:        payID,
		PackageID: pkgID,
		Status:    payment.StatusSuccess,
		Type:      "duration",
		Date:      time.Now().Add(-24 * time.Hour),
	}}
	store.pkgs = []*packages.Package{{
		ID:           pkgID,
		Access:       packages.AccessDuration,
		DurationDays: 30,
	}}

	q := addQuiz(store, 3, 0)
	svc, ledger := newTestService(store)

	err := svc.AuthorizeQuizAccess(context.Background(), "student1", q.ID)
	if err != nil {
		t.Fatalf("expected allow via subscription, got %v", err)
	}
	if len(ledger.deducts) != 0 {
		t.Fatalf("subscription access must not debit, got %v", ledger.deducts)
	}
	if !store.user.IsSubscribed || store.user.AccessType != user.AccessDuration {
		t.Fatalf("expected duration subscription, got subscribed=%v type=%s",
			store.user.IsSubscribed, store.user.AccessType)
	}
}

func TestAuthorizeQuizDeniedWithNothing(t *testing.T) {
	store := newFakeStore(testUser(nil))
	q := addQuiz(store, 1, 0)
	svc, _ := newTestService(store)

	err := svc.AuthorizeQuizAccess(context.Background(), "student1", q.ID)
	if !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
}

func TestAuthorizeQuizUnknownUser(t *testing.T) {
	store := newFakeStore(testUser(nil))
	q := addQuiz(store, 1, 0)
	svc, _ := newTestService(store)

	err := svc.AuthorizeQuizAccess(context.Background(), "nobody", q.ID)
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthorizeQuizUnknownQuiz(t *testing.T) {
	store := newFakeStore(testUser(nil))
	svc, _ := newTestService(store)

	err := svc.AuthorizeQuizAccess(context.Background(), "student1", uuid.New())
	if !errors.Is(err, ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestAuthorizeQuizBannedUser(t *testing.T) {
	store := newFakeStore(testUser(func(u *user.User) {
		u.IsBanned = true
		u.QuizCredits = 1000
	}))
	q := addQuiz(store, 1, 0)
	svc, _ := newTestService(store)

	err := svc.AuthorizeQuizAccess(context.Background(), "student1", q.ID)
	if !errors.Is(err, ErrUserBanned) {
		t.Fatalf("expected ErrUserBanned, got %v", err)
	}
}

func TestAuthorizeQuizDeletedUser(t *testing.T) {
	store := newFakeStore(testUser(func(u *user.User) {
		u.IsDeleted = true
	}))
	q := addQuiz(store, 1, 0)
	svc, _ := newTestService(store)

	err := svc.AuthorizeQuizAccess(context.Background(), "student1", q.ID)
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

/* =========================
   Concurrency
   ========================= */

func TestAuthorizeQuizConcurrentAttemptsNeverOverspend(t *testing.T) {
	store := newFakeStore(testUser(func(u *user.User) {
		u.QuizCredits = 900
	}))
	q := addQuiz(store, 3, 0) // costs 300
	svc, _ := newTestService(store)

	const goroutines = 10

	var wg sync.WaitGroup
	var mu sync.Mutex
	success := 0

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := svc.AuthorizeQuizAccess(context.Background(), "student1", q.ID); err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if success != 3 {
		t.Fatalf("expected exactly 3 allowed attempts, got %d", success)
	}
	if store.user.QuizCredits != 0 {
		t.Fatalf("expected balance 0, got %d", store.user.QuizCredits)
	}
}

/* =========================
   AI authorization
   ========================= */

func TestAuthorizeAIFreeAccessNeedsTwoUnits(t *testing.T) {
	store := newFakeStore(testUser(func(u *user.User) {
		u.HasFreeAccess = true
		u.FreeAccessCount = 1
	}))
	svc, _ := newTestService(store)

	// One banked unit is enough for a quiz but not for AI; the request
	// falls through to reconciliation and is denied on the empty default plan.
	err := svc.AuthorizeAIAccess(context.Background(), "student1")
	if !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
	if store.resetCalls != 1 {
		t.Fatalf("expected fallthrough to reconcile, resets=%d", store.resetCalls)
	}
}

func TestAuthorizeAIFreeAccessSpendsOneOfTwo(t *testing.T) {
	store := newFakeStore(testUser(func(u *user.User) {
		u.HasFreeAccess = true
		u.FreeAccessCount = 2
	}))
	svc, ledger := newTestService(store)

	err := svc.AuthorizeAIAccess(context.Background(), "student1")
	if err != nil {
		t.Fatalf("expected allow, got %v", err)
	}
	if store.user.FreeAccessCount != 1 {
		t.Fatalf("expected one unit left, got %d", store.user.FreeAccessCount)
	}
	if len(ledger.deducts) != 0 {
		t.Fatalf("free path must not debit, got %v", ledger.deducts)
	}
}

func TestAuthorizeAIFlatFeeWithSufficientBalance(t *testing.T) {
	payID := uuid.New()
	store := newFakeStore(testUser(func(u *user.User) {
		u.PaymentIDs = []uuid.UUID{payID}
		u.QuizCredits = 3000
	}))
	// A surviving payment of unknown type leaves the user on the default
	// plan post-reconcile, where the flat fee applies.
	store.payments = []*payment.Payment{{
		ID:     payID,
		Status: payment.StatusSuccess,
		Type:   "default",
		Date:   time.Now().Add(-time.Hour),
	}}
	svc, ledger := newTestService(store)

	err := svc.AuthorizeAIAccess(context.Background(), "student1")
	if err != nil {
		t.Fatalf("expected allow, got %v", err)
	}
	if len(ledger.deducts) != 1 || ledger.deducts[0] != AIQueryCost {
		t.Fatalf("expected flat fee %d, got %v", AIQueryCost, ledger.deducts)
	}
	if store.user.QuizCredits != 3000-AIQueryCost {
		t.Fatalf("expected balance %d, got %d", 3000-AIQueryCost, store.user.QuizCredits)
	}
}

func TestAuthorizeAIFlatFeeBelowFloor(t *testing.T) {
	payID := uuid.New()
	store := newFakeStore(testUser(func(u *user.User) {
		u.PaymentIDs = []uuid.UUID{payID}
		u.QuizCredits = 2999
	}))
	store.payments = []*payment.Payment{{
		ID:     payID,
		Status: payment.StatusSuccess,
		Type:   "default",
		Date:   time.Now().Add(-time.Hour),
	}}
	svc, ledger := newTestService(store)

	err := svc.AuthorizeAIAccess(context.Background(), "student1")
	if !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
	if len(ledger.deducts) != 0 || store.user.QuizCredits != 2999 {
		t.Fatal("denied AI query must not touch balance")
	}
}

func TestAuthorizeAISubscribedWithoutCredits(t *testing.T) {
	payID := uuid.New()
	store := newFakeStore(testUser(func(u *user.User) {
		u.PaymentIDs = []uuid.UUID{payID}
	}))
	store.payments = []*payment.Payment{{
		ID:     payID,
		Status: payment.StatusSuccess,
		Type:   "default",
		Date:   time.Now().Add(-time.Hour),
	}}
	svc, ledger := newTestService(store)

	err := svc.AuthorizeAIAccess(context.Background(), "student1")
	if err != nil {
		t.Fatalf("expected allow for subscribed zero-credit user, got %v", err)
	}
	if len(ledger.deducts) != 0 {
		t.Fatal("subscription-covered query must not debit")
	}
}

func TestAuthorizeAICreditPlanIsAnomalous(t *testing.T) {
	// Credit holders without payments reconcile onto the quiz plan, which
	// is not a valid gate for AI generation.
	store := newFakeStore(testUser(func(u *user.User) {
		u.QuizCredits = 5000
	}))
	svc, ledger := newTestService(store)

	err := svc.AuthorizeAIAccess(context.Background(), "student1")
	if !errors.Is(err, ErrInvalidAccessType) {
		t.Fatalf("expected ErrInvalidAccessType, got %v", err)
	}
	if len(ledger.deducts) != 0 {
		t.Fatal("anomalous access type must not debit")
	}
}

func TestAuthorizeAIAdminBypass(t *testing.T) {
	store := newFakeStore(testUser(func(u *user.User) {
		u.Role = user.RoleAdmin
	}))
	svc, _ := newTestService(store)

	if err := svc.AuthorizeAIAccess(context.Background(), "student1"); err != nil {
		t.Fatalf("expected allow, got %v", err)
	}
	if store.applyCalls != 0 || store.resetCalls != 0 || store.consumeCalls != 0 {
		t.Fatal("admin bypass must not mutate state")
	}
}
