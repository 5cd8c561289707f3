package access

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/quizhub/quizhub-api/internal/domain/packages"
	"github.com/quizhub/quizhub-api/internal/domain/payment"
	"github.com/quizhub/quizhub-api/internal/domain/user"
	"github.com/quizhub/quizhub-api/internal/pkg/database"
)

// ReconcilePackages recomputes a user's live entitlement state from their
// payment history. It is called synchronously before every credit-gated
// access decision, so entitlement is always evaluated against fresh state
// rather than a cached snapshot.
func (s *Service) ReconcilePackages(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: load user: %v", ErrReconciliation, err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	s.locks.lock(u.ID)
	defer s.locks.unlock(u.ID)

	return s.reconcileLocked(ctx, u)
}

// reconcileLocked runs the reconciliation pass. The caller must hold the
// user's lock.
func (s *Service) reconcileLocked(ctx context.Context, u *user.User) (*user.User, error) {
	// Admins short-circuit: their access is never entitlement-gated.
	if u.IsAdmin() {
		return u, nil
	}

	payments, err := s.payments.ListSuccessfulByIDs(ctx, u.PaymentIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: load payments: %v", ErrReconciliation, err)
	}

	now := time.Now()

	var valid, expired []*payment.Payment
	for _, p := range payments {
		if p.IsExpired(now) {
			expired = append(expired, p)
		} else {
			valid = append(valid, p)
		}
	}

	packageIDs := make([]uuid.UUID, 0, len(valid))
	seen := make(map[uuid.UUID]bool)
	for _, p := range valid {
		if !seen[p.PackageID] {
			seen[p.PackageID] = true
			packageIDs = append(packageIDs, p.PackageID)
		}
	}

	pkgs, err := s.packages.ListByIDs(ctx, packageIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: load packages: %v", ErrReconciliation, err)
	}
	pkgByID := make(map[uuid.UUID]*packages.Package, len(pkgs))
	for _, pkg := range pkgs {
		pkgByID[pkg.ID] = pkg
	}

	// A payment whose own ends_at has not triggered is still re-checked
	// against the package duration rule; for duration packages the package
	// rule governs final liveness.
	livePackageIDs := make(database.UUIDArray, 0, len(valid))
	liveSeen := make(map[uuid.UUID]bool)
	courseUnion := make(database.UUIDArray, 0)
	var latestLive *payment.Payment
	var latestLivePkg *packages.Package

	for _, p := range valid {
		pkg := pkgByID[p.PackageID]
		if pkg == nil {
			continue
		}
		if !packageLive(pkg, p.Date, now) {
			continue
		}

		if !liveSeen[pkg.ID] {
			liveSeen[pkg.ID] = true
			livePackageIDs = append(livePackageIDs, pkg.ID)
			courseUnion = append(courseUnion, pkg.Courses...)
		}

		if latestLive == nil || p.Date.After(latestLive.Date) {
			latestLive = p
			latestLivePkg = pkg
		}
	}

	expiredIDs := make(database.UUIDArray, 0, len(expired))
	for _, p := range expired {
		expiredIDs = append(expiredIDs, p.ID)
	}

	// Subscription status and access type by priority, against post-update state.
	switch {
	case len(valid) > 0 && len(livePackageIDs) > 0:
		return s.applyEntitlements(ctx, u.ID, user.EntitlementUpdate{
			PackageIDs:        livePackageIDs,
			ExpiredPaymentIDs: expiredIDs,
			Courses:           courseUnion,
			IsSubscribed:      true,
			AccessType:        accessTypeForPackage(latestLivePkg),
		})

	case remainingPayments(u.PaymentIDs, expiredIDs) > 0:
		// Had payments, none currently valid and live. Subscription flag
		// stays set; access type follows the most recent payment's type.
		return s.applyEntitlements(ctx, u.ID, user.EntitlementUpdate{
			PackageIDs:        livePackageIDs,
			ExpiredPaymentIDs: expiredIDs,
			Courses:           courseUnion,
			IsSubscribed:      true,
			AccessType:        accessTypeForPayment(latestPayment(payments)),
		})

	case u.QuizCredits > 0:
		return s.applyEntitlements(ctx, u.ID, user.EntitlementUpdate{
			PackageIDs:        livePackageIDs,
			ExpiredPaymentIDs: expiredIDs,
			Courses:           courseUnion,
			IsSubscribed:      false,
			AccessType:        user.AccessQuiz,
		})

	default:
		updated, err := s.users.ResetEntitlements(ctx, u.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: reset entitlements: %v", ErrReconciliation, err)
		}
		return updated, nil
	}
}

func (s *Service) applyEntitlements(ctx context.Context, id uuid.UUID, upd user.EntitlementUpdate) (*user.User, error) {
	updated, err := s.users.ApplyEntitlements(ctx, id, upd)
	if err != nil {
		return nil, fmt.Errorf("%w: apply entitlements: %v", ErrReconciliation, err)
	}
	return updated, nil
}

// packageLive reports whether a package purchased at the given time still
// grants access. Duration packages expire by purchase date; course and quiz
// packages do not separately expire once their payment is valid.
func packageLive(pkg *packages.Package, purchasedAt, now time.Time) bool {
	if pkg.Access == packages.AccessDuration && pkg.DurationDays > 0 {
		return purchasedAt.AddDate(0, 0, pkg.DurationDays).After(now)
	}
	return true
}

// remainingPayments counts payment references that survive the expired-id prune.
func remainingPayments(paymentIDs, expiredIDs database.UUIDArray) int {
	if len(expiredIDs) == 0 {
		return len(paymentIDs)
	}
	gone := make(map[uuid.UUID]bool, len(expiredIDs))
	for _, id := range expiredIDs {
		gone[id] = true
	}
	n := 0
	for _, id := range paymentIDs {
		if !gone[id] {
			n++
		}
	}
	return n
}

func latestPayment(payments []*payment.Payment) *payment.Payment {
	var latest *payment.Payment
	for _, p := range payments {
		if latest == nil || p.Date.After(latest.Date) {
			latest = p
		}
	}
	return latest
}

// accessTypeForPackage maps a package's access kind onto the user enum.
// Credits packages confer quiz-style credit gating.
func accessTypeForPackage(pkg *packages.Package) user.AccessType {
	if pkg == nil {
		return user.AccessDuration
	}
	switch pkg.Access {
	case packages.AccessDuration:
		return user.AccessDuration
	case packages.AccessCourse:
		return user.AccessCourse
	case packages.AccessQuiz, packages.AccessCredits:
		return user.AccessQuiz
	default:
		return user.AccessDuration
	}
}

// accessTypeForPayment maps a payment's recorded type onto the user enum.
func accessTypeForPayment(p *payment.Payment) user.AccessType {
	if p == nil {
		return user.AccessDefault
	}
	switch p.Type {
	case "duration":
		return user.AccessDuration
	case "course":
		return user.AccessCourse
	case "quiz", "credits":
		return user.AccessQuiz
	default:
		return user.AccessDefault
	}
}
