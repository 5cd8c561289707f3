package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/quizhub/quizhub-api/internal/domain/credit"
	"github.com/quizhub/quizhub-api/internal/domain/packages"
	"github.com/quizhub/quizhub-api/internal/domain/payment"
	"github.com/quizhub/quizhub-api/internal/domain/user"
)

// QuizInfo is the slice of the quiz catalog the access decision needs.
type QuizInfo struct {
	ID          uuid.UUID
	CourseID    uuid.UUID
	CreditHours int
	QuestionIDs []uuid.UUID
}

// UserStore is the subset of user persistence the access engine uses.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByUsername(ctx context.Context, username string) (*user.User, error)
	ApplyEntitlements(ctx context.Context, id uuid.UUID, upd user.EntitlementUpdate) (*user.User, error)
	ResetEntitlements(ctx context.Context, id uuid.UUID) (*user.User, error)
	ConsumeFreeAccess(ctx context.Context, id uuid.UUID, minCount int) (int, error)
}

// PaymentStore loads confirmed payments for reconciliation.
type PaymentStore interface {
	ListSuccessfulByIDs(ctx context.Context, ids []uuid.UUID) ([]*payment.Payment, error)
}

// PackageStore loads entitlement templates for reconciliation.
type PackageStore interface {
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*packages.Package, error)
}

// QuizCatalog resolves a quiz into the fields the decision needs.
// Returns (nil, nil) when the quiz does not exist.
type QuizCatalog interface {
	GetQuizInfo(ctx context.Context, quizID uuid.UUID) (*QuizInfo, error)
}

// ModerationCounter counts how many of the given questions a user moderated.
type ModerationCounter interface {
	CountModeratedBy(ctx context.Context, userID uuid.UUID, questionIDs []uuid.UUID) (int, error)
}

// CreditLedger debits quiz credit balances atomically.
type CreditLedger interface {
	Deduct(ctx context.Context, userID uuid.UUID, amount int, meta credit.TxMeta) error
	DeductWithFloor(ctx context.Context, userID uuid.UUID, amount, floor int, meta credit.TxMeta) error
}

// Service gates quiz attempts and AI queries and settles their credit cost
type Service struct {
	users      UserStore
	payments   PaymentStore
	packages   PackageStore
	catalog    QuizCatalog
	moderation ModerationCounter
	credits    CreditLedger
	locks      *userLocks
}

// NewService creates access service
func NewService(users UserStore, payments PaymentStore, pkgs PackageStore, catalog QuizCatalog, moderation ModerationCounter, credits CreditLedger) *Service {
	return &Service{
		users:      users,
		payments:   payments,
		packages:   pkgs,
		catalog:    catalog,
		moderation: moderation,
		credits:    credits,
		locks:      newUserLocks(),
	}
}

// AuthorizeQuizAccess decides whether the named user may attempt the given
// quiz. On credit-funded access the cost is debited before the call returns;
// every failure is terminal for the request and carries a typed reason.
func (s *Service) AuthorizeQuizAccess(ctx context.Context, username string, quizID uuid.UUID) error {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("%w: load user: %v", ErrAccessValidation, err)
	}
	if u == nil {
		return ErrUserNotFound
	}

	q, err := s.catalog.GetQuizInfo(ctx, quizID)
	if err != nil {
		return fmt.Errorf("%w: load quiz: %v", ErrAccessValidation, err)
	}
	if q == nil {
		return ErrQuizNotFound
	}

	// Admins pass unconditionally with zero side effects.
	if u.IsAdmin() {
		return nil
	}
	if u.IsBanned {
		return ErrUserBanned
	}
	if u.IsDeleted {
		return ErrUserNotFound
	}

	s.locks.lock(u.ID)
	defer s.locks.unlock(u.ID)

	// Promotional fast path: spends one unit and skips reconciliation and
	// the cost table entirely. The conditional update is the allow decision.
	if u.HasFreeAccess {
		_, err := s.users.ConsumeFreeAccess(ctx, u.ID, quizFreeAccessMin)
		if err == nil {
			return nil
		}
		if !errors.Is(err, user.ErrFreeAccessUnavailable) {
			return fmt.Errorf("%w: consume free access: %v", ErrAccessValidation, err)
		}
	}

	u, err = s.reconcileLocked(ctx, u)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrAccessValidation, err)
	}

	// Standing reward: heavy moderators of this quiz's question pool take it
	// free of charge. Re-evaluated per request, never cached.
	if len(q.QuestionIDs) > 0 {
		moderated, err := s.moderation.CountModeratedBy(ctx, u.ID, q.QuestionIDs)
		if err != nil {
			return fmt.Errorf("%w: count moderated: %v", ErrAccessValidation, err)
		}
		if moderated >= moderationBypassThreshold {
			return nil
		}
	}

	required := QuizCreditCost(q.CreditHours)

	switch u.AccessType {
	case user.AccessDuration:
		if u.IsSubscribed {
			return nil
		}
		return ErrSubscriptionRequired

	case user.AccessCourse:
		if u.Courses.Contains(q.CourseID) {
			return nil
		}
		return s.debitQuiz(ctx, u.ID, required, q.ID, ErrInsufficientCredits)

	case user.AccessQuiz:
		return s.debitQuiz(ctx, u.ID, required, q.ID, ErrInsufficientCredits)

	case user.AccessDefault:
		// Subscribed with no credit plan at all rides the subscription.
		if u.IsSubscribed && u.QuizCredits == 0 {
			return nil
		}
		return s.debitQuiz(ctx, u.ID, required, q.ID, ErrAccessDenied)

	default:
		log.Error().
			Str("user_id", u.ID.String()).
			Str("access_type", string(u.AccessType)).
			Msg("access type outside enum reached authorization")
		return ErrInvalidAccessType
	}
}

// AuthorizeAIAccess decides whether the named user may run an AI generation.
// The cost model is a flat fee gated on a minimum held balance rather than
// the per-quiz cost table.
func (s *Service) AuthorizeAIAccess(ctx context.Context, username string) error {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("%w: load user: %v", ErrAccessValidation, err)
	}
	if u == nil {
		return ErrUserNotFound
	}

	if u.IsAdmin() {
		return nil
	}
	if u.IsBanned {
		return ErrUserBanned
	}
	if u.IsDeleted {
		return ErrUserNotFound
	}

	s.locks.lock(u.ID)
	defer s.locks.unlock(u.ID)

	// The AI fast path needs two banked units but still spends only one.
	if u.HasFreeAccess {
		_, err := s.users.ConsumeFreeAccess(ctx, u.ID, aiFreeAccessMin)
		if err == nil {
			return nil
		}
		if !errors.Is(err, user.ErrFreeAccessUnavailable) {
			return fmt.Errorf("%w: consume free access: %v", ErrAccessValidation, err)
		}
	}

	u, err = s.reconcileLocked(ctx, u)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrAccessValidation, err)
	}

	switch u.AccessType {
	case user.AccessDuration:
		if u.IsSubscribed {
			return nil
		}
		return ErrSubscriptionRequired

	case user.AccessDefault:
		if u.IsSubscribed && u.QuizCredits == 0 {
			return nil
		}
		err := s.credits.DeductWithFloor(ctx, u.ID, AIQueryCost, AIMinCreditBalance, credit.TxMeta{
			RelatedEntityType: "ai_query",
			Description:       "AI question generation",
		})
		if err != nil {
			if errors.Is(err, credit.ErrInsufficientCredits) {
				return ErrAccessDenied
			}
			return fmt.Errorf("%w: debit: %v", ErrAccessValidation, err)
		}
		return nil

	default:
		// Only duration and default plans gate AI generation; anything else
		// reaching here is a data integrity violation.
		log.Error().
			Str("user_id", u.ID.String()).
			Str("access_type", string(u.AccessType)).
			Msg("access type outside enum reached AI authorization")
		return ErrInvalidAccessType
	}
}

// debitQuiz settles a quiz attempt against the credit balance. The debit is
// a single conditional update, so the balance can never go negative under
// concurrent attempts. insufficientErr is the denial the caller's branch maps
// a short balance to.
func (s *Service) debitQuiz(ctx context.Context, userID uuid.UUID, amount int, quizID uuid.UUID, insufficientErr error) error {
	err := s.credits.Deduct(ctx, userID, amount, credit.TxMeta{
		RelatedEntityType: "quiz",
		RelatedEntityID:   quizID,
		Description:       "quiz attempt",
	})
	if err != nil {
		if errors.Is(err, credit.ErrInsufficientCredits) {
			return insufficientErr
		}
		return fmt.Errorf("%w: debit: %v", ErrAccessValidation, err)
	}
	return nil
}
