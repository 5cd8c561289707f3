package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/quizhub/quizhub-api/internal/pkg/database"
)

const userColumns = `id, username, email, password_hash, role, is_banned, is_deleted,
	       access_type, is_subscribed, quiz_credits, has_free_access, free_access_count,
	       package_ids, payment_ids, courses,
	       created_at, updated_at`

// EntitlementUpdate carries the result of a package reconciliation pass.
// Array fields are applied as set operations so concurrent writers cannot
// lose grants: package_ids is replaced, expired payment ids are subtracted,
// courses are unioned (course grants are monotonic and never revoked).
type EntitlementUpdate struct {
	PackageIDs        database.UUIDArray
	ExpiredPaymentIDs database.UUIDArray
	Courses           database.UUIDArray
	IsSubscribed      bool
	AccessType        AccessType
}

// Repository defines user data access interface
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	SetBanned(ctx context.Context, id uuid.UUID, banned bool) error

	// ApplyEntitlements persists a reconciliation result as a single update
	// and returns the post-update user row.
	ApplyEntitlements(ctx context.Context, id uuid.UUID, upd EntitlementUpdate) (*User, error)
	// ResetEntitlements clears all entitlement state (no payments, no credits)
	// and returns the post-update user row.
	ResetEntitlements(ctx context.Context, id uuid.UUID) (*User, error)
	// ConsumeFreeAccess atomically decrements the promotional counter by one,
	// provided at least minCount uses remain. Returns the remaining count or
	// ErrFreeAccessUnavailable when the conditional update matched no row.
	ConsumeFreeAccess(ctx context.Context, id uuid.UUID, minCount int) (int, error)
	// GrantFreeAccess tops up the promotional counter (admin operation).
	GrantFreeAccess(ctx context.Context, id uuid.UUID, count int) error
	// AppendPaymentID records a newly initiated payment on the user.
	AppendPaymentID(ctx context.Context, id uuid.UUID, paymentID uuid.UUID) error
}

// repository implements Repository
type repository struct {
	db *sqlx.DB
}

// NewRepository creates new user repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Create creates a new user
func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, role, is_banned, is_deleted,
		                   access_type, is_subscribed, quiz_credits, has_free_access, free_access_count,
		                   package_ids, payment_ids, courses)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.IsBanned,
		user.IsDeleted,
		user.AccessType,
		user.IsSubscribed,
		user.QuizCredits,
		user.HasFreeAccess,
		user.FreeAccessCount,
		user.PackageIDs,
		user.PaymentIDs,
		user.Courses,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			if pqErr.Constraint == "users_username_key" {
				return ErrUsernameAlreadyExists
			}
			return ErrEmailAlreadyExists
		}
		return fmt.Errorf("user repository create: %w", err)
	}

	return nil
}

// GetByID returns user by ID
func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

// GetByUsername returns user by username
func (r *repository) GetByUsername(ctx context.Context, username string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

// GetByEmail returns user by email
func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

// Update updates mutable account fields
func (r *repository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET email = $2, password_hash = $3, role = $4, is_banned = $5, updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.IsBanned,
	)
	if err != nil {
		return fmt.Errorf("user repository update: %w", err)
	}

	return nil
}

// Delete soft deletes a user (accounts are never hard-deleted)
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET is_deleted = true, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// UpdatePassword updates user password hash
func (r *repository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, passwordHash)
	return err
}

// SetBanned bans or unbans a user
func (r *repository) SetBanned(ctx context.Context, id uuid.UUID, banned bool) error {
	query := `UPDATE users SET is_banned = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, banned)
	return err
}

// ApplyEntitlements persists a reconciliation result. The array mutations run
// inside Postgres as set operations (replace / subtract / union) so that two
// concurrent reconciliations cannot double-prune payments or drop courses.
func (r *repository) ApplyEntitlements(ctx context.Context, id uuid.UUID, upd EntitlementUpdate) (*User, error) {
	query := `
		UPDATE users
		SET package_ids   = $2::uuid[],
		    payment_ids   = ARRAY(SELECT pid FROM unnest(payment_ids) pid
		                          EXCEPT SELECT xid FROM unnest($3::uuid[]) xid),
		    courses       = ARRAY(SELECT DISTINCT cid FROM unnest(courses || $4::uuid[]) cid),
		    is_subscribed = $5,
		    access_type   = $6,
		    updated_at    = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	var user User
	err := r.db.GetContext(ctx, &user, query,
		id,
		upd.PackageIDs,
		upd.ExpiredPaymentIDs,
		upd.Courses,
		upd.IsSubscribed,
		upd.AccessType,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("apply entitlements: %w", err)
	}

	return &user, nil
}

// ResetEntitlements clears entitlement state entirely. Courses are left
// untouched: course grants are monotonic.
func (r *repository) ResetEntitlements(ctx context.Context, id uuid.UUID) (*User, error) {
	query := `
		UPDATE users
		SET package_ids       = '{}',
		    payment_ids       = '{}',
		    is_subscribed     = false,
		    access_type       = 'default',
		    quiz_credits      = 0,
		    has_free_access   = false,
		    free_access_count = 0,
		    updated_at        = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("reset entitlements: %w", err)
	}

	return &user, nil
}

// ConsumeFreeAccess decrements the promotional counter by one, clamped at
// zero, provided at least minCount uses remain. The conditional WHERE makes
// the decrement atomic under concurrent requests.
func (r *repository) ConsumeFreeAccess(ctx context.Context, id uuid.UUID, minCount int) (int, error) {
	if minCount < 1 {
		minCount = 1
	}

	var remaining int
	err := r.db.QueryRowContext(ctx, `
		UPDATE users
		SET free_access_count = free_access_count - 1,
		    has_free_access   = free_access_count - 1 > 0,
		    updated_at        = NOW()
		WHERE id = $1 AND has_free_access AND free_access_count >= $2
		RETURNING free_access_count
	`, id, minCount).Scan(&remaining)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrFreeAccessUnavailable
		}
		return 0, fmt.Errorf("consume free access: %w", err)
	}

	return remaining, nil
}

// GrantFreeAccess tops up the promotional counter
func (r *repository) GrantFreeAccess(ctx context.Context, id uuid.UUID, count int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET free_access_count = free_access_count + $2,
		    has_free_access   = true,
		    updated_at        = NOW()
		WHERE id = $1
	`, id, count)
	if err != nil {
		return fmt.Errorf("grant free access: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// AppendPaymentID records a payment reference on the user (idempotent)
func (r *repository) AppendPaymentID(ctx context.Context, id uuid.UUID, paymentID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET payment_ids = ARRAY(SELECT DISTINCT pid FROM unnest(payment_ids || $2::uuid) pid),
		    updated_at  = NOW()
		WHERE id = $1
	`, id, paymentID)
	if err != nil {
		return fmt.Errorf("append payment id: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}
