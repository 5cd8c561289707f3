package packages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/quizhub/quizhub-api/internal/pkg/database"
)

const packageColumns = `id, name, description, price, access, duration_days, credit_amount,
	       courses, is_active, created_at, updated_at`

// Repository defines package catalog data access
type Repository interface {
	Create(ctx context.Context, pkg *Package) error
	GetByID(ctx context.Context, id uuid.UUID) (*Package, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*Package, error)
	ListActive(ctx context.Context) ([]*Package, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new package repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, pkg *Package) error {
	query := `
		INSERT INTO packages (id, name, description, price, access, duration_days, credit_amount, courses, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		pkg.ID,
		pkg.Name,
		pkg.Description,
		pkg.Price,
		pkg.Access,
		pkg.DurationDays,
		pkg.CreditAmount,
		pkg.Courses,
		pkg.IsActive,
	)
	if err != nil {
		return fmt.Errorf("package repository create: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages WHERE id = $1`

	var pkg Package
	err := r.db.GetContext(ctx, &pkg, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &pkg, nil
}

// ListByIDs returns packages matching the given ids; missing ids are skipped
func (r *repository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*Package, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + packageColumns + ` FROM packages WHERE id = ANY($1::uuid[])`

	pkgs := make([]*Package, 0, len(ids))
	if err := r.db.SelectContext(ctx, &pkgs, query, database.UUIDArray(ids)); err != nil {
		return nil, fmt.Errorf("package repository list by ids: %w", err)
	}

	return pkgs, nil
}

func (r *repository) ListActive(ctx context.Context) ([]*Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages WHERE is_active ORDER BY price`

	pkgs := make([]*Package, 0)
	if err := r.db.SelectContext(ctx, &pkgs, query); err != nil {
		return nil, fmt.Errorf("package repository list active: %w", err)
	}

	return pkgs, nil
}

func (r *repository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE packages SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("package repository set active: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPackageNotFound
	}
	return nil
}
