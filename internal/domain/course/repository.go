package course

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const courseColumns = `id, title, description, cover_key, is_published, created_at, updated_at`

// Repository defines course data access
type Repository interface {
	Create(ctx context.Context, c *Course) error
	GetByID(ctx context.Context, id uuid.UUID) (*Course, error)
	List(ctx context.Context, publishedOnly bool) ([]*Course, error)
	Update(ctx context.Context, c *Course) error
	SetCoverKey(ctx context.Context, id uuid.UUID, key string) error
	SetPublished(ctx context.Context, id uuid.UUID, published bool) error

	CreateMaterial(ctx context.Context, m *Material) error
	ListMaterials(ctx context.Context, courseID uuid.UUID) ([]*Material, error)
	GetMaterial(ctx context.Context, id uuid.UUID) (*Material, error)
	DeleteMaterial(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new course repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Course) error {
	query := `
		INSERT INTO courses (id, title, description, is_published)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query, c.ID, c.Title, c.Description, c.IsPublished)
	if err != nil {
		return fmt.Errorf("course repository create: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`

	var c Course
	err := r.db.GetContext(ctx, &c, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &c, nil
}

func (r *repository) List(ctx context.Context, publishedOnly bool) ([]*Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses`
	if publishedOnly {
		query += ` WHERE is_published`
	}
	query += ` ORDER BY created_at DESC`

	out := make([]*Course, 0)
	if err := r.db.SelectContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("course repository list: %w", err)
	}

	return out, nil
}

func (r *repository) Update(ctx context.Context, c *Course) error {
	query := `
		UPDATE courses
		SET title = $2, description = $3, is_published = $4, updated_at = NOW()
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query, c.ID, c.Title, c.Description, c.IsPublished)
	if err != nil {
		return fmt.Errorf("course repository update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCourseNotFound
	}

	return nil
}

func (r *repository) SetCoverKey(ctx context.Context, id uuid.UUID, key string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE courses SET cover_key = $2, updated_at = NOW() WHERE id = $1
	`, id, key)
	if err != nil {
		return fmt.Errorf("course repository set cover: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCourseNotFound
	}
	return nil
}

func (r *repository) SetPublished(ctx context.Context, id uuid.UUID, published bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE courses SET is_published = $2, updated_at = NOW() WHERE id = $1
	`, id, published)
	if err != nil {
		return fmt.Errorf("course repository set published: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCourseNotFound
	}
	return nil
}

func (r *repository) CreateMaterial(ctx context.Context, m *Material) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO course_materials (id, course_id, name, key, mime_type, size)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, m.ID, m.CourseID, m.Name, m.Key, m.MimeType, m.Size)
	if err != nil {
		return fmt.Errorf("course repository create material: %w", err)
	}
	return nil
}

func (r *repository) ListMaterials(ctx context.Context, courseID uuid.UUID) ([]*Material, error) {
	out := make([]*Material, 0)
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, course_id, name, key, mime_type, size, created_at
		FROM course_materials
		WHERE course_id = $1
		ORDER BY created_at
	`, courseID)
	if err != nil {
		return nil, fmt.Errorf("course repository list materials: %w", err)
	}
	return out, nil
}

func (r *repository) GetMaterial(ctx context.Context, id uuid.UUID) (*Material, error) {
	var m Material
	err := r.db.GetContext(ctx, &m, `
		SELECT id, course_id, name, key, mime_type, size, created_at
		FROM course_materials WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *repository) DeleteMaterial(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM course_materials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("course repository delete material: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMaterialNotFound
	}
	return nil
}
