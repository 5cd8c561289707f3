package course

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Course is an entitlement target: packages grant courses, quizzes belong to
// them, and the access engine checks membership in user.courses.
type Course struct {
	ID          uuid.UUID      `db:"id" json:"id"`
	Title       string         `db:"title" json:"title"`
	Description string         `db:"description" json:"description"`
	CoverKey    sql.NullString `db:"cover_key" json:"-"`
	CoverURL    string         `db:"-" json:"cover_url,omitempty"`
	IsPublished bool           `db:"is_published" json:"is_published"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// Material is a downloadable file attached to a course
type Material struct {
	ID        uuid.UUID `db:"id" json:"id"`
	CourseID  uuid.UUID `db:"course_id" json:"course_id"`
	Name      string    `db:"name" json:"name"`
	Key       string    `db:"key" json:"-"`
	URL       string    `db:"-" json:"url,omitempty"`
	MimeType  string    `db:"mime_type" json:"mime_type"`
	Size      int64     `db:"size" json:"size"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
