package quiz

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// QuestionStatus tracks a question through moderation
type QuestionStatus string

const (
	QuestionPending  QuestionStatus = "pending"
	QuestionApproved QuestionStatus = "approved"
	QuestionRejected QuestionStatus = "rejected"
)

// Quiz is a catalog entry. CreditHours drives the credit cost of an attempt.
type Quiz struct {
	ID          uuid.UUID `db:"id" json:"id"`
	CourseID    uuid.UUID `db:"course_id" json:"course_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	CreditHours int       `db:"credit_hours" json:"credit_hours"`
	IsPublished bool      `db:"is_published" json:"is_published"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Question belongs to one quiz. ModeratedBy records which moderator approved
// or rejected it; the access engine counts it for the moderation bypass.
type Question struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	QuizID       uuid.UUID      `db:"quiz_id" json:"quiz_id"`
	Text         string         `db:"text" json:"text"`
	Options      pq.StringArray `db:"options" json:"options"`
	CorrectIndex int            `db:"correct_index" json:"correct_index"`
	Status       QuestionStatus `db:"status" json:"status"`
	ModeratedBy  *uuid.UUID     `db:"moderated_by" json:"moderated_by,omitempty"`
	IsGenerated  bool           `db:"is_generated" json:"is_generated"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
}

// Attempt records one gated quiz start
type Attempt struct {
	ID        uuid.UUID `db:"id" json:"id"`
	QuizID    uuid.UUID `db:"quiz_id" json:"quiz_id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	StartedAt time.Time `db:"started_at" json:"started_at"`
}
