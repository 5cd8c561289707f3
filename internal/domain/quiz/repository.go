package quiz

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/quizhub/quizhub-api/internal/domain/access"
	"github.com/quizhub/quizhub-api/internal/pkg/database"
)

const quizColumns = `id, course_id, title, description, credit_hours, is_published, created_at, updated_at`

const questionColumns = `id, quiz_id, text, options, correct_index, status, moderated_by, is_generated, created_at`

// Repository defines quiz data access
type Repository interface {
	Create(ctx context.Context, q *Quiz) error
	GetByID(ctx context.Context, id uuid.UUID) (*Quiz, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*Quiz, error)
	SetPublished(ctx context.Context, id uuid.UUID, published bool) error

	CreateQuestions(ctx context.Context, questions []*Question) error
	ListQuestions(ctx context.Context, quizID uuid.UUID, approvedOnly bool) ([]*Question, error)
	GetQuestion(ctx context.Context, id uuid.UUID) (*Question, error)
	// ModerateQuestion records a verdict and its author. Returns
	// ErrAlreadyModerated when the question already left pending.
	ModerateQuestion(ctx context.Context, id, moderatorID uuid.UUID, status QuestionStatus) error

	CreateAttempt(ctx context.Context, a *Attempt) error
	ListAttempts(ctx context.Context, userID uuid.UUID) ([]*Attempt, error)

	// GetQuizInfo resolves the fields the access engine needs. (nil, nil)
	// when the quiz does not exist.
	GetQuizInfo(ctx context.Context, quizID uuid.UUID) (*access.QuizInfo, error)
	// CountModeratedBy counts questions among the given ids moderated by the user.
	CountModeratedBy(ctx context.Context, userID uuid.UUID, questionIDs []uuid.UUID) (int, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new quiz repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, q *Quiz) error {
	query := `
		INSERT INTO quizzes (id, course_id, title, description, credit_hours, is_published)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		q.ID,
		q.CourseID,
		q.Title,
		q.Description,
		q.CreditHours,
		q.IsPublished,
	)
	if err != nil {
		return fmt.Errorf("quiz repository create: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Quiz, error) {
	query := `SELECT ` + quizColumns + ` FROM quizzes WHERE id = $1`

	var q Quiz
	err := r.db.GetContext(ctx, &q, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &q, nil
}

func (r *repository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*Quiz, error) {
	query := `SELECT ` + quizColumns + ` FROM quizzes WHERE course_id = $1 AND is_published ORDER BY created_at`

	out := make([]*Quiz, 0)
	if err := r.db.SelectContext(ctx, &out, query, courseID); err != nil {
		return nil, fmt.Errorf("quiz repository list by course: %w", err)
	}

	return out, nil
}

func (r *repository) SetPublished(ctx context.Context, id uuid.UUID, published bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE quizzes SET is_published = $2, updated_at = NOW() WHERE id = $1
	`, id, published)
	if err != nil {
		return fmt.Errorf("quiz repository set published: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrQuizNotFound
	}
	return nil
}

func (r *repository) CreateQuestions(ctx context.Context, questions []*Question) error {
	if len(questions) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("quiz repository create questions: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO questions (id, quiz_id, text, options, correct_index, status, is_generated)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, q := range questions {
		_, err := tx.ExecContext(ctx, query,
			q.ID,
			q.QuizID,
			q.Text,
			q.Options,
			q.CorrectIndex,
			q.Status,
			q.IsGenerated,
		)
		if err != nil {
			return fmt.Errorf("quiz repository create questions: %w", err)
		}
	}

	return tx.Commit()
}

func (r *repository) ListQuestions(ctx context.Context, quizID uuid.UUID, approvedOnly bool) ([]*Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE quiz_id = $1`
	if approvedOnly {
		query += ` AND status = 'approved'`
	}
	query += ` ORDER BY created_at`

	out := make([]*Question, 0)
	if err := r.db.SelectContext(ctx, &out, query, quizID); err != nil {
		return nil, fmt.Errorf("quiz repository list questions: %w", err)
	}

	return out, nil
}

func (r *repository) GetQuestion(ctx context.Context, id uuid.UUID) (*Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = $1`

	var q Question
	err := r.db.GetContext(ctx, &q, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &q, nil
}

func (r *repository) ModerateQuestion(ctx context.Context, id, moderatorID uuid.UUID, status QuestionStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE questions
		SET status = $3, moderated_by = $2
		WHERE id = $1 AND status = 'pending'
	`, id, moderatorID, status)
	if err != nil {
		return fmt.Errorf("quiz repository moderate question: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAlreadyModerated
	}
	return nil
}

func (r *repository) CreateAttempt(ctx context.Context, a *Attempt) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attempts (id, quiz_id, user_id, started_at)
		VALUES ($1, $2, $3, $4)
	`, a.ID, a.QuizID, a.UserID, a.StartedAt)
	if err != nil {
		return fmt.Errorf("quiz repository create attempt: %w", err)
	}
	return nil
}

func (r *repository) ListAttempts(ctx context.Context, userID uuid.UUID) ([]*Attempt, error) {
	out := make([]*Attempt, 0)
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, quiz_id, user_id, started_at FROM attempts
		WHERE user_id = $1 ORDER BY started_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("quiz repository list attempts: %w", err)
	}
	return out, nil
}

func (r *repository) GetQuizInfo(ctx context.Context, quizID uuid.UUID) (*access.QuizInfo, error) {
	q, err := r.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, nil
	}

	var questionIDs database.UUIDArray
	err = r.db.GetContext(ctx, &questionIDs, `
		SELECT COALESCE(array_agg(id), '{}') FROM questions WHERE quiz_id = $1
	`, quizID)
	if err != nil {
		return nil, fmt.Errorf("quiz repository quiz info: %w", err)
	}

	return &access.QuizInfo{
		ID:          q.ID,
		CourseID:    q.CourseID,
		CreditHours: q.CreditHours,
		QuestionIDs: questionIDs,
	}, nil
}

func (r *repository) CountModeratedBy(ctx context.Context, userID uuid.UUID, questionIDs []uuid.UUID) (int, error) {
	if len(questionIDs) == 0 {
		return 0, nil
	}

	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM questions
		WHERE moderated_by = $1 AND id = ANY($2::uuid[])
	`, userID, database.UUIDArray(questionIDs))
	if err != nil {
		return 0, fmt.Errorf("quiz repository count moderated: %w", err)
	}

	return count, nil
}
