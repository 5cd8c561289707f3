package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/quizhub/quizhub-api/internal/domain/access"
	"github.com/quizhub/quizhub-api/internal/pkg/ai"
)

const generationSystemPrompt = `You are a quiz author for an education platform.
Respond with a JSON array only, no prose. Each element must have the fields
"text" (string), "options" (array of 4 strings) and "correct_index" (0-3).`

// Service handles quiz business logic
type Service struct {
	repo      Repository
	access    *access.Service
	generator ai.Generator
}

// NewService creates quiz service
func NewService(repo Repository, accessSvc *access.Service, generator ai.Generator) *Service {
	return &Service{
		repo:      repo,
		access:    accessSvc,
		generator: generator,
	}
}

// CreateQuiz creates a catalog entry (admin)
func (s *Service) CreateQuiz(ctx context.Context, req *CreateQuizRequest) (*Quiz, error) {
	q := &Quiz{
		ID:          uuid.New(),
		CourseID:    req.CourseID,
		Title:       req.Title,
		Description: req.Description,
		CreditHours: req.CreditHours,
		IsPublished: req.IsPublished,
	}

	if err := s.repo.Create(ctx, q); err != nil {
		return nil, err
	}

	return q, nil
}

// GetQuiz returns a quiz by id
func (s *Service) GetQuiz(ctx context.Context, id uuid.UUID) (*Quiz, error) {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, ErrQuizNotFound
	}
	return q, nil
}

// ListByCourse returns published quizzes for a course
func (s *Service) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*Quiz, error) {
	return s.repo.ListByCourse(ctx, courseID)
}

// StartAttempt gates a quiz attempt through the access engine and, when
// allowed, records the attempt and hands back the approved question set.
// Credit settlement happens inside the authorization call.
func (s *Service) StartAttempt(ctx context.Context, username string, userID, quizID uuid.UUID) ([]*Question, error) {
	if err := s.access.AuthorizeQuizAccess(ctx, username, quizID); err != nil {
		return nil, err
	}

	attempt := &Attempt{
		ID:        uuid.New(),
		QuizID:    quizID,
		UserID:    userID,
		StartedAt: time.Now(),
	}
	if err := s.repo.CreateAttempt(ctx, attempt); err != nil {
		return nil, err
	}

	return s.repo.ListQuestions(ctx, quizID, true)
}

// ListMyAttempts returns the caller's attempt history
func (s *Service) ListMyAttempts(ctx context.Context, userID uuid.UUID) ([]*Attempt, error) {
	return s.repo.ListAttempts(ctx, userID)
}

// GenerateQuestions gates an AI generation through the access engine and
// inserts the generated questions as pending moderation.
func (s *Service) GenerateQuestions(ctx context.Context, username string, quizID uuid.UUID, req *GenerateQuestionsRequest) ([]*Question, error) {
	if err := s.access.AuthorizeAIAccess(ctx, username); err != nil {
		return nil, err
	}

	q, err := s.repo.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, ErrQuizNotFound
	}

	count := req.Count
	if count <= 0 {
		count = 5
	}

	prompt := fmt.Sprintf("Write %d multiple-choice questions about %q for the quiz %q.", count, req.Topic, q.Title)

	raw, err := s.generator.Complete(ctx, generationSystemPrompt, prompt)
	if err != nil {
		log.Error().Err(err).Str("quiz_id", quizID.String()).Msg("AI generation request failed")
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	generated, err := parseGeneratedQuestions(raw)
	if err != nil {
		log.Error().Err(err).Str("quiz_id", quizID.String()).Msg("AI generation returned unparseable output")
		return nil, err
	}

	questions := make([]*Question, 0, len(generated))
	for _, g := range generated {
		questions = append(questions, &Question{
			ID:           uuid.New(),
			QuizID:       quizID,
			Text:         g.Text,
			Options:      g.Options,
			CorrectIndex: g.CorrectIndex,
			Status:       QuestionPending,
			IsGenerated:  true,
		})
	}

	if err := s.repo.CreateQuestions(ctx, questions); err != nil {
		return nil, err
	}

	return questions, nil
}

// ModerateQuestion records a moderator's verdict on a pending question
func (s *Service) ModerateQuestion(ctx context.Context, questionID, moderatorID uuid.UUID, approve bool) error {
	q, err := s.repo.GetQuestion(ctx, questionID)
	if err != nil {
		return err
	}
	if q == nil {
		return ErrQuestionNotFound
	}

	status := QuestionRejected
	if approve {
		status = QuestionApproved
	}

	return s.repo.ModerateQuestion(ctx, questionID, moderatorID, status)
}

// ListQuestions returns a quiz's questions, optionally pending ones included
func (s *Service) ListQuestions(ctx context.Context, quizID uuid.UUID, includePending bool) ([]*Question, error) {
	q, err := s.repo.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, ErrQuizNotFound
	}

	return s.repo.ListQuestions(ctx, quizID, !includePending)
}

type generatedQuestion struct {
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
}

// parseGeneratedQuestions extracts the JSON array from a model response,
// tolerating surrounding prose or markdown fences.
func parseGeneratedQuestions(raw string) ([]generatedQuestion, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return nil, ErrGenerationFailed
	}

	var out []generatedQuestion
	if err := json.Unmarshal([]byte(raw[start:end+1]), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	valid := out[:0]
	for _, g := range out {
		if g.Text == "" || len(g.Options) < 2 {
			continue
		}
		if g.CorrectIndex < 0 || g.CorrectIndex >= len(g.Options) {
			continue
		}
		valid = append(valid, g)
	}
	if len(valid) == 0 {
		return nil, ErrGenerationFailed
	}

	return valid, nil
}
