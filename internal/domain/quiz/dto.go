package quiz

import "github.com/google/uuid"

// CreateQuizRequest creates a catalog entry
type CreateQuizRequest struct {
	CourseID    uuid.UUID `json:"course_id" validate:"required"`
	Title       string    `json:"title" validate:"required,min=3,max=200"`
	Description string    `json:"description" validate:"omitempty,max=2000"`
	CreditHours int       `json:"credit_hours" validate:"required,gte=1,lte=10"`
	IsPublished bool      `json:"is_published"`
}

// GenerateQuestionsRequest asks the AI generator for new questions
type GenerateQuestionsRequest struct {
	Topic string `json:"topic" validate:"required,min=3,max=200"`
	Count int    `json:"count" validate:"omitempty,gte=1,lte=20"`
}

// ModerateQuestionRequest records a moderation verdict
type ModerateQuestionRequest struct {
	Approve bool `json:"approve"`
}
