package quiz

import "errors"

var (
	// ErrQuizNotFound is returned when quiz doesn't exist
	ErrQuizNotFound = errors.New("quiz not found")

	// ErrQuestionNotFound is returned when question doesn't exist
	ErrQuestionNotFound = errors.New("question not found")

	// ErrAlreadyModerated is returned when a question already has a verdict
	ErrAlreadyModerated = errors.New("question already moderated")

	// ErrGenerationFailed is returned when the AI response cannot be parsed
	ErrGenerationFailed = errors.New("question generation failed")
)
