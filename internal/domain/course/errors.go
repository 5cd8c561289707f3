package course

import "errors"

var (
	// ErrCourseNotFound is returned when course doesn't exist
	ErrCourseNotFound = errors.New("course not found")

	// ErrMaterialNotFound is returned when material doesn't exist
	ErrMaterialNotFound = errors.New("material not found")

	// ErrInvalidFileType is returned for uploads outside the allowed MIME set
	ErrInvalidFileType = errors.New("invalid file type")

	// ErrFileTooLarge is returned when an upload exceeds the category limit
	ErrFileTooLarge = errors.New("file too large")
)
