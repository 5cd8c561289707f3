package course

// CreateCourseRequest creates a course
type CreateCourseRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"omitempty,max=5000"`
	IsPublished bool   `json:"is_published"`
}

// UpdateCourseRequest edits a course; zero values leave fields unchanged
type UpdateCourseRequest struct {
	Title       string `json:"title" validate:"omitempty,min=3,max=200"`
	Description string `json:"description" validate:"omitempty,max=5000"`
	IsPublished *bool  `json:"is_published"`
}
