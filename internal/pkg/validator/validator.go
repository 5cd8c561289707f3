package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Register custom validations
	registerCustomValidations()
}

func registerCustomValidations() {
	// Role validation
	validate.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		role := fl.Field().String()
		validRoles := []string{"student", "moderator", "admin"}
		for _, r := range validRoles {
			if role == r {
				return true
			}
		}
		return false
	})

	// Access type validation
	validate.RegisterValidation("access_type", func(fl validator.FieldLevel) bool {
		accessType := fl.Field().String()
		validTypes := []string{"duration", "course", "quiz", "default"}
		for _, t := range validTypes {
			if accessType == t {
				return true
			}
		}
		return false
	})

	// Package access validation
	validate.RegisterValidation("package_access", func(fl validator.FieldLevel) bool {
		access := fl.Field().String()
		validAccess := []string{"duration", "course", "quiz", "credits"}
		for _, a := range validAccess {
			if access == a {
				return true
			}
		}
		return false
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email format"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "url":
			errors[field] = "Invalid URL format"
		case "role":
			errors[field] = "Invalid role. Must be: student, moderator, or admin"
		case "access_type":
			errors[field] = "Invalid access type. Must be: duration, course, quiz, or default"
		case "package_access":
			errors[field] = "Invalid package access. Must be: duration, course, quiz, or credits"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
