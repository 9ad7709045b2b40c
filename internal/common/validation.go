package common

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs validator tags on a request body struct and converts
// the first failure into a BadRequest error.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	ok := false
	if verrs, ok = err.(validator.ValidationErrors); !ok || len(verrs) == 0 {
		return BadRequest("invalid request body")
	}

	f := verrs[0]
	switch f.Tag() {
	case "required":
		return BadRequest(strings.ToLower(f.Field()) + " is required")
	case "email":
		return BadRequest("invalid email format")
	case "min":
		return BadRequest(strings.ToLower(f.Field()) + " is too short")
	case "max":
		return BadRequest(strings.ToLower(f.Field()) + " is too long")
	case "oneof":
		return BadRequest(strings.ToLower(f.Field()) + " has an invalid value")
	default:
		return BadRequest("invalid " + strings.ToLower(f.Field()))
	}
}

func ValidatePassword(password string) error {
	if len(password) < 8 {
		return BadRequest("password must be at least 8 characters long")
	}
	if len(password) > 100 {
		return BadRequest("password is too long")
	}
	return nil
}

// NormalizeEmail lowercases and trims an email for storage and comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
