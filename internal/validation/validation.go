// Package validation holds the client-side input checks that run before any
// request leaves the machine. A failed check never reaches the network and is
// never logged as a failure; it is shown in the form that produced it.
package validation

import (
	"errors"
	"regexp"
	"strings"

	"taskdeck/internal/model"

	"github.com/go-playground/validator/v10"
)

// Error is a field-level validation failure with a user-facing message.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string { return e.Message }

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Password policy: at least 6 characters, capital first letter, lowercase
	// letters, and at least one special character. Checked client-side before
	// calling the register endpoint.
	if err := v.RegisterValidation("password_shape", passwordShape); err != nil {
		panic(err)
	}
	return v
}

var passwordPattern = regexp.MustCompile(`^[A-Z][a-z]*.*[!@#$%^&*]`)

func passwordShape(fl validator.FieldLevel) bool {
	pw := fl.Field().String()
	return len(pw) >= 6 && passwordPattern.MatchString(pw)
}

// TaskInput covers both create and update; both require a non-empty title,
// a non-empty description, and one of the three allowed statuses.
type TaskInput struct {
	Title       string       `validate:"required"`
	Description string       `validate:"required"`
	Status      model.Status `validate:"required,oneof=Todo 'In Progress' Done"`
}

func CheckTask(in TaskInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if err := validate.Struct(in); err != nil {
		return taskMessage(err)
	}
	return nil
}

func taskMessage(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &Error{Message: "Invalid input"}
	}
	fe := verrs[0]
	switch fe.Field() {
	case "Title":
		return &Error{Field: "title", Message: "Title is required"}
	case "Description":
		return &Error{Field: "description", Message: "Description is required"}
	case "Status":
		return &Error{Field: "status", Message: "Invalid task status"}
	}
	return &Error{Message: "Invalid input"}
}

// RegisterInput is the register form. Email is optional; when present it must
// look like an email address.
type RegisterInput struct {
	Username string `validate:"required"`
	Password string `validate:"required,password_shape"`
	Email    string `validate:"omitempty,email"`
}

func CheckRegister(in RegisterInput) error {
	in.Username = strings.TrimSpace(in.Username)
	if err := validate.Struct(in); err != nil {
		return registerMessage(err)
	}
	return nil
}

func registerMessage(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &Error{Message: "Invalid input"}
	}
	fe := verrs[0]
	switch {
	case fe.Field() == "Username":
		return &Error{Field: "username", Message: "Username is required"}
	case fe.Field() == "Password" && fe.Tag() == "required":
		return &Error{Field: "password", Message: "Password is required"}
	case fe.Field() == "Password":
		return &Error{
			Field:   "password",
			Message: "Password must start with a capital letter, have lowercase letters, 1 special character, and be at least 6 characters long",
		}
	case fe.Field() == "Email":
		return &Error{Field: "email", Message: "Invalid email address"}
	}
	return &Error{Message: "Invalid input"}
}
