package models

import (
	"net/mail"
	"strings"

	"github.com/discera/discera-client/internal/common"
)

// DefaultMinPasswordLength is the registration form's minimum password length.
const DefaultMinPasswordLength = 6

// ValidationError describes one rejected form field. It matches
// common.ErrorValidation under errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return common.ErrorValidation
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// ValidateEmail checks the address shape only; deliverability is the
// collaborator's business.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return invalid("email", "is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email, "@") {
		return invalid("email", "is not a valid address")
	}
	return nil
}

// LoginForm holds the values typed into the login form.
type LoginForm struct {
	Email      string
	Password   string
	RememberMe bool
}

// Validate rejects obviously malformed input before any network call.
func (f LoginForm) Validate() error {
	if err := ValidateEmail(f.Email); err != nil {
		return err
	}
	if f.Password == "" {
		return invalid("password", "is required")
	}
	return nil
}

// RegisterForm holds the registration form values, including the
// confirmation field that is never sent to the collaborator.
type RegisterForm struct {
	Email           string
	Username        string
	FullName        string
	Password        string
	ConfirmPassword string
	Role            Role
}

// Validate applies the form rules: well-formed email, non-empty username and
// full name, known role, matching confirmation and a minimum password length.
// A non-positive minLen selects DefaultMinPasswordLength.
func (f RegisterForm) Validate(minLen int) error {
	if minLen <= 0 {
		minLen = DefaultMinPasswordLength
	}
	if err := ValidateEmail(f.Email); err != nil {
		return err
	}
	if strings.TrimSpace(f.Username) == "" {
		return invalid("username", "is required")
	}
	if strings.TrimSpace(f.FullName) == "" {
		return invalid("full_name", "is required")
	}
	if !f.Role.Valid() {
		return invalid("role", "must be one of student, teacher, admin")
	}
	if f.Password != f.ConfirmPassword {
		return invalid("confirm_password", "passwords do not match")
	}
	if len(f.Password) < minLen {
		return invalid("password", "is too short")
	}
	return nil
}

// Request strips the confirmation field and trims identity fields.
func (f RegisterForm) Request() RegisterRequest {
	return RegisterRequest{
		Email:    strings.TrimSpace(f.Email),
		Username: strings.TrimSpace(f.Username),
		FullName: strings.TrimSpace(f.FullName),
		Password: f.Password,
		Role:     f.Role,
	}
}
