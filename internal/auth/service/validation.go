package service

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const minPasswordLength = 8

// emailPattern accepts the local@domain.tld shape and nothing stricter.
var emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

// Field messages, shared with clients through the "errors" response map.
const (
	msgFullNameRequired = "full_name is required"
	msgEmailRequired    = "email is required"
	msgEmailInvalid     = "email is invalid"
	msgPasswordRequired = "password is required"
	msgPasswordWeak     = "password is too weak"
	msgPasswordMismatch = "passwords do not match"
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// isStrongPassword requires eight characters with at least one lower case
// letter, one upper case letter, one digit and one character that is
// neither a letter nor a digit.
func isStrongPassword(password string) bool {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return false
	}

	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsLetter(r) && !unicode.IsNumber(r):
			special = true
		}
	}
	return lower && upper && digit && special
}

// SignupRequest is the raw signup input. Fields are normalised by Signup.
type SignupRequest struct {
	FullName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// validate normalises r in place and collects every field problem.
// Within a field, presence is checked before shape.
func (r *SignupRequest) validate() *ValidationError {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = normalizeEmail(r.Email)

	fields := make(map[string]string)

	if r.FullName == "" {
		fields["full_name"] = msgFullNameRequired
	}

	switch {
	case r.Email == "":
		fields["email"] = msgEmailRequired
	case !isValidEmail(r.Email):
		fields["email"] = msgEmailInvalid
	}

	switch {
	case r.Password == "":
		fields["password"] = msgPasswordRequired
	case !isStrongPassword(r.Password):
		fields["password"] = msgPasswordWeak
	}

	if r.ConfirmPassword != r.Password {
		fields["confirm_password"] = msgPasswordMismatch
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
