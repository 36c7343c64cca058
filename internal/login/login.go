// Package login implements the client-side login flow: local field
// validation, credential submission and session persistence.
package login

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"ghichat/internal/gateway"
	"ghichat/internal/session"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@(.+)$`)

const fallbackMessage = "Login failed. Please check your credentials."

// FieldError is a local validation failure tied to one form field. It
// blocks submission; nothing reaches the network.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate applies the form rules: both fields present, plausible email,
// password of at least 6 characters.
func Validate(email, password string) *FieldError {
	if strings.TrimSpace(email) == "" {
		return &FieldError{Field: "email", Message: "Please fill in all fields"}
	}
	if password == "" {
		return &FieldError{Field: "password", Message: "Please fill in all fields"}
	}
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return &FieldError{Field: "email", Message: "Please enter a valid email address"}
	}
	if len(password) < 6 {
		return &FieldError{Field: "password", Message: "Password must be at least 6 characters long"}
	}
	return nil
}

// Authenticator is the part of the gateway the flow needs.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (int64, error)
}

type Flow struct {
	Gateway Authenticator
	Store   *session.Store
}

// Login validates locally, submits the credentials and persists the
// session on success. A failed attempt of any kind leaves the stored
// session untouched.
func (f *Flow) Login(ctx context.Context, email, password string) (session.Session, error) {
	if err := Validate(email, password); err != nil {
		return session.Session{}, err
	}

	userID, err := f.Gateway.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		var apiErr *gateway.APIError
		if errors.As(err, &apiErr) {
			msg := apiErr.Message
			if msg == "" {
				msg = fallbackMessage
			}
			return session.Session{}, errors.New(msg)
		}
		return session.Session{}, fmt.Errorf("network error: %w", err)
	}

	s := session.New(userID)
	if err := f.Store.Save(s); err != nil {
		return session.Session{}, err
	}
	return s, nil
}
