package login

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ghichat/internal/gateway"
	"ghichat/internal/session"
)

type fakeAuth struct {
	calls    int
	email    string
	password string
	id       int64
	err      error
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (int64, error) {
	f.calls++
	f.email, f.password = email, password
	if f.err != nil {
		return 0, f.err
	}
	return f.id, nil
}

func newFlow(t *testing.T, auth *fakeAuth) (*Flow, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "user.json")
	return &Flow{Gateway: auth, Store: session.NewStore(path)}, path
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name      string
		email     string
		password  string
		wantField string
	}{
		{"missing email", "", "secret123", "email"},
		{"missing password", "a@b.com", "", "password"},
		{"bad email", "not-an-email", "secret123", "email"},
		{"short password", "a@b.com", "abc", "password"},
		{"valid", "a@b.com", "secret123", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.email, tc.password)
			if tc.wantField == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil || err.Field != tc.wantField {
				t.Fatalf("err = %v, want field %q", err, tc.wantField)
			}
		})
	}
}

func TestValidationFailureNeverHitsNetwork(t *testing.T) {
	auth := &fakeAuth{id: 1}
	flow, path := newFlow(t, auth)

	for _, creds := range [][2]string{
		{"not-an-email", "whatever9"},
		{"a@b.com", "abc"},
		{"", ""},
	} {
		if _, err := flow.Login(context.Background(), creds[0], creds[1]); err == nil {
			t.Fatalf("expected validation error for %v", creds)
		}
	}
	if auth.calls != 0 {
		t.Fatalf("gateway called %d times during validation failures", auth.calls)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("session file written on validation failure")
	}
}

func TestServerRejectionLeavesSessionUntouched(t *testing.T) {
	auth := &fakeAuth{err: &gateway.APIError{Status: 401, Message: "Invalid credentials"}}
	flow, path := newFlow(t, auth)

	_, err := flow.Login(context.Background(), "amine@example.com", "wrongpass")
	if err == nil || err.Error() != "Invalid credentials" {
		t.Fatalf("err = %v, want the server message", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("session file written on rejected login")
	}
}

func TestServerRejectionWithoutMessageUsesFallback(t *testing.T) {
	auth := &fakeAuth{err: &gateway.APIError{Status: 500}}
	flow, _ := newFlow(t, auth)

	_, err := flow.Login(context.Background(), "amine@example.com", "secret123")
	if err == nil || !strings.Contains(err.Error(), "Login failed") {
		t.Fatalf("err = %v, want the generic fallback", err)
	}
}

func TestTransportErrorIsWrapped(t *testing.T) {
	cause := errors.New("connection refused")
	auth := &fakeAuth{err: cause}
	flow, _ := newFlow(t, auth)

	_, err := flow.Login(context.Background(), "amine@example.com", "secret123")
	if !errors.Is(err, cause) {
		t.Fatalf("err = %v, want wrapped transport error", err)
	}
}

func TestSuccessPersistsSessionAndTrimsEmail(t *testing.T) {
	auth := &fakeAuth{id: 42}
	flow, _ := newFlow(t, auth)

	sess, err := flow.Login(context.Background(), "  amine@example.com  ", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sess.UserID != 42 {
		t.Fatalf("UserID = %d, want 42", sess.UserID)
	}
	if auth.email != "amine@example.com" {
		t.Fatalf("submitted email = %q, want trimmed", auth.email)
	}

	stored, ok := flow.Store.Load()
	if !ok || stored.UserID != 42 {
		t.Fatalf("stored session = %+v ok=%v", stored, ok)
	}
}
