package application

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError(t *testing.T) {
	t.Parallel()

	var empty *ValidationError
	if empty.HasErrors() {
		t.Fatal("nil validation error must not report errors")
	}
	if empty.Error() != "" {
		t.Fatalf("unexpected message for nil receiver: %q", empty.Error())
	}

	vErr := &ValidationError{}
	if vErr.HasErrors() {
		t.Fatal("empty validation error must not report errors")
	}

	vErr.add("name", "name is required")
	if !vErr.HasErrors() {
		t.Fatal("expected recorded field error")
	}
	if vErr.FieldErrors["name"] != "name is required" {
		t.Fatalf("unexpected field errors: %v", vErr.FieldErrors)
	}
	if vErr.Error() != "validation failed" {
		t.Fatalf("unexpected message: %q", vErr.Error())
	}
}

func TestErrorKind(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"not found", ErrNotFound, "not_found"},
		{"wrapped not found", fmt.Errorf("owner: %w", ErrNotFound), "not_found"},
		{"validation", &ValidationError{FieldErrors: map[string]string{"name": "required"}}, "validation"},
		{"unexpected", errors.New("boom"), "unexpected"},
	}

	for _, tc := range cases {
		if got := ErrorKind(tc.err); got != tc.want {
			t.Fatalf("%s: ErrorKind = %q, want %q", tc.name, got, tc.want)
		}
	}
}
