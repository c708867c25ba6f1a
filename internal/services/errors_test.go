package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"archivist/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrRemote, "wordpress", "create post", "rejected", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrRemote) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"wordpress", "create post", "rejected"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestHintMapping(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{services.Wrap(services.ErrUnknownOutcome, "wordpress", "create post", "timeout", nil), "duplicate"},
		{fmt.Errorf("outer: %w", services.ErrValidation), "fix the submitted fields"},
		{errors.New("plain"), "stays eligible"},
	}
	for _, tc := range cases {
		got := services.Hint(tc.err)
		if tc.want == "" {
			if got != "" {
				t.Fatalf("expected empty hint, got %q", got)
			}
			continue
		}
		if !strings.Contains(got, tc.want) {
			t.Fatalf("hint for %v = %q, want fragment %q", tc.err, got, tc.want)
		}
	}
}
