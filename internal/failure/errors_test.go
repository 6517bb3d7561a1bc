package failure_test

import (
	"errors"
	"strings"
	"testing"

	"paxmatch/internal/failure"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := failure.Wrap(failure.ErrDataIntegrity, "decisions", "load", "matches.xlsx row 4", base)
	if !errors.Is(err, failure.ErrDataIntegrity) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"decisions", "load", "matches.xlsx row 4"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutMarkerDefaultsToIO(t *testing.T) {
	err := failure.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, failure.ErrIO) {
		t.Fatalf("expected io marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "unspecified failure") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"integrity", failure.Wrap(failure.ErrDataIntegrity, "a", "b", "c", nil), "data_integrity"},
		{"configuration", failure.Wrap(failure.ErrConfiguration, "a", "b", "c", nil), "configuration"},
		{"not found", failure.Wrap(failure.ErrNotFound, "a", "b", "c", nil), "not_found"},
		{"other", errors.New("disk on fire"), "io"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := failure.Kind(tt.err); got != tt.want {
				t.Fatalf("Kind() = %q, want %q", got, tt.want)
			}
		})
	}
}
