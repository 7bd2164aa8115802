package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKind_NameAndStatus(t *testing.T) {
	cases := []struct {
		kind   Kind
		name   string
		status int
	}{
		{KindValidation, "ValidationError", http.StatusUnprocessableEntity},
		{KindPipeline, "PipelineError", http.StatusInternalServerError},
		{KindDependency, "DependencyError", http.StatusServiceUnavailable},
		{KindConfiguration, "ConfigurationError", http.StatusInternalServerError},
		{Kind(0), "ComponentError", http.StatusInternalServerError}, // zero value falls back to base
	}
	for _, tc := range cases {
		if got := tc.kind.String(); got != tc.name {
			t.Fatalf("Kind(%d).String() = %q; want %q", tc.kind, got, tc.name)
		}
		if got := tc.kind.StatusCode(); got != tc.status {
			t.Fatalf("Kind(%d).StatusCode() = %d; want %d", tc.kind, got, tc.status)
		}
	}
}

func TestConstructors(t *testing.T) {
	cases := []struct {
		err  *Error
		kind Kind
	}{
		{Validation("bad input"), KindValidation},
		{Pipeline("boom"), KindPipeline},
		{Dependency("db down"), KindDependency},
		{Configuration("no secret"), KindConfiguration},
	}
	for _, tc := range cases {
		if tc.err.Kind != tc.kind {
			t.Fatalf("kind = %v; want %v", tc.err.Kind, tc.kind)
		}
		if tc.err.StatusCode() != tc.kind.StatusCode() {
			t.Fatalf("status mismatch for %v", tc.kind)
		}
		if tc.err.Name() != tc.kind.String() {
			t.Fatalf("name mismatch for %v", tc.kind)
		}
		if tc.err.Error() == "" {
			t.Fatalf("empty Error() for %v", tc.kind)
		}
	}
}

func TestNew_EmptyDetailDefaults(t *testing.T) {
	e := New(KindPipeline, "")
	if e.Detail != DefaultDetail {
		t.Fatalf("detail = %q; want %q", e.Detail, DefaultDetail)
	}
}

func TestWrap_UnwrapAndAs(t *testing.T) {
	cause := errors.New("connection refused")
	e := Wrap(KindDependency, "database unavailable", cause)

	if !errors.Is(e, cause) {
		t.Fatalf("errors.Is should find the cause")
	}

	wrapped := fmt.Errorf("ready check: %w", e)
	got, ok := As(wrapped)
	if !ok || got != e {
		t.Fatalf("As(wrapped) = %v, %v; want original", got, ok)
	}
	if !IsKind(wrapped, KindDependency) {
		t.Fatalf("IsKind should match KindDependency")
	}
	if IsKind(wrapped, KindValidation) {
		t.Fatalf("IsKind should not match KindValidation")
	}
}

func TestAs_Untyped(t *testing.T) {
	if _, ok := As(errors.New("plain")); ok {
		t.Fatalf("As should reject untyped errors")
	}
	if _, ok := As(nil); ok {
		t.Fatalf("As(nil) should be false")
	}
}
