package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"alphamastery/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrScoringUnavailable, "vision", "annotate", "request failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrScoringUnavailable) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"vision", "annotate", "request failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

type brokenInvariant struct{}

func (brokenInvariant) Error() string     { return "broken" }
func (brokenInvariant) ErrorKind() string { return "invariant" }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want services.Kind
	}{
		{"validation", services.Wrap(services.ErrValidation, "mastery", "check", "expected required", nil), services.KindValidation},
		{"not found", services.Wrap(services.ErrNotFound, "content", "get", "missing", nil), services.KindNotFound},
		{"scoring", services.Wrap(services.ErrScoringUnavailable, "vision", "annotate", "", errors.New("dial")), services.KindUnavailable},
		{"generative", services.Wrap(services.ErrGenerativeUnavailable, "chat", "ask", "", nil), services.KindUnavailable},
		{"invariant", fmt.Errorf("select: %w", brokenInvariant{}), services.KindInvariant},
		{"plain", errors.New("disk"), services.KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := services.Classify(tt.err); got != tt.want {
				t.Fatalf("Classify = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRetryable(t *testing.T) {
	if !services.Retryable(services.Wrap(services.ErrGenerativeUnavailable, "llm", "complete", "", nil)) {
		t.Fatal("expected generative failure to be retryable")
	}
	if services.Retryable(services.Wrap(services.ErrValidation, "chat", "ask", "", nil)) {
		t.Fatal("expected validation failure to not be retryable")
	}
}
