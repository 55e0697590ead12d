package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTimeout       = errors.New("timeout")
	ErrTransient     = errors.New("transient failure")

	// ErrScoringUnavailable marks failures of the similarity scorer or the OCR
	// collaborator. Callers may retry.
	ErrScoringUnavailable = errors.New("scoring unavailable")
	// ErrGenerativeUnavailable marks failures of the text completion collaborator.
	ErrGenerativeUnavailable = errors.New("generative responder unavailable")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind groups errors into the classes the transport reports.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindNotFound    Kind = "not_found"
	KindUnavailable Kind = "unavailable"
	KindInvariant   Kind = "invariant"
	KindInternal    Kind = "internal"
)

// invariantError is implemented by errors that signal a broken internal
// invariant, such as an ordinal falling outside its group.
type invariantError interface {
	ErrorKind() string
}

// Classify maps err to the Kind used for status selection.
func Classify(err error) Kind {
	var inv invariantError
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrScoringUnavailable),
		errors.Is(err, ErrGenerativeUnavailable),
		errors.Is(err, ErrTimeout),
		errors.Is(err, ErrTransient):
		return KindUnavailable
	case errors.As(err, &inv) && inv.ErrorKind() == string(KindInvariant):
		return KindInvariant
	default:
		return KindInternal
	}
}

// Retryable reports whether a caller may repeat the request unchanged.
func Retryable(err error) bool {
	return Classify(err) == KindUnavailable
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
