package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrConfiguration  = errors.New("configuration error")
	ErrNotFound       = errors.New("not found")
	ErrTransient      = errors.New("transient failure")
	ErrRemote         = errors.New("remote service error")
	ErrUnknownOutcome = errors.New("unknown outcome")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
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

// Hint maps a failure to the operator guidance logged next to it.
func Hint(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnknownOutcome):
		return "the post may have been created; check the CMS for a duplicate before retrying"
	case errors.Is(err, ErrValidation):
		return "fix the submitted fields and retry"
	case errors.Is(err, ErrConfiguration):
		return "check the wordpress section of the configuration"
	case errors.Is(err, ErrNotFound):
		return "refresh the catalog; the source may have moved"
	case errors.Is(err, ErrRemote):
		return "inspect the response snippet; the CMS session or permissions may have drifted"
	default:
		return "retry on a later run; the item stays eligible"
	}
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
