package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCorruptMedia marks a structural decode or verification failure.
	// Items failing this way are deleted, never retried.
	ErrCorruptMedia = errors.New("corrupt media")
	// ErrMissingSource marks a row whose backing file is no longer on disk.
	// Items failing this way are deleted, never retried.
	ErrMissingSource = errors.New("missing source file")
	// ErrExternalService marks an inference-service failure. Fully
	// recoverable: tagging degrades to an empty tag list.
	ErrExternalService = errors.New("external service unavailable")
	// ErrTransient marks any otherwise-unclassified tick failure. The
	// scheduler logs it and continues on its idle interval.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes task context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, task, operation, message string, err error) error {
	detail := buildDetail(task, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsTerminal reports whether an item-level error resolves by deleting the
// row rather than retrying.
func IsTerminal(err error) bool {
	return errors.Is(err, ErrCorruptMedia) || errors.Is(err, ErrMissingSource)
}

func buildDetail(task, operation, message string) string {
	parts := make([]string, 0, 3)
	if task = strings.TrimSpace(task); task != "" {
		parts = append(parts, task)
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
