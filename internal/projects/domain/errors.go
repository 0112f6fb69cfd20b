package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("project not found")
	ErrStoreFailure     = errors.New("store failure")
	ErrStoreUnavailable = errors.New("store unavailable")

	// Both match ErrInvalidInput.
	ErrInvalidID           = fmt.Errorf("%w: invalid project id", ErrInvalidInput)
	ErrTechnologiesNotList = fmt.Errorf("%w: technologies must be an array", ErrInvalidInput)
)

// ValidationError reports every violated field rule of a payload.
// It matches ErrInvalidInput with errors.Is.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
