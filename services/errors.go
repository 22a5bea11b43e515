// Package services holds the application use cases: ad administration,
// public listings, the spreadsheet sync, settings, analytics and accounts.
package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/miramar-experience/api-go/repository"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = repository.ErrNotFound
)

// ValidationError carries one message per offending field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// CapacityError is returned when an ad would exceed the live hero limit.
type CapacityError struct {
	Limit int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("there are already %d live hero ads; pause one or use the featured tier", e.Limit)
}

func (e *CapacityError) Unwrap() error { return repository.ErrHeroCapReached }
