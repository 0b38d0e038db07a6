package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrMissing         = errors.New("is required")
	ErrInvalid         = errors.New("is invalid")
	ErrDuplicateJob    = errors.New("job already registered")
	ErrJobNotFound     = errors.New("job not found")
	ErrTriggerMismatch = errors.New("job cannot be started by this trigger")
	ErrUnsupported     = errors.New("operation not supported by provider")
)

// ConfigurationError is fatal at startup: missing credentials, a malformed
// job record or a duplicate job id.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func Config(field string, err error) error {
	return &ConfigurationError{Field: field, Err: err}
}

// ValidationError rejects a payload before the run behaviour executes.
type ValidationError struct {
	Job     string
	Details map[string]string
	Err     error
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Details))
	for k := range e.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Details[k])
	}
	prefix := "invalid payload"
	if e.Job != "" {
		prefix = fmt.Sprintf("invalid payload for job %q", e.Job)
	}
	if len(parts) == 0 {
		return prefix
	}
	return prefix + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return e.Err }

// IntegrationError wraps a failed call to an external integration.
type IntegrationError struct {
	Integration string
	Task        string
	Op          string
	Err         error
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("integration %s: task %q: %s: %v", e.Integration, e.Task, e.Op, e.Err)
}

func (e *IntegrationError) Unwrap() error { return e.Err }

// LatentContractError is produced when a run dereferences a value its
// payload schema declared optional and the caller left out.
type LatentContractError struct {
	Job   string
	Value any
}

func (e *LatentContractError) Error() string {
	return fmt.Sprintf("job %q failed on an absent required value: %v", e.Job, e.Value)
}
