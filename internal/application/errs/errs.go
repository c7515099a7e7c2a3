package errs

import (
	"errors"
	"fmt"
)

type PermissionsError struct {
	Err error
}

func (t PermissionsError) Error() string {
	return fmt.Sprintf("error in permissions: %v", t.Err)
}

func (t PermissionsError) Unwrap() error {
	return t.Err
}

// RetryableError marks upstream failures (store, cache, queue) that may
// succeed on a later attempt.
type RetryableError struct {
	Err error
}

func (t RetryableError) Error() string {
	return fmt.Sprintf("retryable error: %v", t.Err)
}

func (t RetryableError) Unwrap() error {
	return t.Err
}

type NotFoundError struct {
	Entity string
	ID     string
}

func (t NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", t.Entity, t.ID)
}

// InvalidJobError is returned for job payloads that can never succeed.
type InvalidJobError struct {
	Err error
}

func (t InvalidJobError) Error() string {
	return fmt.Sprintf("invalid job: %v", t.Err)
}

func (t InvalidJobError) Unwrap() error {
	return t.Err
}

// MalformedContentError marks a stored document whose shape cannot be
// decoded. Retrying cannot fix it.
type MalformedContentError struct {
	Entity string
	ID     string
	Err    error
}

func (t MalformedContentError) Error() string {
	return fmt.Sprintf("malformed %s %s: %v", t.Entity, t.ID, t.Err)
}

func (t MalformedContentError) Unwrap() error {
	return t.Err
}

func IsMalformedContent(err error) bool {
	var mc MalformedContentError
	return errors.As(err, &mc)
}

type ValidationError struct {
	Err error
}

func (t ValidationError) Error() string {
	return fmt.Sprintf("validation error: %v", t.Err)
}

func (t ValidationError) Unwrap() error {
	return t.Err
}

func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

// IsTerminal reports whether a job error must not be retried.
func IsTerminal(err error) bool {
	if IsNotFound(err) {
		return true
	}
	var invalid InvalidJobError
	return errors.As(err, &invalid)
}
