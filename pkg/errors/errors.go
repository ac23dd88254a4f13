// Package errors defines the error kinds shared by the index, the persistence
// codec and the HTTP layer. Callers match kinds with errors.Is against the
// sentinels and extract detail with errors.As against the typed errors.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrIOFailure    = errors.New("i/o failure")
	ErrParseFailure = errors.New("parse failure")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
)

// KeyNotFoundError is returned when a key is removed from a container that
// does not hold it.
type KeyNotFoundError struct {
	Container string
	Key       string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("key %q not found in %s", e.Key, e.Container)
}

func (e *KeyNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func NewKeyNotFound(container string, key any) *KeyNotFoundError {
	return &KeyNotFoundError{Container: container, Key: fmt.Sprint(key)}
}

// IOError wraps a filesystem failure on the persistence file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Is(target error) bool {
	return target == ErrIOFailure
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func NewIOError(op, path string, err error) *IOError {
	return &IOError{Op: op, Path: path, Err: err}
}

// ParseError describes one malformed line of a persistence file.
type ParseError struct {
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParseFailure
}

type AppError struct {
	Err        error
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, statusCode int, message string) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    message,
		StatusCode: statusCode,
	}
}

func Newf(sentinel error, statusCode int, format string, args ...any) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: statusCode,
	}
}

func HTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrIOFailure), errors.Is(err, ErrParseFailure):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
