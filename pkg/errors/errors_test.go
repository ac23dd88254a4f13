package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypedErrorsMatchSentinels(t *testing.T) {
	notFound := NewKeyNotFound("ordered multimap", "zebra")
	assert.ErrorIs(t, notFound, ErrNotFound)
	assert.Contains(t, notFound.Error(), `"zebra"`)

	ioErr := NewIOError("open", "persistence.txt", fs.ErrNotExist)
	assert.ErrorIs(t, ioErr, ErrIOFailure)
	assert.ErrorIs(t, ioErr, fs.ErrNotExist)

	parseErr := &ParseError{Line: 7, Text: "word:doc", Reason: "missing count"}
	assert.ErrorIs(t, parseErr, ErrParseFailure)
	assert.Equal(t, `line 7: missing count: "word:doc"`, parseErr.Error())

	wrapped := fmt.Errorf("loading index: %w", ioErr)
	var target *IOError
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "persistence.txt", target.Path)
}

func TestHTTPStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error", New(ErrInvalidInput, http.StatusTeapot, "odd"), http.StatusTeapot},
		{"not found", NewKeyNotFound("hash", "x"), http.StatusNotFound},
		{"invalid", fmt.Errorf("q: %w", ErrInvalidInput), http.StatusBadRequest},
		{"io", NewIOError("read", "p", fs.ErrPermission), http.StatusServiceUnavailable},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusCode(tt.err))
		})
	}
}
