// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyQuery is returned when the search text is blank.
	ErrEmptyQuery = errors.New("search text is empty")

	// ErrUnknownMode is returned when no source is registered for a mode.
	ErrUnknownMode = errors.New("unknown search mode")

	// ErrSearchInFlight is returned when a session is asked to search while
	// its previous search has not finished.
	ErrSearchInFlight = errors.New("a search is already in progress")
)

// NetworkError reports a failed, timed out, or non-2xx request to a source.
type NetworkError struct {
	Source     string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: HTTP %d: %v", e.Source, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: request failed: %v", e.Source, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// MalformedResponseError reports a response whose shape did not match what
// the source expects. Skipped counts items that could not be decoded; any
// items that did decode are still returned next to this error.
type MalformedResponseError struct {
	Source  string
	Skipped int
	Err     error
}

func (e *MalformedResponseError) Error() string {
	if e.Skipped > 0 {
		return fmt.Sprintf("%s: malformed response, %d item(s) skipped: %v", e.Source, e.Skipped, e.Err)
	}
	return fmt.Sprintf("%s: malformed response: %v", e.Source, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// IsNetworkError reports whether err is, or wraps, a NetworkError.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsMalformed reports whether err is, or wraps, a MalformedResponseError.
func IsMalformed(err error) bool {
	var me *MalformedResponseError
	return errors.As(err, &me)
}
