// Package clipboard writes citations to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

const (
	// CopiedMessage is shown after a successful copy.
	CopiedMessage = "Reference Copied To Clipboard"

	// FailedMessage prefixes the notice shown when a copy fails.
	FailedMessage = "Reference could not be copied to clipboard"
)

// ErrUnsupported is wrapped when no clipboard utility is available.
var ErrUnsupported = errors.New("clipboard unsupported on this system")

// ClipboardError reports a failed or unsupported clipboard write.
type ClipboardError struct {
	Err error
}

func (e *ClipboardError) Error() string {
	return fmt.Sprintf("%s: %v", FailedMessage, e.Err)
}

func (e *ClipboardError) Unwrap() error { return e.Err }

// Seams for tests.
var (
	writeAll    = clipboard.WriteAll
	unsupported = func() bool { return clipboard.Unsupported }
)

// Copy writes text to the clipboard.
func Copy(text string) error {
	if unsupported() {
		return &ClipboardError{Err: ErrUnsupported}
	}
	if err := writeAll(text); err != nil {
		return &ClipboardError{Err: err}
	}
	return nil
}

// Notice returns the user-facing message for the result of Copy.
func Notice(err error) string {
	if err == nil {
		return CopiedMessage
	}
	var ce *ClipboardError
	if errors.As(err, &ce) {
		return ce.Error()
	}
	return fmt.Sprintf("%s: %v", FailedMessage, err)
}
