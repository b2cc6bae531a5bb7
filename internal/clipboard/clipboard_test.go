package clipboard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stub(t *testing.T, write func(string) error, isUnsupported bool) {
	t.Helper()
	oldWrite, oldUnsupported := writeAll, unsupported
	writeAll = write
	unsupported = func() bool { return isUnsupported }
	t.Cleanup(func() {
		writeAll, unsupported = oldWrite, oldUnsupported
	})
}

func TestCopy(t *testing.T) {
	var got string
	stub(t, func(s string) error { got = s; return nil }, false)

	require.NoError(t, Copy("Lovelace, A., Notes (1843)"))
	assert.Equal(t, "Lovelace, A., Notes (1843)", got)
}

func TestCopyWriteFails(t *testing.T) {
	denied := errors.New("permission denied")
	stub(t, func(string) error { return denied }, false)

	err := Copy("x")
	var ce *ClipboardError
	require.ErrorAs(t, err, &ce)
	assert.ErrorIs(t, err, denied)
}

func TestCopyUnsupported(t *testing.T) {
	called := false
	stub(t, func(string) error { called = true; return nil }, true)

	err := Copy("x")
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.False(t, called)
}

func TestNotice(t *testing.T) {
	assert.Equal(t, CopiedMessage, Notice(nil))
	assert.Equal(t, "Reference could not be copied to clipboard: clipboard unsupported on this system",
		Notice(&ClipboardError{Err: ErrUnsupported}))
	assert.Contains(t, Notice(errors.New("boom")), FailedMessage)
}
