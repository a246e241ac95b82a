package prolog

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureStdout redirects os.Stdout for the duration of fn and returns
// whatever was written to it, mirroring how the builtins in
// builtins_io.go write directly to the process's standard output.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestFormatWritesDirectives(t *testing.T) {
	m := newTestMachine(t)
	out := captureStdout(t, func() {
		solveAll(t, m, `format("~w and ~a~n", [foo, bar])`)
	})
	assert.Equal(t, "foo and bar\n", out)
}

func TestFormatLiteralTilde(t *testing.T) {
	m := newTestMachine(t)
	out := captureStdout(t, func() {
		solveAll(t, m, `format("100~~", [])`)
	})
	assert.Equal(t, "100~", out)
}

func TestWriteAndNl(t *testing.T) {
	m := newTestMachine(t)
	out := captureStdout(t, func() {
		solveAll(t, m, "write(hello), nl")
	})
	assert.Equal(t, "hello\n", out)
}
