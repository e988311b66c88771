package pkg

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

type failingWriter struct {
	err error
}

func (fw failingWriter) Write([]byte) (int, error) {
	return 0, fw.err
}

type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) {
	return len(p) / 2, nil
}

func TestCombinedWriter_Write(t *testing.T) {
	stdout := &strings.Builder{}
	stdout.WriteString("[boot] ")
	file := &strings.Builder{}

	cw := NewCombinedWriter(stdout, file)

	n, err := cw.Write([]byte("analysis stored"))
	require.NoError(t, err)
	assert.Equal(t, len("analysis stored"), n)
	n, err = cw.Write([]byte("; frames 120"))
	require.NoError(t, err)
	assert.Equal(t, len("; frames 120"), n)

	assert.Equal(t, "[boot] analysis stored; frames 120", stdout.String())
	assert.Equal(t, "analysis stored; frames 120", file.String())
}

func TestCombinedWriter_PartialFailure(t *testing.T) {
	diskFull := errors.New("no space left on device")
	file := &strings.Builder{}

	cw := NewCombinedWriter(failingWriter{err: diskFull}, shortWriter{}, file)

	n, err := cw.Write([]byte("grade B"))
	assert.Equal(t, len("grade B"), n)
	require.Error(t, err)
	assert.ErrorIs(t, err, diskFull)
	assert.Len(t, multierr.Errors(err), 2)
	assert.Equal(t, "grade B", file.String())
}

func TestCombinedWriter_AllFail(t *testing.T) {
	closed := errors.New("file already closed")
	cw := NewCombinedWriter(failingWriter{err: closed}, failingWriter{err: closed})

	n, err := cw.Write([]byte("lost"))
	assert.Zero(t, n)
	assert.ErrorIs(t, err, closed)

	n, err = NewCombinedWriter().Write([]byte("nowhere"))
	assert.Zero(t, n)
	assert.NoError(t, err)
}
