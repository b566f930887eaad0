package pkg

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestCombinedWriter(t *testing.T) {
	file := &strings.Builder{}
	file.WriteString("rotated|")
	stdout := &strings.Builder{}

	cw := NewCombinedWriter(file, nil, stdout)
	require.Equal(t, 2, cw.Len())

	for _, line := range []string{"sync started\n", "sync done\n"} {
		n, err := cw.Write([]byte(line))
		require.NoError(t, err)
		assert.Equal(t, len(line), n)
	}

	assert.Equal(t, "rotated|sync started\nsync done\n", file.String())
	assert.Equal(t, "sync started\nsync done\n", stdout.String())
}

func TestCombinedWriter_FailingWriter(t *testing.T) {
	stdout := &strings.Builder{}

	n, err := NewCombinedWriter(brokenWriter{}, stdout).Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", stdout.String())

	n, err = NewCombinedWriter(brokenWriter{}, brokenWriter{}).Write([]byte("hello"))
	assert.Equal(t, 0, n)
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
}
