package internal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconstructPath(t *testing.T) {
	cameFrom := map[string]string{
		"/o":     Root,
		"/o/a":   "/o",
		"/o/a/b": "/o/a",
		"/o/c":   "/o",
	}

	path, err := ReconstructPath(cameFrom, "/o/a/b")
	require.NoError(t, err)
	assert.Equal(t, []string{"/o", "/o/a", "/o/a/b"}, path)

	path, err = ReconstructPath(cameFrom, "/o")
	require.NoError(t, err)
	assert.Equal(t, []string{"/o"}, path)
}

func TestReconstructPath_BrokenChain(t *testing.T) {
	cameFrom := map[string]string{
		"/o":     Root,
		"/o/a/b": "/o/a",
	}
	_, err := ReconstructPath(cameFrom, "/o/a/b")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBrokenChain))
}

func TestReconstructPath_Cycle(t *testing.T) {
	cameFrom := map[string]string{
		"/a": "/b",
		"/b": "/a",
	}
	_, err := ReconstructPath(cameFrom, "/a")
	assert.True(t, errors.Is(err, ErrBrokenChain))
}

func TestEraseLoops(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"no loop", []string{"a", "b", "c"}, []string{"a", "b", "c"}},
		{"simple loop", []string{"a", "b", "c", "b", "d"}, []string{"a", "b", "d"}},
		{"back to start", []string{"a", "b", "a", "c"}, []string{"a", "c"}},
		{"nested", []string{"a", "b", "c", "d", "c", "b", "e"}, []string{"a", "b", "e"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EraseLoops(tt.in))
		})
	}
}
