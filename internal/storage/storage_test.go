package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_Save(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s, err := NewLocal(dir, "http://localhost:8080/image/", 1024)
	require.NoError(t, err)

	url, err := s.Save(context.Background(), "photo.PNG", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "http://localhost:8080/image/"))
	require.True(t, strings.HasSuffix(url, ".png"))

	data, err := os.ReadFile(filepath.Join(dir, filepath.Base(url)))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestLocal_Save_RejectsType(t *testing.T) {
	t.Parallel()

	s, err := NewLocal(t.TempDir(), "http://x/image", 1024)
	require.NoError(t, err)

	_, err = s.Save(context.Background(), "script.sh", strings.NewReader("#!/bin/sh"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestLocal_Save_TooLargeLeavesNothing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s, err := NewLocal(dir, "http://x/image", 4)
	require.NoError(t, err)

	_, err = s.Save(context.Background(), "a.jpg", strings.NewReader("12345"))
	assert.ErrorIs(t, err, ErrTooLarge)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
