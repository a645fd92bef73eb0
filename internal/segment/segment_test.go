package segment_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaasu2002/flintdb/internal/diskmanager"
	"github.com/vaasu2002/flintdb/internal/record"
	"github.com/vaasu2002/flintdb/internal/segment"
)

func openSegment(t *testing.T, path string) *segment.Segment {
	t.Helper()
	s, err := segment.Open(diskmanager.NewManager(), path, 1)
	require.NoError(t, err)
	return s
}

func set(t *testing.T, s *segment.Segment, key int64, value string) {
	t.Helper()
	encoded, err := record.Encode(key, []byte(value))
	require.NoError(t, err)
	require.NoError(t, s.Set(key, encoded))
}

func TestSegment_SetGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store_1.log")
	s := openSegment(t, path)
	defer s.Close()

	set(t, s, 1, "one")
	set(t, s, 2, "two")

	value, found, err := s.Get(1)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "one", string(value))

	value, found, err = s.Get(2)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "two", string(value))
}

func TestSegment_GetMissingKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store_1.log")
	s := openSegment(t, path)
	defer s.Close()

	_, found, err := s.Get(42)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSegment_LastWriteWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store_1.log")
	s := openSegment(t, path)
	defer s.Close()

	set(t, s, 7, "old")
	set(t, s, 7, "new")

	value, found, err := s.Get(7)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "new", string(value))
}

func TestSegment_ReplayRebuildsIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store_1.log")

	s := openSegment(t, path)
	set(t, s, 1, "alpha")
	set(t, s, 2, "beta")
	set(t, s, 1, "gamma")
	require.NoError(t, s.Close())

	reopened := openSegment(t, path)
	defer reopened.Close()

	value, found, err := reopened.Get(1)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "gamma", string(value), "replay must keep the latest write")

	value, found, err = reopened.Get(2)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "beta", string(value))

	assert.Equal(t, 3, reopened.Indexed())
	assert.Equal(t, 0, reopened.Skipped())
}

func TestSegment_TotalBytesMatchesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store_1.log")

	s := openSegment(t, path)
	set(t, s, 1, "11")
	set(t, s, 2, "22")
	require.NoError(t, s.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)

	reopened := openSegment(t, path)
	defer reopened.Close()
	assert.Equal(t, info.Size(), reopened.TotalBytes())
}

func TestSegment_ReplaySkipsCorruptRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store_1.log")

	// Two well-formed records around two corrupt ones: a frame without a
	// separator and a frame with a non-numeric key.
	raw := "1,good\x00nocomma\x00abc,bad\x002,alsogood\x00"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0644))

	s := openSegment(t, path)
	defer s.Close()

	assert.Equal(t, 2, s.Indexed())
	assert.Equal(t, 2, s.Skipped())
	assert.Equal(t, int64(len(raw)), s.TotalBytes(), "skipped bytes still count")

	value, found, err := s.Get(1)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "good", string(value))

	// The record after the corrupt span must be readable, which fails if the
	// skip path lets the cursor drift from the real file position.
	value, found, err = s.Get(2)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "alsogood", string(value))
}

func TestSegment_ReplayTruncatedTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store_1.log")

	// A crash mid-append leaves a tail with no delimiter.
	raw := "1,whole\x002,torn"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0644))

	s := openSegment(t, path)
	defer s.Close()

	assert.Equal(t, 1, s.Indexed())
	assert.Equal(t, 1, s.Skipped())
	assert.Equal(t, int64(len(raw)), s.TotalBytes())

	value, found, err := s.Get(1)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "whole", string(value))

	_, found, err = s.Get(2)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSegment_SealedRejectsWritesServesReads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store_1.log")
	s := openSegment(t, path)
	defer s.Close()

	set(t, s, 1, "kept")
	require.NoError(t, s.Seal())
	assert.Equal(t, segment.StateSealed, s.State())

	encoded, err := record.Encode(2, []byte("refused"))
	require.NoError(t, err)
	assert.ErrorIs(t, s.Set(2, encoded), segment.ErrSealed)

	value, found, err := s.Get(1)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "kept", string(value))
}

func TestSegment_FreshFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store_1.log")
	s := openSegment(t, path)
	defer s.Close()

	assert.Equal(t, int64(0), s.TotalBytes())
	assert.Equal(t, 0, s.Indexed())
	assert.Equal(t, segment.StateActive, s.State())
}
