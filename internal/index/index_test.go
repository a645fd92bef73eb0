package index_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vaasu2002/flintdb/internal/index"
)

func TestIndex_AddAndLookup(t *testing.T) {
	idx := index.New()

	idx.Add(1, 5)
	idx.Add(2, 7)

	loc, ok := idx.Lookup(1)
	assert.True(t, ok)
	assert.Equal(t, index.Location{Offset: 0, Size: 5}, loc)

	loc, ok = idx.Lookup(2)
	assert.True(t, ok)
	assert.Equal(t, index.Location{Offset: 5, Size: 7}, loc)

	assert.Equal(t, int64(12), idx.Cursor())
	assert.Equal(t, 2, idx.Len())
}

func TestIndex_LookupMissing(t *testing.T) {
	idx := index.New()

	_, ok := idx.Lookup(99)
	assert.False(t, ok)
}

func TestIndex_LastWriteWins(t *testing.T) {
	idx := index.New()

	idx.Add(1, 5)
	idx.Add(1, 9)

	loc, ok := idx.Lookup(1)
	assert.True(t, ok)
	assert.Equal(t, index.Location{Offset: 5, Size: 9}, loc, "latest span must win")
	assert.Equal(t, 1, idx.Len())
}

func TestIndex_AdvanceSkipsWithoutEntry(t *testing.T) {
	idx := index.New()

	idx.Add(1, 5)
	idx.Advance(8) // corrupt span in the middle
	idx.Add(2, 3)

	loc, ok := idx.Lookup(2)
	assert.True(t, ok)
	assert.Equal(t, int64(13), loc.Offset, "offset must account for skipped bytes")
	assert.Equal(t, 2, idx.Len())
}

func TestIndex_Reset(t *testing.T) {
	idx := index.New()

	idx.Add(1, 5)
	idx.Reset()

	assert.Equal(t, int64(0), idx.Cursor())
	assert.Equal(t, 0, idx.Len())
	_, ok := idx.Lookup(1)
	assert.False(t, ok)
}
