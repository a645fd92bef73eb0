// Package index provides the in-memory index kept by each segment: a map from
// key to the byte span of its most recent record, plus a running write cursor.
package index

// Location describes the exact byte span of one encoded record within a
// segment file, trailing delimiter included.
type Location struct {
	Offset int64
	Size   int64
}

// Index maps keys to the Location of their latest record in one segment.
// It is append-only: entries are recorded at the current cursor and the
// cursor only moves forward.
type Index struct {
	entries map[int64]Location
	cursor  int64
}

// New returns an empty Index with the cursor at zero.
func New() *Index {
	return &Index{
		entries: make(map[int64]Location),
	}
}

// Add records a Location of the given size at the current cursor and advances
// the cursor past it. A previous entry for the same key is overwritten; its
// old span becomes unreachable garbage in the file.
func (idx *Index) Add(key, size int64) {
	idx.entries[key] = Location{Offset: idx.cursor, Size: size}
	idx.cursor += size
}

// Advance moves the cursor forward by size without recording an entry. Used
// when replay skips a corrupt record: the bytes are still on disk, so the
// cursor must account for them or every later offset would drift.
func (idx *Index) Advance(size int64) {
	idx.cursor += size
}

// Lookup returns the Location of the latest record for key.
func (idx *Index) Lookup(key int64) (Location, bool) {
	loc, ok := idx.entries[key]
	return loc, ok
}

// Reset clears all entries and zeroes the cursor.
func (idx *Index) Reset() {
	idx.entries = make(map[int64]Location)
	idx.cursor = 0
}

// Cursor returns the byte offset at which the next record will be recorded.
func (idx *Index) Cursor() int64 { return idx.cursor }

// Len returns the number of distinct keys indexed.
func (idx *Index) Len() int { return len(idx.entries) }
