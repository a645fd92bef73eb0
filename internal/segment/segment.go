// Package segment implements one unit of the log: a single append-only file
// paired with an in-memory index. A segment is rebuilt from its file on open
// (crash recovery by replay), serves durable appends while it is the active
// write target, and becomes permanently read-only once sealed.
package segment

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vaasu2002/flintdb/internal/diskmanager"
	"github.com/vaasu2002/flintdb/internal/index"
	"github.com/vaasu2002/flintdb/internal/record"
)

var (
	// ErrSealed indicates a write against a sealed segment.
	ErrSealed = errors.New("segment is sealed")
	// ErrNotOpen indicates the segment has no open append handle.
	ErrNotOpen = errors.New("segment file is not open for append")
)

// State tags a segment as the active write target or as sealed. Sealed
// segments only serve reads; a future compaction pass may fold them.
type State int

const (
	// StateActive marks the sole write target of the engine.
	StateActive State = iota
	// StateSealed marks a segment that no longer accepts writes.
	StateSealed
)

// Segment owns one log file, its index, and the cumulative byte count used by
// the engine to decide rotation.
type Segment struct {
	id         int
	path       string
	dm         *diskmanager.Manager
	appendFile diskmanager.FileHandle
	idx        *index.Index
	totalBytes int64
	state      State
	indexed    int
	skipped    int
}

// Open opens the segment backed by path, replaying the file if it exists to
// rebuild the index, then readies it for appends. A missing file means a
// fresh segment; nothing to recover.
func Open(dm *diskmanager.Manager, path string, id int) (*Segment, error) {
	s := &Segment{
		id:    id,
		path:  path,
		dm:    dm,
		idx:   index.New(),
		state: StateActive,
	}

	if err := s.replay(); err != nil {
		return nil, fmt.Errorf("replay %s: %w", path, err)
	}

	appendFile, err := dm.OpenAppend(path)
	if err != nil {
		return nil, fmt.Errorf("open %s for append: %w", path, err)
	}
	s.appendFile = appendFile

	return s, nil
}

// replay scans the file from offset 0 and rebuilds the index. Every cursor
// advance is derived from the byte count actually consumed from the file, so
// the skip path for corrupt records cannot drift from the real file position.
func (s *Segment) replay() error {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	for {
		chunk, err := reader.ReadBytes(record.Delimiter)
		consumed := int64(len(chunk))
		if consumed == 0 {
			if err == io.EOF {
				break
			}
			return err
		}
		if err != nil {
			if err != io.EOF {
				return err
			}
			// Truncated tail with no delimiter, e.g. a crash mid-append.
			s.idx.Advance(consumed)
			s.skipped++
			break
		}

		key, _, derr := record.Decode(chunk[:consumed-1])
		if derr != nil {
			s.idx.Advance(consumed)
			s.skipped++
			continue
		}
		s.idx.Add(key, consumed)
		s.indexed++
	}

	s.totalBytes = s.idx.Cursor()
	return nil
}

// Set appends an already-encoded record and makes it durable before updating
// the index. The caller encodes via the record package so the engine can size
// the record against the rotation threshold first.
func (s *Segment) Set(key int64, encoded []byte) error {
	if s.state == StateSealed {
		return ErrSealed
	}
	if s.appendFile == nil {
		return ErrNotOpen
	}

	if _, err := s.appendFile.Write(encoded); err != nil {
		return fmt.Errorf("append to %s: %w", s.path, err)
	}
	if err := s.appendFile.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", s.path, err)
	}

	s.idx.Add(key, int64(len(encoded)))
	s.totalBytes += int64(len(encoded))
	return nil
}

// Get returns the value of the latest record for key, or false if the key is
// not present in this segment. The returned slice is owned by the caller.
func (s *Segment) Get(key int64) ([]byte, bool, error) {
	loc, ok := s.idx.Lookup(key)
	if !ok || loc.Size <= 0 {
		return nil, false, nil
	}

	file, err := s.dm.OpenRead(s.path)
	if err != nil {
		return nil, false, fmt.Errorf("open %s for read: %w", s.path, err)
	}

	buf := make([]byte, loc.Size)
	if _, err := file.ReadAt(buf, loc.Offset); err != nil {
		return nil, false, fmt.Errorf("read %s at %d: %w", s.path, loc.Offset, err)
	}

	// The span ends with the delimiter; decode the payload before it.
	_, value, err := record.Decode(buf[:len(buf)-1])
	if err != nil {
		return nil, false, fmt.Errorf("decode record in %s at %d: %w", s.path, loc.Offset, err)
	}
	return value, true, nil
}

// Seal closes the append handle and flips the segment to read-only. Sealing
// an already sealed segment is a no-op.
func (s *Segment) Seal() error {
	if s.state == StateSealed {
		return nil
	}
	s.state = StateSealed
	if s.appendFile == nil {
		return nil
	}
	err := s.appendFile.Close()
	s.appendFile = nil
	if err != nil {
		return fmt.Errorf("close %s: %w", s.path, err)
	}
	return nil
}

// Close releases every handle the segment holds. The segment must not be used
// afterwards.
func (s *Segment) Close() error {
	var firstErr error
	if s.appendFile != nil {
		if err := s.appendFile.Close(); err != nil {
			firstErr = err
		}
		s.appendFile = nil
	}
	if err := s.dm.CloseRead(s.path); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// ID returns the segment's monotonically assigned id.
func (s *Segment) ID() int { return s.id }

// Path returns the segment's file path.
func (s *Segment) Path() string { return s.path }

// State returns whether the segment is active or sealed.
func (s *Segment) State() State { return s.state }

// TotalBytes returns the cumulative size of the segment file. The engine
// compares it against the rotation threshold before each write.
func (s *Segment) TotalBytes() int64 { return s.totalBytes }

// Indexed returns how many records replay added to the index.
func (s *Segment) Indexed() int { return s.indexed }

// Skipped returns how many corrupt records replay dropped.
func (s *Segment) Skipped() int { return s.skipped }
