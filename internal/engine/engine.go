// Package engine implements the core storage engine: an ordered list of
// segments, size-based rotation of the active segment, and reads fanned out
// across segments newest to oldest.
package engine

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/vaasu2002/flintdb/internal/config"
	"github.com/vaasu2002/flintdb/internal/diskmanager"
	"github.com/vaasu2002/flintdb/internal/metrics"
	"github.com/vaasu2002/flintdb/internal/record"
	"github.com/vaasu2002/flintdb/internal/segment"
)

// Engine owns every segment under one directory. segments[0] is the active
// write target; the rest are sealed, ordered newest to oldest. Exactly one
// active segment exists at any time.
//
// The engine is not safe for concurrent use; callers must serialize access.
type Engine struct {
	dir      string
	cfg      *config.Config
	dm       *diskmanager.Manager
	segments []*segment.Segment
	nextID   int
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// NewEngine opens the engine rooted at dir, creating the directory if needed.
// Existing segment files are discovered and replayed, oldest first; the
// highest-numbered one resumes as the active segment. With no existing files,
// segment 1 is created.
func NewEngine(dir string, cfg *config.Config) (*Engine, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	} else {
		cfg.FillDefaults()
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	e := &Engine{
		dir:     dir,
		cfg:     cfg,
		dm:      diskmanager.NewManager(),
		logger:  cfg.Logger,
		metrics: metrics.New(),
	}

	if err := e.loadSegments(); err != nil {
		return nil, err
	}
	if len(e.segments) == 0 {
		if err := e.createSegment(); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// loadSegments discovers existing segment files, replays each in id order and
// seals all but the newest.
func (e *Engine) loadSegments() error {
	files, err := e.dm.List(e.dir, e.cfg.FilePrefix+"_")
	if err != nil {
		return fmt.Errorf("list segment files: %w", err)
	}

	pattern := regexp.MustCompile(
		"^" + regexp.QuoteMeta(e.cfg.FilePrefix) + "_(\\d+)" + regexp.QuoteMeta(e.cfg.FileExt) + "$")

	var ids []int
	for _, name := range files {
		m := pattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		id, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		s, err := segment.Open(e.dm, e.segmentPath(id), id)
		if err != nil {
			return err
		}
		if s.Skipped() > 0 {
			e.metrics.ReplaySkipped.Add(float64(s.Skipped()))
		}
		e.logger.Info("replayed segment",
			"path", s.Path(),
			"records", s.Indexed(),
			"skipped", s.Skipped(),
			"bytes", s.TotalBytes())

		// Newest segment stays at the front.
		e.segments = append([]*segment.Segment{s}, e.segments...)
		if id > e.nextID {
			e.nextID = id
		}
	}

	// All but the newest are permanently read-only.
	if len(e.segments) > 1 {
		for _, s := range e.segments[1:] {
			if err := s.Seal(); err != nil {
				return err
			}
		}
	}

	e.metrics.SegmentCount.Set(float64(len(e.segments)))
	if len(e.segments) > 0 {
		e.metrics.ActiveSegmentBytes.Set(float64(e.segments[0].TotalBytes()))
	}
	return nil
}

func (e *Engine) segmentPath(id int) string {
	return filepath.Join(e.dir, fmt.Sprintf("%s_%d%s", e.cfg.FilePrefix, id, e.cfg.FileExt))
}

// createSegment opens the next segment file and makes it the active segment.
func (e *Engine) createSegment() error {
	e.nextID++
	s, err := segment.Open(e.dm, e.segmentPath(e.nextID), e.nextID)
	if err != nil {
		return err
	}
	e.segments = append([]*segment.Segment{s}, e.segments...)
	e.metrics.SegmentCount.Set(float64(len(e.segments)))
	e.metrics.ActiveSegmentBytes.Set(float64(s.TotalBytes()))
	e.logger.Info("created segment", "path", s.Path(), "id", s.ID())
	return nil
}

// Set writes a key-value pair. If the encoded record would push the active
// segment past the rotation threshold, the active segment is sealed and a new
// one created first, so the record lands whole in exactly one segment.
func (e *Engine) Set(key int64, value []byte) error {
	encoded, err := record.Encode(key, value)
	if err != nil {
		return err
	}

	active := e.segments[0]
	if active.TotalBytes() > 0 && active.TotalBytes()+int64(len(encoded)) > e.cfg.MaxSegmentBytes {
		if err := active.Seal(); err != nil {
			return fmt.Errorf("seal segment %d: %w", active.ID(), err)
		}
		if err := e.createSegment(); err != nil {
			return err
		}
		e.metrics.Rotations.Inc()
		e.logger.Info("rotated segment", "sealed", active.ID(), "active", e.segments[0].ID())
	}

	if err := e.segments[0].Set(key, encoded); err != nil {
		return err
	}
	e.metrics.RecordsWritten.Inc()
	e.metrics.ActiveSegmentBytes.Set(float64(e.segments[0].TotalBytes()))
	return nil
}

// Get returns the value of the most recent write for key. Segments are
// scanned newest to oldest, so a key rewritten after a rotation is found in
// the newer segment first.
func (e *Engine) Get(key int64) ([]byte, bool) {
	e.metrics.Reads.Inc()
	for _, s := range e.segments {
		value, found, err := s.Get(key)
		if err != nil {
			e.logger.Warn("segment read failed", "path", s.Path(), "error", err)
			continue
		}
		if found {
			return value, true
		}
	}
	e.metrics.ReadMisses.Inc()
	return nil, false
}

// Close closes every segment and releases all file handles.
func (e *Engine) Close() error {
	var firstErr error
	for _, s := range e.segments {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := e.dm.CloseAll(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// SegmentCount returns how many segments the engine currently owns.
func (e *Engine) SegmentCount() int { return len(e.segments) }

// ActiveSegmentID returns the id of the current write target.
func (e *Engine) ActiveSegmentID() int { return e.segments[0].ID() }

// Metrics returns the engine's metrics collectors.
func (e *Engine) Metrics() *metrics.Metrics { return e.metrics }
