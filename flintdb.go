// Package flintdb is a minimal log-structured key-value storage engine.
//
// Values are appended sequentially to on-disk segment files while an
// in-memory index per segment gives O(1) lookup of each key's byte location.
// When the active segment reaches a configured size the engine rotates to a
// new one; sealed segments stay readable forever. On open, every segment file
// is replayed to rebuild its index, skipping corrupt records.
//
// Example usage:
//
//	db, err := flintdb.Open("/path/to/data", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer db.Close()
//
//	err = db.Set(42, []byte("value"))
//	if err != nil {
//		log.Printf("Set failed: %v", err)
//	}
//
//	value, exists := db.Get(42)
//	if exists {
//		fmt.Printf("Value: %s\n", string(value))
//	}
package flintdb

import (
	"github.com/vaasu2002/flintdb/internal/config"
	"github.com/vaasu2002/flintdb/internal/engine"
	"github.com/vaasu2002/flintdb/internal/record"
)

// ErrDelimiterInValue is returned by Set for values containing the record
// delimiter byte (0x00), which the on-disk framing cannot represent.
var ErrDelimiterInValue = record.ErrDelimiterInValue

// Config is an alias for config.Config, re-exported for user convenience.
type Config = config.Config

// DefaultConfig returns a Config struct populated with default values. Re-exported for user convenience.
var DefaultConfig = config.DefaultConfig

// LoadConfig reads a yaml config file. Re-exported for user convenience.
var LoadConfig = config.LoadFile

// DB represents a FlintDB instance. A DB must not be used concurrently;
// callers serialize all access.
type DB struct {
	engine *engine.Engine
}

// Open opens or creates a FlintDB database at the specified directory.
//
// The directory will be created if it doesn't exist. Existing segment files
// are replayed so every key written before the last Close is retrievable.
//
// Returns a DB instance or an error if the database can't be opened.
func Open(dir string, cfg *config.Config) (*DB, error) {
	e, err := engine.NewEngine(dir, cfg)
	if err != nil {
		return nil, err
	}
	return &DB{engine: e}, nil
}

// Set writes a key-value pair to the database.
// Overwrites the value if the key already exists.
//
// The value must not contain the record delimiter byte (0x00); such values
// are rejected with ErrDelimiterInValue.
func (db *DB) Set(key int64, value []byte) error {
	return db.engine.Set(key, value)
}

// Get retrieves the value of the most recent Set for a given key.
// Returns the value and true if found, or nil and false if the key doesn't exist.
func (db *DB) Get(key int64) ([]byte, bool) {
	return db.engine.Get(key)
}

// Close releases all file handles held by the database. After calling Close,
// the database should not be used for any operations.
func (db *DB) Close() error {
	return db.engine.Close()
}
