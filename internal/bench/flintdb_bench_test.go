package bench

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/vaasu2002/flintdb"
)

var writeCfg = &flintdb.Config{
	MaxSegmentBytes: 8 * 1024 * 1024,
}

var readCfg = &flintdb.Config{
	MaxSegmentBytes: 32 * 1024 * 1024,
}

func setupBenchDB(b *testing.B, cfg *flintdb.Config) (*flintdb.DB, func()) {
	tmpDir := filepath.Join(os.TempDir(), fmt.Sprintf("flintdb_bench_%d", rand.Int63()))
	db, err := flintdb.Open(tmpDir, cfg)
	if err != nil {
		b.Fatalf("Failed to open database: %v", err)
	}

	cleanup := func() {
		_ = db.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return db, cleanup
}

func generateValue(size int) []byte {
	value := make([]byte, size)
	for i := range value {
		// Any byte but the record delimiter.
		value[i] = byte(1 + rand.Intn(255))
	}
	return value
}

func BenchmarkWrite(b *testing.B) {
	db, cleanup := setupBenchDB(b, writeCfg)
	defer cleanup()

	value := generateValue(1024)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if err := db.Set(int64(i), value); err != nil {
			b.Fatalf("Set failed: %v", err)
		}
	}
}

func BenchmarkRead(b *testing.B) {
	db, cleanup := setupBenchDB(b, readCfg)
	defer cleanup()

	// Pre-populate
	value := generateValue(1024)
	numKeys := 10000
	for i := 0; i < numKeys; i++ {
		if err := db.Set(int64(i), value); err != nil {
			b.Fatalf("Pre-populate set failed: %v", err)
		}
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, found := db.Get(int64(i % numKeys)); !found {
			b.Fatalf("key not found")
		}
	}
}

func BenchmarkRandomRead(b *testing.B) {
	db, cleanup := setupBenchDB(b, readCfg)
	defer cleanup()

	// Pre-populate
	value := generateValue(1024)
	numKeys := 10000
	for i := 0; i < numKeys; i++ {
		if err := db.Set(int64(i), value); err != nil {
			b.Fatalf("Pre-populate set failed: %v", err)
		}
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, found := db.Get(int64(rand.Intn(numKeys))); !found {
			b.Fatalf("key not found")
		}
	}
}

func BenchmarkOverwrite(b *testing.B) {
	db, cleanup := setupBenchDB(b, writeCfg)
	defer cleanup()

	value := generateValue(1024)
	numKeys := 100

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if err := db.Set(int64(i%numKeys), value); err != nil {
			b.Fatalf("Set failed: %v", err)
		}
	}
}
