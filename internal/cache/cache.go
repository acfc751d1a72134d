// Package cache stores per-file detection results on disk, keyed by
// content hash and threshold fingerprint so entries go stale the moment
// either changes.
package cache

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/blake3"

	"github.com/jparkin/whiff/pkg/models"
)

// Cache is a file-based result cache. A disabled cache is a no-op.
type Cache struct {
	dir     string
	ttl     time.Duration
	enabled bool
}

type entry struct {
	ContentHash string               `json:"content_hash"`
	Fingerprint uint64               `json:"fingerprint"`
	Timestamp   time.Time            `json:"timestamp"`
	Results     []models.SmellResult `json:"results"`
}

// New creates a cache rooted at dir with the given TTL in hours.
func New(dir string, ttlHours int, enabled bool) (*Cache, error) {
	if !enabled {
		return &Cache{enabled: false}, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Cache{
		dir:     dir,
		ttl:     time.Duration(ttlHours) * time.Hour,
		enabled: true,
	}, nil
}

// HashBytes returns the BLAKE3 hex digest of data.
func HashBytes(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Get returns cached results for a file when the stored content hash
// and threshold fingerprint both match and the entry is within TTL.
func (c *Cache) Get(path, contentHash string, fingerprint uint64) ([]models.SmellResult, bool) {
	if !c.enabled {
		return nil, false
	}

	data, err := os.ReadFile(c.entryPath(path))
	if err != nil {
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, false
	}
	if e.ContentHash != contentHash || e.Fingerprint != fingerprint {
		return nil, false
	}
	if time.Since(e.Timestamp) > c.ttl {
		os.Remove(c.entryPath(path))
		return nil, false
	}

	return e.Results, true
}

// Set stores results for a file.
func (c *Cache) Set(path, contentHash string, fingerprint uint64, results []models.SmellResult) error {
	if !c.enabled {
		return nil
	}

	data, err := json.Marshal(entry{
		ContentHash: contentHash,
		Fingerprint: fingerprint,
		Timestamp:   time.Now(),
		Results:     results,
	})
	if err != nil {
		return err
	}
	return os.WriteFile(c.entryPath(path), data, 0600)
}

// Clear removes every cache entry.
func (c *Cache) Clear() error {
	if !c.enabled {
		return nil
	}
	return os.RemoveAll(c.dir)
}

// entryPath hashes the file path so arbitrary paths map to flat,
// filesystem-safe names.
func (c *Cache) entryPath(path string) string {
	sum := blake3.Sum256([]byte(path))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".json")
}

// Stats summarizes cache contents.
type Stats struct {
	Entries   int   `json:"entries"`
	TotalSize int64 `json:"total_size"`
}

// GetStats walks the cache directory and tallies entries.
func (c *Cache) GetStats() (*Stats, error) {
	if !c.enabled {
		return &Stats{}, nil
	}

	stats := &Stats{}
	err := filepath.Walk(c.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("walking cache dir: %w", err)
		}
		if info.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		stats.Entries++
		stats.TotalSize += info.Size()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}
