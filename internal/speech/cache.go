package speech

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"

	"github.com/hammamikhairi/smartagri/internal/logger"
)

// AudioCache is a thread-safe two-tier cache (in-memory + filesystem) for
// synthesized audio. The cache key is sha256(voice + ":" + text), so the
// same sentence in Hindi and Telugu never collides.
//
// Disk behaviour is controlled by diskWrite:
//
//	diskWrite=true  -> reads from mem, then disk; writes to both.
//	diskWrite=false -> reads from mem, then disk; writes to mem only.
//
// The memory tier holds at most maxEntries items; the oldest insert is
// evicted first.
type AudioCache struct {
	mu         sync.RWMutex
	entries    map[string][]byte // hash -> WAV bytes
	order      []string          // insertion order for eviction
	maxEntries int
	log        *logger.Logger
	cacheDir   string // filesystem cache directory (empty = no disk layer)
	diskWrite  bool   // whether to persist new entries to disk
	hits       int64
	misses     int64
}

// NewAudioCache creates an audio cache.
//
//   - cacheDir:   path to the on-disk cache directory. If empty, the disk
//     layer is disabled entirely (pure in-memory).
//   - diskWrite:  when true, new entries are written to cacheDir.
//   - maxEntries: memory tier capacity, 0 for unbounded.
func NewAudioCache(cacheDir string, diskWrite bool, maxEntries int, log *logger.Logger) *AudioCache {
	c := &AudioCache{
		entries:    make(map[string][]byte),
		maxEntries: maxEntries,
		log:        log.With("cache"),
		cacheDir:   cacheDir,
		diskWrite:  diskWrite,
	}

	if cacheDir != "" && diskWrite {
		if err := os.MkdirAll(cacheDir, 0o755); err != nil {
			c.log.Error("failed to create cache dir %s: %v", cacheDir, err)
		}
	}

	return c
}

// Get returns cached audio for text spoken by voice.
func (c *AudioCache) Get(voice, text string) ([]byte, bool) {
	key := hashKey(voice, text)

	c.mu.RLock()
	data, ok := c.entries[key]
	c.mu.RUnlock()

	if ok {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		c.log.Debug("hit (mem): %s", truncate(text, 40))
		return data, true
	}

	if c.cacheDir != "" {
		if diskData, err := os.ReadFile(c.diskPath(key)); err == nil {
			c.mu.Lock()
			c.storeLocked(key, diskData)
			c.hits++
			c.mu.Unlock()
			c.log.Debug("hit (disk): %s", truncate(text, 40))
			return diskData, true
		}
	}

	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
	return nil, false
}

// Put stores audio for text spoken by voice.
func (c *AudioCache) Put(voice, text string, audio []byte) {
	key := hashKey(voice, text)

	c.mu.Lock()
	c.storeLocked(key, audio)
	size := len(c.entries)
	c.mu.Unlock()

	c.log.Debug("store (mem): %s (%d bytes, %d entries)", truncate(text, 40), len(audio), size)

	if c.cacheDir != "" && c.diskWrite {
		path := c.diskPath(key)
		if err := os.WriteFile(path, audio, 0o644); err != nil {
			c.log.Error("disk write failed for %s: %v", path, err)
		}
	}
}

// Has reports whether audio is cached in memory or on disk.
func (c *AudioCache) Has(voice, text string) bool {
	key := hashKey(voice, text)

	c.mu.RLock()
	_, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return true
	}
	if c.cacheDir == "" {
		return false
	}
	_, err := os.Stat(c.diskPath(key))
	return err == nil
}

// Len returns the number of in-memory cached entries.
func (c *AudioCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns hit and miss counts.
func (c *AudioCache) Stats() (hits, misses int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// storeLocked inserts or replaces an entry, evicting the oldest when
// full. Must be called with c.mu held.
func (c *AudioCache) storeLocked(key string, audio []byte) {
	if _, exists := c.entries[key]; !exists {
		c.order = append(c.order, key)
	}
	c.entries[key] = audio
	for c.maxEntries > 0 && len(c.entries) > c.maxEntries {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

func (c *AudioCache) diskPath(key string) string {
	return filepath.Join(c.cacheDir, key+".wav")
}

func hashKey(voice, text string) string {
	h := sha256.Sum256([]byte(voice + ":" + text))
	return hex.EncodeToString(h[:])
}

// truncate shortens a string for logging without splitting a rune.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
