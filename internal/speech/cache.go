package speech

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"

	"github.com/hammamikhairi/focuscue/internal/codec"
	"github.com/hammamikhairi/focuscue/internal/logger"
)

// AudioCache is a thread-safe two-tier cache (in-memory + filesystem) for
// synthesized speech. The cache key is sha256(voice + ":" + text), so the
// same line in another voice is a separate entry.
//
// Memory holds raw PCM. Disk holds playable WAV files named <key>.wav, so
// the cache directory doubles as a library of rendered lines.
//
//	diskWrite=true  -> reads from mem, then disk; writes to both.
//	diskWrite=false -> reads from mem, then disk; writes to mem only.
type AudioCache struct {
	mu         sync.RWMutex
	entries    map[string][]byte // hash -> PCM
	log        *logger.Logger
	sampleRate int
	cacheDir   string // empty = no disk layer
	diskWrite  bool
	hits       int64
	misses     int64
}

// NewAudioCache creates an audio cache.
//
//   - sampleRate: rate of the PCM being cached. Disk entries recorded at
//     another rate are ignored.
//   - cacheDir:  path to the on-disk cache directory. If empty, the disk
//     layer is disabled entirely (pure in-memory).
//   - diskWrite: when true, new entries are written to cacheDir. When false,
//     existing files in cacheDir are still read, but nothing new is persisted.
func NewAudioCache(sampleRate int, cacheDir string, diskWrite bool, log *logger.Logger) *AudioCache {
	c := &AudioCache{
		entries:    make(map[string][]byte),
		log:        log,
		sampleRate: sampleRate,
		cacheDir:   cacheDir,
		diskWrite:  diskWrite,
	}

	if cacheDir != "" && diskWrite {
		if err := os.MkdirAll(cacheDir, 0o755); err != nil {
			log.Error("cache: failed to create cache dir %s: %v", cacheDir, err)
		}
	}

	return c
}

// Get returns cached PCM for text spoken in voice.
func (c *AudioCache) Get(voice, text string) ([]byte, bool) {
	key := hashKey(voice, text)

	c.mu.RLock()
	data, ok := c.entries[key]
	c.mu.RUnlock()

	if ok {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		c.log.Debug("cache hit (mem): %s (%d bytes)", truncate(text, 40), len(data))
		return data, true
	}

	if c.cacheDir != "" {
		if pcm, diskOK := c.readDisk(key); diskOK {
			// Promote to in-memory for faster subsequent hits.
			c.mu.Lock()
			c.entries[key] = pcm
			c.hits++
			c.mu.Unlock()
			c.log.Debug("cache hit (disk): %s (%d bytes)", truncate(text, 40), len(pcm))
			return pcm, true
		}
	}

	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
	return nil, false
}

// Put stores PCM for text spoken in voice.
func (c *AudioCache) Put(voice, text string, pcm []byte) {
	key := hashKey(voice, text)

	c.mu.Lock()
	c.entries[key] = pcm
	size := len(c.entries)
	c.mu.Unlock()

	c.log.Debug("cache store (mem): %s (%d bytes, %d entries)", truncate(text, 40), len(pcm), size)

	if c.cacheDir != "" && c.diskWrite {
		c.writeDisk(key, pcm)
	}
}

// Has reports whether text in voice is cached (memory or disk).
func (c *AudioCache) Has(voice, text string) bool {
	key := hashKey(voice, text)

	c.mu.RLock()
	_, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return true
	}

	if c.cacheDir != "" {
		return c.existsOnDisk(key)
	}
	return false
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

// Clear empties the in-memory cache. The disk cache is NOT cleared.
func (c *AudioCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
	c.mu.Unlock()
	c.log.Debug("cache cleared (mem)")
}

// ── hashing ──────────────────────────────────────────────────────

// hashKey returns a hex-encoded SHA-256 of voice + ":" + text.
func hashKey(voice, text string) string {
	h := sha256.Sum256([]byte(voice + ":" + text))
	return hex.EncodeToString(h[:])
}

// ── disk helpers ─────────────────────────────────────────────────

func (c *AudioCache) diskPath(key string) string {
	return filepath.Join(c.cacheDir, key+".wav")
}

func (c *AudioCache) readDisk(key string) ([]byte, bool) {
	path := c.diskPath(key)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	// Files are written whole, so a RIFF size that disagrees with the file
	// length means a truncated leftover.
	if len(data) < 8 || int(binary.LittleEndian.Uint32(data[4:8]))+8 != len(data) {
		c.log.Debug("cache: ignoring %s (truncated, %d bytes)", key[:12], len(data))
		return nil, false
	}

	rate, err := codec.WAVSampleRate(data)
	if err != nil || rate != c.sampleRate {
		c.log.Debug("cache: ignoring %s (rate=%d, err=%v)", key[:12], rate, err)
		return nil, false
	}
	pcm, err := codec.ExtractPCM(data)
	if err != nil {
		c.log.Debug("cache: ignoring %s: %v", key[:12], err)
		return nil, false
	}
	return pcm, true
}

// writeDisk writes through a temp file and renames it into place, so a
// concurrent Get sees either nothing or the complete WAV.
func (c *AudioCache) writeDisk(key string, pcm []byte) {
	path := c.diskPath(key)
	if err := writeFileAtomic(path, codec.PCMToWAV(pcm, c.sampleRate)); err != nil {
		c.log.Error("cache: disk write failed for %s: %v", path, err)
		return
	}
	c.log.Debug("cache store (disk): %s (%d bytes)", key[:12], len(pcm))
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (c *AudioCache) existsOnDisk(key string) bool {
	_, err := os.Stat(c.diskPath(key))
	return err == nil
}

// truncate shortens a string for logging.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
