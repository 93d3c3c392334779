package emit

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	"projector-generator/internal/common"
	"projector-generator/internal/plan"
)

// CacheVersion changes whenever rendering changes the output for an
// unchanged plan, invalidating older caches.
const CacheVersion = "1"

// CacheEntry records what a generated file was rendered from.
type CacheEntry struct {
	Fingerprint string `yaml:"fingerprint"`
	Content     string `yaml:"content"`
}

// Cache maps output paths to the fingerprint of the plan that produced them,
// so unchanged projections are not rendered again. It is safe for
// concurrent use.
type Cache struct {
	path string

	mu      sync.Mutex
	Version string                `yaml:"version"`
	Files   map[string]CacheEntry `yaml:"files"`
}

// LoadCache reads the cache at path. A missing file, or a cache written by
// another version, yields an empty cache.
func LoadCache(path string) (*Cache, error) {
	c := &Cache{path: path, Version: CacheVersion, Files: make(map[string]CacheEntry)}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	var stored Cache
	if err := yaml.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("parsing cache %s: %w", path, err)
	}

	if stored.Version == CacheVersion && stored.Files != nil {
		c.Files = stored.Files
	}

	return c, nil
}

// EntryFingerprint hashes a graph entry: its projection and every
// projection rendered inline into it.
func EntryFingerprint(e plan.ProjectionDependencies) string {
	h := sha256.New()
	h.Write([]byte(plan.Fingerprint(e.Projection)))

	keys := make(map[string]*plan.Projection, len(e.Dependencies))
	for id, dep := range e.Dependencies {
		keys[id.Canonical] = dep
	}

	for _, key := range common.SortedKeys(keys) {
		h.Write([]byte{0})
		h.Write([]byte(key))
		h.Write([]byte(plan.Fingerprint(keys[key])))
	}

	return hex.EncodeToString(h.Sum(nil))
}

// ContentHash hashes generated source.
func ContentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Fresh reports whether the file at path was rendered from fingerprint and
// still holds the recorded content.
func (c *Cache) Fresh(path, fingerprint string) bool {
	c.mu.Lock()
	entry, ok := c.Files[path]
	c.mu.Unlock()

	if !ok || entry.Fingerprint != fingerprint {
		return false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}

	return ContentHash(data) == entry.Content
}

// Record stores the fingerprint and content of a written file.
func (c *Cache) Record(path, fingerprint string, content []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Files[path] = CacheEntry{Fingerprint: fingerprint, Content: ContentHash(content)}
}

// Prune drops entries for files not in keep.
func (c *Cache) Prune(keep []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for path := range c.Files {
		if !slices.Contains(keep, path) {
			delete(c.Files, path)
		}
	}
}

// Save writes the cache back to the path it was loaded from.
func (c *Cache) Save() error {
	c.mu.Lock()
	data, err := yaml.Marshal(c)
	c.mu.Unlock()

	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), dirPerm); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	if err := os.WriteFile(c.path, data, filePerm); err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}

	return nil
}
