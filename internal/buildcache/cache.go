// Package buildcache stores compiled units on disk between builds.
package buildcache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"walter/internal/ir"
)

// Current schema version - increment when Payload format changes
const schemaVersion uint16 = 1

// Key identifies one compiled unit.
type Key [32]byte

func (k Key) String() string { return hex.EncodeToString(k[:]) }

// KeyInput lists everything a compiled unit depends on.
type KeyInput struct {
	Compiler string
	Unit     string
	// Source is the content hash of the module file.
	Source [32]byte
	// Table is the function table digest; signatures of other modules
	// change the calls a unit lowers.
	Table   string
	Release bool
}

// KeyFor hashes in.
func KeyFor(in KeyInput) Key {
	h := sha256.New()
	fmt.Fprintf(h, "walter-unit/%d\x00%s\x00%s\x00", schemaVersion, in.Compiler, in.Unit)
	_, _ = h.Write(in.Source[:])
	fmt.Fprintf(h, "\x00%s\x00%t", in.Table, in.Release)
	var k Key
	copy(k[:], h.Sum(nil))
	return k
}

// Payload is a cached unit.
type Payload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16
	Unit   string
	Module *ir.Module
}

// Cache keeps payloads under dir. Safe for concurrent use.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// Open returns the cache at the standard location for app.
func Open(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDir(filepath.Join(base, app))
}

// OpenDir returns a cache rooted at dir, creating it when missing.
func OpenDir(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *Cache) pathFor(key Key) string {
	return filepath.Join(c.dir, "units", key.String()+".mp")
}

// Put writes m under key, replacing any previous entry atomically.
func (c *Cache) Put(key Key, m *ir.Module) (err error) {
	if c == nil || m == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(&Payload{Schema: schemaVersion, Unit: m.Name, Module: m}); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// атомарная замена
	return os.Rename(f.Name(), p)
}

// Get loads the unit stored under key. Entries written by another schema
// version are reported as misses.
func (c *Cache) Get(key Key) (*ir.Module, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload Payload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", key, err)
	}
	if payload.Schema != schemaVersion || payload.Module == nil {
		return nil, false, nil
	}
	payload.Module.Reindex()
	return payload.Module, true, nil
}

// DropAll removes every cached unit.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "units"))
}
