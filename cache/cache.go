/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package cache stores parsed primitive token files keyed by file path and
// content hash, so unchanged files skip parsing on the next build.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"bennypowers.dev/tessera/fs"
	"bennypowers.dev/tessera/internal/logger"
	"bennypowers.dev/tessera/token"
)

// DefaultDir is the cache directory relative to the project root.
const DefaultDir = ".cache/tessera"

// FileName is the cache file inside the cache directory.
const FileName = "primitives.json"

// formatVersion is bumped whenever Record changes shape.
const formatVersion = 1

// Record is the cached form of one token.
type Record struct {
	Path               []string       `json:"path"`
	Value              any            `json:"value"`
	Type               string         `json:"type,omitempty"`
	Description        string         `json:"description,omitempty"`
	Extensions         map[string]any `json:"extensions,omitempty"`
	Deprecated         bool           `json:"deprecated,omitempty"`
	DeprecationMessage string         `json:"deprecationMessage,omitempty"`
}

// Entry is the cached parse of one file.
type Entry struct {
	Hash   string   `json:"hash"`
	Tokens []Record `json:"tokens"`
}

type file struct {
	Version int              `json:"version"`
	Entries map[string]Entry `json:"entries"`
}

// Cache is safe for concurrent use by the loader's workers.
type Cache struct {
	mu      sync.Mutex
	fs      fs.FileSystem
	path    string
	entries map[string]Entry
	seen    map[string]bool
	dirty   bool
	hits    int
	misses  int
}

// Open loads the cache in dir. A missing or unreadable cache starts empty.
func Open(filesystem fs.FileSystem, dir string) *Cache {
	c := &Cache{
		fs:      filesystem,
		path:    filepath.Join(dir, FileName),
		entries: map[string]Entry{},
		seen:    map[string]bool{},
	}
	if !filesystem.Exists(c.path) {
		return c
	}
	data, err := filesystem.ReadFile(c.path)
	if err != nil {
		logger.Warn("could not read cache %s: %v", c.path, err)
		return c
	}
	var f file
	if err := json.Unmarshal(data, &f); err != nil || f.Version != formatVersion {
		logger.Debug("discarding stale cache %s", c.path)
		return c
	}
	if f.Entries != nil {
		c.entries = f.Entries
	}
	return c
}

// Hash returns the content hash used as cache key.
func Hash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Lookup returns the cached tokens for path if content is unchanged.
func (c *Cache) Lookup(path string, content []byte) ([]*token.Token, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen[path] = true
	entry, ok := c.entries[path]
	if !ok || entry.Hash != Hash(content) {
		c.misses++
		return nil, false
	}
	c.hits++
	tokens := make([]*token.Token, len(entry.Tokens))
	for i, r := range entry.Tokens {
		tokens[i] = r.token()
	}
	return tokens, true
}

// Store records the parsed tokens for path.
func (c *Cache) Store(path string, content []byte, tokens []*token.Token) {
	records := make([]Record, len(tokens))
	for i, t := range tokens {
		records[i] = Record{
			Path:               t.Path,
			Value:              t.Source(),
			Type:               t.Type,
			Description:        t.Description,
			Extensions:         t.Extensions,
			Deprecated:         t.Deprecated,
			DeprecationMessage: t.DeprecationMessage,
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen[path] = true
	c.entries[path] = Entry{Hash: Hash(content), Tokens: records}
	c.dirty = true
}

func (r Record) token() *token.Token {
	t := &token.Token{
		Path:               append([]string(nil), r.Path...),
		RawValue:           r.Value,
		Type:               r.Type,
		Description:        r.Description,
		Extensions:         r.Extensions,
		Deprecated:         r.Deprecated,
		DeprecationMessage: r.DeprecationMessage,
	}
	if s, ok := r.Value.(string); ok {
		t.Value = s
	}
	return t
}

// Save writes the cache if it changed. Entries for files not seen during
// this run are dropped.
func (c *Cache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for p := range c.entries {
		if !c.seen[p] {
			delete(c.entries, p)
			c.dirty = true
		}
	}
	if !c.dirty {
		return nil
	}
	data, err := json.Marshal(file{Version: formatVersion, Entries: c.entries})
	if err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}
	if err := fs.WriteFileAll(c.fs, c.path, data); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

// Stats returns the hit and miss counts since Open.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Clean removes the cache directory.
func Clean(filesystem fs.FileSystem, dir string) error {
	if err := filesystem.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to clean cache %s: %w", dir, err)
	}
	return nil
}
