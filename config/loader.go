/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	tessfs "bennypowers.dev/tessera/fs"
)

// ConfigFileName is the base name of the config file without extension.
const ConfigFileName = "tessera"

// ConfigDir is the directory where config files are stored.
const ConfigDir = ".config"

// Prefix files live in the tokens directory.
const (
	PrefixFileName       = "_prefix.json"
	CustomPrefixFileName = "_custom-prefix.json"
)

// configExtensions are the supported config file extensions in priority order.
var configExtensions = []string{".yaml", ".yml", ".json"}

// Load searches for .config/tessera.{yaml,yml,json} from rootDir.
// Returns nil if no config found (not an error).
func Load(filesystem tessfs.FileSystem, rootDir string) (*Config, error) {
	for _, ext := range configExtensions {
		configPath := filepath.Join(rootDir, ConfigDir, ConfigFileName+ext)
		if !filesystem.Exists(configPath) {
			continue
		}

		data, err := filesystem.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		cfg := &Config{}
		switch ext {
		case ".yaml", ".yml":
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
			}
		case ".json":
			if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
			}
		}

		return cfg, nil
	}

	return nil, nil
}

// LoadOrDefault loads the project config, falling back to defaults when
// none exists, then applies the prefix files from the tokens directory.
func LoadOrDefault(filesystem tessfs.FileSystem, rootDir string) (*Config, error) {
	cfg, err := Load(filesystem, rootDir)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = Default()
	}
	cfg.applyDefaults()
	if err := cfg.ApplyPrefixFiles(filesystem, cfg.TokensDir(rootDir)); err != nil {
		return nil, err
	}
	return cfg, nil
}

// TokensDir returns the tokens directory resolved against rootDir.
func (c *Config) TokensDir(rootDir string) string {
	return resolvePath(rootDir, c.Tokens)
}

// OutputDir returns the build directory resolved against rootDir.
func (c *Config) OutputDir(rootDir string) string {
	return resolvePath(rootDir, c.Output)
}

func resolvePath(rootDir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(rootDir, p)
}

// ApplyPrefixFiles overrides Prefix and CustomPrefix with the values of
// _prefix.json and _custom-prefix.json in tokensDir. Missing files leave
// the current values in place.
func (c *Config) ApplyPrefixFiles(filesystem tessfs.FileSystem, tokensDir string) error {
	prefix, err := ReadPrefixFile(filesystem, filepath.Join(tokensDir, PrefixFileName))
	if err != nil {
		return err
	}
	if prefix != "" {
		c.Prefix = prefix
	}
	custom, err := ReadPrefixFile(filesystem, filepath.Join(tokensDir, CustomPrefixFileName))
	if err != nil {
		return err
	}
	if custom != "" {
		c.CustomPrefix = custom
	}
	return nil
}

// ReadPrefixFile reads {"prefix": "..."} from path. A missing file yields
// the empty string.
func ReadPrefixFile(filesystem tessfs.FileSystem, path string) (string, error) {
	if !filesystem.Exists(path) {
		return "", nil
	}
	data, err := filesystem.ReadFile(path)
	if err != nil {
		return "", err
	}
	var file struct {
		Prefix string `json:"prefix"`
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), &file); err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return file.Prefix, nil
}
