/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package config provides configuration loading for the tessera pipeline.
package config

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"bennypowers.dev/tessera/source"
	"bennypowers.dev/tessera/token"
)

// Defaults for the project layout.
const (
	DefaultTokensDir = "tokens"
	DefaultOutputDir = "build"
)

// DefaultFormats are the value outputs written by a build.
var DefaultFormats = []string{"css", "scss", "js", "ts", "json"}

// Config represents the project configuration.
type Config struct {
	// Tokens is the tokens directory, relative to the project root.
	Tokens string `yaml:"tokens" json:"tokens"`

	// Output is the build directory, relative to the project root.
	Output string `yaml:"output" json:"output"`

	// Prefix is the global CSS variable prefix.
	Prefix string `yaml:"prefix" json:"prefix"`

	// CustomPrefix is the prefix for custom-layer tokens.
	CustomPrefix string `yaml:"customPrefix" json:"customPrefix"`

	// BatchSize bounds concurrent file reads and writes.
	BatchSize int `yaml:"batchSize" json:"batchSize"`

	// Formats lists the value outputs to write.
	Formats []string `yaml:"formats" json:"formats"`

	// OutputReferences keeps references as var() in CSS and SCSS outputs.
	OutputReferences bool `yaml:"outputReferences" json:"outputReferences"`

	// Figma configures the Figma tree output.
	Figma Figma `yaml:"figma" json:"figma"`

	// Sources overrides the layer layout of the tokens directory.
	Sources []SourceSpec `yaml:"sources" json:"sources"`
}

// Figma configures the Figma tree output.
type Figma struct {
	ChunkSize    int   `yaml:"chunkSize" json:"chunkSize"`
	OptimizeRefs bool  `yaml:"optimizeRefs" json:"optimizeRefs"`
	Strict       bool  `yaml:"strict" json:"strict"`
	Fill         *bool `yaml:"fill" json:"fill"`
}

// FillEnabled reports whether the gap-filler runs. It defaults to on.
func (f Figma) FillEnabled() bool {
	return f.Fill == nil || *f.Fill
}

// SourceSpec maps a glob under the tokens directory to a layer.
// It can be specified as a simple glob string or as an object with overrides.
type SourceSpec struct {
	// Path is a doublestar glob relative to the tokens directory.
	Path string `yaml:"path" json:"path"`

	// Layer names the layer. When empty it is taken from the first
	// path segment ("semantic/**/*.json" is semantic).
	Layer string `yaml:"layer" json:"layer"`

	// Prefix overrides the CSS variable prefix for matching files.
	Prefix string `yaml:"prefix" json:"prefix"`
}

// UnmarshalYAML handles both string and object forms for SourceSpec.
func (s *SourceSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		s.Path = node.Value
		return nil
	}

	type rawSourceSpec SourceSpec
	return node.Decode((*rawSourceSpec)(s))
}

// UnmarshalJSON handles both string and object forms for SourceSpec.
func (s *SourceSpec) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		s.Path = str
		return nil
	}

	type rawSourceSpec SourceSpec
	return json.Unmarshal(data, (*rawSourceSpec)(s))
}

// Default returns a config with default values.
func Default() *Config {
	return &Config{
		Tokens:    DefaultTokensDir,
		Output:    DefaultOutputDir,
		BatchSize: source.DefaultBatchSize,
		Formats:   DefaultFormats,
	}
}

// applyDefaults fills zero fields from Default.
func (c *Config) applyDefaults() {
	d := Default()
	if c.Tokens == "" {
		c.Tokens = d.Tokens
	}
	if c.Output == "" {
		c.Output = d.Output
	}
	if c.BatchSize <= 0 {
		c.BatchSize = d.BatchSize
	}
	if len(c.Formats) == 0 {
		c.Formats = d.Formats
	}
}

// Layout returns the source layout. Without Sources it is the default
// layout.
func (c *Config) Layout() (source.Layout, error) {
	if len(c.Sources) == 0 {
		return source.DefaultLayout(), nil
	}
	var layout source.Layout
	for _, spec := range c.Sources {
		name := spec.Layer
		if name == "" {
			name, _, _ = strings.Cut(path.Clean(spec.Path), "/")
		}
		layer, err := token.ParseLayer(name)
		if err != nil {
			return source.Layout{}, fmt.Errorf("source %q: %w", spec.Path, err)
		}
		layout.Rules = append(layout.Rules, source.Rule{
			Pattern: spec.Path,
			Layer:   layer,
			Prefix:  spec.Prefix,
		})
	}
	return layout, nil
}
