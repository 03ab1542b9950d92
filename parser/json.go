/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package parser

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"

	"bennypowers.dev/tessera/fs"
	"bennypowers.dev/tessera/token"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// JSONParser parses DTCG-compliant JSON token files.
type JSONParser struct{}

// NewJSONParser creates a new JSON token parser.
func NewJSONParser() *JSONParser {
	return &JSONParser{}
}

// Parse parses JSON or YAML token data and returns tokens.
func (p *JSONParser) Parse(data []byte, opts Options) ([]*token.Token, error) {
	raw, err := Decode(data)
	if err != nil {
		return nil, err
	}
	result := []*token.Token{}
	p.extractTokens(raw, []string{}, "", opts, &result)
	return result, nil
}

// Decode decodes JSON (comments allowed) or YAML token data into a map.
func Decode(data []byte) (map[string]any, error) {
	var raw map[string]any
	if isLikelyJSON(data) {
		if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
		return raw, nil
	}

	var yamlRaw any
	if err := yaml.Unmarshal(data, &yamlRaw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if yamlRaw == nil {
		return map[string]any{}, nil
	}
	// YAML numeric keys create map[any]any
	raw, ok := normalizeMap(yamlRaw).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("YAML root must be an object")
	}
	return raw, nil
}

// isLikelyJSON checks if data appears to be JSON rather than YAML.
func isLikelyJSON(data []byte) bool {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case 0xEF, 0xBB, 0xBF: // UTF-8 BOM
			continue
		case '{', '/':
			return true
		default:
			return false
		}
	}
	return false
}

// normalizeMap recursively converts map[any]any to map[string]any.
func normalizeMap(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, val := range x {
			x[k] = normalizeMap(val)
		}
		return x
	case map[any]any:
		result := make(map[string]any, len(x))
		for k, val := range x {
			result[fmt.Sprintf("%v", k)] = normalizeMap(val)
		}
		return result
	case []any:
		for i, val := range x {
			x[i] = normalizeMap(val)
		}
		return x
	default:
		return v
	}
}

// extractTokens recursively extracts tokens from a parsed map.
// inheritedType is passed down from parent groups for $type inheritance.
func (p *JSONParser) extractTokens(data map[string]any, jsonPath []string, inheritedType string, opts Options, result *[]*token.Token) {
	currentType := inheritedType
	if groupType, ok := data["$type"].(string); ok {
		currentType = groupType
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		if strings.HasPrefix(k, "$") && k != RootKey {
			continue
		}
		keys = append(keys, k)
	}
	if !opts.SkipSort {
		sort.Strings(keys)
	}

	for _, key := range keys {
		valueMap, ok := data[key].(map[string]any)
		if !ok {
			continue
		}

		// $root shares its group's path
		currentPath := jsonPath
		if key != RootKey {
			currentPath = slices.Clip(append(jsonPath, key))
		}

		if dollarValue, hasValue := valueMap["$value"]; hasValue {
			*result = append(*result, p.createToken(valueMap, currentPath, dollarValue, currentType, opts))
			continue
		}
		p.extractTokens(valueMap, currentPath, currentType, opts, result)
	}
}

// createToken creates a Token from map data.
func (p *JSONParser) createToken(valueMap map[string]any, jsonPath []string, dollarValue any, inheritedType string, opts Options) *token.Token {
	t := &token.Token{
		Name:     strings.Join(jsonPath, "-"),
		Prefix:   opts.Prefix,
		Path:     jsonPath,
		RawValue: dollarValue,
	}
	if strVal, ok := dollarValue.(string); ok {
		t.Value = strVal
	}

	// Token's own $type takes precedence over inherited
	if typeStr, ok := valueMap["$type"].(string); ok {
		t.Type = typeStr
	} else {
		t.Type = inheritedType
	}
	if descStr, ok := valueMap["$description"].(string); ok {
		t.Description = descStr
	}
	switch dep := valueMap["$deprecated"].(type) {
	case bool:
		t.Deprecated = dep
	case string:
		t.Deprecated = true
		t.DeprecationMessage = dep
	}
	if extensions, ok := valueMap["$extensions"].(map[string]any); ok {
		t.Extensions = extensions
	}
	return t
}

// ParseFile parses a JSON token file and returns tokens.
func (p *JSONParser) ParseFile(filesystem fs.FileSystem, path string, opts Options) ([]*token.Token, error) {
	data, err := filesystem.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	tokens, err := p.Parse(data, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", path, err)
	}

	for _, t := range tokens {
		t.FilePath = path
	}

	return tokens, nil
}
