/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package token

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// CSSValue returns the CSS representation of the token's resolved value.
func (t *Token) CSSValue() string {
	return CSSValue(t.Type, t.Resolved())
}

// CSSValue renders a decoded DTCG $value as a CSS value string.
// Unknown structures fall back to compact JSON.
func CSSValue(tokenType string, value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		if tokenType == TypeFontFamily {
			return quoteFontFamily(v)
		}
		return v
	case float64:
		return formatNumber(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case []any:
		return arrayValue(tokenType, v)
	case map[string]any:
		return objectValue(tokenType, v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func quoteFontFamily(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, `"`) || strings.HasPrefix(name, `'`) || strings.Contains(name, ",") {
		return name
	}
	if strings.ContainsAny(name, " \t") {
		return `"` + name + `"`
	}
	return name
}

func arrayValue(tokenType string, arr []any) string {
	switch tokenType {
	case TypeCubicBezier:
		parts := make([]string, len(arr))
		for i, p := range arr {
			parts[i] = CSSValue(TypeNumber, p)
		}
		return "cubic-bezier(" + strings.Join(parts, ", ") + ")"
	case TypeFontFamily:
		parts := make([]string, len(arr))
		for i, p := range arr {
			parts[i] = quoteFontFamily(fmt.Sprintf("%v", p))
		}
		return strings.Join(parts, ", ")
	default:
		parts := make([]string, len(arr))
		for i, p := range arr {
			parts[i] = CSSValue(tokenType, p)
		}
		return strings.Join(parts, ", ")
	}
}

func objectValue(tokenType string, obj map[string]any) string {
	if v, ok := obj["value"]; ok {
		if unit, ok := obj["unit"].(string); ok {
			return CSSValue(TypeNumber, v) + unit
		}
	}
	if hex, ok := obj["hex"].(string); ok && hex != "" {
		return hex
	}
	if space, ok := obj["colorSpace"].(string); ok {
		return structuredColor(space, obj)
	}

	switch {
	case tokenType == TypeShadow || hasAny(obj, "offsetX", "offsetY", "blur"):
		return shadowValue(obj)
	case tokenType == TypeTypography || hasAny(obj, "fontFamily", "fontSize"):
		return typographyValue(obj)
	case tokenType == TypeBorder || hasAny(obj, "width", "style") && hasAny(obj, "color"):
		return joinFields(obj, map[string]string{"width": TypeDimension, "color": TypeColor}, "width", "style", "color")
	}

	data, err := json.Marshal(obj)
	if err != nil {
		return fmt.Sprintf("%v", obj)
	}
	return string(data)
}

func hasAny(obj map[string]any, keys ...string) bool {
	for _, k := range keys {
		if _, ok := obj[k]; ok {
			return true
		}
	}
	return false
}

func shadowValue(obj map[string]any) string {
	var parts []string
	if inset, ok := obj["inset"].(bool); ok && inset {
		parts = append(parts, "inset")
	}
	for _, key := range []string{"offsetX", "offsetY", "blur", "spread"} {
		if v, ok := obj[key]; ok {
			parts = append(parts, CSSValue(TypeDimension, v))
		}
	}
	if c, ok := obj["color"]; ok {
		parts = append(parts, CSSValue(TypeColor, c))
	}
	return strings.Join(parts, " ")
}

// typographyValue renders a typography composite as a CSS font shorthand.
func typographyValue(obj map[string]any) string {
	var parts []string
	if s, ok := obj["fontStyle"]; ok {
		parts = append(parts, CSSValue(TypeString, s))
	}
	if w, ok := obj["fontWeight"]; ok {
		parts = append(parts, CSSValue(TypeFontWeight, w))
	}
	size := CSSValue(TypeDimension, obj["fontSize"])
	if lh, ok := obj["lineHeight"]; ok && size != "" {
		size += "/" + CSSValue(TypeNumber, lh)
	}
	if size != "" {
		parts = append(parts, size)
	}
	if f, ok := obj["fontFamily"]; ok {
		parts = append(parts, CSSValue(TypeFontFamily, f))
	}
	return strings.Join(parts, " ")
}

func joinFields(obj map[string]any, types map[string]string, keys ...string) string {
	var parts []string
	for _, k := range keys {
		if v, ok := obj[k]; ok {
			parts = append(parts, CSSValue(types[k], v))
		}
	}
	return strings.Join(parts, " ")
}

func structuredColor(space string, obj map[string]any) string {
	comps, _ := obj["components"].([]any)
	if len(comps) == 0 {
		comps, _ = obj["channels"].([]any)
	}
	strs := make([]string, len(comps))
	for i, c := range comps {
		strs[i] = CSSValue(TypeNumber, c)
	}
	out := "color(" + space + " " + strings.Join(strs, " ")
	if a, ok := obj["alpha"].(float64); ok && a < 0.999 {
		out += " / " + formatNumber(a)
	}
	return out + ")"
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
