// Package casing converts object keys between the storage convention
// (snake_case) and the wire convention (camelCase). The conversion is
// structural: it walks decoded JSON values and renames map keys, leaving
// values, array order, and nesting untouched.
package casing

import (
	"strings"
	"unicode"
)

// ToSnake converts a camelCase key to snake_case. Already-snake keys come
// back unchanged, so repeated application is idempotent.
func ToSnake(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			// No underscore at the start, after an existing underscore, or
			// inside an acronym run (previous rune also upper).
			if i > 0 && runes[i-1] != '_' && !unicode.IsUpper(runes[i-1]) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ToCamel converts a snake_case key to camelCase. Keys without underscores
// come back unchanged, so repeated application is idempotent.
func ToCamel(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}
	parts := strings.Split(s, "_")
	var b strings.Builder
	b.Grow(len(s))
	wrote := false
	for _, p := range parts {
		if p == "" {
			continue
		}
		if !wrote {
			b.WriteString(p)
			wrote = true
			continue
		}
		r := []rune(p)
		b.WriteRune(unicode.ToUpper(r[0]))
		b.WriteString(string(r[1:]))
	}
	if !wrote {
		return s
	}
	return b.String()
}

// SnakeKeys deep-renames every map key in v to snake_case. Non-object
// values are returned as-is.
func SnakeKeys(v interface{}) interface{} {
	return rename(v, ToSnake)
}

// CamelKeys deep-renames every map key in v to camelCase. Non-object
// values are returned as-is.
func CamelKeys(v interface{}) interface{} {
	return rename(v, ToCamel)
}

func rename(v interface{}, key func(string) string) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[key(k)] = rename(val, key)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = rename(val, key)
		}
		return out
	default:
		return v
	}
}
