// Package jsonutil decodes JSON produced by language models, which is
// frequently wrapped in markdown code fences or surrounded by prose.
package jsonutil

import (
	"encoding/json"
	"strings"
)

// StripFences removes a leading ```json / ``` fence pair around s, plus
// surrounding whitespace. Text without fences passes through unchanged.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop an optional language tag on the opening fence line.
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		first := strings.TrimSpace(s[:idx])
		if first == "" || isLangTag(first) {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func isLangTag(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// UnmarshalLenient tries a direct unmarshal first, then again with code
// fences stripped, then on the first balanced JSON array/object found in
// the text. Models decorate their JSON in all three ways.
func UnmarshalLenient(raw string, v any) error {
	if err := json.Unmarshal([]byte(raw), v); err == nil {
		return nil
	}
	stripped := StripFences(raw)
	if err := json.Unmarshal([]byte(stripped), v); err == nil {
		return nil
	}
	if embedded, ok := extractJSON(stripped); ok {
		return json.Unmarshal([]byte(embedded), v)
	}
	return json.Unmarshal([]byte(stripped), v)
}

// extractJSON returns the first balanced top-level array or object in s.
func extractJSON(s string) (string, bool) {
	start := strings.IndexAny(s, "[{")
	if start < 0 {
		return "", false
	}
	open := s[start]
	var close byte = ']'
	if open == '{' {
		close = '}'
	}
	depth := 0
	inStr := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inStr {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
