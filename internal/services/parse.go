package services

import (
	"strings"

	"github.com/tidwall/gjson"
)

// ParseOutcome records how a model reply was turned into JSON.
type ParseOutcome string

const (
	ParseDirect    ParseOutcome = "direct"
	ParseRecovered ParseOutcome = "recovered"
	ParseFallback  ParseOutcome = "fallback"
)

// parseModelJSON reads a model reply as a JSON object. Replies wrapped in
// prose or markdown fences are recovered by extracting the embedded object.
// The returned result is only meaningful when the outcome is not ParseFallback.
func parseModelJSON(raw string) (gjson.Result, ParseOutcome) {
	text := strings.TrimSpace(raw)
	if obj, ok := asObject(text); ok {
		return obj, ParseDirect
	}

	if obj, ok := asObject(trimCodeFence(text)); ok {
		return obj, ParseRecovered
	}

	if obj, ok := extractObject(text); ok {
		return obj, ParseRecovered
	}

	return gjson.Result{}, ParseFallback
}

// asObject accepts only a JSON object; bare arrays or scalars are a miss.
func asObject(s string) (gjson.Result, bool) {
	if s == "" || !gjson.Valid(s) {
		return gjson.Result{}, false
	}
	r := gjson.Parse(s)
	return r, r.IsObject()
}

func trimCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// extractObject returns the first balanced {...} span that parses as an
// object. Stray braces in surrounding prose move the scan to the next '{'.
func extractObject(s string) (gjson.Result, bool) {
	for start := strings.Index(s, "{"); start >= 0; {
		if span, ok := balancedFrom(s, start); ok {
			if obj, ok := asObject(span); ok {
				return obj, true
			}
		}
		next := strings.Index(s[start+1:], "{")
		if next < 0 {
			break
		}
		start += next + 1
	}
	return gjson.Result{}, false
}

// balancedFrom returns the span starting at s[start] == '{' up to its matching
// '}', ignoring braces inside string literals.
func balancedFrom(s string, start int) (string, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
