package generator

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"unicode/utf8"
)

var (
	errEmptyResponse = errors.New("empty response")
	errNoObject      = errors.New("no JSON object in response")
)

// ExtractDocument pulls the JSON object out of a model response, tolerating
// markdown fences and prose around it.
func ExtractDocument(raw string) (json.RawMessage, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, errEmptyResponse
	}
	s = stripFences(s)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end <= start {
		return nil, errNoObject
	}
	candidate := []byte(s[start : end+1])

	// The object must decode as a whole; a value that is valid but
	// not an object (or trailing garbage) is rejected.
	var obj map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(candidate))
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("unexpected data after JSON object")
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, candidate); err != nil {
		return nil, err
	}
	return json.RawMessage(buf.Bytes()), nil
}

func stripFences(s string) string {
	if idx := strings.Index(s, "```json"); idx != -1 {
		s = s[idx+len("```json"):]
	} else if idx := strings.Index(s, "```"); idx != -1 {
		s = s[idx+3:]
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	return s
}

// Excerpt returns at most max bytes of raw, cut on a rune boundary.
func Excerpt(raw string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(raw) <= max {
		return raw
	}
	for max > 0 && !utf8.RuneStart(raw[max]) {
		max--
	}
	return raw[:max]
}
