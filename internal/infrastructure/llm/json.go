// Package llm holds helpers shared by the language-model clients.
package llm

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoJSONObject is returned when a model response contains no JSON object
var ErrNoJSONObject = errors.New("no JSON object in model response")

// ExtractJSONObject returns the largest JSON object embedded in a model
// response. Models are instructed to return bare JSON but still wrap it in
// code fences or prose often enough that we extract defensively.
func ExtractJSONObject(content string) (string, bool) {
	trimmed := strings.TrimSpace(content)

	// Strip markdown code fences
	if strings.HasPrefix(trimmed, "```") {
		if idx := strings.Index(trimmed, "\n"); idx != -1 {
			trimmed = trimmed[idx+1:]
		}
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
		trimmed = strings.TrimSpace(trimmed)
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return trimmed[start : end+1], true
}

// DecodeObject extracts the JSON object from content and unmarshals it into v
func DecodeObject(content string, v any) error {
	raw, ok := ExtractJSONObject(content)
	if !ok {
		return ErrNoJSONObject
	}
	return json.Unmarshal([]byte(raw), v)
}

// RecordsFromList converts a decoded JSON list into record maps, dropping
// entries that are not objects. A missing or malformed list yields nil.
func RecordsFromList(v any) []map[string]any {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	records := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			records = append(records, m)
		}
	}
	return records
}
