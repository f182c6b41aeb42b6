package document

import (
	"encoding/json"
	"fmt"
	"strings"
)

const titleKey = "title"

// reservedFieldKeys are claimed by the storage layer and must never appear
// in extracted fields. Colliding keys are stripped before merge.
var reservedFieldKeys = map[string]struct{}{
	"id":                {},
	"owner_id":          {},
	"source_image_name": {},
	"created_at":        {},
	"__version":         {},
}

// NormalizeFields parses the raw model response into structured fields.
//
// The model is instructed to answer with bare JSON but may wrap it in prose
// or markdown fences, so the text between the first '{' and the last '}' is
// sliced out and parsed strictly. This assumes a single JSON object with no
// '}' inside a string value after the real closing brace; responses that
// violate that fail parsing rather than being silently mangled.
func NormalizeFields(rawText string) (Fields, error) {
	text := strings.TrimSpace(rawText)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")

	startIdx := strings.Index(text, "{")
	endIdx := strings.LastIndex(text, "}")
	if startIdx == -1 || endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("%w: no JSON structure in response", ErrNormalization)
	}
	text = text[startIdx : endIdx+1]

	var fields Fields
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		// also rejects arrays and scalars, which have no key to merge under
		return nil, fmt.Errorf("%w: invalid JSON in response: %v", ErrNormalization, err)
	}

	for key := range fields {
		if _, reserved := reservedFieldKeys[key]; reserved {
			delete(fields, key)
		}
	}

	title, _ := fields[titleKey].(string)
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: missing title", ErrNormalization)
	}
	fields[titleKey] = strings.TrimSpace(title)

	return fields, nil
}
