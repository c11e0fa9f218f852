package recommendation

import (
	"encoding/json"
	"errors"
	"strings"
)

var errNoJSONObject = errors.New("no JSON object in model reply")

// extractJSONObject pulls the first balanced top-level JSON object out of
// free text. Model replies routinely wrap the object in prose or markdown
// fences, so a plain json.Unmarshal of the whole reply is not an option.
// Brace balancing is string-aware: braces inside JSON strings do not count.
func extractJSONObject(text string) (map[string]interface{}, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return nil, errNoJSONObject
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				var obj map[string]interface{}
				if err := json.Unmarshal([]byte(text[start:i+1]), &obj); err != nil {
					return nil, err
				}
				return obj, nil
			}
		}
	}
	return nil, errNoJSONObject
}

// stringField reads a non-empty string value out of an extracted object.
// JSON null and missing keys both come back as "".
func stringField(obj map[string]interface{}, key string) string {
	v, ok := obj[key]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
