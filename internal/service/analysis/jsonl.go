// internal/service/analysis/jsonl.go

package analysis

import (
	"encoding/json"
	"strings"
)

// stripFences removes markdown code-fence markers from model output so
// the line scanner only sees content.
func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	return strings.ReplaceAll(s, "```", "")
}

// ParseJSONLines scans model output line by line and returns every line
// that yields a JSON object. Lines that look like prose are skipped;
// lines with surrounding junk are salvaged by extracting the substring
// from the first '{' to the last '}'. Lines that still don't parse are
// discarded, never surfaced as errors.
func ParseJSONLines(raw string) []json.RawMessage {
	var objects []json.RawMessage
	for _, line := range strings.Split(stripFences(raw), "\n") {
		if !strings.Contains(line, "{") && !strings.Contains(line, "}") {
			continue
		}
		if obj, ok := parseJSONLine(line); ok {
			objects = append(objects, obj)
		}
	}
	return objects
}

// parseJSONLine extracts one JSON object from a single line of text.
func parseJSONLine(line string) (json.RawMessage, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, false
	}

	if obj, ok := decodeObject(line); ok {
		return obj, true
	}

	start := strings.Index(line, "{")
	end := strings.LastIndex(line, "}")
	if start == -1 || end <= start {
		return nil, false
	}
	return decodeObject(line[start : end+1])
}

func decodeObject(s string) (json.RawMessage, bool) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &probe); err != nil {
		return nil, false
	}
	return json.RawMessage(s), true
}
