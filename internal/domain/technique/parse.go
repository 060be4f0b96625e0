package technique

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/quantum5d/quantum5d/internal/platform/fault"
)

var nonWord = regexp.MustCompile(`[^a-z0-9_]`)

// MakeIDKey derives a stable slug from a technique title: lowercase,
// whitespace collapsed to underscores, everything else stripped.
func MakeIDKey(title string) string {
	key := strings.ToLower(strings.TrimSpace(title))
	key = strings.Join(strings.Fields(key), "_")
	return nonWord.ReplaceAllString(key, "")
}

// ParseStructuredField parses a structured document that arrived as
// serialized JSON text from a free-text editor. A parse failure is a
// validation fault naming the offending field, never a generic error.
func ParseStructuredField(field, text string, dst interface{}) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(text), dst); err != nil {
		return fault.Validationf("campo %q contém JSON inválido: %v", field, err)
	}
	return nil
}

// ParseTargetConditions splits a comma-separated free-text list into
// trimmed, non-empty entries.
func ParseTargetConditions(text string) []string {
	var result []string
	for _, part := range strings.Split(text, ",") {
		if p := strings.TrimSpace(part); p != "" {
			result = append(result, p)
		}
	}
	return result
}
