package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var revisionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`REV\s*([A-Z0-9]+)`),
	regexp.MustCompile(`R(\d+)`),
	regexp.MustCompile(`V(\d+(\.\d+)?)`),
}

// ParseRevision extracts a revision marker such as "REV B", "R3" or "V2.1"
// from a file name.
func ParseRevision(filename string) (string, bool) {
	upper := strings.ToUpper(filename)
	for _, re := range revisionPatterns {
		if m := re.FindStringSubmatch(upper); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// ValidateMetadata keeps the allowed fields of raw, coerced to trimmed strings.
// Zero values and values that are blank after trimming are dropped.
func ValidateMetadata(raw map[string]any, allow []string) map[string]string {
	cleaned := make(map[string]string)
	for _, field := range allow {
		v, ok := raw[field]
		if !ok || isZero(v) {
			continue
		}
		s := strings.TrimSpace(fmt.Sprint(v))
		if s == "" {
			continue
		}
		cleaned[field] = s
	}
	return cleaned
}

func isZero(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case bool:
		return !x
	case int:
		return x == 0
	case int64:
		return x == 0
	case float64:
		return x == 0
	case []string:
		return len(x) == 0
	}
	return false
}
