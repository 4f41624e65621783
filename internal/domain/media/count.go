// internal/domain/media/count.go

package media

import (
	"strconv"
	"strings"
)

// ParseCount converts a human-readable count ("1,234", "12.3K", "1.2M",
// "2B") into an integer. Suffixes are case-sensitive. Unparseable input
// yields 0; the result is never negative.
func ParseCount(s string) int64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0
	}

	multiplier := 1.0
	switch {
	case strings.Contains(s, "K"):
		multiplier = 1_000
		s = strings.ReplaceAll(s, "K", "")
	case strings.Contains(s, "M"):
		multiplier = 1_000_000
		s = strings.ReplaceAll(s, "M", "")
	case strings.Contains(s, "B"):
		multiplier = 1_000_000_000
		s = strings.ReplaceAll(s, "B", "")
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}

	// Truncate toward zero after the multiplier, matching float math.
	n := int64(value * multiplier)
	if n < 0 {
		return 0
	}
	return n
}
