package domain

import (
	"math"
	"strconv"
	"strings"
)

// DefaultRequestCount applies when no request count is supplied.
const DefaultRequestCount = 1.0

// ParseNumber parses a user-typed number.
//
// Thousands separators are ignored and a leading sign is accepted. When the
// cleaned text is still not a number, everything except digits, signs and the
// decimal point is dropped before a second attempt, so "$1,200" and
// "1000 tokens" both parse. Empty input and non-finite values report false.
func ParseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	s = strings.ReplaceAll(s, ",", "")
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return finite(v)
	}

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '+' || r == '-' || r == '.' {
			b.WriteRune(r)
		}
	}

	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return finite(v)
}

// ParseNumberOr parses raw and returns def when it is not a number.
func ParseNumberOr(raw string, def float64) float64 {
	if v, ok := ParseNumber(raw); ok {
		return v
	}
	return def
}

// ParseRequestCount parses the request multiplier. Missing or unparsable input
// yields 1; negative values clamp to 0.
func ParseRequestCount(raw string) float64 {
	return clampRequestCount(ParseNumberOr(raw, DefaultRequestCount))
}

func clampRequestCount(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func finite(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
