package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// monthLayouts are tried in order when normalizing the weather month column.
var monthLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006-01",
}

// parseFinite parses s as a float64 and reports whether it is a finite number.
// Blank input is a failed parse.
func parseFinite(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseFloatOrZero parses s as a finite float64, returning 0 on failure.
func parseFloatOrZero(s string) float64 {
	v, _ := parseFinite(s)
	return v
}

// normalizeMonth formats a date-like value as YYYY-MM. Values that do not
// parse as a date fall back to their first seven characters.
func normalizeMonth(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range monthLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Format("2006-01")
		}
	}
	if r := []rune(raw); len(r) > 7 {
		return string(r[:7])
	}
	return raw
}

// round rounds v to the given number of decimal places.
func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
