package httputil

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// HeaderValue represent a value and its quality value (priority)
// in a multi-values HTTP header.
type HeaderValue struct {
	Value    string
	Priority float64
}

var qualityValueRegex = regexp.MustCompile(`^(0(?:\.[0-9]{0,3})?|1(?:\.0{0,3})?)$`)

// ParseMultiValuesHeader parses multi-values HTTP headers, taking the
// quality values into account. The result is a slice of values sorted
// according to the order of priority. Values with the same priority are
// sorted by specificity, the most specific first. Values with the same
// priority and specificity keep the order in which they appear in the header.
//
// The quality value is removed from the returned values, other parameters
// are kept. The "q" key is case-insensitive. A value without quality value
// has a priority of 1. If the quality value cannot be parsed, the priority is 0.
// Empty parameters are dropped. Commas and semicolons inside quoted strings
// don't separate values or parameters.
//
// The input is trimmed. If the input is empty, returns an empty slice.
//
// See: https://developer.mozilla.org/en-US/docs/Glossary/Quality_values
//
// For the following header:
//
//	"text/html;level=1,text/*;q=0.5,*/*;q=0.7"
//
// returns
//
//	[{text/html;level=1 1} {*/* 0.7} {text/* 0.5}]
func ParseMultiValuesHeader(header string) []HeaderValue {
	h := strings.TrimSpace(header)
	if h == "" {
		return []HeaderValue{}
	}

	entries := splitQuoted(h, ',')
	values := make([]HeaderValue, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		values = append(values, parseValue(entry))
	}

	slices.SortStableFunc(values, compareValues)
	return values
}

func parseValue(entry string) HeaderValue {
	segments := splitQuoted(entry, ';')
	val := HeaderValue{Priority: 1}
	kept := make([]string, 1, len(segments))
	kept[0] = strings.TrimSpace(segments[0])
	for _, s := range segments[1:] {
		param := strings.TrimSpace(s)
		if param == "" {
			continue
		}
		key, value, _ := strings.Cut(param, "=")
		if !strings.EqualFold(strings.TrimSpace(key), "q") {
			kept = append(kept, s)
			continue
		}
		// Priority set to 0 if the quality value cannot be parsed
		val.Priority = 0
		if sub := qualityValueRegex.FindStringSubmatch(strings.TrimSpace(value)); len(sub) > 1 {
			if p, err := strconv.ParseFloat(sub[1], 64); err == nil {
				val.Priority = p
			}
		}
	}
	val.Value = strings.Join(kept, ";")
	return val
}

// splitQuoted splits s around each instance of sep found outside
// of a quoted string. Backslash escapes are honored inside quoted strings.
func splitQuoted(s string, sep byte) []string {
	parts := []string{}
	start := 0
	quoted := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case quoted && c == '\\':
			escaped = true
		case c == '"':
			quoted = !quoted
		case !quoted && c == sep:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}
