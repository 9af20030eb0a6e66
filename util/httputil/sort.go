package httputil

import (
	"cmp"
	"strings"
)

func compareValues(a, b HeaderValue) int {
	if a.Priority != b.Priority {
		return cmp.Compare(b.Priority, a.Priority)
	}
	return cmp.Compare(specificity(b), specificity(a))
}

// specificity "text/html;level=1" > "text/html" > "text/*" > "*/*"
func specificity(value HeaderValue) int {
	return strings.Count(value.Value, "/") + strings.Count(value.Value, ";") - strings.Count(value.Value, "*")
}
