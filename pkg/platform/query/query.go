// Package query parses the page and search parameters shared by list routes.
package query

import (
	"math"
	"strconv"
	"strings"
)

// ParsePage reads a 1-based page number. Anything that is not a single
// finite number of at least 1 yields page 1. Fractions are truncated.
func ParsePage(values []string) int {
	if len(values) != 1 {
		return 1
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(values[0]), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) || n < 1 {
		return 1
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

// ParseSearch reads a search term. A missing parameter is the empty search;
// a repeated parameter is not supported and reports ok=false.
func ParseSearch(values []string) (term string, ok bool) {
	switch len(values) {
	case 0:
		return "", true
	case 1:
		return values[0], true
	default:
		return "", false
	}
}
