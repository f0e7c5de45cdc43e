package command

import (
	"math/rand"
	"strings"

	glob "github.com/ryanuber/go-glob"
)

// parseScanOptions reads the trailing MATCH pattern / COUNT hint shared by
// HSCAN/SSCAN/ZSCAN. COUNT is accepted for wire compatibility but this
// store scans its full backing collection per call regardless (spec.md's
// SCAN cursor contract only requires eventual completeness, not a fixed
// per-call work bound).
func parseScanOptions(rest []string) (pattern string, count int) {
	count = 10
	i := 0
	for i < len(rest) {
		switch strings.ToUpper(rest[i]) {
		case "MATCH":
			if i+1 < len(rest) {
				pattern = rest[i+1]
			}
			i += 2
		case "COUNT":
			if i+1 < len(rest) {
				if n, ok := parseIndex(rest[i+1]); ok {
					count = n
				}
			}
			i += 2
		default:
			i++
		}
	}
	return pattern, count
}

func matchGlob(pattern, value string) bool {
	if pattern == "" || pattern == "*" {
		return true
	}
	return glob.Glob(pattern, value)
}

func fastRandIndex(n int) int {
	if n <= 0 {
		return 0
	}
	return rand.Intn(n)
}
