package parser

import (
	"unicode/utf8"

	"github.com/willfarrell/csv-rex/internal/tokenizer"
)

// detectThreshold is the occurrence count past which a candidate wins
// without scanning the rest of the sample.
const detectThreshold = 5

// DetectChar returns the candidate occurring most often in sample.
// A candidate seen more than five times wins immediately; ties go to the
// candidate seen first. ok is false when no candidate occurs.
func DetectChar(sample string, candidates []string) (char string, ok bool) {
	counts := make(map[string]int, len(candidates))
	var order []string

	tokenizer.Count(sample, candidates, func(c string) bool {
		if counts[c] == 0 {
			order = append(order, c)
		}
		counts[c]++
		if counts[c] > detectThreshold {
			char = c
			return false
		}
		return true
	})
	if char != "" {
		return char, true
	}

	best := 0
	for _, c := range order {
		if counts[c] > best {
			char, best = c, counts[c]
		}
	}
	return char, char != ""
}

// detectSample returns at most n leading bytes of s without splitting a
// UTF-8 sequence.
func detectSample(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
