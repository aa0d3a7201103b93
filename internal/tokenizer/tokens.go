// Package tokenizer splits a text sample into candidate-character tokens using
// Shape's tokenizer framework.
//
// It is used by dialect detection: every occurrence of a candidate newline or
// delimiter sequence becomes a TokenCandidate, and every run of other text
// becomes a TokenOther.
package tokenizer

// Token kinds emitted by the candidate tokenizer.
const (
	// TokenCandidate is one occurrence of a candidate sequence.
	TokenCandidate = "Candidate"

	// TokenOther is a run of text containing no candidate sequence.
	TokenOther = "Other"
)

// Candidate sets used by dialect detection. Longer sequences come first so
// "\r\n" wins over "\r" and "\n".
var (
	NewlineCandidates   = []string{"\r\n", "\n", "\r"}
	DelimiterCandidates = []string{",", "\t", "|", ";", "\x1e", "\x1f"}
)
