package tokenizer

import (
	"sort"

	"github.com/shapestone/shape-core/pkg/tokenizer"
)

// NewCandidateTokenizer creates a tokenizer that recognizes the given
// candidate sequences.
//
// Matchers are registered longest first, so overlapping candidates resolve
// greedily (CRLF before LF). Everything else is folded into TokenOther runs.
// Whitespace is significant here since tab is a delimiter candidate.
func NewCandidateTokenizer(candidates []string) tokenizer.Tokenizer {
	ordered := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c != "" {
			ordered = append(ordered, c)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i]) > len(ordered[j])
	})

	starts := make(map[rune]bool, len(ordered))
	matchers := make([]tokenizer.Matcher, 0, len(ordered)+1)
	for _, c := range ordered {
		matchers = append(matchers, tokenizer.StringMatcherFunc(TokenCandidate, c))
		starts[[]rune(c)[0]] = true
	}
	matchers = append(matchers, OtherMatcher(starts))

	return tokenizer.NewTokenizerWithoutWhitespace(matchers...)
}

// OtherMatcher matches a run of characters up to the next rune that may start
// a candidate. It always consumes at least one rune so that a candidate start
// which does not complete a candidate (a lone '\r' when only "\r\n" is
// registered) cannot stall the tokenizer.
func OtherMatcher(starts map[rune]bool) tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		var value []rune

		for {
			r, ok := stream.PeekChar()
			if !ok {
				break
			}
			if len(value) > 0 && starts[r] {
				break
			}
			stream.NextChar()
			value = append(value, r)
		}

		if len(value) == 0 {
			return nil
		}
		return tokenizer.NewToken(TokenOther, value)
	}
}

// Count tokenizes sample and calls fn for every candidate occurrence, in
// order. It stops early when fn returns false.
func Count(sample string, candidates []string, fn func(candidate string) bool) {
	tok := NewCandidateTokenizer(candidates)
	tok.Initialize(sample)
	for {
		token, ok := tok.NextToken()
		if !ok {
			return
		}
		if token.Kind() != TokenCandidate {
			continue
		}
		if !fn(token.ValueString()) {
			return
		}
	}
}
