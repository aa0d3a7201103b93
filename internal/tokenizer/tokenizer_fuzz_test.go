//go:build go1.18
// +build go1.18

package tokenizer

import (
	"strings"
	"testing"
)

// FuzzCandidateTokenizer checks that tokenizing never panics and that the
// tokens always reassemble into the input.
// Run with: go test -fuzz=FuzzCandidateTokenizer -fuzztime=30s ./internal/tokenizer
func FuzzCandidateTokenizer(f *testing.F) {
	seeds := []string{
		"",
		"a",
		"\r",
		"\r\n",
		"a,b\r\nc;d",
		"\x1e\x1f|\t",
		"héllo,wörld\n",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		candidates := append(append([]string{}, NewlineCandidates...), DelimiterCandidates...)
		tok := NewCandidateTokenizer(candidates)
		tok.Initialize(input)

		var sb strings.Builder
		for {
			token, ok := tok.NextToken()
			if !ok {
				break
			}
			sb.WriteString(token.ValueString())
		}
		if strings.ToValidUTF8(input, "�") == input && sb.String() != input {
			t.Errorf("tokens reassemble to %q, want %q", sb.String(), input)
		}
	})
}
