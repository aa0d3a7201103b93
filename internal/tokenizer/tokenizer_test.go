package tokenizer

import (
	"reflect"
	"testing"
)

func TestNewCandidateTokenizer_Tokens(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		candidates []string
		expected   []struct {
			kind  string
			value string
		}
	}{
		{
			name:       "crlf wins over cr and lf",
			input:      "a\r\nb",
			candidates: NewlineCandidates,
			expected: []struct {
				kind  string
				value string
			}{
				{TokenOther, "a"},
				{TokenCandidate, "\r\n"},
				{TokenOther, "b"},
			},
		},
		{
			name:       "registration order does not matter",
			input:      "\r\n\n",
			candidates: []string{"\n", "\r", "\r\n"},
			expected: []struct {
				kind  string
				value string
			}{
				{TokenCandidate, "\r\n"},
				{TokenCandidate, "\n"},
			},
		},
		{
			name:       "tab is significant",
			input:      "a\tb c",
			candidates: DelimiterCandidates,
			expected: []struct {
				kind  string
				value string
			}{
				{TokenOther, "a"},
				{TokenCandidate, "\t"},
				{TokenOther, "b c"},
			},
		},
		{
			name:       "lone start rune is consumed as other",
			input:      "a\rb",
			candidates: []string{"\r\n"},
			expected: []struct {
				kind  string
				value string
			}{
				{TokenOther, "a"},
				{TokenOther, "\rb"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := NewCandidateTokenizer(tt.candidates)
			tok.Initialize(tt.input)

			for i, exp := range tt.expected {
				token, ok := tok.NextToken()
				if !ok {
					t.Fatalf("token %d: expected token, got none (expected %s: %q)", i, exp.kind, exp.value)
				}
				if token.Kind() != exp.kind {
					t.Errorf("token %d: expected kind %s, got %s (value: %q)", i, exp.kind, token.Kind(), token.ValueString())
				}
				if token.ValueString() != exp.value {
					t.Errorf("token %d: expected value %q, got %q", i, exp.value, token.ValueString())
				}
			}

			if token, ok := tok.NextToken(); ok {
				t.Errorf("expected no more tokens, got %s: %q", token.Kind(), token.ValueString())
			}
		})
	}
}

func TestCount(t *testing.T) {
	var got []string
	Count("a;b,c\r\nd|e", DelimiterCandidates, func(c string) bool {
		got = append(got, c)
		return true
	})
	want := []string{";", ",", "|"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Count() = %q, want %q", got, want)
	}
}

func TestCount_StopsEarly(t *testing.T) {
	calls := 0
	Count(",,,,,", DelimiterCandidates, func(string) bool {
		calls++
		return calls < 2
	})
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}
