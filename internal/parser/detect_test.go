package parser

import (
	"strings"
	"testing"

	"github.com/willfarrell/csv-rex/internal/tokenizer"
)

func TestDetectChar(t *testing.T) {
	tests := []struct {
		name       string
		sample     string
		candidates []string
		want       string
		wantOK     bool
	}{
		{"comma", "a,b,c\n1,2,3\n", tokenizer.DelimiterCandidates, ",", true},
		{"tab", "a\tb\tc", tokenizer.DelimiterCandidates, "\t", true},
		{"highest count", "a;b,c;d", tokenizer.DelimiterCandidates, ";", true},
		{"tie goes to first seen", "a,b;c", tokenizer.DelimiterCandidates, ",", true},
		{"threshold wins early", ";;;;;;" + strings.Repeat(",", 20), tokenizer.DelimiterCandidates, ";", true},
		{"record separator", "a\x1fb\x1fc", tokenizer.DelimiterCandidates, "\x1f", true},
		{"crlf over lf", "a\r\nb\r\nc\n", tokenizer.NewlineCandidates, "\r\n", true},
		{"lone cr", "a\rb\rc", tokenizer.NewlineCandidates, "\r", true},
		{"none", "abc", tokenizer.DelimiterCandidates, "", false},
		{"empty", "", tokenizer.NewlineCandidates, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DetectChar(tt.sample, tt.candidates)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("DetectChar(%q) = %q, %v; want %q, %v", tt.sample, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDetectSample(t *testing.T) {
	tests := []struct {
		s    string
		n    int
		want string
	}{
		{"abc", 10, "abc"},
		{"abcdef", 3, "abc"},
		{"héllo", 2, "h"},
		{"héllo", 3, "hé"},
	}
	for _, tt := range tests {
		if got := detectSample(tt.s, tt.n); got != tt.want {
			t.Errorf("detectSample(%q, %d) = %q, want %q", tt.s, tt.n, got, tt.want)
		}
	}
}

func FuzzDetectChar(f *testing.F) {
	f.Add("a,b,c\n1,2,3\n")
	f.Add("x\ty\r\nz")
	f.Add("")
	f.Fuzz(func(t *testing.T, sample string) {
		got, ok := DetectChar(sample, tokenizer.DelimiterCandidates)
		if ok != (got != "") {
			t.Fatalf("DetectChar(%q) = %q, %v", sample, got, ok)
		}
		if ok && !strings.Contains(sample, got) {
			t.Fatalf("DetectChar(%q) = %q, not in sample", sample, got)
		}
	})
}
