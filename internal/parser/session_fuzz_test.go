package parser

import "testing"

// FuzzChunkSplit checks that splitting the input at any point yields the
// same events as parsing it in one piece.
func FuzzChunkSplit(f *testing.F) {
	f.Add("a,b,c\n1,2,3\n", 4)
	f.Add("a,b\n\"x,\"\"y\"\"\",z\n\n1,2", 9)
	f.Add("a\n\"open", 3)
	f.Add("\"a\"b,c\n", 2)
	f.Add("", 0)

	f.Fuzz(func(t *testing.T, input string, split int) {
		if len(input) > 0 {
			split %= len(input) + 1
			if split < 0 {
				split = -split
			}
		} else {
			split = 0
		}

		opts := DefaultOptions()
		opts.ErrorOnFieldMalformed = false
		whole, _, errWhole := feed(t, opts, input)
		parts, _, errParts := feed(t, opts, input[:split], input[split:])

		if (errWhole == nil) != (errParts == nil) {
			t.Fatalf("errors differ: whole=%v split=%v", errWhole, errParts)
		}
		if a, b := describe(whole), describe(parts); !equalStrings(a, b) {
			t.Fatalf("split at %d: %q != %q", split, b, a)
		}
	})
}
