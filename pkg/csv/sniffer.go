package csv

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/willfarrell/csv-rex/internal/fastparser"
	"github.com/willfarrell/csv-rex/internal/parser"
	"github.com/willfarrell/csv-rex/internal/tokenizer"
)

// Candidate characters considered by detection.
var (
	NewlineCandidates   = tokenizer.NewlineCandidates
	DelimiterCandidates = tokenizer.DelimiterCandidates
)

// DetectChar returns the candidate occurring most often in sample. A
// candidate seen more than five times wins immediately and ties go to the
// candidate seen first. It returns an error wrapping ErrUnknownDetectChar
// when no candidate occurs.
func DetectChar(sample string, candidates []string) (string, error) {
	c, ok := parser.DetectChar(sample, candidates)
	if !ok {
		return "", fmt.Errorf("%w: none of %q found", ErrUnknownDetectChar, candidates)
	}
	return c, nil
}

// DetectNewline detects the newline sequence ("\r\n", "\n" or "\r").
func DetectNewline(sample string) (string, error) {
	return DetectChar(sample, NewlineCandidates)
}

// DetectDelimiter detects the delimiter among comma, tab, pipe, semicolon
// and the ASCII record and unit separators.
func DetectDelimiter(sample string) (string, error) {
	return DetectChar(sample, DelimiterCandidates)
}

// Sniffer detects the dialect of a sample and guesses whether its first
// line is a header.
type Sniffer struct {
	sample    string
	newline   string
	delimiter string
	hasHeader bool
	err       error
	analyzed  bool
}

// NewSniffer creates a new Sniffer with a sample of the input.
// For best results, provide at least 2-3 lines of data.
func NewSniffer(sample string) *Sniffer {
	return &Sniffer{sample: sample}
}

func (s *Sniffer) analyze() {
	if s.analyzed {
		return
	}
	s.analyzed = true
	if s.newline, s.err = DetectNewline(s.sample); s.err != nil {
		return
	}
	if s.delimiter, s.err = DetectDelimiter(s.sample); s.err != nil {
		return
	}
	s.hasHeader = s.detectHeader()
}

// Newline returns the detected newline sequence.
func (s *Sniffer) Newline() (string, error) {
	s.analyze()
	return s.newline, s.err
}

// Delimiter returns the detected delimiter.
func (s *Sniffer) Delimiter() (string, error) {
	s.analyze()
	return s.delimiter, s.err
}

// HasHeader reports whether the first line looks like a header.
func (s *Sniffer) HasHeader() bool {
	s.analyze()
	return s.hasHeader
}

// Options returns DefaultOptions with the detected dialect and header mode.
func (s *Sniffer) Options() (Options, error) {
	s.analyze()
	if s.err != nil {
		return Options{}, s.err
	}
	opts := DefaultOptions()
	opts.Newline = s.newline
	opts.Delimiter = s.delimiter
	if !s.hasHeader {
		opts.Header = HeaderNone
	}
	return opts, nil
}

// detectHeader scores the first line, which is a header when more of its
// fields look like names than like data. A sample with no second non-blank
// line has no header.
func (s *Sniffer) detectHeader() bool {
	first, next, ok := fastparser.NextLine(s.sample, 0, s.newline)
	if !ok {
		return false
	}
	var second string
	for next < len(s.sample) {
		second, next, _ = fastparser.NextLine(s.sample, next, s.newline)
		if second != "" {
			break
		}
	}
	if second == "" {
		return false
	}

	headerScore, dataScore := 0, 0
	for _, field := range fastparser.SplitFields(nil, first, s.delimiter) {
		field = strings.Trim(strings.TrimSpace(field), `"`)
		if isLikelyHeader(field) {
			headerScore++
		}
		if isLikelyData(field) {
			dataScore++
		}
	}
	return headerScore > dataScore
}

var (
	headerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_ -]*$`), // identifier, snake_case, kebab-case or spaced
		regexp.MustCompile(`^[a-zA-Z]+[A-Z][a-zA-Z]*$`),  // camelCase
	}
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`),
		regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`),
	}
)

// isLikelyHeader checks if a field looks like a column name.
func isLikelyHeader(s string) bool {
	if s == "" || isNumeric(s) {
		return false
	}
	for _, p := range headerPatterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// isLikelyData checks if a field looks like a value rather than a name.
func isLikelyData(s string) bool {
	if s == "" {
		return false
	}
	if isNumeric(s) || strings.Contains(s, "@") {
		return true
	}
	if strings.EqualFold(s, "true") || strings.EqualFold(s, "false") {
		return true
	}
	for _, p := range datePatterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
