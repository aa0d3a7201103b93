package fastparser

import "strings"

// NextLine returns the line starting at from and the offset just past its
// newline. ok is false when no newline follows; line is then the unterminated
// remainder of s.
func NextLine(s string, from int, newline string) (line string, next int, ok bool) {
	i := strings.Index(s[from:], newline)
	if i < 0 {
		return s[from:], len(s), false
	}
	return s[from : from+i], from + i + len(newline), true
}

// SplitFields appends the delimiter-separated fields of line to dst and
// returns the extended slice. An empty line yields a single empty field.
func SplitFields(dst []string, line, delimiter string) []string {
	for {
		i := strings.Index(line, delimiter)
		if i < 0 {
			return append(dst, line)
		}
		dst = append(dst, line[:i])
		line = line[i+len(delimiter):]
	}
}
