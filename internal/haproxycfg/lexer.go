package haproxycfg

import (
	"bufio"
	"io"
	"strings"
	"unicode"
)

const maxLineSize = 1024 * 1024

type lineKind int

const (
	// lineSection opens a new section
	lineSection lineKind = iota
	// lineDirective belongs to the currently open section
	lineDirective
)

// line is a classified, non-blank, non-comment input line
type line struct {
	number  int
	text    string
	kind    lineKind
	keyword string
	value   string
}

// lexer classifies input lines in a single forward pass
type lexer struct {
	scanner *bufio.Scanner
	number  int
}

func newLexer(r io.Reader) *lexer {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)

	return &lexer{scanner: s}
}

// next returns the next classified line. ok is false at end of input.
func (l *lexer) next() (line, bool, error) {
	for l.scanner.Scan() {
		l.number++

		raw := strings.TrimRight(l.scanner.Text(), "\r")
		text := strings.TrimSpace(raw)

		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		keyword, value := cutField(text)

		kind := lineDirective
		if isSectionHeader(keyword, !unicode.IsSpace(rune(raw[0]))) {
			kind = lineSection
			keyword = strings.ToLower(keyword)
		}

		return line{
			number:  l.number,
			text:    text,
			kind:    kind,
			keyword: keyword,
			value:   value,
		}, true, nil
	}

	return line{}, false, l.scanner.Err()
}

// otherSections are haproxy section keywords this package does not model.
// They only open a section when unindented, so an indented directive that
// happens to share a name is left alone.
var otherSections = map[string]bool{
	"cache":       true,
	"crt-store":   true,
	"fcgi-app":    true,
	"http-errors": true,
	"listen":      true,
	"log-forward": true,
	"mailers":     true,
	"peers":       true,
	"program":     true,
	"resolvers":   true,
	"ring":        true,
	"userlist":    true,
}

// isSectionHeader reports whether a line starting with keyword opens a section.
// The four modelled keywords do so at any indentation.
func isSectionHeader(keyword string, unindented bool) bool {
	switch k := strings.ToLower(keyword); k {
	case sectionGlobal, sectionDefaults, sectionFrontend, sectionBackend:
		return true
	default:
		return unindented && otherSections[k]
	}
}

// cutField splits s into its first whitespace-delimited token and the trimmed remainder
func cutField(s string) (string, string) {
	s = strings.TrimSpace(s)

	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}

	return s[:i], strings.TrimSpace(s[i:])
}
