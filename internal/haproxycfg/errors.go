package haproxycfg

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownSection is returned when a section header keyword is not recognized,
	// or a directive appears before any section
	ErrUnknownSection = errors.New("unknown section")

	// ErrMalformedBindLine is returned when a bind address cannot be split into host and port
	ErrMalformedBindLine = errors.New("malformed bind line")

	// ErrMalformedServerLine is returned when a server line is missing its name or address
	ErrMalformedServerLine = errors.New("malformed server line")

	// ErrMalformedUseBackendLine is returned when a use_backend rule is missing its backend or condition
	ErrMalformedUseBackendLine = errors.New("malformed use_backend line")
)

// ParseError identifies the line that could not be parsed
type ParseError struct {
	Line    int
	Section string
	Text    string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Section == "" {
		return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
	}

	return fmt.Sprintf("line %d (%s): %v: %q", e.Line, e.Section, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func newParseError(l line, section string, err error) error {
	return &ParseError{
		Line:    l.number,
		Section: section,
		Text:    l.text,
		Err:     err,
	}
}
