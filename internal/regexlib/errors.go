package regexlib

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a parse failure.
type ErrorKind int

const (
	UnexpectedEndOfInput ErrorKind = iota + 1
	UnmatchedParenthesis
)

func (k ErrorKind) String() string {
	switch k {
	case UnexpectedEndOfInput:
		return "unexpected end of input"
	case UnmatchedParenthesis:
		return "unmatched parenthesis"
	}
	return "unknown parse error"
}

// Sentinels for errors.Is; every *ParseError matches the one of its kind.
var (
	ErrUnexpectedEndOfInput = errors.New("unexpected end of input")
	ErrUnmatchedParenthesis = errors.New("unmatched parenthesis")
)

// ParseError reports where Parse gave up. Pos is a byte offset into the
// pattern; for UnexpectedEndOfInput it equals len(pattern).
type ParseError struct {
	Kind ErrorKind
	Pos  int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: %s", e.Pos, e.Kind)
}

func (e *ParseError) Is(target error) bool {
	switch target {
	case ErrUnexpectedEndOfInput:
		return e.Kind == UnexpectedEndOfInput
	case ErrUnmatchedParenthesis:
		return e.Kind == UnmatchedParenthesis
	}
	return false
}

// ErrInvalidDFA is wrapped by every failure to decode a serialised DFA.
var ErrInvalidDFA = errors.New("invalid dfa")

// ErrInvalidUTF8 is returned by Compile and CheckUTF8 for a pattern that is
// not valid UTF-8. Parse itself reads such bytes as U+FFFD.
var ErrInvalidUTF8 = errors.New("pattern is not valid utf-8")

// CheckUTF8 returns an error wrapping ErrInvalidUTF8 that names the offset of
// the first malformed byte of s.
func CheckUTF8(s string) error {
	for i, r := range s {
		if invalidByte(s, i, r) {
			return fmt.Errorf("%w: bad byte at offset %d", ErrInvalidUTF8, i)
		}
	}
	return nil
}
