package syntax

import (
	"errors"
	"fmt"
)

// Parse error causes. Every parse failure is an *Error wrapping one of
// these, so callers can test the cause with errors.Is.
var (
	// ErrUnexpectedEOF indicates the pattern ended where an atom was required
	ErrUnexpectedEOF = errors.New("unexpected end of pattern")

	// ErrUnexpectedChar indicates a character the grammar cannot place,
	// such as an unmatched ')' after a complete expression
	ErrUnexpectedChar = errors.New("unexpected character")

	// ErrUnescapedSpecial indicates a metacharacter used where a literal
	// or atom was expected, e.g. a quantifier with nothing to repeat
	ErrUnescapedSpecial = errors.New("unescaped special character")

	// ErrMissingParen indicates an unclosed plain group
	ErrMissingParen = errors.New("missing closing parenthesis")

	// ErrUnclosedGroup indicates an unclosed (?: group
	ErrUnclosedGroup = errors.New("unclosed group")

	// ErrUnclosedLookahead indicates an unclosed (?= or (?! assertion
	ErrUnclosedLookahead = errors.New("unclosed lookahead")

	// ErrUnclosedLookbehind indicates an unclosed (?<= or (?<! assertion
	ErrUnclosedLookbehind = errors.New("unclosed lookbehind")

	// ErrUnclosedClass indicates a character class with no closing ']'
	ErrUnclosedClass = errors.New("unclosed character class")

	// ErrTrailingEscape indicates a pattern ending in a bare backslash
	ErrTrailingEscape = errors.New("pattern ends with an escape character")
)

// Error describes a pattern that failed to parse. Pos is the rune offset at
// which parsing stopped, not a byte offset.
type Error struct {
	Pattern string
	Pos     int
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v at position %d", e.Pattern, e.Err, e.Pos)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}
