// Package backrex is a pure backtracking regular expression engine.
//
// backrex trades speed for transparency. A pattern compiles to an AST and
// nothing else; matching walks the tree directly, with every node lazily
// enumerating its candidate end positions. There are no automata, no
// prefilters, no memoization and no match-time caches, which makes the
// engine small enough to read in one sitting and easy to instrument (see
// the trace and inspect packages).
//
// Basic usage:
//
//	// Compile a pattern
//	re, err := backrex.Compile(`a(b|c)*d`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Full match
//	re.Match("abcbcd") // true
//
//	// Leftmost occurrence
//	start, end, ok := re.Search("xxabcbcdyy") // 2, 8, true
//
//	// Every non-overlapping occurrence
//	spans := backrex.MustCompile(`a+b`).FindAll("aabab")
//	// [{0 3} {3 5}]
//
// Dialect. The syntax is a deliberately small regex subset: literals,
// '.', classes like [abc] and [^abc], anchors '^' and '$', quantifiers
// '*' '+' '?', alternation, (...) and (?:...) groups, and the four
// lookaround assertions (?=...) (?!...) (?<=...) (?<!...). A backslash
// always makes the next character literal, so there are no escape classes:
// \d is the letter d. Classes have no ranges: [a-z] is the three characters
// 'a', '-', 'z'. There is no lazy-quantifier syntax and no counted
// repetition.
//
// Positions. All offsets, including parse error positions and the spans
// returned by Search and FindAll, count runes, not bytes.
//
// Cost model. First match wins, in the candidate order the AST defines;
// there is no leftmost-longest rule. Matching can take exponential time on
// adversarial patterns, and a starred subexpression that matches zero width
// (such as (a*)*b on text without b) enumerates forever. Both are the
// documented price of keeping the engine a plain generator over the tree;
// callers who need guarantees want a production engine instead.
package backrex

import (
	"fmt"

	"github.com/coregx/backrex/syntax"
)

// Pattern is a compiled regular expression.
//
// A Pattern is immutable and safe for concurrent use by multiple
// goroutines.
//
// Example:
//
//	re := backrex.MustCompile(`hello`)
//	if re.Match("hello") {
//	    println("matched!")
//	}
type Pattern struct {
	expr string
	root syntax.Node
}

// Span is one match location. Start and End are rune offsets into the
// searched text; the match covers [Start, End).
type Span struct {
	Start int
	End   int
}

// String renders the span as a half-open interval.
func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}

// Compile parses a pattern into a Pattern.
//
// On a syntax error it returns a *syntax.Error carrying the cause and the
// rune offset where parsing stopped.
//
// Example:
//
//	re, err := backrex.Compile(`(ab)+c?`)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(pattern string) (*Pattern, error) {
	root, err := syntax.Parse(pattern)
	if err != nil {
		return nil, err
	}
	return &Pattern{
		expr: pattern,
		root: root,
	}, nil
}

// MustCompile is Compile for patterns known to be valid; it panics on a
// syntax error.
//
// Example:
//
//	var scenePattern = backrex.MustCompile(`(?:INT|EXT)\..+`)
func MustCompile(pattern string) *Pattern {
	re, err := Compile(pattern)
	if err != nil {
		panic("backrex: Compile(`" + pattern + "`): " + err.Error())
	}
	return re
}

// FromNode wraps an existing AST in a Pattern, bypassing the parser. expr
// is what String will report; it does not have to reparse to root.
//
// This is the entry point for tooling that builds or rewrites trees, such
// as instrumentation that wraps every node (see the trace package) or
// hand-built trees using the lazy quantifier variants the parser has no
// syntax for. Everything else should use Compile.
func FromNode(expr string, root syntax.Node) *Pattern {
	return &Pattern{
		expr: expr,
		root: root,
	}
}

// Match reports whether the pattern matches the entire text.
//
// The whole input must be covered: MustCompile(`a+`).Match("aab") is false
// because of the trailing b. Use Search for substring matching.
//
// Example:
//
//	re := backrex.MustCompile(`a*b`)
//	re.Match("aaab") // true
//	re.Match("aaabc") // false
func (p *Pattern) Match(text string) bool {
	runes := []rune(text)
	for end := range p.root.Match(runes, 0) {
		if end == len(runes) {
			return true
		}
	}
	return false
}

// Search finds the first occurrence of the pattern in text. It returns the
// match's rune offsets and true, or -1, -1, false when nothing matches.
//
// Start positions are tried left to right, and at each the AST's first
// candidate wins, so the result is the leftmost match with the pattern's
// preferred extent rather than the leftmost-longest one: a greedy
// quantifier takes as much as its first successful walk happens to take,
// and `z*` matches empty at position 0 of any text.
//
// Example:
//
//	re := backrex.MustCompile(`a+b`)
//	start, end, ok := re.Search("xaaabyz") // 1, 5, true
func (p *Pattern) Search(text string) (start, end int, ok bool) {
	runes := []rune(text)
	for s := 0; s <= len(runes); s++ {
		for e := range p.root.Match(runes, s) {
			return s, e, true
		}
	}
	return -1, -1, false
}

// FindAll returns every non-overlapping match in text, leftmost first. A
// pattern that can match zero width yields an empty span at each position
// it matches, including one past the last character.
//
// After each match the scan resumes at the match end, or one rune further
// for empty matches so the loop always advances.
//
// Example:
//
//	backrex.MustCompile(`a+b`).FindAll("aabab")
//	// [{0 3} {3 5}]
//	backrex.MustCompile(`z*`).FindAll("abc")
//	// [{0 0} {1 1} {2 2} {3 3}]
func (p *Pattern) FindAll(text string) []Span {
	runes := []rune(text)
	var spans []Span
	pos := 0
	for pos <= len(runes) {
		found := false
		for end := range p.root.Match(runes, pos) {
			spans = append(spans, Span{Start: pos, End: end})
			pos = max(pos+1, end)
			found = true
			break
		}
		if !found {
			pos++
		}
	}
	return spans
}

// String returns the source text used to compile the pattern.
func (p *Pattern) String() string {
	return p.expr
}

// Root returns the pattern's AST. The tree is shared, not copied; it is
// immutable and callers must treat it that way. Tooling that wants a
// modified tree builds a new one and rewraps it with FromNode.
func (p *Pattern) Root() syntax.Node {
	return p.root
}

// QuoteMeta returns a string that escapes every metacharacter in text; the
// result is a pattern matching text literally.
//
// Example:
//
//	escaped := backrex.QuoteMeta("3.14 (approx)")
//	// escaped = `3\.14 \(approx\)`
//	backrex.MustCompile(escaped).Match("3.14 (approx)") // true
func QuoteMeta(text string) string {
	// The characters the parser gives meaning to. Braces are absent on
	// purpose: this dialect has no counted repetition.
	const special = `\.+*?()|[]^$`

	n := 0
	for _, r := range text {
		if isSpecial(r, special) {
			n++
		}
	}
	if n == 0 {
		return text
	}

	buf := make([]rune, 0, len(text)+n)
	for _, r := range text {
		if isSpecial(r, special) {
			buf = append(buf, '\\')
		}
		buf = append(buf, r)
	}
	return string(buf)
}

// isSpecial returns true if r is in the special characters string.
func isSpecial(r rune, special string) bool {
	for _, s := range special {
		if r == s {
			return true
		}
	}
	return false
}
