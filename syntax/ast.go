// Package syntax defines the pattern AST and the backtracking matcher that
// runs directly on it.
//
// A compiled pattern is a tree of Node values. Every node knows how to match
// itself against a position in the input and lazily enumerates each candidate
// end position, in a fixed order, via an iterator. Composite nodes (sequences,
// alternations, quantifiers) drive backtracking purely by walking their
// children's iterators: when a later node fails, the enumeration naturally
// resumes at the previous node's next candidate. There is no compilation to
// byte code or automata, no memoization, and no position deduplication; the
// tree is the engine.
//
// Positions are rune offsets. Matching operates on []rune so that a candidate
// end position is always a whole-character boundary.
package syntax

import "iter"

// Kind identifies the variant of a Node.
type Kind uint8

const (
	// KindLiteral matches one specific character.
	KindLiteral Kind = iota

	// KindDot matches any single character, including newline.
	KindDot

	// KindCharClass matches one character from (or outside) a set.
	KindCharClass

	// KindStart is the zero-width start-of-text anchor.
	KindStart

	// KindEnd is the zero-width end-of-text anchor.
	KindEnd

	// KindSequence matches its children one after another.
	KindSequence

	// KindAlternation tries its left branch, then its right.
	KindAlternation

	// KindStar matches its child zero or more times, fewest first.
	KindStar

	// KindPlus matches its child one or more times, fewest first.
	KindPlus

	// KindQuestion matches its child zero or one time.
	KindQuestion

	// KindLazyStar matches its child zero or more times, shortest first.
	KindLazyStar

	// KindLazyPlus matches its child one or more times, shortest first.
	KindLazyPlus

	// KindLazyQuestion matches its child zero or one time, zero first.
	KindLazyQuestion

	// KindGroup is an explicit non-capturing group.
	KindGroup

	// KindLookahead asserts its child matches (or not) at the current position.
	KindLookahead

	// KindLookbehind asserts its child can end (or not) at the current position.
	KindLookbehind
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "Literal"
	case KindDot:
		return "Dot"
	case KindCharClass:
		return "CharClass"
	case KindStart:
		return "Start"
	case KindEnd:
		return "End"
	case KindSequence:
		return "Sequence"
	case KindAlternation:
		return "Alternation"
	case KindStar:
		return "Star"
	case KindPlus:
		return "Plus"
	case KindQuestion:
		return "Question"
	case KindLazyStar:
		return "LazyStar"
	case KindLazyPlus:
		return "LazyPlus"
	case KindLazyQuestion:
		return "LazyQuestion"
	case KindGroup:
		return "Group"
	case KindLookahead:
		return "Lookahead"
	case KindLookbehind:
		return "Lookbehind"
	default:
		return "Unknown"
	}
}

// Node is one vertex of a pattern AST.
//
// Match is the whole matching contract: given the input and a starting rune
// offset, it returns an iterator over every end position at which this node
// can match, in the node's preference order. An empty iteration means the
// node cannot match here. Callers stop consuming as soon as they are
// satisfied; because the iterators are lazy, unconsumed alternatives cost
// nothing.
//
// Nodes are immutable after construction and safe for concurrent use. Tools
// that rewrite or wrap trees (see the trace package) build new nodes rather
// than mutating existing ones.
type Node interface {
	// Kind identifies the node variant.
	Kind() Kind

	// Children returns the direct subexpressions, in evaluation order.
	// Leaf nodes return nil.
	Children() []Node

	// Match enumerates candidate end positions for a match of this node
	// starting at pos. Candidates are yielded lazily and in preference
	// order; pos itself is a valid candidate for zero-width matches.
	Match(text []rune, pos int) iter.Seq[int]
}

// Literal matches exactly one occurrence of Char.
type Literal struct {
	Char rune
}

// Dot matches any single character. Unlike most regex dialects it does not
// exclude newline.
type Dot struct{}

// CharClass matches a single character against a set. With Negated set, it
// matches any character outside the set. The set holds individual characters
// only; there is no range notation, so a pattern like [a-z] denotes the three
// characters 'a', '-' and 'z'.
type CharClass struct {
	Chars   map[rune]bool
	Negated bool
}

// Start anchors to position 0. Zero-width.
type Start struct{}

// End anchors to the end of the text. Zero-width.
type End struct{}

// Sequence matches each child in order, each continuing where the previous
// one ended. An empty sequence matches zero width at any position; it is
// what an empty pattern or empty group parses to.
type Sequence struct {
	Nodes []Node
}

// Alternation matches either branch, preferring Left. Chains like a|b|c
// parse to nested alternations leaning right.
type Alternation struct {
	Left  Node
	Right Node
}

// Star matches Sub zero or more times. The zero-repetition candidate comes
// first; repeated candidates commit to Sub's first choice at each step, so a
// Sub that can match zero width repeats forever. That is the documented cost
// of keeping the quantifier a plain generator over its child.
type Star struct {
	Sub Node
}

// Plus matches Sub one or more times. For each way Sub can make the first
// repetition, the follow-up repetitions extend it the same way Star does.
type Plus struct {
	Sub Node
}

// Question matches Sub zero or one time, zero first.
type Question struct {
	Sub Node
}

// LazyStar matches Sub zero or more times, preferring fewer repetitions. It
// enumerates by full recursion over Sub's candidates, so unlike Star it can
// revisit the same end position along different repetition paths.
type LazyStar struct {
	Sub Node
}

// LazyPlus matches Sub one or more times, preferring fewer repetitions.
type LazyPlus struct {
	Sub Node
}

// LazyQuestion matches Sub zero or one time, zero first.
type LazyQuestion struct {
	Sub Node
}

// Group wraps a subexpression parsed from (?:...). It adds nothing to
// matching and exists so the grouping is visible in the tree. A plain (...)
// does not produce a Group; its body is spliced in directly.
type Group struct {
	Sub Node
}

// Lookahead is the zero-width assertion (?=...) or, with Positive false,
// (?!...). It checks whether Sub can match starting at the current position
// and consumes nothing.
type Lookahead struct {
	Sub      Node
	Positive bool
}

// Lookbehind is the zero-width assertion (?<=...) or, with Positive false,
// (?<!...). It checks whether Sub can match ending exactly at the current
// position, by probing every start position from 0 up to the current one.
type Lookbehind struct {
	Sub      Node
	Positive bool
}

// Kind implementations.

func (n *Literal) Kind() Kind      { return KindLiteral }
func (n *Dot) Kind() Kind          { return KindDot }
func (n *CharClass) Kind() Kind    { return KindCharClass }
func (n *Start) Kind() Kind        { return KindStart }
func (n *End) Kind() Kind          { return KindEnd }
func (n *Sequence) Kind() Kind     { return KindSequence }
func (n *Alternation) Kind() Kind  { return KindAlternation }
func (n *Star) Kind() Kind         { return KindStar }
func (n *Plus) Kind() Kind         { return KindPlus }
func (n *Question) Kind() Kind     { return KindQuestion }
func (n *LazyStar) Kind() Kind     { return KindLazyStar }
func (n *LazyPlus) Kind() Kind     { return KindLazyPlus }
func (n *LazyQuestion) Kind() Kind { return KindLazyQuestion }
func (n *Group) Kind() Kind        { return KindGroup }
func (n *Lookahead) Kind() Kind    { return KindLookahead }
func (n *Lookbehind) Kind() Kind   { return KindLookbehind }

// Children implementations. Leaves return nil.

func (n *Literal) Children() []Node      { return nil }
func (n *Dot) Children() []Node          { return nil }
func (n *CharClass) Children() []Node    { return nil }
func (n *Start) Children() []Node        { return nil }
func (n *End) Children() []Node          { return nil }
func (n *Sequence) Children() []Node     { return n.Nodes }
func (n *Alternation) Children() []Node  { return []Node{n.Left, n.Right} }
func (n *Star) Children() []Node         { return []Node{n.Sub} }
func (n *Plus) Children() []Node         { return []Node{n.Sub} }
func (n *Question) Children() []Node     { return []Node{n.Sub} }
func (n *LazyStar) Children() []Node     { return []Node{n.Sub} }
func (n *LazyPlus) Children() []Node     { return []Node{n.Sub} }
func (n *LazyQuestion) Children() []Node { return []Node{n.Sub} }
func (n *Group) Children() []Node        { return []Node{n.Sub} }
func (n *Lookahead) Children() []Node    { return []Node{n.Sub} }
func (n *Lookbehind) Children() []Node   { return []Node{n.Sub} }
