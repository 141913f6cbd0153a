package syntax

import "iter"

// This file holds the Match implementation for every node variant. Together
// they are the entire matching engine: backtracking falls out of composing
// the iterators, with no explicit state machine.
//
// Each Match returns a lazy sequence of candidate end positions. The order
// the candidates appear in is part of the contract; the facade's "first
// candidate wins" rule turns that order into the engine's match policy.

// Match yields pos+1 if the character at pos equals Char.
func (n *Literal) Match(text []rune, pos int) iter.Seq[int] {
	return func(yield func(int) bool) {
		if pos < len(text) && text[pos] == n.Char {
			yield(pos + 1)
		}
	}
}

// Match yields pos+1 if any character is present at pos.
func (n *Dot) Match(text []rune, pos int) iter.Seq[int] {
	return func(yield func(int) bool) {
		if pos < len(text) {
			yield(pos + 1)
		}
	}
}

// Match yields pos+1 if the character's set membership agrees with the
// class polarity.
func (n *CharClass) Match(text []rune, pos int) iter.Seq[int] {
	return func(yield func(int) bool) {
		if pos < len(text) && n.Chars[text[pos]] != n.Negated {
			yield(pos + 1)
		}
	}
}

// Match yields pos only at the start of the text.
func (n *Start) Match(text []rune, pos int) iter.Seq[int] {
	return func(yield func(int) bool) {
		if pos == 0 {
			yield(pos)
		}
	}
}

// Match yields pos only at the end of the text.
func (n *End) Match(text []rune, pos int) iter.Seq[int] {
	return func(yield func(int) bool) {
		if pos == len(text) {
			yield(pos)
		}
	}
}

// Match enumerates end positions for the whole sequence. Each child's
// candidates are tried in order, and for each one the rest of the sequence
// is matched from where that candidate ends. Exhausting the tail resumes
// the head at its next candidate, which is all the backtracking there is.
func (n *Sequence) Match(text []rune, pos int) iter.Seq[int] {
	return func(yield func(int) bool) {
		n.matchFrom(text, pos, 0, yield)
	}
}

// matchFrom matches children [idx:] starting at pos. It reports whether the
// consumer is still accepting candidates; false propagates up to stop every
// in-flight enumeration.
func (n *Sequence) matchFrom(text []rune, pos, idx int, yield func(int) bool) bool {
	if idx == len(n.Nodes) {
		return yield(pos)
	}
	for end := range n.Nodes[idx].Match(text, pos) {
		if !n.matchFrom(text, end, idx+1, yield) {
			return false
		}
	}
	return true
}

// Match yields every candidate of the left branch, then every candidate of
// the right branch.
func (n *Alternation) Match(text []rune, pos int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for end := range n.Left.Match(text, pos) {
			if !yield(end) {
				return
			}
		}
		for end := range n.Right.Match(text, pos) {
			if !yield(end) {
				return
			}
		}
	}
}

// Match yields pos for zero repetitions first, then extends one repetition
// at a time. Each extension commits to the child's first candidate at the
// current position, so the repeated candidates walk forward greedily rather
// than exploring every combination. A child that matches zero width keeps
// yielding the same position forever; see the package comment.
func (n *Star) Match(text []rune, pos int) iter.Seq[int] {
	return func(yield func(int) bool) {
		if !yield(pos) {
			return
		}
		cur := pos
		for {
			advanced := false
			for end := range n.Sub.Match(text, cur) {
				if !yield(end) {
					return
				}
				cur = end
				advanced = true
				break
			}
			if !advanced {
				return
			}
		}
	}
}

// Match requires at least one repetition. Every way the child can make the
// first repetition is tried in turn; each is extended greedily the same way
// Star extends.
func (n *Plus) Match(text []rune, pos int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for first := range n.Sub.Match(text, pos) {
			if !yield(first) {
				return
			}
			cur := first
			for {
				advanced := false
				for end := range n.Sub.Match(text, cur) {
					if !yield(end) {
						return
					}
					cur = end
					advanced = true
					break
				}
				if !advanced {
					break
				}
			}
		}
	}
}

// Match yields the zero-repetition candidate, then every one-repetition
// candidate of the child.
func (n *Question) Match(text []rune, pos int) iter.Seq[int] {
	return func(yield func(int) bool) {
		if !yield(pos) {
			return
		}
		for end := range n.Sub.Match(text, pos) {
			if !yield(end) {
				return
			}
		}
	}
}

// Match prefers fewer repetitions: pos first, then for each way the child
// consumes one repetition, the same enumeration again from there. The
// recursion revisits positions reachable along different repetition paths,
// so duplicates are possible.
func (n *LazyStar) Match(text []rune, pos int) iter.Seq[int] {
	return func(yield func(int) bool) {
		lazyMatch(n.Sub, text, pos, yield)
	}
}

// Match requires one repetition, preferring as few as possible beyond it.
// Each first-repetition candidate is yielded and then extended lazily, which
// yields that candidate a second time as the zero-extension case.
func (n *LazyPlus) Match(text []rune, pos int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for mid := range n.Sub.Match(text, pos) {
			if !yield(mid) {
				return
			}
			if !lazyMatch(n.Sub, text, mid, yield) {
				return
			}
		}
	}
}

// lazyMatch is the shared shortest-first enumeration for LazyStar and
// LazyPlus: yield the current position, then recurse through each way sub
// can consume one more repetition. Reports whether the consumer is still
// accepting candidates.
func lazyMatch(sub Node, text []rune, pos int, yield func(int) bool) bool {
	if !yield(pos) {
		return false
	}
	for mid := range sub.Match(text, pos) {
		if !lazyMatch(sub, text, mid, yield) {
			return false
		}
	}
	return true
}

// Match yields the zero case first, then the child's candidates. Identical
// to Question; the variant exists so intent survives in the tree.
func (n *LazyQuestion) Match(text []rune, pos int) iter.Seq[int] {
	return func(yield func(int) bool) {
		if !yield(pos) {
			return
		}
		for end := range n.Sub.Match(text, pos) {
			if !yield(end) {
				return
			}
		}
	}
}

// Match delegates to the grouped subexpression.
func (n *Group) Match(text []rune, pos int) iter.Seq[int] {
	return n.Sub.Match(text, pos)
}

// Match checks whether the child can match at pos, taking at most one
// candidate, and yields pos when the outcome agrees with Positive. Zero
// width either way.
func (n *Lookahead) Match(text []rune, pos int) iter.Seq[int] {
	return func(yield func(int) bool) {
		ok := false
		for range n.Sub.Match(text, pos) {
			ok = true
			break
		}
		if ok == n.Positive {
			yield(pos)
		}
	}
}

// Match scans every start position from 0 through pos and checks whether
// the child can match ending exactly at pos. The scan is linear in pos on
// top of the child's own cost; no reverse matching is attempted.
func (n *Lookbehind) Match(text []rune, pos int) iter.Seq[int] {
	return func(yield func(int) bool) {
		found := false
		for start := 0; start <= pos && !found; start++ {
			for end := range n.Sub.Match(text, start) {
				if end == pos {
					found = true
					break
				}
			}
		}
		if found == n.Positive {
			yield(pos)
		}
	}
}
