package syntax

import (
	"fmt"
	"strings"
)

// Parse builds the AST for a pattern. On failure it returns a *Error whose
// cause is one of the Err sentinels in this package and whose Pos is the
// rune offset where parsing stopped.
//
// The grammar, loosest binding first:
//
//	alternation := sequence ('|' alternation)?
//	sequence    := factor*
//	factor      := atom ('*' | '+' | '?')?
//	atom        := literal | '.' | '^' | '$' | escape | class | group
//
// A sequence of exactly one factor parses to that factor directly; empty
// sequences (an empty pattern, or branches like the right side of "a|")
// parse to an empty Sequence, which matches zero width anywhere.
//
// Quantifiers do not stack: after "a*" another quantifier character has no
// atom to bind to, so "a**" fails with ErrUnescapedSpecial. The same rule
// means there is no lazy-quantifier syntax; "a*?" is an error, and the lazy
// node variants exist only for trees built directly.
//
// Escapes are not a class of their own. A backslash makes the next character
// a literal, whatever it is, so "\n" is the letter n and "\d" is the letter
// d. Character classes hold individual characters only; '-' inside a class
// is just a character, never a range.
func Parse(pattern string) (Node, error) {
	p := &parser{pattern: []rune(pattern)}
	node, err := p.parseAlternation()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.pattern) {
		// Something a complete expression cannot absorb, like the ')'
		// in "ab)c".
		return nil, p.errorAt(ErrUnexpectedChar)
	}
	return node, nil
}

type parser struct {
	pattern []rune
	pos     int
}

func (p *parser) errorAt(cause error) error {
	return &Error{Pattern: string(p.pattern), Pos: p.pos, Err: cause}
}

func (p *parser) parseAlternation() (Node, error) {
	left, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.pattern) && p.pattern[p.pos] == '|' {
		p.pos++
		right, err := p.parseAlternation()
		if err != nil {
			return nil, err
		}
		return &Alternation{Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *parser) parseSequence() (Node, error) {
	var nodes []Node
	for p.pos < len(p.pattern) && p.pattern[p.pos] != ')' && p.pattern[p.pos] != '|' {
		node, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	if len(nodes) == 1 {
		return nodes[0], nil
	}
	return &Sequence{Nodes: nodes}, nil
}

// parseFactor parses an atom and binds at most one quantifier to it.
func (p *parser) parseFactor() (Node, error) {
	node, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.pattern) {
		switch p.pattern[p.pos] {
		case '*':
			p.pos++
			return &Star{Sub: node}, nil
		case '+':
			p.pos++
			return &Plus{Sub: node}, nil
		case '?':
			p.pos++
			return &Question{Sub: node}, nil
		}
	}
	return node, nil
}

func (p *parser) parseAtom() (Node, error) {
	if p.pos >= len(p.pattern) {
		return nil, p.errorAt(ErrUnexpectedEOF)
	}
	c := p.pattern[p.pos]

	switch {
	case c == '(':
		p.pos++
		if p.pos+1 < len(p.pattern) && p.pattern[p.pos] == '?' {
			node, handled, err := p.parseGroupExt()
			if handled || err != nil {
				return node, err
			}
		}
		// Plain group. Its body is returned directly with no wrapper
		// node; only (?:...) leaves a mark in the tree.
		node, err := p.parseAlternation()
		if err != nil {
			return nil, err
		}
		if err := p.expect(')', ErrMissingParen); err != nil {
			return nil, err
		}
		return node, nil

	case c == '[':
		return p.parseCharClass()

	case c == '.':
		p.pos++
		return &Dot{}, nil

	case c == '^':
		p.pos++
		return &Start{}, nil

	case c == '$':
		p.pos++
		return &End{}, nil

	case c == '\\':
		p.pos++
		if p.pos >= len(p.pattern) {
			return nil, p.errorAt(ErrTrailingEscape)
		}
		lit := p.pattern[p.pos]
		p.pos++
		return &Literal{Char: lit}, nil

	case strings.ContainsRune("*+?|)]", c):
		return nil, p.errorAt(fmt.Errorf("%w %q", ErrUnescapedSpecial, c))

	default:
		p.pos++
		return &Literal{Char: c}, nil
	}
}

// parseGroupExt handles the (?...) forms: (?:...), (?=...), (?!...),
// (?<=...) and (?<!...). The parser sits just after the '(' when this is
// called. handled reports whether a form was recognized; when it is false
// the caller reparses the body as a plain group, which makes sequences like
// "(?x)" fail on the '?' the same way a bare '?' does.
func (p *parser) parseGroupExt() (node Node, handled bool, err error) {
	switch p.pattern[p.pos+1] {
	case ':':
		p.pos += 2
		sub, err := p.parseAlternation()
		if err != nil {
			return nil, true, err
		}
		if err := p.expect(')', ErrUnclosedGroup); err != nil {
			return nil, true, err
		}
		return &Group{Sub: sub}, true, nil

	case '=', '!':
		positive := p.pattern[p.pos+1] == '='
		p.pos += 2
		sub, err := p.parseAlternation()
		if err != nil {
			return nil, true, err
		}
		if err := p.expect(')', ErrUnclosedLookahead); err != nil {
			return nil, true, err
		}
		return &Lookahead{Sub: sub, Positive: positive}, true, nil

	case '<':
		if p.pos+2 >= len(p.pattern) {
			return nil, false, nil
		}
		op := p.pattern[p.pos+2]
		if op != '=' && op != '!' {
			return nil, false, nil
		}
		p.pos += 3
		sub, err := p.parseAlternation()
		if err != nil {
			return nil, true, err
		}
		if err := p.expect(')', ErrUnclosedLookbehind); err != nil {
			return nil, true, err
		}
		return &Lookbehind{Sub: sub, Positive: op == '='}, true, nil
	}
	return nil, false, nil
}

func (p *parser) parseCharClass() (Node, error) {
	p.pos++ // consume '['
	if p.pos >= len(p.pattern) {
		return nil, p.errorAt(ErrUnclosedClass)
	}
	negated := p.pattern[p.pos] == '^'
	if negated {
		p.pos++
	}

	chars := make(map[rune]bool)
	for p.pos < len(p.pattern) && p.pattern[p.pos] != ']' {
		c := p.pattern[p.pos]
		if c == '\\' {
			p.pos++
			if p.pos >= len(p.pattern) {
				return nil, p.errorAt(ErrTrailingEscape)
			}
			c = p.pattern[p.pos]
		}
		chars[c] = true
		p.pos++
	}
	if p.pos >= len(p.pattern) {
		return nil, p.errorAt(ErrUnclosedClass)
	}
	p.pos++ // consume ']'
	return &CharClass{Chars: chars, Negated: negated}, nil
}

// expect consumes c or fails with cause at the current position.
func (p *parser) expect(c rune, cause error) error {
	if p.pos >= len(p.pattern) || p.pattern[p.pos] != c {
		return p.errorAt(cause)
	}
	p.pos++
	return nil
}
