package syntax

import (
	"errors"
	"testing"
	"unicode/utf8"
)

// Seed patterns covering every grammar production and every error path.
var fuzzSeedPatterns = []string{
	// Literals and escapes
	"a",
	"abc",
	`\d`,
	`\\`,
	`\(`,
	"{2,5}",

	// Atoms
	".",
	"^",
	"$",
	"^abc$",
	"[abc]",
	"[^abc]",
	`[a\]b]`,
	"[]",

	// Quantifiers
	"a*",
	"a+",
	"a?",
	"a*b",
	"(ab)+",

	// Alternation and groups
	"a|b",
	"a|b|c",
	"(a|b)c",
	"(?:ab)*",
	"(?=a)",
	"(?!a)",
	"(?<=a)b",
	"(?<!a)b",

	// Pathological nesting (parse only, never run)
	"(a*)*",
	"((((a))))",

	// Invalid
	"",
	"(",
	")",
	"(abc",
	"[abc",
	"a**",
	"a*?",
	"*",
	`a\`,
	"(?",
	"(?x)",
	"(?<x)",
}

// FuzzParse checks structural invariants of the parser: it never
// panics, failure and success are mutually exclusive, and every error
// is a *Error carrying an offset inside the pattern.
func FuzzParse(f *testing.F) {
	for _, p := range fuzzSeedPatterns {
		f.Add(p)
	}

	f.Fuzz(func(t *testing.T, pattern string) {
		node, err := Parse(pattern)
		if err != nil {
			if node != nil {
				t.Errorf("Parse(%q) returned both a node and error %v", pattern, err)
			}
			var perr *Error
			if !errors.As(err, &perr) {
				t.Fatalf("Parse(%q) error %v is not a *Error", pattern, err)
			}
			if perr.Pattern != pattern {
				t.Errorf("Parse(%q) error carries pattern %q", pattern, perr.Pattern)
			}
			n := utf8.RuneCountInString(pattern)
			if perr.Pos < 0 || perr.Pos > n {
				t.Errorf("Parse(%q) error position %d outside [0,%d]", pattern, perr.Pos, n)
			}
			return
		}
		if node == nil {
			t.Fatalf("Parse(%q) returned neither node nor error", pattern)
		}
		// The tree must be well formed: every node has a Kind string
		// and no child is nil.
		var walk func(n Node)
		walk = func(n Node) {
			if n == nil {
				t.Fatalf("Parse(%q) built a tree with a nil child", pattern)
			}
			if n.Kind().String() == "" {
				t.Errorf("Parse(%q) built a node with an unnamed kind", pattern)
			}
			for _, c := range n.Children() {
				walk(c)
			}
		}
		walk(node)
	})
}
