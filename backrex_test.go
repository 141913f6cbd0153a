package backrex

import (
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/coregx/backrex/syntax"
)

// TestCompile tests basic compilation
func TestCompile(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		wantErr bool
	}{
		{"simple literal", "hello", false},
		{"empty pattern", "", false},
		{"alternation", "foo|bar", false},
		{"repetition", "a+", false},
		{"nested", "a(b|c)*d", false},
		{"group and class", "[abc]+d?e", false},
		{"lookahead", "a(?=b)", false},
		{"lookbehind", "(?<=a)b", false},
		{"anchors", "^a*$", false},
		{"unclosed group", "(", true},
		{"double quantifier", "a**", true},
		{"unclosed class", "[abc", true},
		{"dangling escape", `a\`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re, err := Compile(tt.pattern)
			if (err != nil) != tt.wantErr {
				t.Errorf("Compile() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && re == nil {
				t.Error("Compile() returned nil")
			}
		})
	}
}

// TestMustCompile tests panic on invalid pattern
func TestMustCompile(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("MustCompile() did not panic on invalid pattern")
		}
		msg, ok := r.(string)
		if !ok || !strings.HasPrefix(msg, "backrex: Compile(`(`):") {
			t.Errorf("MustCompile() panic = %v, want backrex: Compile prefix", r)
		}
	}()

	MustCompile("(") // Should panic
}

// TestMatch tests full-text matching
func TestMatch(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		input   string
		want    bool
	}{
		{"literal sequence", "abc", "abc", true},
		{"dot", "a.c", "abc", true},
		{"dot any", "a.c", "axc", true},
		{"dot needs a char", "a.c", "ac", false},
		{"star many", "a*", "aaaa", true},
		{"star empty", "a*", "", true},
		{"plus many", "a+", "aaaa", true},
		{"plus empty", "a+", "", false},
		{"question one", "a?", "a", true},
		{"question zero", "a?", "", true},
		{"question then literal", "a?b", "b", true},
		{"alternation left", "a|b", "a", true},
		{"alternation right", "a|b", "b", true},
		{"alternation neither", "a|b", "c", false},
		{"group plus", "(ab)+", "ababab", true},
		{"group plus once", "(ab)+", "ab", true},
		{"group plus trailing", "(ab)+", "abc", false},
		{"class", "[abc]", "b", true},
		{"negated class", "[^abc]", "d", true},
		{"negated class hit", "[^abc]", "a", false},
		{"start anchor", "^abc", "abc", true},
		{"end anchor", "abc$", "abc", true},
		{"both anchors", "^abc$", "abc", true},
		{"both anchors offset", "^abc$", "xabc", false},
		{"backtracking star", "a*b", "aaab", true},
		{"star zero then literal", "a*b", "b", true},
		{"nested alternation star", "a(b|c)*d", "abcbcd", true},
		{"class plus optional", "[abc]+d?e", "abcde", true},
		{"full text only", "hello", "hello world", false},
		{"empty pattern empty text", "", "", true},
		{"empty pattern text", "", "x", false},
		{"empty text literal", "a", "", false},
		{"lookahead", "a(?=b)b", "ab", true},
		{"negative lookahead", "a(?!b)c", "ac", true},
		{"negative lookahead blocks", "a(?!b)b", "ab", false},
		{"lookbehind", "a(?<=a)b", "ab", true},
		{"negative lookbehind", "a(?<!x)b", "ab", true},
		{"escape degrades", `\d`, "d", true},
		{"escape is not a class", `\d`, "7", false},
		{"newline escape degrades", `\n`, "n", true},
		{"class has no ranges", "[a-z]", "b", false},
		{"class dash is literal", "[a-z]", "-", true},
		{"anchors mid pattern", "a^b", "ab", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re := MustCompile(tt.pattern)
			if got := re.Match(tt.input); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// TestSearch tests leftmost first-candidate search
func TestSearch(t *testing.T) {
	tests := []struct {
		name      string
		pattern   string
		input     string
		wantStart int
		wantEnd   int
		wantOK    bool
	}{
		{"forced extension", "a+b", "xaaabyz", 1, 5, true},
		{"first candidate wins", "a|ab", "ab", 0, 1, true},
		{"plus takes shortest", "a+", "aaa", 0, 1, true},
		{"no match", "z", "abc", -1, -1, false},
		{"zero width at start", "z*", "abc", 0, 0, true},
		{"anchored miss", "^b", "ab", -1, -1, false},
		{"end anchor", "c$", "abc", 2, 3, true},
		{"lookbehind", "(?<=a)b", "ab", 1, 2, true},
		{"empty pattern", "", "abc", 0, 0, true},
		{"empty text", "a*", "", 0, 0, true},
		{"multibyte offsets", "é", "café", 3, 4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re := MustCompile(tt.pattern)
			start, end, ok := re.Search(tt.input)
			if start != tt.wantStart || end != tt.wantEnd || ok != tt.wantOK {
				t.Errorf("Search(%q) = (%d, %d, %v), want (%d, %d, %v)",
					tt.input, start, end, ok, tt.wantStart, tt.wantEnd, tt.wantOK)
			}
		})
	}
}

// TestFindAll tests non-overlapping scanning
func TestFindAll(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		input   string
		want    []Span
	}{
		// First candidate per position: a+ yields one character at a
		// time, so runs of a's decompose into single-rune spans.
		{"plus shortest first", "a+", "aabaaacaa", []Span{
			{0, 1}, {1, 2}, {3, 4}, {4, 5}, {5, 6}, {7, 8}, {8, 9},
		}},
		{"zero width everywhere", "z*", "abc", []Span{
			{0, 0}, {1, 1}, {2, 2}, {3, 3},
		}},
		{"forced extension", "a+b", "aabxab", []Span{{0, 3}, {4, 6}}},
		{"single literal", "b", "abcb", []Span{{1, 2}, {3, 4}}},
		{"no match", "z", "abc", nil},
		{"empty text zero width", "a*", "", []Span{{0, 0}}},
		{"start anchor once", "^", "12345", []Span{{0, 0}}},
		{"end anchor once", "$", "12345", []Span{{5, 5}}},
		{"anchored literal", "^a", "aaa", []Span{{0, 1}}},
		{"whole line", "^a*$", "aaa", []Span{{0, 3}}},
		{"empty both", "^$", "", []Span{{0, 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re := MustCompile(tt.pattern)
			got := re.FindAll(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FindAll(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// TestFindAllProgress tests that scanning always advances, including on
// patterns that only ever match empty.
func TestFindAllProgress(t *testing.T) {
	re := MustCompile("z*")
	got := re.FindAll("zzz")
	// At each position the first candidate is the zero-repetition one,
	// so even over z's the spans are empty and advance by one.
	want := []Span{{0, 0}, {1, 1}, {2, 2}, {3, 3}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindAll(zzz) = %v, want %v", got, want)
	}

	prev := Span{-1, -1}
	for _, s := range got {
		if s.Start < max(prev.Start+1, prev.End) {
			t.Errorf("span %v overlaps or fails to advance after %v", s, prev)
		}
		prev = s
	}
}

// TestString tests pattern source round-trip
func TestString(t *testing.T) {
	const pattern = `a(b|c)*d`
	re := MustCompile(pattern)
	if got := re.String(); got != pattern {
		t.Errorf("String() = %q, want %q", got, pattern)
	}
}

// TestRoot exposes the AST for tooling
func TestRoot(t *testing.T) {
	re := MustCompile("a|b")
	root := re.Root()
	if root == nil {
		t.Fatal("Root() returned nil")
	}
	if root.Kind() != syntax.KindAlternation {
		t.Errorf("Root().Kind() = %v, want %v", root.Kind(), syntax.KindAlternation)
	}
}

// TestFromNode builds a Pattern around a hand-made tree, which is the only
// way to use the lazy quantifier variants.
func TestFromNode(t *testing.T) {
	root := &syntax.LazyStar{Sub: &syntax.Literal{Char: 'a'}}
	re := FromNode("a*?", root)
	if got := re.String(); got != "a*?" {
		t.Errorf("String() = %q, want %q", got, "a*?")
	}
	if start, end, ok := re.Search("aa"); !ok || start != 0 || end != 0 {
		t.Errorf("Search(aa) = (%d, %d, %v), want (0, 0, true)", start, end, ok)
	}
	if !re.Match("aa") {
		t.Error("Match(aa) = false, want true")
	}
}

// TestSpanString tests the interval rendering
func TestSpanString(t *testing.T) {
	s := Span{Start: 2, End: 5}
	if got := s.String(); got != "[2,5)" {
		t.Errorf("Span.String() = %q, want %q", got, "[2,5)")
	}
}

// TestQuoteMeta tests metacharacter escaping
func TestQuoteMeta(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "hello", "hello"},
		{"dot", "3.14", `3\.14`},
		{"parens", "f(x)", `f\(x\)`},
		{"everything", `\.+*?()|[]^$`, `\\\.\+\*\?\(\)\|\[\]\^\$`},
		{"braces untouched", "a{2}", "a{2}"},
		{"unicode untouched", "héllo", "héllo"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := QuoteMeta(tt.input)
			if got != tt.want {
				t.Errorf("QuoteMeta(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if !MustCompile(got).Match(tt.input) {
				t.Errorf("MustCompile(QuoteMeta(%q)) does not match the literal text", tt.input)
			}
		})
	}
}

// TestConcurrentUse exercises one Pattern from many goroutines
func TestConcurrentUse(t *testing.T) {
	re := MustCompile("a(b|c)*d")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if !re.Match("abcbcd") {
					t.Error("Match(abcbcd) = false, want true")
					return
				}
				if _, _, ok := re.Search("xxabdyy"); !ok {
					t.Error("Search(xxabdyy) found nothing")
					return
				}
				if got := re.FindAll("ad abd"); len(got) != 2 {
					t.Errorf("FindAll(ad abd) = %v, want 2 spans", got)
					return
				}
			}
		}()
	}
	wg.Wait()
}
