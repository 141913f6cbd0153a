package csvx_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/backrex/csvx"
)

func TestParseLine(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"simple", "a,b,c", []string{"a", "b", "c"}},
		{"single field", "abc", []string{"abc"}},
		{"empty line", "", []string{""}},
		{"empty middle field", "a,,c", []string{"a", "", "c"}},
		{"trailing comma", "a,", []string{"a", ""}},
		{"only commas", ",,", []string{"", "", ""}},
		{"quoted comma", `"a,b",c`, []string{"a,b", "c"}},
		{"quoted empty", `""`, []string{""}},
		{"escaped quotes", `"say ""hi""",x`, []string{`say "hi"`, "x"}},
		{"quote mid field", `a"b,c`, []string{`a"b`, "c"}},
		{"spaces preserved", " a , b ", []string{" a ", " b "}},
		{"unicode", "héllo,wörld", []string{"héllo", "wörld"}},
		{"quoted unicode", `"né, oui",x`, []string{"né, oui", "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, csvx.ParseLine(tt.line))
		})
	}
}

func TestParseLineMalformedQuotes(t *testing.T) {
	t.Parallel()
	// An unterminated or lone quote is not a quoted field; the bare
	// form picks it up verbatim.
	assert.Equal(t, []string{`"`, "x"}, csvx.ParseLine(`",x`))
	assert.Equal(t, []string{`"ab`, "x"}, csvx.ParseLine(`"ab,x`))
}

func TestParse(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		data string
		want [][]string
	}{
		{"two records", "a,b\nc,d", [][]string{{"a", "b"}, {"c", "d"}}},
		{"crlf endings", "a,b\r\nc,d", [][]string{{"a", "b"}, {"c", "d"}}},
		{"cr endings", "a\rb", [][]string{{"a"}, {"b"}}},
		{"blank lines skipped", "a\n\n\nb", [][]string{{"a"}, {"b"}}},
		{"trailing newline", "a,b\n", [][]string{{"a", "b"}}},
		{"empty input", "", nil},
		{"quoted across fields", "x,\"a,b\"\ny,z", [][]string{{"x", "a,b"}, {"y", "z"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, csvx.Parse(tt.data))
		})
	}
}

func TestParseConcurrent(t *testing.T) {
	t.Parallel()
	var sb strings.Builder
	for i := 0; i < 100; i++ {
		fmt.Fprintf(&sb, "row%d,\"value, %d\",tail%d\n", i, i, i)
	}
	data := sb.String()

	got, err := csvx.ParseConcurrent(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, csvx.Parse(data), got)
}

func TestParseConcurrentEmpty(t *testing.T) {
	t.Parallel()
	got, err := csvx.ParseConcurrent(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestParseConcurrentCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := csvx.ParseConcurrent(ctx, "a,b\nc,d")
	assert.ErrorIs(t, err, context.Canceled)
}
