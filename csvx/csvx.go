// Package csvx parses CSV text by driving the pattern engine.
//
// Fields are recognized by a single compiled pattern rather than a
// hand-written scanner: a quoted form with "" escapes, or a bare form
// that stops at commas and line breaks. Both forms end with a
// lookahead pinning the field to a following comma or the end of the
// line, so the shortest-candidate-first policy still produces whole
// fields. This package exists as much to exercise the engine as to
// read CSV; encoding/csv remains the right tool for real data.
package csvx

import (
	"context"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/coregx/backrex"
)

// Interpreted strings, not raw: the bare-field class must contain the
// actual CR and LF runes, and the dialect has no \r\n escapes.
var (
	fieldPattern = backrex.MustCompile("\"(?:[^\"]|\"\")*\"(?=,|$)|[^,\r\n]*(?=,|$)")
	commaPattern = backrex.MustCompile(",")
)

// ParseLine splits one CSV line into fields. Quoted fields may contain
// commas and "" escapes; a trailing comma yields a final empty field.
// The line must not contain line breaks.
func ParseLine(line string) []string {
	var fields []string
	runes := []rune(line)
	pos := 0
	for pos <= len(runes) {
		start, end, ok := fieldPattern.Search(string(runes[pos:]))
		if !ok {
			break
		}
		raw := string(runes[pos+start : pos+end])
		fields = append(fields, unquote(raw))
		pos += end

		// A comma right at the cursor means another field follows,
		// possibly an empty one at the end of the line.
		if cstart, _, ok := commaPattern.Search(string(runes[pos:])); ok && cstart == 0 {
			pos++
		} else {
			break
		}
	}
	return fields
}

// unquote strips the surrounding quotes of a quoted field and folds ""
// escapes. Anything too short or not fully quoted passes through
// unchanged, including a lone quote character.
func unquote(raw string) string {
	if len(raw) >= 2 && strings.HasPrefix(raw, `"`) && strings.HasSuffix(raw, `"`) {
		inner := raw[1 : len(raw)-1]
		return strings.ReplaceAll(inner, `""`, `"`)
	}
	return raw
}

// Parse splits data into records, one per non-empty line. CRLF and
// lone CR line endings are normalized to LF before splitting; empty
// lines are skipped.
func Parse(data string) [][]string {
	var records [][]string
	for _, line := range splitLines(data) {
		records = append(records, ParseLine(line))
	}
	return records
}

// ParseConcurrent is Parse with the per-line work fanned out across
// goroutines. A compiled Pattern is safe for concurrent matching, so
// all workers share the package-level patterns. Records come back in
// input order.
func ParseConcurrent(ctx context.Context, data string) ([][]string, error) {
	lines := splitLines(data)
	if len(lines) == 0 {
		return nil, nil
	}

	records := make([][]string, len(lines))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, line := range lines {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			records[i] = ParseLine(line)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

func splitLines(data string) []string {
	normalized := strings.ReplaceAll(data, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	var lines []string
	for _, line := range strings.Split(normalized, "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
