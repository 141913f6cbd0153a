package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/coregx/ahocorasick"
	"github.com/spf13/cobra"

	"github.com/coregx/backrex"
)

var (
	grepFixed       bool
	grepLineNumbers bool
	grepColor       string
)

var grepCmd = &cobra.Command{
	Use:   "grep PATTERN [GLOB...]",
	Short: "Print lines matching a pattern",
	Long: `Grep reads the named files (or stdin when no globs are given) and
prints every line the pattern matches somewhere.

Globs support ** for recursive matching. With -F the pattern is a set
of newline-separated literal strings matched with an Aho-Corasick
automaton instead of the pattern engine.

Examples:
  backrex grep 'ERROR|WARN' 'logs/**/*.log'
  backrex grep -n '^func ' '**/*.go'
  backrex grep -F $'GET\nPOST' access.log`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGrep,
}

func init() {
	rootCmd.AddCommand(grepCmd)

	grepCmd.Flags().BoolVarP(&grepFixed, "fixed-strings", "F", false, "treat PATTERN as newline-separated literals")
	grepCmd.Flags().BoolVarP(&grepLineNumbers, "line-number", "n", false, "prefix each line with its line number")
	grepCmd.Flags().StringVar(&grepColor, "color", "auto", "highlight matches: auto, always or never")
}

// lineMatcher renders one line, reporting whether it matched. The
// rendered string is only meaningful when matched is true.
type lineMatcher func(line string, color bool) (rendered string, matched bool)

func runGrep(cmd *cobra.Command, args []string) error {
	color, err := colorEnabled(grepColor)
	if err != nil {
		return err
	}

	var match lineMatcher
	if grepFixed {
		match, err = fixedMatcher(args[0])
	} else {
		match, err = patternMatcher(args[0])
	}
	if err != nil {
		return err
	}

	if len(args) == 1 {
		return grepReader(os.Stdin, "", false, match, color)
	}

	var paths []string
	for _, glob := range args[1:] {
		found, err := doublestar.FilepathGlob(glob, doublestar.WithFilesOnly())
		if err != nil {
			return fmt.Errorf("glob %q: %w", glob, err)
		}
		paths = append(paths, found...)
	}
	if len(paths) == 0 {
		return errors.New("no files match the given globs")
	}

	showName := len(paths) > 1
	for _, path := range paths {
		if err := grepFile(path, showName, match, color); err != nil {
			return err
		}
	}
	return nil
}

func grepFile(path string, showName bool, match lineMatcher, color bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return grepReader(f, path, showName, match, color)
}

func grepReader(r io.Reader, name string, showName bool, match lineMatcher, color bool) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineno := 0
	for scanner.Scan() {
		lineno++
		rendered, ok := match(scanner.Text(), color)
		if !ok {
			continue
		}
		switch {
		case showName && grepLineNumbers:
			fmt.Printf("%s:%d:%s\n", name, lineno, rendered)
		case showName:
			fmt.Printf("%s:%s\n", name, rendered)
		case grepLineNumbers:
			fmt.Printf("%d:%s\n", lineno, rendered)
		default:
			fmt.Println(rendered)
		}
	}
	if err := scanner.Err(); err != nil {
		if name != "" {
			return fmt.Errorf("%s: %w", name, err)
		}
		return err
	}
	return nil
}

// patternMatcher matches lines with the backtracking engine and
// highlights every occurrence.
func patternMatcher(pattern string) (lineMatcher, error) {
	re, err := backrex.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return func(line string, color bool) (string, bool) {
		spans := re.FindAll(line)
		if len(spans) == 0 {
			return "", false
		}
		return highlightSpans(line, spans, color), true
	}, nil
}

// fixedMatcher matches lines against a set of literal strings with an
// Aho-Corasick automaton. Span offsets here are bytes, not runes, so it
// renders the line itself rather than going through highlightSpans.
func fixedMatcher(pattern string) (lineMatcher, error) {
	builder := ahocorasick.NewBuilder()
	literals := 0
	for _, lit := range strings.Split(pattern, "\n") {
		if lit == "" {
			continue
		}
		builder.AddPattern([]byte(lit))
		literals++
	}
	if literals == 0 {
		return nil, errors.New("fixed-strings mode needs at least one non-empty literal")
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, err
	}

	return func(line string, color bool) (string, bool) {
		data := []byte(line)
		if !color {
			if auto.IsMatch(data) {
				return line, true
			}
			return "", false
		}

		var sb strings.Builder
		last, at := 0, 0
		for at <= len(data) {
			m := auto.Find(data, at)
			if m == nil {
				break
			}
			sb.Write(data[last:m.Start])
			sb.WriteString(matchStyle.Render(string(data[m.Start:m.End])))
			last = m.End
			at = m.End
			if at <= m.Start {
				at = m.Start + 1
			}
		}
		if last == 0 {
			return "", false
		}
		sb.Write(data[last:])
		return sb.String(), true
	}, nil
}

func colorEnabled(mode string) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto":
		return isTerminal(os.Stdout.Fd()), nil
	default:
		return false, fmt.Errorf("invalid --color mode %q (want auto, always or never)", mode)
	}
}
