package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/coregx/backrex"
	"github.com/coregx/backrex/inspect"
	"github.com/coregx/backrex/trace"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive pattern tester",
	Long: `Repl starts an interactive session: enter a pattern, then test text
against it. Match, search and findall results are shown for every
input, with matched spans highlighted on terminals.

:ast and :dot print the compiled tree, :trace shows every step the
engine takes while matching.`,
	Args: cobra.NoArgs,
	RunE: runREPL,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

const replHelp = `Commands:
  :pattern [P]    set pattern P, or clear the current one
  :ast            print the pattern tree as JSON
  :dot            print the pattern tree as Graphviz DOT
  :trace [on|off] toggle match tracing
  :help           show this help
  :quit           exit (:q works too)

Anything else is compiled as a pattern first, then run as test text.
`

type replSession struct {
	rl      *readline.Instance
	re      *backrex.Pattern
	traced  *backrex.Pattern
	tracer  *trace.Tracer
	tracing bool
}

func runREPL(cmd *cobra.Command, args []string) error {
	rl, err := readline.New(promptStyle.Render("pattern> "))
	if err != nil {
		return err
	}
	defer rl.Close()

	s := &replSession{rl: rl}
	fmt.Println("backrex interactive pattern tester. :help lists commands, :quit exits.")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if s.re == nil {
				break
			}
			s.clearPattern()
			fmt.Fprintln(os.Stderr, "pattern cleared, ctrl-c again quits")
			continue
		} else if err == io.EOF {
			break
		} else if err != nil {
			return err
		}

		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			if s.command(line) {
				break
			}
			continue
		}
		if s.re == nil {
			if err := s.setPattern(line); err != nil {
				fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
			}
			continue
		}
		s.run(line)
	}
	return nil
}

// command dispatches a :-prefixed line, reporting whether to quit.
func (s *replSession) command(line string) bool {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case ":q", ":quit":
		return true
	case ":help":
		fmt.Print(replHelp)
	case ":pattern":
		if arg == "" {
			s.clearPattern()
			break
		}
		if err := s.setPattern(arg); err != nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		}
	case ":ast":
		if s.re == nil {
			fmt.Fprintln(os.Stderr, "no pattern set")
			break
		}
		if err := inspect.WriteJSON(os.Stdout, s.re.Root()); err != nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		}
	case ":dot":
		if s.re == nil {
			fmt.Fprintln(os.Stderr, "no pattern set")
			break
		}
		if err := inspect.WriteDOT(os.Stdout, s.re.Root()); err != nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		}
	case ":trace":
		switch arg {
		case "on":
			s.setTracing(true)
		case "off":
			s.setTracing(false)
		case "":
			s.setTracing(!s.tracing)
		default:
			fmt.Fprintln(os.Stderr, "usage: :trace [on|off]")
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (:help lists commands)\n", name)
	}
	return false
}

func (s *replSession) setPattern(pattern string) error {
	re, err := backrex.Compile(pattern)
	if err != nil {
		return err
	}
	s.re = re
	if s.tracing {
		s.instrument()
	}
	s.rl.SetPrompt(promptStyle.Render("text> "))
	fmt.Printf("pattern %s set, %s at the root\n", re, re.Root().Kind())
	return nil
}

func (s *replSession) clearPattern() {
	s.re, s.traced = nil, nil
	s.rl.SetPrompt(promptStyle.Render("pattern> "))
}

func (s *replSession) setTracing(on bool) {
	s.tracing = on
	if !on {
		s.traced = nil
		fmt.Println("trace off")
		return
	}
	if s.re != nil {
		s.instrument()
	}
	fmt.Println("trace on")
}

// instrument rebuilds the traced twin of the current pattern. The
// plain pattern stays untouched so :ast and :dot keep showing the
// original tree.
func (s *replSession) instrument() {
	if s.tracer == nil {
		s.tracer = trace.New()
	}
	s.traced = backrex.FromNode(s.re.String(), trace.Instrument(s.re.Root(), s.tracer))
}

func (s *replSession) run(text string) {
	color := isTerminal(os.Stdout.Fd())
	re := s.re
	if s.tracing {
		s.tracer.Reset()
		re = s.traced
	}

	fmt.Printf("match:   %v\n", re.Match(text))

	if start, end, ok := re.Search(text); ok {
		span := backrex.Span{Start: start, End: end}
		fmt.Printf("search:  %s %s\n", span, highlightSpans(text, []backrex.Span{span}, color))
	} else {
		fmt.Println("search:  no match")
	}

	if spans := re.FindAll(text); len(spans) > 0 {
		fmt.Printf("findall: %v %s\n", spans, highlightSpans(text, spans, color))
	} else {
		fmt.Println("findall: none")
	}

	if s.tracing {
		fmt.Printf("trace:   %d events, session %s\n", len(s.tracer.Events()), s.tracer.SessionID())
		s.tracer.Dump(os.Stdout)
	}
}
