package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/coregx/backrex/fountain"
)

var (
	fountainOutput string
	fountainConfig string
	fountainWidth  int
	fountainStamp  string
)

var fountainCmd = &cobra.Command{
	Use:   "fountain [FILE]",
	Short: "Format a Fountain screenplay for the page",
	Long: `Fountain reads screenplay text in Fountain markup from FILE (or
stdin) and lays it out: scene headings flush left, character cues
centered, dialogue and parentheticals indented, transitions right
aligned.

Layout metrics come from --config (TOML or YAML keyed by file
extension), with --width overriding the page width. --stamp prepends a
timestamp rendered with a strftime format string.

Examples:
  backrex fountain script.fountain -o script.txt
  backrex fountain --config layout.toml --stamp '%B %d, %Y' draft.fountain`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFountain,
}

func init() {
	rootCmd.AddCommand(fountainCmd)

	fountainCmd.Flags().StringVarP(&fountainOutput, "output", "o", "", "write the result to this file instead of stdout")
	fountainCmd.Flags().StringVar(&fountainConfig, "config", "", "layout config file (.toml or .yaml)")
	fountainCmd.Flags().IntVar(&fountainWidth, "width", 0, "override the page width")
	fountainCmd.Flags().StringVar(&fountainStamp, "stamp", "", "prepend a timestamp in this strftime format")
}

func runFountain(cmd *cobra.Command, args []string) error {
	layout := fountain.DefaultLayout()
	if fountainConfig != "" {
		loaded, err := fountain.LoadLayout(fountainConfig)
		if err != nil {
			return err
		}
		layout = loaded
	}
	if fountainWidth > 0 {
		layout.Width = fountainWidth
	}

	var (
		data []byte
		err  error
	)
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return err
	}

	formatted := fountain.FormatText(string(data), layout)
	if fountainStamp != "" {
		stamp, err := fountain.Stamp(fountainStamp, time.Now())
		if err != nil {
			return fmt.Errorf("stamp: %w", err)
		}
		formatted = stamp + "\n\n" + formatted
	}

	if fountainOutput != "" {
		return os.WriteFile(fountainOutput, []byte(formatted), 0o644)
	}
	_, err = io.WriteString(os.Stdout, formatted)
	return err
}
