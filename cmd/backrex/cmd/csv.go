package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coregx/backrex/csvx"
)

var (
	csvTSV        bool
	csvConcurrent bool
)

var csvCmd = &cobra.Command{
	Use:   "csv [FILE]",
	Short: "Parse CSV with the pattern engine",
	Long: `Csv reads comma-separated data from FILE (or stdin), splits it with
the pattern-based field scanner and prints the records as indented
JSON, or as tab-separated lines with --tsv.

--concurrent parses lines in parallel, one worker per CPU.

Examples:
  backrex csv data.csv
  backrex csv --tsv --concurrent big.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCSV,
}

func init() {
	rootCmd.AddCommand(csvCmd)

	csvCmd.Flags().BoolVar(&csvTSV, "tsv", false, "print tab-separated lines instead of JSON")
	csvCmd.Flags().BoolVar(&csvConcurrent, "concurrent", false, "parse lines in parallel")
}

func runCSV(cmd *cobra.Command, args []string) error {
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

	var records [][]string
	if csvConcurrent {
		records, err = csvx.ParseConcurrent(cmd.Context(), string(data))
		if err != nil {
			return err
		}
	} else {
		records = csvx.Parse(string(data))
	}

	if csvTSV {
		w := bufio.NewWriter(os.Stdout)
		for _, record := range records {
			fmt.Fprintln(w, strings.Join(record, "\t"))
		}
		return w.Flush()
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
