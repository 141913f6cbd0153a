package main

import (
	"os"

	"github.com/coregx/backrex/cmd/backrex/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
