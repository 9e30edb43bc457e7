// Command souschef is the entry point for the SousChef recipe recommendation
// service. It provides a CLI interface (via Cobra) for one-off questions,
// recipe index ingestion, and an HTTP server mode.
package main

import (
	"fmt"
	"os"

	"github.com/souschef-ai/souschef-go/cmd/souschef/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
