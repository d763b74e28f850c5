// Command veridoc is a citation-enforcing document Q&A tool.
package main

import (
	"os"

	"github.com/veridoc-labs/veridoc-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
