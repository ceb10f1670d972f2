// Command archdemo is a small smoke-runner for the warehouse library: it
// spins up a storage, creates a few entity archetypes, runs a query over
// them, and prints the resulting counts; a second subcommand exercises
// the handle allocator directly. It is not part of
// the library's API surface and keeps no state between runs.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
