// Command lcctl is an offline developer tool for the correction pipeline:
// it segments text, renders diffs, dry-runs row reconciliation and mints
// access tokens for local testing. It never touches the database.
package main

import (
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
