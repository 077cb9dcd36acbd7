// Command mountgraph lays out, diffs and renders YAML component fixtures.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/mountgraph/cmd/mountgraph/cmd"
)

func main() {
	if err := cmd.Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
