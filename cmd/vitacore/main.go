// Vitacore: project memory MCP server.
//
// Agents log steps while they work, close sessions into summaries, and
// keep a single architecture document (the Macro) current. Paradoxes
// between the Macro and recent work are detected and resolved on demand.
//
// Usage:
//
//	vitacore serve     # Start MCP server (stdio transport); --ping checks the provider first
//	vitacore doctor    # Check configuration, database and model provider
//	vitacore ui        # Serve the graph projection over HTTP
//	vitacore graph     # Print the graph projection
//	vitacore config    # Print the effective configuration
//	vitacore version   # Print the version
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// reportError prints err unless the command already explained it.
func reportError(w io.Writer, err error) {
	if errors.Is(err, errReported) {
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
