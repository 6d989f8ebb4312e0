// File: main.go
package main

import (
	"github.com/earshot-dev/earshot/cmd"
)

// main is the entry point for the earshot CLI.
func main() {
	// Execute the root command defined in the cmd package. This handles all
	// command-line parsing, configuration, and execution.
	cmd.Execute()
}
