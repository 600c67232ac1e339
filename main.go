// ./main.go
package main

import (
	"browseragent/cmd"
)

// main is the entry point for the browser agent application.
func main() {
	// Execute the root command defined in the cmd package.
	// This handles all command-line parsing, configuration, and execution.
	cmd.Execute()
}
