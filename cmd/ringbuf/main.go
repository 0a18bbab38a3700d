// Package main provides the ringbuf CLI tool.
//
// Usage:
//
//	ringbuf [flags] <command> [args]
//
// Commands:
//
//	run      - Run a producer/consumer workload over a ring buffer
//	pipe     - Copy stdin to stdout through a ring buffer
//	history  - Browse saved workload reports
//	config   - Manage workload profiles
//	version  - Print version information
//
// Configuration:
//
//	The CLI stores configuration in ~/.giztoy/ringbuf/
//	Use 'ringbuf config' commands to manage profiles.
package main

import (
	"fmt"
	"os"

	"github.com/haivivi/ringbuf/cmd/ringbuf/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
