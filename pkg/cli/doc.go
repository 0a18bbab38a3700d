// Package cli provides common CLI utilities for the ringbuf command-line tool.
//
// This package includes:
//   - Configuration management (named workload profiles)
//   - Output formatting (YAML, JSON, table, raw) with optional jq queries
//   - Human readable sizes, rates and durations
//
// Configuration is stored in ~/.giztoy/<app>/ directory, supporting
// multiple profiles similar to kubectl contexts.
//
// Example usage:
//
//	cfg, err := cli.LoadConfig("ringbuf")
//
//	// Get the profile to run
//	p, err := cfg.ResolveProfile("")
//
//	// Output result
//	cli.Output(report, cli.OutputOptions{
//	    Format: cli.FormatJSON,
//	    Query:  ".throughput",
//	})
package cli
