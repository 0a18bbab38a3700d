package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/haivivi/ringbuf/pkg/cli"
)

const appName = "ringbuf"

var (
	// Global flags
	cfgFile      string
	outputFile   string
	outputFormat string
	query        string
	verbose      bool

	// Global configuration
	globalConfig *cli.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ringbuf",
	Short: "Bounded byte ring buffer workbench",
	Long: `ringbuf - drive a fixed-capacity byte ring buffer with concurrent
producers and consumers.

Producers block while the buffer lacks room for a whole write, consumers
block while it lacks a whole read, and stopping the buffer wakes everyone.

Workload profiles are stored in ~/.giztoy/ringbuf/config.yaml, similar to
kubectl's context management.

Examples:
  # Run 4 producers and 4 consumers over a 64KB buffer
  ringbuf run --capacity 65536 -P 4 -C 4 --total $((256 << 20))

  # Save a profile and run it, keeping the report
  ringbuf config add-profile small --capacity 64 --write-size 8 --read-size 16
  ringbuf run -p small --save

  # Query saved reports
  ringbuf history list --format json --query '.[].throughput'

  # Copy a file through a 4KB buffer
  ringbuf pipe --capacity 4096 < in.bin > out.bin
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := cli.ParseOutputFormat(outputFormat); err != nil {
			return err
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initLogging, initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.giztoy/ringbuf/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "yaml", "output format: yaml, json, table, raw")
	rootCmd.PersistentFlags().StringVarP(&query, "query", "q", "", "jq expression applied to the result")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(pipeCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func initLogging() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

func initConfig() {
	var err error
	globalConfig, err = cli.LoadConfigWithPath(appName, cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(1)
	}
}

// getConfig returns the global configuration
func getConfig() *cli.Config {
	return globalConfig
}

// outputResult outputs the result using cli package
func outputResult(result any) error {
	format, err := cli.ParseOutputFormat(outputFormat)
	if err != nil {
		return err
	}
	return cli.Output(result, cli.OutputOptions{
		Format: format,
		Query:  query,
		File:   outputFile,
	})
}
