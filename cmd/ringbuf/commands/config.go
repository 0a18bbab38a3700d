package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/ringbuf/pkg/cli"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage workload profiles",
	Long: `Manage CLI configuration and workload profiles.

Profiles store named workload settings, similar to kubectl's context
management. 'ringbuf run' uses the current profile unless -p is given.

Configuration is stored in ~/.giztoy/ringbuf/config.yaml`,
}

var configAddProfileCmd = &cobra.Command{
	Use:   "add-profile <name>",
	Short: "Add or replace a profile",
	Long: `Add a profile with the specified name. Unset fields fall back to
the defaults of 'ringbuf run'.

Example:
  ringbuf config add-profile small --capacity 64 -P 4 -C 4 --write-size 8 --read-size 16
  ringbuf config add-profile soak --capacity 1048576 --duration 1m`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		p := &cli.Profile{}
		var err error
		if p.Capacity, err = f.GetInt("capacity"); err != nil {
			return fmt.Errorf("failed to read 'capacity' flag: %w", err)
		}
		if p.Producers, err = f.GetInt("producers"); err != nil {
			return fmt.Errorf("failed to read 'producers' flag: %w", err)
		}
		if p.Consumers, err = f.GetInt("consumers"); err != nil {
			return fmt.Errorf("failed to read 'consumers' flag: %w", err)
		}
		if p.WriteSize, err = f.GetInt("write-size"); err != nil {
			return fmt.Errorf("failed to read 'write-size' flag: %w", err)
		}
		if p.ReadSize, err = f.GetInt("read-size"); err != nil {
			return fmt.Errorf("failed to read 'read-size' flag: %w", err)
		}
		if p.TotalBytes, err = f.GetInt64("total"); err != nil {
			return fmt.Errorf("failed to read 'total' flag: %w", err)
		}
		if p.Duration, err = f.GetString("duration"); err != nil {
			return fmt.Errorf("failed to read 'duration' flag: %w", err)
		}
		if p.Seed, err = f.GetInt64("seed"); err != nil {
			return fmt.Errorf("failed to read 'seed' flag: %w", err)
		}
		p.Name = args[0]

		// Reject profiles that could never run.
		wc, err := profileConfig(p)
		if err != nil {
			return err
		}
		if err := wc.WithDefaults().Validate(); err != nil {
			return err
		}

		if err := getConfig().AddProfile(args[0], p); err != nil {
			return err
		}
		cli.PrintSuccess("Profile %q added successfully", args[0])
		return nil
	},
}

var configDeleteProfileCmd = &cobra.Command{
	Use:   "delete-profile <name>",
	Short: "Delete a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := getConfig().DeleteProfile(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("Profile %q deleted", args[0])
		return nil
	},
}

var configUseProfileCmd = &cobra.Command{
	Use:   "use-profile <name>",
	Short: "Set the current profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := getConfig().UseProfile(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("Switched to profile %q", args[0])
		return nil
	},
}

var configGetProfilesCmd = &cobra.Command{
	Use:   "get-profiles",
	Short: "List all profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		t := cli.Table{
			Title:  "profiles",
			Header: []string{"CURRENT", "NAME", "CAPACITY", "PRODUCERS", "CONSUMERS", "WRITE", "READ", "TOTAL", "DURATION"},
		}
		for _, name := range cfg.ListProfiles() {
			p := cfg.Profiles[name]
			current := ""
			if name == cfg.CurrentProfile {
				current = "*"
			}
			t.Rows = append(t.Rows, []string{
				current,
				name,
				fmt.Sprint(p.Capacity),
				fmt.Sprint(p.Producers),
				fmt.Sprint(p.Consumers),
				fmt.Sprint(p.WriteSize),
				fmt.Sprint(p.ReadSize),
				fmt.Sprint(p.TotalBytes),
				p.Duration,
			})
		}
		if len(t.Rows) == 0 {
			cli.PrintInfo("No profiles configured. Use 'ringbuf config add-profile' to add one.")
			return nil
		}
		_, err := fmt.Fprint(cmd.OutOrStdout(), t.Render(cli.NewStyles(cli.DefaultTheme)))
		return err
	},
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "View the current configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		cli.PrintInfo("Config file: %s", cfg.Path())
		return outputResult(cfg)
	},
}

func init() {
	f := configAddProfileCmd.Flags()
	f.Int("capacity", 0, "ring buffer capacity in bytes")
	f.IntP("producers", "P", 0, "number of producer goroutines")
	f.IntP("consumers", "C", 0, "number of consumer goroutines")
	f.Int("write-size", 0, "bytes per enqueue")
	f.Int("read-size", 0, "bytes per dequeue")
	f.Int64("total", 0, "total bytes to produce")
	f.String("duration", "", "maximum run time (e.g. 5s)")
	f.Int64("seed", 0, "payload generator seed")

	configCmd.AddCommand(configAddProfileCmd)
	configCmd.AddCommand(configDeleteProfileCmd)
	configCmd.AddCommand(configUseProfileCmd)
	configCmd.AddCommand(configGetProfilesCmd)
	configCmd.AddCommand(configViewCmd)
}
