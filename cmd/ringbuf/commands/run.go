package commands

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/haivivi/ringbuf/pkg/cli"
	"github.com/haivivi/ringbuf/pkg/history"
	"github.com/haivivi/ringbuf/pkg/workload"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a producer/consumer workload",
	Long: `Run producers and consumers over one ring buffer, then stop the buffer,
join every goroutine, drain the leftovers and destroy it.

Settings are resolved as: flags, then the selected (or current) profile,
then built-in defaults. The report includes throughput, wait counts and an
integrity check that every produced byte came out exactly once.

Examples:
  ringbuf run --capacity 8 --write-size 3 --read-size 5 --total 100000
  ringbuf run -p small --duration 5s --save --format table`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveWorkload(cmd)
		if err != nil {
			return err
		}

		save, err := cmd.Flags().GetBool("save")
		if err != nil {
			return fmt.Errorf("failed to read 'save' flag: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		report, err := workload.Run(ctx, cfg)
		if err != nil && report == nil {
			return err
		}
		if err != nil {
			slog.Error("workload failed", "id", report.ID, "error", err)
		}

		if save {
			if serr := saveReport(cmd, report); serr != nil {
				return serr
			}
		}
		if oerr := outputResult(report); oerr != nil {
			return oerr
		}
		return err
	},
}

func init() {
	f := runCmd.Flags()
	f.StringP("profile", "p", "", "profile name (default: current profile)")
	f.Int("capacity", 0, "ring buffer capacity in bytes")
	f.IntP("producers", "P", 0, "number of producer goroutines")
	f.IntP("consumers", "C", 0, "number of consumer goroutines")
	f.Int("write-size", 0, "bytes per enqueue")
	f.Int("read-size", 0, "bytes per dequeue")
	f.Int64("total", 0, "total bytes to produce")
	f.Duration("duration", 0, "maximum run time (e.g. 5s)")
	f.Int64("seed", 0, "payload generator seed")
	f.Bool("save", false, "save the report to history")
}

// resolveWorkload merges flags over the selected profile over defaults.
func resolveWorkload(cmd *cobra.Command) (workload.Config, error) {
	name, err := cmd.Flags().GetString("profile")
	if err != nil {
		return workload.Config{}, fmt.Errorf("failed to read 'profile' flag: %w", err)
	}
	p, err := getConfig().ResolveProfile(name)
	if err != nil {
		return workload.Config{}, err
	}
	cfg, err := profileConfig(p)
	if err != nil {
		return workload.Config{}, err
	}

	f := cmd.Flags()
	intFlags := map[string]*int{
		"capacity":   &cfg.Capacity,
		"producers":  &cfg.Producers,
		"consumers":  &cfg.Consumers,
		"write-size": &cfg.WriteSize,
		"read-size":  &cfg.ReadSize,
	}
	for flag, dst := range intFlags {
		if !f.Changed(flag) {
			continue
		}
		v, err := f.GetInt(flag)
		if err != nil {
			return workload.Config{}, fmt.Errorf("failed to read '%s' flag: %w", flag, err)
		}
		*dst = v
	}
	if f.Changed("total") {
		if cfg.TotalBytes, err = f.GetInt64("total"); err != nil {
			return workload.Config{}, fmt.Errorf("failed to read 'total' flag: %w", err)
		}
	}
	if f.Changed("duration") {
		if cfg.Duration, err = f.GetDuration("duration"); err != nil {
			return workload.Config{}, fmt.Errorf("failed to read 'duration' flag: %w", err)
		}
	}
	if f.Changed("seed") {
		if cfg.Seed, err = f.GetInt64("seed"); err != nil {
			return workload.Config{}, fmt.Errorf("failed to read 'seed' flag: %w", err)
		}
	}

	cfg = cfg.WithDefaults()
	cfg.Logger = slog.Default()
	slog.Debug("resolved workload",
		"profile", cfg.Name,
		"capacity", cfg.Capacity,
		"producers", cfg.Producers,
		"consumers", cfg.Consumers,
		"write_size", cfg.WriteSize,
		"read_size", cfg.ReadSize,
		"total_bytes", cfg.TotalBytes,
		"duration", cfg.Duration,
	)
	return cfg, cfg.Validate()
}

// profileConfig converts a stored profile into a workload config.
func profileConfig(p *cli.Profile) (workload.Config, error) {
	d, err := p.ParseDuration()
	if err != nil {
		return workload.Config{}, err
	}
	return workload.Config{
		Name:       p.Name,
		Capacity:   p.Capacity,
		Producers:  p.Producers,
		Consumers:  p.Consumers,
		WriteSize:  p.WriteSize,
		ReadSize:   p.ReadSize,
		TotalBytes: p.TotalBytes,
		Duration:   d,
		Seed:       p.Seed,
	}, nil
}

// openHistory opens the report store next to the config file
// (~/.giztoy/ringbuf/data/history by default).
func openHistory() (*history.Store, error) {
	dir := filepath.Join(getConfig().Dir(), "data", "history")
	return history.Open(history.Options{Dir: dir})
}

func saveReport(cmd *cobra.Command, r *workload.Report) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Save(cmd.Context(), r); err != nil {
		return err
	}
	slog.Info("report saved", "id", r.ID)
	return nil
}
