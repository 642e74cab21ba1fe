package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"gitlab.com/slon/srmutex/bench"
	"gitlab.com/slon/srmutex/srmutex"
)

type flags struct {
	configPath  string
	verbose     bool
	metricsAddr string
	cfg         bench.Config
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:          "srbench",
		Short:        "Contention benchmarks for recursive reader/writer locks",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&f.configPath, "config", "", "path to .yaml run config")
	root.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "log lock transitions")
	root.PersistentFlags().StringVar(&f.metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address while running")
	bindRunFlags(root.PersistentFlags(), &f.cfg)

	root.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Run one variant",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return execute(cmd, f, func(ctx context.Context, r *bench.Runner, cfg bench.Config) (any, error) {
				report, err := r.Run(ctx, cfg)
				if report == nil {
					return nil, err
				}
				return report, err
			})
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "compare",
		Short: "Run every variant that supports the scenario",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return execute(cmd, f, func(ctx context.Context, r *bench.Runner, cfg bench.Config) (any, error) {
				reports, err := r.Compare(ctx, cfg)
				if len(reports) == 0 {
					return nil, err
				}
				return reports, err
			})
		},
	})
	return root
}

func bindRunFlags(fs *pflag.FlagSet, cfg *bench.Config) {
	fs.StringVar(&cfg.Variant, "variant", "", "lock variant: global, map, fair or rwmutex")
	fs.StringVar(&cfg.Gate, "gate", "", "gate of global and map variants: native or chan")
	fs.StringVar(&cfg.Scenario, "scenario", "", "counter, fuzz, upgrade or trylock")
	fs.IntVar(&cfg.Goroutines, "goroutines", 0, "number of competing goroutines")
	fs.IntVar(&cfg.Iterations, "iterations", 0, "iterations per goroutine")
	fs.IntVar(&cfg.UpgradeEvery, "upgrade-every", 0, "upgrade scenario writes every n-th iteration")
}

// loadConfig merges the config file with flags set on the command line.
func loadConfig(cmd *cobra.Command, f *flags) (bench.Config, error) {
	cfg := bench.Config{}
	if f.configPath != "" {
		var err error
		if cfg, err = bench.LoadConfig(f.configPath); err != nil {
			return cfg, err
		}
	}

	fs := cmd.Flags()
	// Флаги перекрывают файл, только если их задали явно.
	if fs.Changed("variant") {
		cfg.Variant = f.cfg.Variant
	}
	if fs.Changed("gate") {
		cfg.Gate = f.cfg.Gate
	}
	if fs.Changed("scenario") {
		cfg.Scenario = f.cfg.Scenario
	}
	if fs.Changed("goroutines") {
		cfg.Goroutines = f.cfg.Goroutines
	}
	if fs.Changed("iterations") {
		cfg.Iterations = f.cfg.Iterations
	}
	if fs.Changed("upgrade-every") {
		cfg.UpgradeEvery = f.cfg.UpgradeEvery
	}
	return cfg, cfg.Validate()
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func execute(
	cmd *cobra.Command,
	f *flags,
	run func(context.Context, *bench.Runner, bench.Config) (any, error),
) error {
	logger, err := newLogger(f.verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig(cmd, f)
	if err != nil {
		logger.Error("invalid config", zap.Error(err), zap.String("path", f.configPath))
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []bench.RunnerOption{bench.WithLogger(logger)}
	if f.metricsAddr != "" {
		reg := prometheus.NewRegistry()
		opts = append(opts, bench.WithMetrics(srmutex.NewMetrics(reg)))

		srv := &http.Server{
			Addr:              f.metricsAddr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	result, runErr := run(ctx, bench.NewRunner(opts...), cfg)
	if result != nil {
		out, err := yaml.Marshal(result)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
	}
	return runErr
}
