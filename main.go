package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"uuidbench/api"
	"uuidbench/bench"
	"uuidbench/config"
	"uuidbench/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:           "uuidbench",
		Short:         "Compare insert latency of random (v4) and time-ordered (v7) UUID keys",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (yaml, json or toml)")
	config.RegisterFlags(root.PersistentFlags())

	load := func(cmd *cobra.Command) (*config.Config, error) {
		cfg, err := config.Load(cmd.Flags(), cfgFile)
		if err != nil {
			return nil, err
		}
		level, err := logging.ParseLevel(cfg.Log.Level)
		if err != nil {
			return nil, err
		}
		logging.Init(level, cfg.Log.JSON)
		return cfg, nil
	}

	root.AddCommand(newServeCmd(load), newProvisionCmd(load), newCompareCmd(load))
	return root
}

type loadFunc func(cmd *cobra.Command) (*config.Config, error)

func newServeCmd(load loadFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP benchmark service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s, err := openBackend(ctx, cfg.DB)
			if err != nil {
				return err
			}
			defer s.Close()

			h := api.NewHandler(s)
			return api.NewServer(cfg.Server.Addr, h.Routes(), cfg.Server.ShutdownTimeout).Run(ctx)
		},
	}
}

func newProvisionCmd(load loadFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "provision",
		Short: "Create uuidv4_table and uuidv7_table if they don't exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			s, err := openBackend(cmd.Context(), cfg.DB)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Provision(cmd.Context()); err != nil {
				return err
			}
			logging.Component("cli").Info("tables ready", "driver", cfg.DB.Driver)
			return nil
		},
	}
}

func newCompareCmd(load loadFunc) *cobra.Command {
	var (
		params   bench.CompareParams
		cooldown time.Duration
	)
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run the v4 and v7 insert benchmarks directly and print a comparison",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s, err := openBackend(ctx, cfg.DB)
			if err != nil {
				return err
			}
			defer s.Close()

			_, _, err = bench.Compare(ctx, cmd.OutOrStdout(), bench.NewRunner(s), params, cooldown)
			return err
		},
	}
	cmd.Flags().IntVar(&params.Rows, "rows", 1000, "Rows to insert per strategy per run")
	cmd.Flags().IntVar(&params.Runs, "runs", 1, "Runs per strategy; the median is reported")
	cmd.Flags().DurationVar(&cooldown, "cooldown", 3*time.Second, "Pause between runs")
	return cmd
}
