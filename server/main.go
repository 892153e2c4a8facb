package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/meikuraledutech/workflow"
	"github.com/meikuraledutech/workflow/config"
	"github.com/meikuraledutech/workflow/internal/logging"
	"github.com/meikuraledutech/workflow/stores"
	"github.com/spf13/cobra"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "workflow",
	Short: "Edit and persist workflow graphs",

	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the workflow editing API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}
		logger := logging.New(logging.ParseLevel(cfg.LogLevel))

		ctx := cmd.Context()
		store, closeStore, err := stores.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		ctl := workflow.NewController(
			workflow.NewPersistence(store, cfg.Key),
			workflow.WithLogger(logger),
			workflow.WithListener(func(ev workflow.Event) {
				logger.Debug("workflow changed", "op", ev.Op,
					"nodes", len(ev.Snapshot.Nodes), "edges", len(ev.Snapshot.Edges))
			}),
		)
		if err := ctl.Initialize(ctx); err != nil {
			return err
		}

		logger.Info("listening", "addr", cfg.ListenAddr, "store", cfg.Store)
		return newApp(ctl).Listen(cfg.ListenAddr)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check whether the stored workflow is save-eligible",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		store, closeStore, err := stores.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		g, err := workflow.NewPersistence(store, cfg.Key).Load(ctx)
		if err != nil {
			return err
		}
		if g == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "no workflow stored")
			return nil
		}
		if err := workflow.Validate(*g); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "workflow is valid (%d nodes, %d edges)\n", len(g.Nodes), len(g.Edges))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file to load before reading the environment")
	rootCmd.AddCommand(serveCmd, validateCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		slog.Error("workflow", "err", err)
		os.Exit(1)
	}
}
