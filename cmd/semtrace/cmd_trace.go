package main

import (
	"fmt"
	"time"

	"github.com/chazu/semtrace/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func newTraceCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Trace a beam of segments through a sample",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			source, err := readSource(cfg.Sample)
			if err != nil {
				return err
			}
			app := NewApp(nil)
			reg := prometheus.NewRegistry()

			start := time.Now()
			res, err := app.Trace(cmd.Context(), cfg, source, reg)
			if err != nil {
				return err
			}
			events := 0
			for _, r := range res.Rays {
				events += len(r.Events)
			}
			app.logger.Info("trace complete",
				"rays", len(res.Rays), "events", events, "elapsed", time.Since(start))

			if err := writeJSON(cmd.OutOrStdout(), cfg.Output.Events, res); err != nil {
				return err
			}
			if cfg.Output.Mesh != "" {
				if err := writeMesh(app, cfg, source); err != nil {
					return err
				}
			}
			if cfg.Output.Metrics != "" {
				if err := prometheus.WriteToTextfile(cfg.Output.Metrics, reg); err != nil {
					return fmt.Errorf("write metrics: %w", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "run.yaml", "run file")
	return cmd
}

func writeMesh(app *App, cfg *config.Config, source string) error {
	k, err := newKernel(cfg.Kernel, cfg.Bounds())
	if err != nil {
		return err
	}
	res := app.Mesh(source, k, cfg.Bounds(), cfg.Cells)
	if len(res.Errors) > 0 {
		return fmt.Errorf("mesh: %s", res.Errors[0].Message)
	}
	return writeJSON(nil, cfg.Output.Mesh, res)
}
