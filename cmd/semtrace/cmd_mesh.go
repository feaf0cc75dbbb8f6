package main

import (
	"fmt"

	"github.com/chazu/semtrace/pkg/config"
	"github.com/chazu/semtrace/pkg/kernel"
	"github.com/spf13/cobra"
)

func newMeshCmd() *cobra.Command {
	var (
		out     string
		backend string
		cells   int
		extent  float64
	)
	cmd := &cobra.Command{
		Use:   "mesh <sample>",
		Short: "Tessellate every region of a sample for preview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !(extent > 0) {
				return fmt.Errorf("--world must be positive, got %g", extent)
			}
			source, err := readSource(args[0])
			if err != nil {
				return err
			}
			world := kernel.Bounds{
				Min: kernel.Vec3{-extent, -extent, -extent},
				Max: kernel.Vec3{extent, extent, extent},
			}
			k, err := newKernel(backend, world)
			if err != nil {
				return err
			}
			app := NewApp(nil)
			res := app.Mesh(source, k, world, cells)
			if err := writeJSON(cmd.OutOrStdout(), out, res); err != nil {
				return err
			}
			if len(res.Errors) > 0 {
				return fmt.Errorf("mesh: %s", res.Errors[0].Message)
			}
			app.logger.Info("meshed sample", "regions", len(res.Meshes), "kernel", k.Name())
			return nil
		},
	}
	def := config.Default()
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&backend, "kernel", def.Kernel, "geometry backend: exact or sdfx")
	cmd.Flags().IntVar(&cells, "cells", def.Cells, "marching cubes cells along the longest axis")
	cmd.Flags().Float64Var(&extent, "world", def.World.Max[0], "half-width of the world box")
	return cmd
}
