package main

import (
	"fmt"
	"io"

	"github.com/chazu/semtrace/pkg/engine"
	"github.com/chazu/semtrace/pkg/sample"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <sample>",
		Short: "Evaluate and validate a sample description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(args[0])
			if err != nil {
				return err
			}
			res, err := NewApp(nil).Check(source)
			if err != nil {
				return err
			}
			printCheck(cmd.OutOrStdout(), res)
			if !res.OK() {
				return &sampleError{errs: res.Errors}
			}
			return nil
		},
	}
}

func printCheck(w io.Writer, res engine.EvalResult) {
	for _, e := range res.Errors {
		fmt.Fprintf(w, "error: %s\n", e.Error())
	}
	for _, wn := range res.Warnings {
		fmt.Fprintf(w, "warning: %s\n", wn.Message)
	}
	if res.Graph == nil {
		return
	}
	g := res.Graph
	fmt.Fprintf(w, "chamber: %s\n", g.Defaults.Chamber)
	for _, n := range g.Regions() {
		rd, _ := n.Data.(sample.RegionData)
		parent := rd.Parent
		if parent == "" {
			parent = "chamber"
		}
		fmt.Fprintf(w, "region %s: material=%s parent=%s\n", n.Name, rd.Material, parent)
	}
	fmt.Fprintf(w, "%d regions, %d nodes, %d errors, %d warnings\n",
		len(g.Regions()), g.NodeCount(), len(res.Errors), len(res.Warnings))
}
