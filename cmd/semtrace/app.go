package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chazu/semtrace/pkg/assemble"
	"github.com/chazu/semtrace/pkg/config"
	"github.com/chazu/semtrace/pkg/engine"
	"github.com/chazu/semtrace/pkg/kernel"
	"github.com/chazu/semtrace/pkg/kernel/exact"
	"github.com/chazu/semtrace/pkg/kernel/sdfx"
	"github.com/chazu/semtrace/pkg/region"
	"github.com/chazu/semtrace/pkg/sample"
	"github.com/chazu/semtrace/pkg/tessellate"
	"github.com/prometheus/client_golang/prometheus"
	"gonum.org/v1/gonum/spatial/r3"
)

// colorPalette assigns preview colors to materials in order of first use.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App runs the sample pipeline behind every command.
type App struct {
	engine *engine.Engine
	logger *slog.Logger
}

func NewApp(logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{engine: engine.NewEngine(engine.WithLogger(logger)), logger: logger}
}

// MeshData is a region mesh with its preview color.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Material string    `json:"material"`
	Color    string    `json:"color"`
}

// EvalErrorData is an evaluation or validation finding.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// MeshResult is the output of the mesh command.
type MeshResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// sampleError reports a sample that did not evaluate or validate.
type sampleError struct {
	errs []engine.EvalError
}

func (e *sampleError) Error() string {
	if len(e.errs) == 1 {
		return "sample: " + e.errs[0].Error()
	}
	return fmt.Sprintf("sample: %s (and %d more)", e.errs[0].Error(), len(e.errs)-1)
}

// Check evaluates and validates source.
func (a *App) Check(source string) (engine.EvalResult, error) {
	res, err := a.engine.Check(source)
	if err != nil {
		return res, err
	}
	for _, w := range res.Warnings {
		a.logger.Warn("sample warning", "line", w.Line, "message", w.Message)
	}
	return res, nil
}

// graph returns the validated graph for source or the findings that stop it.
func (a *App) graph(source string) (*sample.Graph, error) {
	res, err := a.Check(source)
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		return nil, &sampleError{errs: res.Errors}
	}
	return res.Graph, nil
}

// newKernel picks a backend by name. The world box bounds sdfx half-spaces
// and complements.
func newKernel(name string, world kernel.Bounds) (kernel.Kernel, error) {
	switch name {
	case "", "exact":
		return exact.New(), nil
	case "sdfx":
		k, err := sdfx.New(world)
		if err != nil {
			return nil, err
		}
		return k, nil
	default:
		return nil, fmt.Errorf("unknown kernel %q", name)
	}
}

// Mesh evaluates source and tessellates every region with k.
func (a *App) Mesh(source string, k kernel.Kernel, bounds kernel.Bounds, cells int) MeshResult {
	result := MeshResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	res, err := a.Check(source)
	if err != nil {
		a.logger.Error("evaluate failed", "err", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	for _, w := range res.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Line: w.Line, Col: w.Col, Message: w.Message})
	}
	if !res.OK() {
		for _, e := range res.Errors {
			result.Errors = append(result.Errors, EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message})
		}
		return result
	}

	asm, err := assemble.New(k, a.logger).Assemble(res.Graph)
	if err == nil {
		var meshes []*kernel.Mesh
		meshes, err = tessellate.Tessellate(asm, k, bounds, cells)
		if err == nil {
			result.Meshes = colorMeshes(meshes)
			return result
		}
	}
	a.logger.Error("tessellate failed", "err", err)
	result.Errors = append(result.Errors, EvalErrorData{Message: "tessellation failed: " + err.Error()})
	return result
}

func colorMeshes(meshes []*kernel.Mesh) []MeshData {
	colors := make(map[string]string)
	out := make([]MeshData, 0, len(meshes))
	for _, m := range meshes {
		c, ok := colors[m.Material]
		if !ok {
			c = colorPalette[len(colors)%len(colorPalette)]
			colors[m.Material] = c
		}
		out = append(out, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.PartName,
			Material: m.Material,
			Color:    c,
		})
	}
	return out
}

// EventData is one boundary crossing in trace output.
type EventData struct {
	U            float64    `json:"u"`
	Point        [3]float64 `json:"point"`
	Normal       [3]float64 `json:"normal"`
	From         string     `json:"from"`
	To           string     `json:"to"`
	FromMaterial string     `json:"fromMaterial"`
	ToMaterial   string     `json:"toMaterial"`
}

// SegmentData is the path length spent in one region.
type SegmentData struct {
	Region   string  `json:"region"`
	Material string  `json:"material"`
	Length   float64 `json:"length"`
}

type RayData struct {
	Start    [3]float64    `json:"start"`
	End      [3]float64    `json:"end"`
	Events   []EventData   `json:"events"`
	Segments []SegmentData `json:"segments"`
}

// TraceResult is the output of the trace command.
type TraceResult struct {
	Chamber string    `json:"chamber"`
	Rays    []RayData `json:"rays"`
}

func arr(v r3.Vec) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

// Trace runs the beam of cfg through the sample in source. Counters are
// registered on reg when it is non-nil.
func (a *App) Trace(ctx context.Context, cfg *config.Config, source string, reg prometheus.Registerer) (*TraceResult, error) {
	g, err := a.graph(source)
	if err != nil {
		return nil, err
	}
	asm, err := assemble.New(exact.New(), a.logger).Assemble(g)
	if err != nil {
		return nil, err
	}
	if cfg.Chamber != "" {
		asm.Chamber = cfg.Chamber
	}
	tree, err := region.FromAssembly(asm)
	if err != nil {
		return nil, err
	}
	rays, err := cfg.Rays()
	if err != nil {
		return nil, err
	}

	tracer := region.NewTracer(tree,
		region.WithMetrics(region.NewMetrics(reg)),
		region.WithLogger(a.logger))
	traced, err := tracer.TraceAll(ctx, rays, cfg.Workers)
	if err != nil {
		return nil, err
	}

	out := &TraceResult{Chamber: asm.Chamber, Rays: make([]RayData, len(rays))}
	for i, ray := range rays {
		rd := RayData{
			Start:    arr(ray.P0),
			End:      arr(ray.P1),
			Events:   make([]EventData, 0, len(traced[i])),
			Segments: []SegmentData{},
		}
		for _, e := range traced[i] {
			rd.Events = append(rd.Events, EventData{
				U:            e.U,
				Point:        arr(e.Point),
				Normal:       arr(e.Normal),
				From:         e.From.Name,
				To:           e.To.Name,
				FromMaterial: e.From.Material,
				ToMaterial:   e.To.Material,
			})
		}
		for _, s := range region.Path(tree.Locate(ray.P0, ray.P1), traced[i]) {
			rd.Segments = append(rd.Segments, SegmentData{
				Region:   s.Region.Name,
				Material: s.Region.Material,
				Length:   s.Length(ray.P0, ray.P1),
			})
		}
		out.Rays[i] = rd
	}
	return out, nil
}
