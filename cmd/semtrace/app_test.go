package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/chazu/semtrace/pkg/config"
	"github.com/chazu/semtrace/pkg/kernel"
	"github.com/chazu/semtrace/pkg/kernel/exact"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var previewWorld = kernel.Bounds{
	Min: kernel.Vec3{-600, -600, -500},
	Max: kernel.Vec3{600, 600, 200},
}

func readExample(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile("../../examples/" + name)
	require.NoError(t, err)
	return string(data)
}

// TestE2EParticleMesh runs the preview path: source → engine → assembly →
// meshes.
func TestE2EParticleMesh(t *testing.T) {
	app := NewApp(nil)
	result := app.Mesh(readExample(t, "particle.lisp"), exact.New(), previewWorld, 24)

	require.Empty(t, result.Errors)
	require.Len(t, result.Meshes, 3)

	want := map[string]string{
		"substrate":     "silicon",
		"particle-core": "gold",
		"particle-cap":  "gold",
	}
	colors := map[string]string{}
	for _, m := range result.Meshes {
		assert.Equal(t, want[m.PartName], m.Material, "part %q", m.PartName)
		assert.NotEmpty(t, m.Vertices, "part %q", m.PartName)
		assert.NotEmpty(t, m.Indices, "part %q", m.PartName)
		assert.NotEmpty(t, m.Color, "part %q", m.PartName)
		colors[m.PartName] = m.Color
	}
	// Color follows the material, not the region.
	assert.Equal(t, colors["particle-core"], colors["particle-cap"])
	assert.NotEqual(t, colors["substrate"], colors["particle-core"])
}

func TestE2ELayersMeshSdfx(t *testing.T) {
	world := kernel.Bounds{
		Min: kernel.Vec3{-1100, -1100, -500},
		Max: kernel.Vec3{1100, 1100, 200},
	}
	k, err := newKernel("sdfx", world)
	require.NoError(t, err)

	result := NewApp(nil).Mesh(readExample(t, "layers.lisp"), k, world, 24)
	require.Empty(t, result.Errors)
	assert.Len(t, result.Meshes, 4)
}

func TestE2EMeshEmptySource(t *testing.T) {
	result := NewApp(nil).Mesh("", exact.New(), previewWorld, 16)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Meshes)
}

func TestE2EMeshSyntaxError(t *testing.T) {
	result := NewApp(nil).Mesh(`(region "a"`, exact.New(), previewWorld, 16)
	assert.NotEmpty(t, result.Errors)
	assert.Empty(t, result.Meshes)
}

func TestE2EMeshValidationError(t *testing.T) {
	result := NewApp(nil).Mesh(`(region "a" (sphere :radius -2) :material "gold")`, exact.New(), previewWorld, 16)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0].Message, "sphere radius")
}

func TestE2EMeshWarnings(t *testing.T) {
	result := NewApp(nil).Mesh(`(region "floor" (plane :normal (vec3 0 0 1)) :material "carbon")`,
		exact.New(), previewWorld, 16)
	require.Empty(t, result.Errors)
	assert.Len(t, result.Warnings, 1)
	assert.Len(t, result.Meshes, 1)
}

func TestE2EColorPaletteWrapping(t *testing.T) {
	var src strings.Builder
	for i := range len(colorPalette) + 1 {
		fmt.Fprintf(&src, "(region \"r%d\" (sphere :center (vec3 %d 0 0) :radius 2) :material \"m%d\")\n", i, i*10, i)
	}
	result := NewApp(nil).Mesh(src.String(), exact.New(), previewWorld, 16)
	require.Empty(t, result.Errors)
	require.Len(t, result.Meshes, len(colorPalette)+1)
	assert.Equal(t, result.Meshes[0].Color, result.Meshes[len(colorPalette)].Color)
}

func TestE2ETrace(t *testing.T) {
	cfg := config.Default()
	cfg.Sample = "particle.lisp"
	cfg.Beam.Origin = config.Vec{0, 0, 50}
	cfg.Beam.Length = 300
	cfg.Beam.Count = 3
	cfg.Beam.Spread = 100
	cfg.Workers = 2
	require.NoError(t, cfg.Validate())

	reg := prometheus.NewRegistry()
	res, err := NewApp(nil).Trace(context.Background(), &cfg, readExample(t, "particle.lisp"), reg)
	require.NoError(t, err)
	require.Len(t, res.Rays, 9)
	assert.Equal(t, "vacuum", res.Chamber)

	// The centre ray passes the cap, the core and the substrate.
	centre := res.Rays[4]
	var path []string
	for _, e := range centre.Events {
		path = append(path, e.To)
	}
	assert.Equal(t, []string{"particle-cap", "particle-core", "substrate", "chamber"}, path)

	total := 0.0
	for _, s := range centre.Segments {
		total += s.Length
	}
	assert.InDelta(t, 300, total, 1e-6)
	assert.Equal(t, "gold", centre.Events[0].ToMaterial)

	// A corner ray misses the particle.
	corner := res.Rays[0]
	require.Len(t, corner.Events, 2)
	assert.Equal(t, "substrate", corner.Events[0].To)

	n, err := testutil.GatherAndCount(reg, "semtrace_region_traces_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestE2ETraceChamberOverride(t *testing.T) {
	cfg := config.Default()
	cfg.Sample = "particle.lisp"
	cfg.Chamber = "nitrogen"

	res, err := NewApp(nil).Trace(context.Background(), &cfg, readExample(t, "particle.lisp"), nil)
	require.NoError(t, err)
	assert.Equal(t, "nitrogen", res.Chamber)
	require.NotEmpty(t, res.Rays[0].Events)
	assert.Equal(t, "nitrogen", res.Rays[0].Events[0].FromMaterial)
}

func TestE2ETraceInvalidSample(t *testing.T) {
	cfg := config.Default()
	cfg.Sample = "bad.lisp"
	_, err := NewApp(nil).Trace(context.Background(), &cfg, `(region "a" (sphere :radius 0))`, nil)
	var se *sampleError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, err.Error(), "sphere radius")
}

func TestNewKernel(t *testing.T) {
	k, err := newKernel("", previewWorld)
	require.NoError(t, err)
	assert.Equal(t, "exact", k.Name())

	k, err = newKernel("sdfx", previewWorld)
	require.NoError(t, err)
	assert.Equal(t, "sdfx", k.Name())

	_, err = newKernel("manifold", previewWorld)
	assert.Error(t, err)
}
