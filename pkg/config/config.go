// Package config loads semtrace run files.
//
// A run file is YAML. Any field it leaves out keeps the value from Default,
// and the merged result is checked with struct tags before use.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"runtime"

	"github.com/chazu/semtrace/pkg/kernel"
	"github.com/chazu/semtrace/pkg/region"
	"github.com/go-playground/validator/v10"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("config: invalid run file")

// Vec is a point or direction written as a three element YAML sequence.
type Vec [3]float64

func (v Vec) R3() r3.Vec           { return r3.Vec{X: v[0], Y: v[1], Z: v[2]} }
func (v Vec) Kernel() kernel.Vec3 { return kernel.Vec3(v) }

// Config is one trace run.
type Config struct {
	// Sample is the sample description file. A relative path is resolved
	// against the directory of the run file.
	Sample string `yaml:"sample" validate:"required"`
	// Chamber overrides the chamber material declared by the sample.
	Chamber string `yaml:"chamber,omitempty"`
	World   World  `yaml:"world"`
	Kernel  string `yaml:"kernel" validate:"oneof=exact sdfx"`
	Cells   int    `yaml:"cells" validate:"gte=8,lte=1024"`
	Beam    Beam   `yaml:"beam"`
	Workers int    `yaml:"workers" validate:"gte=1"`
	Output  Output `yaml:"output"`
}

// World is the box that meshing and clipped half-spaces are limited to.
type World struct {
	Min Vec `yaml:"min"`
	Max Vec `yaml:"max"`
}

type Beam struct {
	Origin    Vec     `yaml:"origin"`
	Direction Vec     `yaml:"direction" validate:"nonzerovec"`
	Spread    float64 `yaml:"spread" validate:"gte=0"`
	Count     int     `yaml:"count" validate:"gte=1,lte=1000"`
	Length    float64 `yaml:"length" validate:"gt=0"`
}

// Output names where results go. An empty Events path means stdout; an
// empty Mesh or Metrics path skips that output.
type Output struct {
	Events  string `yaml:"events,omitempty"`
	Mesh    string `yaml:"mesh,omitempty"`
	Metrics string `yaml:"metrics,omitempty"`
}

// Default returns the settings a run file starts from. Lengths are in
// nanometres.
func Default() Config {
	return Config{
		World:   World{Min: Vec{-1000, -1000, -1000}, Max: Vec{1000, 1000, 1000}},
		Kernel:  "exact",
		Cells:   64,
		Workers: runtime.NumCPU(),
		Beam: Beam{
			Origin:    Vec{0, 0, 100},
			Direction: Vec{0, 0, -1},
			Count:     1,
			Length:    1000,
		},
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("nonzerovec", validateNonZeroVec)
	v.RegisterStructValidation(validateWorld, World{})
	return v
}

func validateNonZeroVec(fl validator.FieldLevel) bool {
	f := fl.Field()
	if f.Kind() != reflect.Array {
		return false
	}
	for i := range f.Len() {
		if f.Index(i).Float() != 0 {
			return true
		}
	}
	return false
}

func validateWorld(sl validator.StructLevel) {
	w := sl.Current().Interface().(World)
	for i := range 3 {
		if !(w.Min[i] < w.Max[i]) {
			sl.ReportError(w.Max, "Max", "Max", "gtmin", "")
			return
		}
	}
}

// Parse decodes a run file over Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads and parses the run file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if !filepath.IsAbs(cfg.Sample) {
		cfg.Sample = filepath.Join(filepath.Dir(path), cfg.Sample)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) Bounds() kernel.Bounds {
	return kernel.Bounds{Min: c.World.Min.Kernel(), Max: c.World.Max.Kernel()}
}

func (c *Config) Rays() ([]region.Ray, error) {
	return region.Beam{
		Origin:    c.Beam.Origin.R3(),
		Direction: c.Beam.Direction.R3(),
		Spread:    c.Beam.Spread,
		Count:     c.Beam.Count,
		Length:    c.Beam.Length,
	}.Rays()
}
