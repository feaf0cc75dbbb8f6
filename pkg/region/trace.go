package region

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/chazu/semtrace/pkg/csg"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultMaxSteps bounds the boundary searches of a single trace.
const DefaultMaxSteps = 10000

// ErrTooManySteps is returned when a trace does not reach the end of its
// segment within the step limit.
var ErrTooManySteps = errors.New("region: too many steps")

// Event is one boundary crossing along a traced segment.
type Event struct {
	U      float64 // segment parameter in (0, 1]
	Point  r3.Vec
	Normal r3.Vec // outward normal of the crossed shape
	From   *Region
	To     *Region
}

// Entering reports whether the crossed shape is being entered.
func (e Event) Entering(p0, p1 r3.Vec) bool {
	return r3.Dot(r3.Sub(p1, p0), e.Normal) < 0
}

// Segment is the part of a traced segment spent inside one region, as an
// interval of the segment parameter.
type Segment struct {
	Region *Region
	U0, U1 float64
}

// Length is the distance covered on p0→p1.
func (s Segment) Length(p0, p1 r3.Vec) float64 {
	return (s.U1 - s.U0) * r3.Norm(r3.Sub(p1, p0))
}

// Path splits a trace into per-region segments. start is the region at the
// beginning of the segment; empty stretches are dropped.
func Path(start *Region, events []Event) []Segment {
	var segs []Segment
	cur, u := start, 0.0
	for _, e := range events {
		if e.U > u {
			segs = append(segs, Segment{Region: cur, U0: u, U1: e.U})
		}
		cur, u = e.To, e.U
	}
	if u < 1 {
		segs = append(segs, Segment{Region: cur, U0: u, U1: 1})
	}
	return segs
}

// Ray is a segment to trace.
type Ray struct {
	P0, P1 r3.Vec
}

// Tracer walks segments through a tree.
type Tracer struct {
	tree     *Tree
	metrics  *Metrics
	logger   *slog.Logger
	maxSteps int
}

// TracerOption configures a Tracer.
type TracerOption func(*Tracer)

func WithMetrics(m *Metrics) TracerOption {
	return func(t *Tracer) {
		if m != nil {
			t.metrics = m
		}
	}
}

func WithLogger(l *slog.Logger) TracerOption {
	return func(t *Tracer) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithMaxSteps sets the step limit; n <= 0 keeps DefaultMaxSteps.
func WithMaxSteps(n int) TracerOption {
	return func(t *Tracer) {
		if n > 0 {
			t.maxSteps = n
		}
	}
}

func NewTracer(tree *Tree, opts ...TracerOption) *Tracer {
	t := &Tracer{tree: tree, maxSteps: DefaultMaxSteps}
	for _, o := range opts {
		o(t)
	}
	if t.metrics == nil {
		t.metrics = NewMetrics(nil)
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	return t
}

func (t *Tracer) Tree() *Tree { return t.tree }

// Trace returns the material boundaries crossed by p0→p1 in order. A
// boundary that separates two shapes of the same region, or where Locate
// finds no change of region, produces no event. Events found before the
// step limit are returned along with ErrTooManySteps.
func (t *Tracer) Trace(p0, p1 r3.Vec) ([]Event, error) {
	t.metrics.traces.Inc()
	if p0 == p1 {
		return nil, nil
	}
	d := r3.Sub(p1, p0)
	at := func(u float64) r3.Vec { return r3.Add(p0, r3.Scale(u, d)) }

	cur := t.tree.Locate(p0, p1)
	var events []Event
	u := 0.0
	for range t.maxSteps {
		t.metrics.steps.Inc()
		b, ok := t.tree.Step(cur, at(u), p1)
		if !ok {
			return events, nil
		}
		hit := u + (1-u)*b.U
		// Past the end of the segment the line is extended so the region
		// just beyond a boundary at u = 1 is still well defined.
		beyond := at(hit + csg.Nudge)
		next := t.tree.Locate(beyond, r3.Add(beyond, d))
		if next != cur {
			events = append(events, Event{
				U:      hit,
				Point:  at(hit),
				Normal: b.Normal,
				From:   cur,
				To:     next,
			})
			t.metrics.crossings.WithLabelValues(cur.Material, next.Material).Inc()
			cur = next
		}
		u = hit + csg.Nudge
		if u >= 1 {
			return events, nil
		}
	}
	t.metrics.truncated.Inc()
	return events, fmt.Errorf("trace after %d steps: %w", t.maxSteps, ErrTooManySteps)
}

// TraceAll traces rays concurrently with at most workers goroutines
// (unbounded when workers <= 0). Results are in ray order. The first
// failing ray, or cancellation of ctx, aborts the rest.
func (t *Tracer) TraceAll(ctx context.Context, rays []Ray, workers int) ([][]Event, error) {
	out := make([][]Event, len(rays))
	g, gCtx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, ray := range rays {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			events, err := t.Trace(ray.P0, ray.P1)
			if err != nil {
				return fmt.Errorf("ray %d: %w", i, err)
			}
			out[i] = events
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	t.logger.Debug("traced rays", "rays", len(rays), "workers", workers)
	return out, nil
}
