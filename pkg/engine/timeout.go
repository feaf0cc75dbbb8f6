package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chazu/semtrace/pkg/sample"
)

// EvalTimeout is the default limit for evaluating one sample description.
const EvalTimeout = 5 * time.Second

var (
	ErrTimeout    = errors.New("evaluation timed out")
	ErrSuperseded = errors.New("evaluation superseded by newer request")
)

type evalResult struct {
	graph  *sample.Graph
	errors []EvalError
	err    error
}

// waitWithTimeout returns the result for generation gen from ch. A result
// that arrives after a newer generation started is dropped with
// ErrSuperseded. On ErrTimeout the evaluating goroutine keeps running and
// its eventual result is discarded the same way.
func waitWithTimeout(
	ch <-chan evalResult,
	gen uint64,
	timeout time.Duration,
	mu *sync.Mutex,
	currentGen *uint64,
) (*sample.Graph, []EvalError, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, timeout)
	case res := <-ch:
		mu.Lock()
		stale := gen != *currentGen
		mu.Unlock()
		if stale {
			return nil, nil, ErrSuperseded
		}
		return res.graph, res.errors, res.err
	}
}
