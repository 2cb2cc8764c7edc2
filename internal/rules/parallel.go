package rules

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// EvaluateAll runs EvaluateClass for every class in the set concurrently.
// Evaluation is shared-nothing: each goroutine reads the immutable facts
// and writes only its own result slot, so results come back in arena order
// regardless of scheduling. Cancellation is checked per class before its
// evaluation starts; the per-class work itself is short and CPU-bound.
func (e *Evaluator) EvaluateAll(ctx context.Context) ([][]Violation, error) {
	classes := e.set.All()
	out := make([][]Violation, len(classes))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i := range classes {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = e.EvaluateClass(classes[i].ID)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
