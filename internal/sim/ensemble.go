package sim

import (
	"context"
	"sync"
)

// Ensemble runs the same scenario across independent solver instances
// in parallel, one goroutine per run. Each run builds its own solver
// and runner through the factory, so no field buffer is ever shared
// and the solver's single-owner rule holds per goroutine.
type Ensemble struct {
	factory func(run int) (*Runner, error)
	numRuns int
}

func NewEnsemble(numRuns int, factory func(run int) (*Runner, error)) *Ensemble {
	return &Ensemble{factory: factory, numRuns: numRuns}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			runner, err := e.factory(idx)
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = runner.Run(ctx, cfg)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
