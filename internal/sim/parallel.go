package sim

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/san-kum/rdsim/internal/dynamo"
)

// Job is one independent run.
type Job struct {
	ID     string
	Field  *dynamo.Field
	Params dynamo.Params
}

type JobResult struct {
	Job    Job
	Result *Result
	Err    error
}

// Ensemble runs independent jobs on a bounded number of workers. Each job
// gets its own simulator, field copy and kernel copy.
type Ensemble struct {
	workers int
	factory func() *Simulator
}

// NewEnsemble uses runtime.NumCPU workers when workers < 1 and NewSerial
// when factory is nil.
func NewEnsemble(workers int, factory func() *Simulator) *Ensemble {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if factory == nil {
		factory = NewSerial
	}
	return &Ensemble{workers: workers, factory: factory}
}

// Run executes all jobs and returns their results in job order. onDone, if
// set, is called from a single goroutine as jobs finish. Jobs not started
// before ctx is cancelled report ctx.Err().
func (e *Ensemble) Run(ctx context.Context, jobs []Job, onDone func(JobResult)) ([]JobResult, error) {
	results := make([]JobResult, len(jobs))
	idx := make(chan int)
	done := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idx {
				job := jobs[i]
				p := job.Params
				if p.Kernel != nil {
					p.Kernel = p.Kernel.Clone()
				}
				var res *Result
				var err error
				if job.Field == nil {
					err = fmt.Errorf("%w: job %q has no field", dynamo.ErrShape, job.ID)
				} else {
					res, err = e.factory().Run(ctx, job.Field.Clone(), p)
				}
				results[i] = JobResult{Job: job, Result: res, Err: err}
				done <- i
			}
		}()
	}

	go func() {
		defer close(idx)
		for i := range jobs {
			select {
			case idx <- i:
			case <-ctx.Done():
				for j := i; j < len(jobs); j++ {
					results[j] = JobResult{Job: jobs[j], Err: ctx.Err()}
				}
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(done)
	}()

	for i := range done {
		if onDone != nil {
			onDone(results[i])
		}
	}

	return results, ctx.Err()
}
