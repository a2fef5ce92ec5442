package sweep

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/san-kum/rdsim/internal/dynamo"
	"github.com/san-kum/rdsim/internal/initcond"
	"github.com/san-kum/rdsim/internal/metrics"
	"github.com/san-kum/rdsim/internal/npy"
	"github.com/san-kum/rdsim/internal/sim"
	"github.com/san-kum/rdsim/internal/storage"
)

type Result struct {
	Point   Point
	Path    string
	Metrics map[string]float64
	Skipped bool
	Err     error
}

type Summary struct {
	Total   int
	Done    int
	Skipped int
	Failed  int
}

// Run evolves the base initial field once per point and writes the last
// retained frame (step Params.LastKept of the base config), shape (W, H, 2),
// to OutDir. Steps after it are never computed. Completed points are recorded in idx
// when it is not nil. onResult is called from a single goroutine. A failed
// point does not stop the sweep; cancellation does.
func Run(ctx context.Context, spec *Spec, idx storage.Index, onResult func(Result)) (Summary, error) {
	if err := spec.Validate(); err != nil {
		return Summary{}, err
	}
	base, err := spec.Base.Params()
	if err != nil {
		return Summary{}, err
	}
	if err := base.Validate(); err != nil {
		return Summary{}, err
	}
	last := base.LastKept()
	base.NSteps = last + 1
	base.SliceStep = max(1, last)
	base.Progress = nil

	f0, err := initcond.Generate(spec.Base.Dims(), spec.Base.Init, initcond.NewRNG(spec.Base.Seed))
	if err != nil {
		return Summary{}, err
	}
	if err := os.MkdirAll(spec.OutDir, 0755); err != nil {
		return Summary{}, err
	}

	points := spec.Points()
	workers := spec.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	jobs := make(chan Point)
	results := make(chan Result)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				results <- runPoint(ctx, spec, idx, f0, base, p)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		defer close(jobs)
		for _, p := range points {
			select {
			case jobs <- p:
			case <-ctx.Done():
				return
			}
		}
	}()

	sum := Summary{Total: len(points)}
	for res := range results {
		switch {
		case res.Skipped:
			sum.Skipped++
		case res.Err != nil:
			sum.Failed++
		default:
			sum.Done++
		}
		if onResult != nil {
			onResult(res)
		}
	}
	return sum, ctx.Err()
}

func runPoint(ctx context.Context, spec *Spec, idx storage.Index, f0 *dynamo.Field, base dynamo.Params, pt Point) Result {
	res := Result{Point: pt, Path: filepath.Join(spec.OutDir, FileName(pt))}
	if spec.Resume {
		if _, err := os.Stat(res.Path); err == nil {
			res.Skipped = true
			return res
		}
	}

	p := base
	p.Ru, p.Rv, p.F, p.K = pt.Ru, pt.Rv, pt.F, pt.K
	if base.Kernel != nil {
		p.Kernel = base.Kernel.Clone()
	}

	s := sim.NewSerial()
	s.AddMetric(metrics.NewMeanV())
	s.AddMetric(metrics.NewExcursion())
	s.AddMetric(metrics.NewChange())

	out, err := s.Run(ctx, f0.Clone(), p)
	if err != nil {
		res.Err = err
		return res
	}
	res.Metrics = out.Metrics

	if err := writeFrame(res.Path, out.Series.Final()); err != nil {
		res.Err = err
		return res
	}

	if idx != nil {
		rec := storage.Record{
			Key:     Key(pt),
			Ru:      pt.Ru,
			Rv:      pt.Rv,
			F:       pt.F,
			K:       pt.K,
			Path:    res.Path,
			Metrics: res.Metrics,
		}
		if err := idx.Put(ctx, rec); err != nil {
			res.Err = fmt.Errorf("index %s: %w", rec.Key, err)
		}
	}
	return res
}

func writeFrame(path string, f *dynamo.Field) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()
	shape := f.Shape()
	return npy.Write(file, f.Dense(), shape[:])
}

// LoadFrame reads a final frame written by Run.
func LoadFrame(path string) (*dynamo.Field, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, shape, err := npy.Read(file)
	if err != nil {
		return nil, err
	}
	return dynamo.FromDense(data, shape)
}
