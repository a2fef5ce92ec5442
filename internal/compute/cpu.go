package compute

import (
	"runtime"
	"sync"
)

// MinBand is the smallest band the CPU backend hands to a goroutine. Narrower
// work runs on the calling goroutine.
const MinBand = 16

type CPUBackend struct {
	workers int
}

func NewCPUBackend() *CPUBackend {
	return NewCPUBackendN(runtime.NumCPU())
}

func NewCPUBackendN(workers int) *CPUBackend {
	return &CPUBackend{workers: max(workers, 1)}
}

func (c *CPUBackend) Name() string    { return "cpu" }
func (c *CPUBackend) Available() bool { return true }
func (c *CPUBackend) Workers() int    { return c.workers }
func (c *CPUBackend) Cleanup()        {}

func (c *CPUBackend) Range(n int, fn func(worker, lo, hi int)) {
	if n <= 0 {
		return
	}
	workers := min(c.workers, n/MinBand)
	if workers < 2 {
		fn(0, 0, n)
		return
	}

	var wg sync.WaitGroup
	chunkSize := (n + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			break
		}
		wg.Add(1)
		go func(worker, lo, hi int) {
			defer wg.Done()
			fn(worker, lo, hi)
		}(w, start, end)
	}

	wg.Wait()
}

// SerialBackend runs everything on the calling goroutine.
type SerialBackend struct{}

func NewSerialBackend() *SerialBackend { return &SerialBackend{} }

func (SerialBackend) Name() string    { return "serial" }
func (SerialBackend) Available() bool { return true }
func (SerialBackend) Workers() int    { return 1 }
func (SerialBackend) Cleanup()        {}

func (SerialBackend) Range(n int, fn func(worker, lo, hi int)) {
	if n > 0 {
		fn(0, 0, n)
	}
}
