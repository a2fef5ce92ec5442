package compute

import "runtime"

// Backend splits index ranges across workers. fn receives the worker number
// in [0, Workers()) and a half-open band [lo, hi); bands never overlap and a
// worker number is used by at most one band at a time.
type Backend interface {
	Name() string
	Available() bool
	Workers() int
	Range(n int, fn func(worker, lo, hi int))
	Cleanup()
}

var activeBackend Backend

func init() {
	activeBackend = AutoSelectBackend()
}

func SetBackend(b Backend) {
	if activeBackend != nil {
		activeBackend.Cleanup()
	}
	activeBackend = b
}

func GetBackend() Backend {
	return activeBackend
}

// AutoSelectBackend uses every CPU when there is more than one.
func AutoSelectBackend() Backend {
	if runtime.NumCPU() > 1 {
		return NewCPUBackend()
	}
	return NewSerialBackend()
}
