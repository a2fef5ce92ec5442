package storage

import (
	"context"
	"fmt"
)

// Record is one point of a parameter sweep.
type Record struct {
	Key     string             `json:"key"`
	Ru      float64            `json:"ru"`
	Rv      float64            `json:"rv"`
	F       float64            `json:"f"`
	K       float64            `json:"k"`
	Path    string             `json:"path"`
	Metrics map[string]float64 `json:"metrics"`
}

// Index stores sweep records by key.
type Index interface {
	Init(ctx context.Context) error
	Put(ctx context.Context, r Record) error
	Get(ctx context.Context, key string) (Record, bool, error)
	List(ctx context.Context) ([]Record, error)
}

func NewIndex(kind, sqlitePath string) (Index, error) {
	switch kind {
	case "", "memory":
		return NewMemoryIndex(), nil
	case "sqlite":
		return NewSQLiteIndex(sqlitePath), nil
	default:
		return nil, fmt.Errorf("unsupported index backend: %s", kind)
	}
}

func CloseIfSupported(idx Index) error {
	closer, ok := idx.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
