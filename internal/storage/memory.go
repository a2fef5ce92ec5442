package storage

import (
	"context"
	"errors"
	"maps"
	"sort"
	"sync"
)

type MemoryIndex struct {
	mu          sync.RWMutex
	initialized bool
	records     map[string]Record
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{}
}

func (s *MemoryIndex) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.records = make(map[string]Record)
	return nil
}

func (s *MemoryIndex) Put(_ context.Context, r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("index is not initialized")
	}
	r.Metrics = maps.Clone(r.Metrics)
	s.records[r.Key] = r
	return nil
}

func (s *MemoryIndex) Get(_ context.Context, key string) (Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[key]
	return r, ok, nil
}

// List returns records ordered by key.
func (s *MemoryIndex) List(_ context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
