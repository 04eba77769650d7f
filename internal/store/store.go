// Package store holds the in-memory time series shared between the ingest
// worker and the serving layer. One writer appends; any number of readers
// take snapshots. Nothing here persists past the process.
package store

import (
	"sync"

	"github.com/danmuck/telemctl/internal/signal"
)

// Sample is one timestamped measurement within a series.
type Sample struct {
	TimestampMS uint32
	Value       signal.Value
}

// Series is the ordered history of one signal. Append order equals arrival
// order from the wire; existing samples are never mutated or reordered.
type Series struct {
	Name    string
	Samples []Sample
}

// Store maps signal name to its series. A series exists only once the signal
// has received at least one sample; absent series read as empty.
//
// The store is created once at process start and handed explicitly to the
// ingest worker and the HTTP layer. It is never package-level state.
type Store struct {
	mu     sync.RWMutex
	series map[string]*Series
}

func New() *Store {
	return &Store{series: make(map[string]*Series)}
}

// Append adds one sample to the named series, creating it on first use.
// Safe under one concurrent writer and any number of readers.
func (s *Store) Append(name string, timestampMS uint32, value signal.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ser, ok := s.series[name]
	if !ok {
		ser = &Series{Name: name}
		s.series[name] = ser
	}
	ser.Samples = append(ser.Samples, Sample{TimestampMS: timestampMS, Value: value})
}

// Snapshot returns a consistent point-in-time copy of every series. Readers
// never observe a partially written series, and the writer is blocked for at
// most the duration of the copy.
func (s *Store) Snapshot() map[string]Series {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Series, len(s.series))
	for name, ser := range s.series {
		samples := make([]Sample, len(ser.Samples))
		copy(samples, ser.Samples)
		out[name] = Series{Name: ser.Name, Samples: samples}
	}
	return out
}

// Len reports the sample count of one series; zero for absent series.
func (s *Store) Len(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ser, ok := s.series[name]
	if !ok {
		return 0
	}
	return len(ser.Samples)
}

// SeriesNames returns the names that have at least one sample.
func (s *Store) SeriesNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.series))
	for name := range s.series {
		out = append(out, name)
	}
	return out
}
