package controller

import (
	"sync"
	"time"

	"github.com/growlab/pfal-controller/internal/model"
)

// ReadingStore holds the most recent reading per variable. It overwrites
// unconditionally and performs no plausibility checks; ingestion owns input
// filtering. "No reading yet" is reported through the ok flag, never as a
// zero value.
type ReadingStore struct {
	mu       sync.RWMutex
	readings map[model.VariableKind]model.SensorReading
}

func NewReadingStore() *ReadingStore {
	return &ReadingStore{readings: make(map[model.VariableKind]model.SensorReading, len(model.Variables))}
}

func (s *ReadingStore) Update(variable model.VariableKind, value float64, sensorID string, observedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readings[variable] = model.SensorReading{
		Variable:   variable,
		Value:      value,
		SensorID:   sensorID,
		ObservedAt: observedAt,
	}
}

func (s *ReadingStore) Get(variable model.VariableKind) (model.SensorReading, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.readings[variable]
	return r, ok
}

// Snapshot copies the current readings, for the state endpoint.
func (s *ReadingStore) Snapshot() map[model.VariableKind]model.SensorReading {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[model.VariableKind]model.SensorReading, len(s.readings))
	for k, v := range s.readings {
		out[k] = v
	}
	return out
}
