// Package stylectx provides style sinks: destinations for the active token
// set rendered as custom properties, root attributes and root classes.
package stylectx

import (
	"maps"
	"sort"
	"sync"
)

// Snapshot is the flushed content of a sink.
type Snapshot struct {
	Properties map[string]string
	Attributes map[string]string
	Classes    map[string]bool
}

func newSnapshot() Snapshot {
	return Snapshot{
		Properties: make(map[string]string),
		Attributes: make(map[string]string),
		Classes:    make(map[string]bool),
	}
}

func (s Snapshot) clone() Snapshot {
	return Snapshot{
		Properties: maps.Clone(s.Properties),
		Attributes: maps.Clone(s.Attributes),
		Classes:    maps.Clone(s.Classes),
	}
}

// ActiveClasses returns the classes that are switched on, sorted.
func (s Snapshot) ActiveClasses() []string {
	var out []string
	for name, on := range s.Classes {
		if on {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// PropertyNames returns the property names sorted.
func (s Snapshot) PropertyNames() []string {
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// staging collects writes until they are committed.
type staging struct {
	mu      sync.Mutex
	pending Snapshot
}

func (s *staging) setProperty(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure()
	s.pending.Properties[name] = value
}

func (s *staging) setAttribute(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure()
	s.pending.Attributes[name] = value
}

func (s *staging) setClass(name string, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure()
	s.pending.Classes[name] = on
}

// take returns the staged writes and starts a fresh batch.
func (s *staging) take() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure()
	out := s.pending
	s.pending = newSnapshot()
	return out
}

func (s *staging) ensure() {
	if s.pending.Properties == nil {
		s.pending = newSnapshot()
	}
}
