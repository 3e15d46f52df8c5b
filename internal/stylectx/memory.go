package stylectx

import "sync"

// Memory is an in-process sink. Writes become visible on Flush, which
// replaces the previous snapshot wholesale.
type Memory struct {
	staging

	mu      sync.RWMutex
	current Snapshot
	flushes int
}

// NewMemory creates an empty Memory sink.
func NewMemory() *Memory {
	return &Memory{current: newSnapshot()}
}

func (m *Memory) SetProperty(name, value string) { m.setProperty(name, value) }

func (m *Memory) SetAttribute(name, value string) { m.setAttribute(name, value) }

func (m *Memory) SetClass(name string, on bool) { m.setClass(name, on) }

// Flush publishes the staged writes.
func (m *Memory) Flush() error {
	next := m.take()

	m.mu.Lock()
	m.current = next
	m.flushes++
	m.mu.Unlock()
	return nil
}

// Property returns a flushed property value.
func (m *Memory) Property(name string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.current.Properties[name]
	return value, ok
}

// Attribute returns a flushed root attribute.
func (m *Memory) Attribute(name string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Attributes[name]
}

// HasClass reports whether a root class is on.
func (m *Memory) HasClass(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Classes[name]
}

// Snapshot returns a copy of the flushed state.
func (m *Memory) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.clone()
}

// Flushes returns how many times Flush ran.
func (m *Memory) Flushes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.flushes
}
