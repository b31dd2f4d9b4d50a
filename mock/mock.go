// Package mock provides a stub unit for river tests.
package mock

import (
	"sync"

	"github.com/pipelined/river"
)

// Counter records how many times every lifecycle method was called.
type Counter struct {
	Started  int
	Paused   int
	Resumed  int
	Stopped  int
	Resetted int
}

// Unit mocks a river.Unit interface. Exported error fields are
// returned by corresponding lifecycle calls.
type Unit struct {
	mu sync.Mutex
	Counter

	Kind river.UnitCategory
	// Fail is reported through HasErr and Err.
	Fail *river.UnitError
	// OnStart is called on every Start, before the counter is updated.
	OnStart func(*Unit)

	ErrorOnStart  error
	ErrorOnPause  error
	ErrorOnResume error
	ErrorOnStop   error
	ErrorOnReset  error

	running bool
	polls   int
	group   river.GroupID
	links   []river.Unit
}

// Start implements river.Unit.
func (m *Unit) Start() error {
	if m.OnStart != nil {
		m.OnStart(m)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Started++
	if m.ErrorOnStart != nil {
		return m.ErrorOnStart
	}
	m.running = true
	return nil
}

// Pause implements river.Unit.
func (m *Unit) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Paused++
	return m.ErrorOnPause
}

// Resume implements river.Unit.
func (m *Unit) Resume() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Resumed++
	return m.ErrorOnResume
}

// Stop implements river.Unit.
func (m *Unit) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Stopped++
	if m.ErrorOnStop != nil {
		return m.ErrorOnStop
	}
	m.running = false
	return nil
}

// Reset implements river.Unit.
func (m *Unit) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Resetted++
	if m.ErrorOnReset != nil {
		return m.ErrorOnReset
	}
	m.running = false
	return nil
}

// IsStopped implements river.Unit. Unit that was never started is
// stopped.
func (m *Unit) IsStopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.polls++
	return !m.running
}

// Polls returns how many times IsStopped was called.
func (m *Unit) Polls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.polls
}

// HasErr implements river.Unit.
func (m *Unit) HasErr() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Fail != nil
}

// Err implements river.Unit.
func (m *Unit) Err() river.UnitError {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail == nil {
		return river.UnitError{}
	}
	return *m.Fail
}

// SetGroupID implements river.Unit.
func (m *Unit) SetGroupID(id river.GroupID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.group = id
}

// GroupID returns last group id set to the unit.
func (m *Unit) GroupID() river.GroupID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.group
}

// Category implements river.Unit.
func (m *Unit) Category() river.UnitCategory {
	return m.Kind
}

// Link implements river.Linker.
func (m *Unit) Link(to river.Unit) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links = append(m.links, to)
}

// Links returns units linked to this one.
func (m *Unit) Links() []river.Unit {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]river.Unit(nil), m.links...)
}

// Calls returns a copy of lifecycle counters.
func (m *Unit) Calls() Counter {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Counter
}

// Plain wraps a unit and hides its river.Linker implementation.
type Plain struct {
	river.Unit
}
