package river

import (
	"fmt"
	"sync"

	"github.com/rs/xid"

	"github.com/pipelined/river/log"
	"github.com/pipelined/river/metric"
)

// Logger is a global interface for river loggers.
type Logger interface {
	Debug(...interface{})
	Info(...interface{})
}

// Streamlet is a named group of units sharing a group id. Besides its
// units it keeps four lists of entries, which are units used as
// connection endpoints. Entries are never derived from units and must
// be set explicitly.
type Streamlet struct {
	mu      sync.Mutex
	tag     Tag
	groupID GroupID
	units   []Unit

	audioIn  []Unit
	audioOut []Unit
	videoIn  []Unit
	videoOut []Unit

	log Logger
}

// StreamletOption provides a way to set functional parameters to
// streamlet.
type StreamletOption func(s *Streamlet)

// NewStreamlet creates a new streamlet and applies provided options.
// Without WithTag the streamlet gets unknown tag with generated name.
// Without WithGroupID a new group id is allocated.
func NewStreamlet(options ...StreamletOption) *Streamlet {
	s := &Streamlet{
		tag:     Unknown.Tag(xid.New().String()),
		groupID: NewGroupID(),
		log:     log.Silent(),
	}
	for _, option := range options {
		option(s)
	}
	for _, u := range s.units {
		u.SetGroupID(s.groupID)
	}
	return s
}

// WithTag sets tag to streamlet.
func WithTag(t Tag) StreamletOption {
	return func(s *Streamlet) {
		s.tag = t
	}
}

// WithGroupID sets group id to streamlet.
func WithGroupID(id GroupID) StreamletOption {
	return func(s *Streamlet) {
		s.groupID = id
	}
}

// WithUnits appends units to streamlet.
func WithUnits(units ...Unit) StreamletOption {
	return func(s *Streamlet) {
		s.units = append(s.units, units...)
	}
}

// WithStreamletLogger sets logger to streamlet. If this option is not
// provided, silent logger is used.
func WithStreamletLogger(l Logger) StreamletOption {
	return func(s *Streamlet) {
		s.log = l
	}
}

// lifecycle calls fn for every unit. Failures don't stop the fan-out.
func (s *Streamlet) lifecycle(counter string, fn func(Unit) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.units {
		metric.Add(u, counter)
		if err := fn(u); err != nil {
			metric.Add(u, metric.FailureCounter)
			s.log.Debug(fmt.Sprintf("%v unit %v failed to %s: %v", s.tag, u.Category(), counter, err))
		}
	}
}

// Start starts all units in the order they were added. Fan-out is best
// effort: a failing unit neither stops the call nor is reported by it,
// the call always succeeds. Failures are observed with Err or Errors.
// Pause, Resume, Stop and Reset follow the same contract.
func (s *Streamlet) Start() {
	s.lifecycle(metric.StartCounter, Unit.Start)
}

// Pause pauses all units.
func (s *Streamlet) Pause() {
	s.lifecycle(metric.PauseCounter, Unit.Pause)
}

// Resume resumes all units.
func (s *Streamlet) Resume() {
	s.lifecycle(metric.ResumeCounter, Unit.Resume)
}

// Stop stops all units.
func (s *Streamlet) Stop() {
	s.lifecycle(metric.StopCounter, Unit.Stop)
}

// Reset resets all units.
func (s *Streamlet) Reset() {
	s.lifecycle(metric.ResetCounter, Unit.Reset)
}

// IsStopped returns true if every unit is stopped. Streamlet without
// units is stopped.
func (s *Streamlet) IsStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.units {
		if !u.IsStopped() {
			return false
		}
	}
	return true
}

// Err returns the code of the first unit which has an error, 0 if none
// has. Code is returned as reported, it can be positive.
func (s *Streamlet) Err() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.units {
		if u.HasErr() {
			return u.Err().Code
		}
	}
	return 0
}

// Errors returns all errors currently reported by units.
func (s *Streamlet) Errors() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs unitErrors
	for _, u := range s.units {
		if u.HasErr() {
			errs = append(errs, u.Err())
		}
	}
	return errs.ret()
}

// Clear releases all units and entries.
func (s *Streamlet) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.units = nil
	s.audioIn = nil
	s.audioOut = nil
	s.videoIn = nil
	s.videoOut = nil
}

// SetUnits replaces units of streamlet.
func (s *Streamlet) SetUnits(units ...Unit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.units = append(make([]Unit, 0, len(units)), units...)
	for _, u := range s.units {
		u.SetGroupID(s.groupID)
	}
}

// AddUnit appends one unit to streamlet.
func (s *Streamlet) AddUnit(u Unit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.SetGroupID(s.groupID)
	s.units = append(s.units, u)
}

// Units returns units in the order they were added.
func (s *Streamlet) Units() []Unit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.units)
}

// UnitsByCategory returns units of provided category.
func (s *Streamlet) UnitsByCategory(c UnitCategory) []Unit {
	s.mu.Lock()
	defer s.mu.Unlock()
	var units []Unit
	for _, u := range s.units {
		if u.Category() == c {
			units = append(units, u)
		}
	}
	return units
}

// AudioIn returns audio input entries.
func (s *Streamlet) AudioIn() []Unit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.audioIn)
}

// AudioOut returns audio output entries.
func (s *Streamlet) AudioOut() []Unit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.audioOut)
}

// VideoIn returns video input entries.
func (s *Streamlet) VideoIn() []Unit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.videoIn)
}

// VideoOut returns video output entries.
func (s *Streamlet) VideoOut() []Unit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.videoOut)
}

// SetAudioIn replaces audio input entries.
func (s *Streamlet) SetAudioIn(units ...Unit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audioIn = clone(units)
}

// SetAudioOut replaces audio output entries.
func (s *Streamlet) SetAudioOut(units ...Unit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audioOut = clone(units)
}

// SetVideoIn replaces video input entries.
func (s *Streamlet) SetVideoIn(units ...Unit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.videoIn = clone(units)
}

// SetVideoOut replaces video output entries.
func (s *Streamlet) SetVideoOut(units ...Unit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.videoOut = clone(units)
}

// AddAudioIn appends one audio input entry.
func (s *Streamlet) AddAudioIn(u Unit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audioIn = append(s.audioIn, u)
}

// AddAudioOut appends one audio output entry.
func (s *Streamlet) AddAudioOut(u Unit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audioOut = append(s.audioOut, u)
}

// AddVideoIn appends one video input entry.
func (s *Streamlet) AddVideoIn(u Unit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.videoIn = append(s.videoIn, u)
}

// AddVideoOut appends one video output entry.
func (s *Streamlet) AddVideoOut(u Unit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.videoOut = append(s.videoOut, u)
}

// SetGroupID sets the group id and stamps it on every unit.
func (s *Streamlet) SetGroupID(id GroupID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groupID = id
	for _, u := range s.units {
		u.SetGroupID(id)
	}
}

// GroupID returns the group id.
func (s *Streamlet) GroupID() GroupID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.groupID
}

// SetTag sets the tag. Changing the tag of a streamlet inside a river
// doesn't move it to another key.
func (s *Streamlet) SetTag(t Tag) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tag = t
}

// Tag returns the tag.
func (s *Streamlet) Tag() Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tag
}

func (s *Streamlet) String() string {
	return s.Tag().String()
}

func clone(units []Unit) []Unit {
	if len(units) == 0 {
		return nil
	}
	return append(make([]Unit, 0, len(units)), units...)
}
