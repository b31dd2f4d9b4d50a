package river

import (
	"fmt"
	"sync/atomic"
)

// Unit is an atomic stream-processing element. Units are provided by
// the caller; streamlets only drive their lifecycle and read their
// error state.
type Unit interface {
	Start() error
	Pause() error
	Resume() error
	Stop() error
	Reset() error
	IsStopped() bool
	HasErr() bool
	Err() UnitError
	SetGroupID(GroupID)
	Category() UnitCategory
}

// Linker is implemented by units that can feed other units. The
// connection operator uses it to record data-flow edges.
type Linker interface {
	Link(to Unit)
}

// UnitCategory classifies units, e.g. "AudioEncoder".
type UnitCategory string

// UnitError is an error reported by a unit. A negative Code is fatal.
type UnitError struct {
	Code    int
	Message string
}

func (e UnitError) Error() string {
	return fmt.Sprintf("code %d: %s", e.Code, e.Message)
}

// IsFatal reports whether the code denotes a failure rather than a
// status.
func IsFatal(code int) bool {
	return code < 0
}

// GroupID correlates all units owned by the same streamlet.
type GroupID uint64

var lastGroupID uint64

// NewGroupID returns a new process-unique group id.
func NewGroupID() GroupID {
	return GroupID(atomic.AddUint64(&lastGroupID, 1))
}
