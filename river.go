package river

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/pipelined/river/log"
	"github.com/pipelined/river/metric"
)

// River is a graph of streamlets keyed by their tags. Iteration always
// follows the tag order.
type River struct {
	mu    sync.Mutex
	graph map[Tag]*Streamlet
	log   Logger
}

// Option provides a way to set functional parameters to river.
type Option func(r *River)

// New creates a new river and applies provided options.
func New(options ...Option) *River {
	r := &River{
		graph: make(map[Tag]*Streamlet),
		log:   log.GetLogger(),
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// WithLogger sets logger to river. If this option is not provided,
// logger configured from environment is used.
func WithLogger(l Logger) Option {
	return func(r *River) {
		r.log = l
	}
}

// WithStreamlets adds streamlets to river.
func WithStreamlets(streamlets ...*Streamlet) Option {
	return func(r *River) {
		r.insert(streamlets...)
	}
}

// Init adds streamlets to river.
func (r *River) Init(streamlets ...*Streamlet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insert(streamlets...)
}

// Add puts streamlet under its tag. Streamlet already stored under the
// same tag is replaced.
func (r *River) Add(s *Streamlet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insert(s)
}

// AddAs stamps streamlet with the group id and adds it to river.
func (r *River) AddAs(id GroupID, s *Streamlet) {
	if s == nil {
		return
	}
	s.SetGroupID(id)
	r.Add(s)
}

func (r *River) insert(streamlets ...*Streamlet) {
	for _, s := range streamlets {
		if s == nil {
			continue
		}
		r.graph[s.Tag()] = s
	}
}

// Get returns streamlet stored under the tag.
func (r *River) Get(t Tag) (*Streamlet, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.graph[t]
	return s, ok
}

// Streamlets returns all streamlets in tag order.
func (r *River) Streamlets() []*Streamlet {
	r.mu.Lock()
	defer r.mu.Unlock()
	tags := r.tags()
	streamlets := make([]*Streamlet, 0, len(tags))
	for _, t := range tags {
		streamlets = append(streamlets, r.graph[t])
	}
	return streamlets
}

// StreamletsByCategory returns streamlets which tag category matches
// the category of probe. Name of probe is ignored.
func (r *River) StreamletsByCategory(probe Tag) []*Streamlet {
	r.mu.Lock()
	defer r.mu.Unlock()
	var streamlets []*Streamlet
	for _, t := range r.tags() {
		if t.Category == probe.Category {
			streamlets = append(streamlets, r.graph[t])
		}
	}
	return streamlets
}

// Count returns 1 if the tag is present and 0 otherwise.
func (r *River) Count(t Tag) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.graph[t]; ok {
		return 1
	}
	return 0
}

// Len returns number of streamlets.
func (r *River) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.graph)
}

// Erase removes streamlet stored under the tag.
func (r *River) Erase(t Tag) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.graph, t)
}

// Clear removes all streamlets. Streamlets themselves are not cleared.
func (r *River) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.graph = make(map[Tag]*Streamlet)
}

// each calls fn for every streamlet in tag order. River lock is held
// for the whole iteration.
func (r *River) each(counter string, fn func(Tag, *Streamlet)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tags() {
		metric.AddLabel(t.Category.String(), counter)
		fn(t, r.graph[t])
	}
}

// Start starts all streamlets in tag order. Like Streamlet.Start it is
// best effort and reports nothing, check Err or Errors afterwards.
func (r *River) Start() {
	r.each(metric.StartCounter, func(t Tag, s *Streamlet) {
		r.log.Info(fmt.Sprintf("%v started", t))
		s.Start()
	})
}

// Pause pauses all streamlets.
func (r *River) Pause() {
	r.each(metric.PauseCounter, func(_ Tag, s *Streamlet) {
		s.Pause()
	})
}

// Resume resumes all streamlets.
func (r *River) Resume() {
	r.each(metric.ResumeCounter, func(_ Tag, s *Streamlet) {
		s.Resume()
	})
}

// Stop stops all streamlets.
func (r *River) Stop() {
	r.each(metric.StopCounter, func(t Tag, s *Streamlet) {
		r.log.Debug(fmt.Sprintf("%v stopping", t))
		s.Stop()
	})
}

// Reset resets all streamlets.
func (r *River) Reset() {
	r.each(metric.ResetCounter, func(_ Tag, s *Streamlet) {
		s.Reset()
	})
}

// IsStopped returns true if every streamlet is stopped. Empty river is
// stopped.
func (r *River) IsStopped() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tags() {
		if !r.graph[t].IsStopped() {
			return false
		}
	}
	return true
}

// Err returns the first fatal code reported by streamlets, 0 if there
// is none. Non-fatal codes are ignored, use Errors to see them.
func (r *River) Err() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tags() {
		if code := r.graph[t].Err(); IsFatal(code) {
			return code
		}
	}
	return 0
}

// Errors returns all errors reported by units of all streamlets.
func (r *River) Errors() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var errs unitErrors
	for _, t := range r.tags() {
		if err := r.graph[t].Errors(); err != nil {
			errs = append(errs, fmt.Errorf("%v: %w", t, err))
		}
	}
	return errs.ret()
}

// Dump returns tags of all streamlets, one per line.
func (r *River) Dump() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var b strings.Builder
	for _, t := range r.tags() {
		b.WriteString(t.String())
		b.WriteString("\n")
	}
	return b.String()
}

// tags returns sorted keys of the graph. Must be called under lock.
func (r *River) tags() []Tag {
	tags := make([]Tag, 0, len(r.graph))
	for t := range r.graph {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool {
		return tags[i].Less(tags[j])
	})
	return tags
}
