// Package wav provides units which read and write wav files. A Reader
// feeds every Writer it's linked to; each unit runs its own goroutine
// between Start and Stop.
package wav

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/pipelined/river"
)

// Unit categories.
const (
	ReaderCategory river.UnitCategory = "WavReader"
	WriterCategory river.UnitCategory = "WavWriter"
)

// Error codes reported through river.UnitError. Both are fatal.
const (
	CodeIO      = -5
	CodeInvalid = -22
)

var (
	// ErrRunning is returned when unit is started twice.
	ErrRunning = errors.New("unit is running")
	// ErrNotRunning is returned when idle unit is paused or resumed.
	ErrNotRunning = errors.New("unit is not running")
	// ErrInvalidFile is returned when input is not a valid wav file.
	ErrInvalidFile = errors.New("wav is not valid")
)

// state is the lifecycle shared by reader and writer.
type state struct {
	mu      sync.Mutex
	group   river.GroupID
	running bool
	resume  chan struct{} // not nil while paused
	cancel  context.CancelFunc
	done    chan struct{}
	err     *river.UnitError
}

// begin marks unit running and returns context for its goroutine. Must
// be called under lock.
func (s *state) begin() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	s.running = true
	s.resume = nil
	s.cancel = cancel
	s.done = make(chan struct{})
	return ctx
}

// end is deferred by unit goroutine.
func (s *state) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.cancel()
	close(s.done)
}

func (s *state) fail(code int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failLocked(code, err)
}

func (s *state) failLocked(code int, err error) {
	s.err = &river.UnitError{Code: code, Message: err.Error()}
}

// wait blocks while unit is paused. It returns false if unit was
// stopped.
func (s *state) wait(ctx context.Context) bool {
	s.mu.Lock()
	resume := s.resume
	s.mu.Unlock()
	if resume == nil {
		return true
	}
	select {
	case <-resume:
		return true
	case <-ctx.Done():
		return false
	}
}

// Pause implements river.Unit.
func (s *state) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return ErrNotRunning
	}
	if s.resume == nil {
		s.resume = make(chan struct{})
	}
	return nil
}

// Resume implements river.Unit.
func (s *state) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return ErrNotRunning
	}
	if s.resume != nil {
		close(s.resume)
		s.resume = nil
	}
	return nil
}

// Stop implements river.Unit. It blocks until unit goroutine is done.
func (s *state) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.cancel()
	done := s.done
	s.mu.Unlock()
	<-done
	return nil
}

// Reset implements river.Unit. It stops the unit and clears its error.
func (s *state) Reset() error {
	_ = s.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = nil
	s.resume = nil
	return nil
}

// IsStopped implements river.Unit.
func (s *state) IsStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.running
}

// HasErr implements river.Unit.
func (s *state) HasErr() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err != nil
}

// Err implements river.Unit.
func (s *state) Err() river.UnitError {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		return river.UnitError{}
	}
	return *s.err
}

// SetGroupID implements river.Unit.
func (s *state) SetGroupID(id river.GroupID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.group = id
}

// GroupID returns the group id of unit.
func (s *state) GroupID() river.GroupID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.group
}

// Reader decodes wav file and sends buffers to linked writers.
type Reader struct {
	state
	path       string
	bufferSize int
	outputs    []*Writer
}

// NewReader creates a new wav reader. Every buffer holds up to
// bufferSize samples per channel.
func NewReader(path string, bufferSize int) *Reader {
	return &Reader{
		path:       path,
		bufferSize: bufferSize,
	}
}

// Category implements river.Unit.
func (r *Reader) Category() river.UnitCategory {
	return ReaderCategory
}

// Link implements river.Linker. Only writers can be linked.
func (r *Reader) Link(to river.Unit) {
	w, ok := to.(*Writer)
	if !ok {
		return
	}
	r.mu.Lock()
	r.outputs = append(r.outputs, w)
	r.mu.Unlock()
	w.addSource()
}

// Start opens the file and starts decoding.
func (r *Reader) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return ErrRunning
	}
	f, err := os.Open(r.path)
	if err != nil {
		r.failLocked(CodeIO, err)
		return err
	}
	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		_ = f.Close()
		err = fmt.Errorf("%s: %w", r.path, ErrInvalidFile)
		r.failLocked(CodeInvalid, err)
		return err
	}
	outputs := append([]*Writer(nil), r.outputs...)
	ctx := r.begin()
	go r.read(ctx, f, d, outputs)
	return nil
}

func (r *Reader) read(ctx context.Context, f *os.File, d *wav.Decoder, outputs []*Writer) {
	defer r.end()
	defer f.Close()
	format := d.Format()
	bitDepth := int(d.BitDepth)
	ib := &audio.IntBuffer{
		Format:         format,
		Data:           make([]int, r.bufferSize*format.NumChannels),
		SourceBitDepth: bitDepth,
	}
	for {
		if !r.wait(ctx) {
			return
		}
		n, err := d.PCMBuffer(ib)
		if err != nil {
			r.fail(CodeIO, err)
			return
		}
		if n == 0 {
			break
		}
		for _, w := range outputs {
			b := &audio.IntBuffer{
				Format:         format,
				Data:           append([]int(nil), ib.Data[:n]...),
				SourceBitDepth: bitDepth,
			}
			if !w.send(ctx, b) {
				return
			}
		}
	}
	// buffer without data marks the end of this source.
	for _, w := range outputs {
		if !w.send(ctx, &audio.IntBuffer{Format: format, SourceBitDepth: bitDepth}) {
			return
		}
	}
}

// Writer encodes received buffers into wav file. The file is created
// when the first buffer arrives, using its format. If all sources end
// without data, an empty wav file is created.
type Writer struct {
	state
	path    string
	sources int
	in      chan *audio.IntBuffer
}

// NewWriter creates a new wav writer.
func NewWriter(path string) *Writer {
	return &Writer{
		path: path,
		in:   make(chan *audio.IntBuffer, 8),
	}
}

// Category implements river.Unit.
func (w *Writer) Category() river.UnitCategory {
	return WriterCategory
}

func (w *Writer) addSource() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sources++
}

func (w *Writer) send(ctx context.Context, b *audio.IntBuffer) bool {
	select {
	case w.in <- b:
		return true
	case <-ctx.Done():
		return false
	}
}

// Reset implements river.Unit. It stops the writer and drops buffers
// queued before the reset.
func (w *Writer) Reset() error {
	_ = w.state.Reset()
	for {
		select {
		case <-w.in:
		default:
			return nil
		}
	}
}

// Start starts waiting for buffers.
func (w *Writer) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return ErrRunning
	}
	sources := w.sources
	ctx := w.begin()
	go w.write(ctx, sources)
	return nil
}

func (w *Writer) write(ctx context.Context, sources int) {
	defer w.end()
	var (
		f *os.File
		e *wav.Encoder
	)
	defer func() {
		if e == nil {
			return
		}
		if err := e.Close(); err != nil {
			w.fail(CodeIO, err)
		}
		if err := f.Close(); err != nil {
			w.fail(CodeIO, err)
		}
	}()
	open := func(b *audio.IntBuffer) bool {
		var err error
		if f, err = os.Create(w.path); err != nil {
			w.fail(CodeIO, err)
			return false
		}
		e = wav.NewEncoder(f, b.Format.SampleRate, b.SourceBitDepth, b.Format.NumChannels, 1)
		return true
	}
	for sources > 0 {
		if !w.wait(ctx) {
			return
		}
		var b *audio.IntBuffer
		select {
		case b = <-w.in:
		case <-ctx.Done():
			return
		}
		if b.Data == nil {
			sources--
			if sources > 0 || e != nil {
				continue
			}
			// nothing was written, header goes with an empty buffer.
			b = &audio.IntBuffer{Format: b.Format, Data: []int{}, SourceBitDepth: b.SourceBitDepth}
		}
		if e == nil && !open(b) {
			return
		}
		if err := e.Write(b); err != nil {
			w.fail(CodeIO, err)
			return
		}
	}
}
