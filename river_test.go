package river_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/pipelined/river"
	"github.com/pipelined/river/log"
	"github.com/pipelined/river/mock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newStreamlet(t river.Tag, units ...river.Unit) *river.Streamlet {
	return river.NewStreamlet(river.WithTag(t), river.WithUnits(units...))
}

func TestRiverScenario(t *testing.T) {
	var started []string
	in := &mock.Unit{OnStart: func(*mock.Unit) { started = append(started, "in") }}
	out := &mock.Unit{OnStart: func(*mock.Unit) { started = append(started, "out") }}
	a := newStreamlet(river.DefaultInput.Tag("in"), in)
	a.SetVideoOut(in)
	b := newStreamlet(river.DefaultOutput.Tag("out"), out)
	b.SetVideoIn(out)
	river.Connect(a, b)

	logger, hook := test.NewNullLogger()
	// insertion order doesn't matter.
	r := river.New(river.WithLogger(logger), river.WithStreamlets(b, a))
	r.Start()

	assert.Equal(t, []string{"in", "out"}, started)
	assert.Equal(t, 1, in.Calls().Started)
	assert.Equal(t, 1, out.Calls().Started)
	assert.Equal(t, []river.Unit{out}, in.Links())
	entries := hook.AllEntries()
	assert.Len(t, entries, 2)
	assert.Equal(t, "[name: in, category: DefaultInput] started", entries[0].Message)
	assert.Equal(t, "[name: out, category: DefaultOutput] started", entries[1].Message)
	assert.False(t, r.IsStopped())

	r.Stop()
	assert.True(t, r.IsStopped())
	assert.Equal(t, 1, in.Calls().Stopped)
	assert.Equal(t, 1, out.Calls().Stopped)
}

func TestRiverAdd(t *testing.T) {
	tag := river.Mix.Tag("mix")
	first, second := newStreamlet(tag), newStreamlet(tag)
	r := river.New(river.WithLogger(log.Silent()))
	r.Add(first)
	r.Add(second)
	r.Add(nil)
	assert.Equal(t, 1, r.Len())
	s, ok := r.Get(tag)
	assert.True(t, ok)
	assert.Equal(t, second, s)

	s, ok = r.Get(river.Mix.Tag("other"))
	assert.False(t, ok)
	assert.Nil(t, s)

	// same name, different category is a different key.
	r.Add(newStreamlet(river.DefaultInput.Tag("mix")))
	assert.Equal(t, 2, r.Len())
}

func TestRiverAddAs(t *testing.T) {
	u := &mock.Unit{}
	s := newStreamlet(river.Mix.Tag("mix"), u)
	r := river.New()
	r.AddAs(99, s)
	r.AddAs(99, nil)
	assert.Equal(t, 1, r.Count(river.Mix.Tag("mix")))
	assert.Equal(t, river.GroupID(99), s.GroupID())
	assert.Equal(t, river.GroupID(99), u.GroupID())
}

func TestRiverQueries(t *testing.T) {
	in1 := newStreamlet(river.DefaultInput.Tag("b"))
	in2 := newStreamlet(river.DefaultInput.Tag("a"))
	out := newStreamlet(river.DefaultOutput.Tag("c"))
	r := river.New()
	r.Init(in1, out, in2)

	assert.Equal(t, []*river.Streamlet{in2, in1, out}, r.Streamlets())
	// probe name is ignored.
	assert.Equal(t, []*river.Streamlet{in2, in1}, r.StreamletsByCategory(river.DefaultInput.Tag("zzz")))
	assert.Equal(t, []*river.Streamlet{out}, r.StreamletsByCategory(river.DefaultOutput.Tag("")))
	assert.Empty(t, r.StreamletsByCategory(river.Mix.Tag("")))

	assert.Equal(t, 1, r.Count(river.DefaultInput.Tag("a")))
	assert.Equal(t, 0, r.Count(river.DefaultOutput.Tag("a")))

	assert.Equal(t,
		"[name: a, category: DefaultInput]\n[name: b, category: DefaultInput]\n[name: c, category: DefaultOutput]\n",
		r.Dump(),
	)
}

func TestRiverErase(t *testing.T) {
	r := river.New(river.WithStreamlets(
		newStreamlet(river.DefaultInput.Tag("in")),
		newStreamlet(river.DefaultOutput.Tag("out")),
	))
	r.Erase(river.Mix.Tag("x"))
	assert.Equal(t, 2, r.Len())

	r.Erase(river.DefaultInput.Tag("in"))
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 0, r.Count(river.DefaultInput.Tag("in")))

	r.Clear()
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.Streamlets())
	assert.Equal(t, "", r.Dump())
}

func TestRiverLifecycle(t *testing.T) {
	u1, u2 := &mock.Unit{}, &mock.Unit{}
	r := river.New(
		river.WithLogger(log.Silent()),
		river.WithStreamlets(newStreamlet(river.Mix.Tag("a"), u1), newStreamlet(river.Mix.Tag("b"), u2)),
	)
	r.Start()
	r.Pause()
	r.Resume()
	r.Stop()
	r.Reset()
	for _, u := range []*mock.Unit{u1, u2} {
		assert.Equal(t, mock.Counter{Started: 1, Paused: 1, Resumed: 1, Stopped: 1, Resetted: 1}, u.Calls())
	}
}

func TestRiverStopBestEffort(t *testing.T) {
	stuck := &mock.Unit{ErrorOnStop: fmt.Errorf("stuck")}
	fine := &mock.Unit{}
	r := river.New(
		river.WithLogger(log.Silent()),
		river.WithStreamlets(newStreamlet(river.Mix.Tag("a"), stuck), newStreamlet(river.Mix.Tag("b"), fine)),
	)
	r.Start()
	r.Stop()
	assert.Equal(t, 1, fine.Calls().Stopped)
	assert.True(t, fine.IsStopped())
	assert.False(t, r.IsStopped())
}

func TestRiverIsStoppedEmpty(t *testing.T) {
	assert.True(t, river.New().IsStopped())
	assert.True(t, river.New(river.WithStreamlets(river.NewStreamlet())).IsStopped())
}

func TestRiverIsStoppedShortCircuit(t *testing.T) {
	running, later := &mock.Unit{}, &mock.Unit{}
	_ = running.Start()
	r := river.New(river.WithStreamlets(
		newStreamlet(river.Mix.Tag("b"), later),
		newStreamlet(river.Mix.Tag("a"), running),
	))
	assert.False(t, r.IsStopped())
	assert.Equal(t, 1, running.Polls())
	assert.Equal(t, 0, later.Polls())

	_ = running.Stop()
	assert.True(t, r.IsStopped())
	assert.Equal(t, 1, later.Polls())
}

func TestRiverErrTagOrder(t *testing.T) {
	r := river.New()
	// inserted first, but "a" goes first in tag order.
	r.Add(newStreamlet(river.Mix.Tag("b"), &mock.Unit{Fail: &river.UnitError{Code: -2, Message: "b"}}))
	r.Add(newStreamlet(river.Mix.Tag("a"), &mock.Unit{Fail: &river.UnitError{Code: -1, Message: "a"}}))
	assert.Equal(t, -1, r.Err())

	r.Erase(river.Mix.Tag("a"))
	assert.Equal(t, -2, r.Err())
}

func TestRiverErr(t *testing.T) {
	status := &mock.Unit{Fail: &river.UnitError{Code: 5, Message: "status"}}
	s := newStreamlet(river.Mix.Tag("a"), status, &mock.Unit{})
	r := river.New(river.WithStreamlets(s))
	// streamlet reports any status, river only fatal codes.
	assert.Equal(t, 5, s.Err())
	assert.Equal(t, 0, r.Err())
	assert.Error(t, r.Errors())

	fatal := &mock.Unit{Fail: &river.UnitError{Code: -22, Message: "invalid"}}
	r.Add(newStreamlet(river.Mix.Tag("b"), fatal))
	assert.Equal(t, -22, r.Err())
	assert.Equal(t,
		"[name: a, category: Mix]: code 5: status,[name: b, category: Mix]: code -22: invalid",
		r.Errors().Error(),
	)

	assert.Equal(t, 0, river.New().Err())
	assert.Nil(t, river.New().Errors())
}

func TestRiverConcurrent(t *testing.T) {
	r := river.New(river.WithLogger(log.Silent()))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tag := river.Mix.Tag(fmt.Sprintf("s%d", i))
			s := newStreamlet(tag, &mock.Unit{})
			r.Add(s)
			r.Start()
			s.AddUnit(&mock.Unit{})
			r.Stop()
			_ = r.Err()
			_ = r.Dump()
			r.Erase(tag)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 0, r.Len())
}
