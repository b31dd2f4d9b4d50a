package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func TestInit(t *testing.T) {
	//check if commands are registered
	assert.Equal(t, len(commands), 2)
}

func TestUsage(t *testing.T) {
	var out bytes.Buffer
	c := config{args: []string{"river"}, out: &out}
	assert.Equal(t, errorExitCode, c.run())
	assert.Contains(t, out.String(), "Usage: river <command>")

	out.Reset()
	c = config{args: []string{"river", "unknown"}, out: &out}
	assert.Equal(t, errorExitCode, c.run())
	assert.Contains(t, out.String(), "dump")
}

func TestDump(t *testing.T) {
	var out bytes.Buffer
	c := config{args: []string{"river", "dump", "-in", "a.wav", "-out", "b.wav;c.wav"}, out: &out}
	assert.Equal(t, successExitCode, c.run())
	assert.Equal(t,
		"[name: DefaultInputStreamlet, category: DefaultInput]\n"+
			"[name: output0, category: DefaultOutput]\n"+
			"[name: output1, category: DefaultOutput]\n",
		out.String(),
	)
}

func TestValidate(t *testing.T) {
	var out bytes.Buffer
	c := config{args: []string{"river", "dump", "-buffer", "0"}, out: &out}
	assert.Equal(t, errorExitCode, c.run())
	assert.Contains(t, out.String(), "Missing -in required flag")
	assert.Contains(t, out.String(), "Missing -out required flag")
	assert.Contains(t, out.String(), "Invalid -buffer value: 0")
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.wav")
	f, err := os.Create(in)
	assert.Nil(t, err)
	e := wav.NewEncoder(f, 8000, 16, 1, 1)
	assert.Nil(t, e.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: 8000},
		Data:           make([]int, 1000),
		SourceBitDepth: 16,
	}))
	assert.Nil(t, e.Close())
	assert.Nil(t, f.Close())

	outs := []string{filepath.Join(dir, "out1.wav"), filepath.Join(dir, "out2.wav")}
	var out bytes.Buffer
	c := config{args: []string{"river", "run", "-in", in, "-out", strings.Join(outs, ";"), "-buffer", "128"}, out: &out}
	assert.Equal(t, successExitCode, c.run(), out.String())
	for _, path := range outs {
		_, err := os.Stat(path)
		assert.Nil(t, err)
	}
}

func TestRunMissingInput(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	c := config{args: []string{"river", "run", "-in", filepath.Join(dir, "missing.wav"), "-out", filepath.Join(dir, "out.wav")}, out: &out}
	assert.Equal(t, errorExitCode, c.run())
	assert.Contains(t, out.String(), "code -5")
}

func TestBuildLogsUnitFailures(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	dir := t.TempDir()
	g := graph{
		in:         filepath.Join(dir, "missing.wav"),
		out:        stringList{filepath.Join(dir, "out.wav")},
		bufferSize: 128,
		logger:     logger,
	}
	r, err := g.build()
	assert.Nil(t, err)
	r.Start()

	var failures []string
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.DebugLevel {
			failures = append(failures, e.Message)
		}
	}
	r.Stop()
	assert.Equal(t, 1, len(failures))
	assert.Contains(t, failures[0], "DefaultInputStreamlet")
	assert.Contains(t, failures[0], "failed to Start")
}
