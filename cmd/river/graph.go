package main

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/pipelined/river"
	"github.com/pipelined/river/log"
	"github.com/pipelined/river/wav"
)

// stringList is a semicolon separated flag value.
type stringList []string

func (l *stringList) String() string {
	return strings.Join(*l, ";")
}

func (l *stringList) Set(v string) error {
	for _, s := range strings.Split(v, ";") {
		if s != "" {
			*l = append(*l, s)
		}
	}
	return nil
}

// graph holds flags needed to build a river of wav units.
type graph struct {
	in         string
	out        stringList
	bufferSize int
	// logger is shared by river and all streamlets. Environment
	// configured logger is used if it's nil.
	logger river.Logger
}

func (g *graph) register(fs *flag.FlagSet) {
	fs.StringVar(&g.in, "in", "", "input wav file (required)")
	fs.Var(&g.out, "out", "semicolon separated output wav files (required)")
	fs.IntVar(&g.bufferSize, "buffer", 512, "samples per channel in one buffer")
}

func (g *graph) validate() error {
	var message string
	if g.in == "" {
		message = message + "Missing -in required flag\n"
	}
	if len(g.out) == 0 {
		message = message + "Missing -out required flag\n"
	}
	if g.bufferSize <= 0 {
		message = message + fmt.Sprintf("Invalid -buffer value: %d\n", g.bufferSize)
	}
	if message != "" {
		return errors.New(message)
	}
	return nil
}

// build creates input streamlet with wav reader and one output streamlet
// per output file, all connected to the input.
func (g *graph) build() (*river.River, error) {
	if err := g.validate(); err != nil {
		return nil, err
	}
	logger := g.logger
	if logger == nil {
		logger = log.GetLogger()
	}
	reader := wav.NewReader(g.in, g.bufferSize)
	in := river.NewStreamlet(
		river.WithTag(river.DefaultInput.Tag("")),
		river.WithUnits(reader),
		river.WithStreamletLogger(logger),
	)
	in.SetAudioOut(reader)

	r := river.New(river.WithLogger(logger), river.WithStreamlets(in))
	for i, path := range g.out {
		writer := wav.NewWriter(path)
		out := river.NewStreamlet(
			river.WithTag(river.DefaultOutput.Tag(fmt.Sprintf("output%d", i))),
			river.WithUnits(writer),
			river.WithStreamletLogger(logger),
		)
		out.SetAudioIn(writer)
		r.Add(in.To(out))
	}
	return r, nil
}
