package main

import (
	"flag"
	"fmt"
	"io"
	"time"
)

type runCommand struct {
	graph
	poll time.Duration
}

func (cmd *runCommand) Name() string {
	return "run"
}

func (cmd *runCommand) Help() string {
	return "Copy input wav into every output wav"
}

func (cmd *runCommand) Register(fs *flag.FlagSet) {
	cmd.graph.register(fs)
	fs.DurationVar(&cmd.poll, "poll", 10*time.Millisecond, "interval between status checks")
}

func (cmd *runCommand) Run(out io.Writer) error {
	r, err := cmd.build()
	if err != nil {
		return err
	}
	fmt.Fprint(out, r.Dump())
	r.Start()
	for !r.IsStopped() {
		if code := r.Err(); code != 0 {
			r.Stop()
			return fmt.Errorf("river failed with code %d: %v", code, r.Errors())
		}
		time.Sleep(cmd.poll)
	}
	if code := r.Err(); code != 0 {
		return fmt.Errorf("river failed with code %d: %v", code, r.Errors())
	}
	return nil
}
