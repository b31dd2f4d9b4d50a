package main

import (
	"flag"
	"fmt"
	"io"
)

type dumpCommand struct {
	graph
}

func (cmd *dumpCommand) Name() string {
	return "dump"
}

func (cmd *dumpCommand) Help() string {
	return "Print streamlets of the graph without running it"
}

func (cmd *dumpCommand) Register(fs *flag.FlagSet) {
	cmd.graph.register(fs)
}

func (cmd *dumpCommand) Run(out io.Writer) error {
	r, err := cmd.build()
	if err != nil {
		return err
	}
	fmt.Fprint(out, r.Dump())
	return nil
}
