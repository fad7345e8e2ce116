package main

import (
	"context"
	"fmt"
	"os"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/pktc/engine"
	"github.com/slowlang/pktc/ir"
	"github.com/slowlang/pktc/lang"
)

func main() {
	resolveCmd := &cli.Command{
		Name:   "resolve",
		Action: resolveAct,
		Args:   cli.Args{},
	}

	dumpCmd := &cli.Command{
		Name:   "dump",
		Action: dumpAct,
		Args:   cli.Args{},
	}

	roundtripCmd := &cli.Command{
		Name:   "roundtrip",
		Action: roundtripAct,
		Args:   cli.Args{},
	}

	app := &cli.Command{
		Name:        "pktc",
		Description: "pktc is a tool for inspecting packet-language IR trees",
		Commands: []*cli.Command{
			resolveCmd,
			dumpCmd,
			roundtripCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func loadProgram(ctx context.Context, path string) (*lang.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	n, err := ir.DecodeJSON(data, lang.NewRegistry())
	if err != nil {
		return nil, errors.Wrap(err, "decode %v", path)
	}

	p, ok := n.(*lang.Program)
	if !ok {
		return nil, errors.New("%v: root node is %v, not Program", path, n.Kind())
	}

	tlog.SpanFromContext(ctx).Printw("loaded program", "path", path, "decls", len(p.Decls))

	return p, nil
}

func resolveAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		p, err := loadProgram(ctx, a)
		if err != nil {
			return errors.Wrap(err, "resolve %v", a)
		}

		st, err := engine.Run(ctx, p, engine.NewOptions(), engine.DefaultPhases())
		if err != nil {
			return errors.Wrap(err, "resolve %v", a)
		}

		for _, d := range st.Sink.Diagnostics() {
			fmt.Printf("%v: %s\n", a, d)
		}
	}

	return nil
}

func dumpAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		p, err := loadProgram(ctx, a)
		if err != nil {
			return errors.Wrap(err, "dump %v", a)
		}

		b, err := ir.Dump(ctx, nil, p)
		if err != nil {
			return errors.Wrap(err, "dump %v", a)
		}

		os.Stdout.Write(b)
	}

	return nil
}

func roundtripAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		p, err := loadProgram(ctx, a)
		if err != nil {
			return errors.Wrap(err, "roundtrip %v", a)
		}

		data, err := ir.EncodeJSON(p)
		if err != nil {
			return errors.Wrap(err, "roundtrip %v", a)
		}

		back, err := ir.DecodeJSON(data, lang.NewRegistry())
		if err != nil {
			return errors.Wrap(err, "roundtrip %v", a)
		}

		if !p.Equal(back) {
			return errors.New("%v: roundtrip mismatch", a)
		}

		fmt.Printf("%v: ok (%d bytes)\n", a, len(data))
	}

	return nil
}
