package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/forestrie/go-landings/snapshot"
	flag "github.com/spf13/pflag"
)

func runInspect(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	logLevel := commonFlags(fs)
	entries := fs.Bool("entries", false, "also list every entry")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("inspect takes exactly one snapshot path")
	}
	log := newLogger(*logLevel)

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	codec, err := snapshot.NewCodec()
	if err != nil {
		return err
	}
	h, err := snapshot.ReadHeader(codec, data)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "id=%s version=%d count=%d largest=%d landings=%d\n",
		h.ID, h.Version, h.Count, h.Frontier, h.Landings)

	if !*entries {
		return nil
	}
	a, _, err := snapshot.Decode[string](codec, data)
	if err != nil {
		return err
	}
	defer func() { _ = a.Destroy() }()
	for i, v := range a.All() {
		fmt.Fprintf(out, "%d\t%q\n", i, v)
	}
	log.Debugf("inspected %s: capacity=%d", fs.Arg(0), a.Capacity())
	return nil
}
