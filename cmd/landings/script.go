package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/forestrie/go-landings/snapshot"
	json "github.com/goccy/go-json"
	"github.com/natefinch/atomic"
	flag "github.com/spf13/pflag"
	"github.com/tailscale/hujson"
)

// Script is the document read by the run command.
type Script struct {
	Release   bool   `json:"release"`
	Budget    uint64 `json:"budget"`
	Unbounded bool   `json:"unbounded"`
	Ops       []Op   `json:"ops"`
}

// Report is written by run --json.
type Report struct {
	Results []OpResult `json:"results"`
	Summary Summary    `json:"summary"`
	Failed  int        `json:"failed"`
}

var errOpsFailed = errors.New("one or more operations failed")

func parseScript(data []byte) (Script, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Script{}, fmt.Errorf("invalid script syntax: %w", err)
	}
	var sc Script
	if err := json.Unmarshal(standardized, &sc); err != nil {
		return Script{}, fmt.Errorf("invalid script: %w", err)
	}
	return sc, nil
}

func loadScript(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, err
	}
	return parseScript(data)
}

func runScript(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	logLevel := commonFlags(fs)
	asJSON := fs.Bool("json", false, "write a JSON report instead of text")
	snapshotPath := fs.String("snapshot", "", "write a snapshot of the final array to this file")
	budget := fs.Uint64("budget", 0, "slot budget, overrides the script")
	unbounded := fs.Bool("unbounded", false, "no slot budget, overrides the script")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("run takes exactly one script path")
	}

	sc, err := loadScript(fs.Arg(0))
	if err != nil {
		return err
	}
	if fs.Changed("budget") {
		sc.Budget = *budget
		sc.Unbounded = false
	}
	if fs.Changed("unbounded") {
		sc.Unbounded = *unbounded
	}

	s, err := newSession(newLogger(*logLevel), sc.Release, allocatorFor(sc.Budget, sc.Unbounded))
	if err != nil {
		return err
	}
	report := s.execute(sc.Ops)

	if *snapshotPath != "" {
		if err := s.save(*snapshotPath); err != nil {
			return err
		}
	}

	if *asJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
	} else {
		for _, r := range report.Results {
			fmt.Fprintln(out, r)
		}
		fmt.Fprintln(out, report.Summary)
	}

	if report.Failed > 0 {
		return fmt.Errorf("%w: %d of %d", errOpsFailed, report.Failed, len(report.Results))
	}
	return nil
}

func (s *session) execute(ops []Op) Report {
	report := Report{Results: make([]OpResult, 0, len(ops))}
	for _, op := range ops {
		r := s.apply(op)
		if r.Err != "" {
			report.Failed++
		}
		report.Results = append(report.Results, r)
	}
	report.Summary = s.summary()
	return report
}

// save writes a snapshot of the session array. The file is replaced
// atomically.
func (s *session) save(path string) error {
	codec, err := snapshot.NewCodec()
	if err != nil {
		return err
	}
	data, err := snapshot.Encode(codec, s.array)
	if err != nil {
		return err
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	s.log.Infof("snapshot written: path=%s entries=%d", path, s.array.Size())
	return nil
}
