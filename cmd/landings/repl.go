package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/forestrie/go-landings/landing"
	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"
)

var replCommands = []string{"set", "get", "clear", "take", "info", "landings", "save", "help", "quit"}

// REPL is the interactive command loop.
type REPL struct {
	s     *session
	out   io.Writer
	liner *liner.State
}

func runRepl(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	logLevel := commonFlags(fs)
	release := fs.Bool("release", false, "release displaced payloads")
	budget := fs.Uint64("budget", 0, "slot budget, 0 for the default")
	unbounded := fs.Bool("unbounded", false, "no slot budget")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := newSession(newLogger(*logLevel), *release, allocatorFor(*budget, *unbounded))
	if err != nil {
		return err
	}
	r := &REPL{s: s, out: out}
	return r.Run()
}

// historyFile returns the path to the history file.
func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".landings_history")
}

// Run starts the REPL loop.
func (r *REPL) Run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	if f, err := os.Open(historyFile()); err == nil {
		_, _ = r.liner.ReadHistory(f)
		f.Close()
	}
	defer r.saveHistory()

	fmt.Fprintln(r.out, "landings - type 'help' for available commands.")

	for {
		line, err := r.liner.Prompt("landings> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out)
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.liner.AppendHistory(line)

		if done := r.exec(line); done {
			return nil
		}
	}
}

// exec runs one command line and reports whether the loop should end.
func (r *REPL) exec(line string) bool {
	parts := strings.Fields(line)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		r.printHelp()
	case "set":
		if len(args) < 2 {
			fmt.Fprintln(r.out, "usage: set <index> <value>")
			return false
		}
		r.applyIndexed("set", args[0], strings.Join(args[1:], " "))
	case "get", "clear", "take":
		if len(args) != 1 {
			fmt.Fprintf(r.out, "usage: %s <index>\n", cmd)
			return false
		}
		r.applyIndexed(cmd, args[0], "")
	case "info":
		fmt.Fprintln(r.out, r.s.summary())
	case "landings":
		r.printLandings()
	case "save":
		if len(args) != 1 {
			fmt.Fprintln(r.out, "usage: save <file>")
			return false
		}
		if err := r.s.save(args[0]); err != nil {
			fmt.Fprintf(r.out, "error: %v\n", err)
		}
	default:
		fmt.Fprintf(r.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

func (r *REPL) applyIndexed(op, index, value string) {
	idx, err := strconv.Atoi(index)
	if err != nil {
		fmt.Fprintf(r.out, "invalid index %q\n", index)
		return
	}
	fmt.Fprintln(r.out, r.s.apply(Op{Op: op, Index: idx, Value: value}))
}

func (r *REPL) printLandings() {
	for n := 0; n < r.s.array.LandingCount(); n++ {
		start := landing.Start(uint64(n))
		capacity := landing.Capacity(uint64(n))
		fmt.Fprintf(r.out, "landing %2d: [%d, %d) capacity %d\n", n, start, start+capacity, capacity)
	}
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.out, "  set <index> <value>   store value at index")
	fmt.Fprintln(r.out, "  get <index>           read index")
	fmt.Fprintln(r.out, "  clear <index>         empty index, releasing its value")
	fmt.Fprintln(r.out, "  take <index>          empty index, returning its value")
	fmt.Fprintln(r.out, "  info                  size, largest index, landings and capacity")
	fmt.Fprintln(r.out, "  landings              list allocated landings")
	fmt.Fprintln(r.out, "  save <file>           write a snapshot")
	fmt.Fprintln(r.out, "  quit                  exit")
}

func (r *REPL) completer(line string) []string {
	var out []string
	for _, c := range replCommands {
		if strings.HasPrefix(c, strings.ToLower(line)) {
			out = append(out, c)
		}
	}
	return out
}

// saveHistory persists command history to disk.
func (r *REPL) saveHistory() {
	path := historyFile()
	if path == "" {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = r.liner.WriteHistory(f)
}
