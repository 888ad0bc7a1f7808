// landings is a CLI for exercising and inspecting landing arrays.
//
// Usage:
//
//	landings run [--json] [--snapshot <file>] [--budget <slots> | --unbounded] <script>
//	landings repl [--release] [--budget <slots> | --unbounded]
//	landings inspect [--entries] <snapshot>
//
// A script is a HuJSON (JSON with comments and trailing commas) document:
//
//	{
//	    "release": true,    // release displaced payloads
//	    "budget": 4096,     // slot budget, 0 for the default
//	    "unbounded": false, // no budget, growth is limited by memory
//	    "ops": [
//	        {"op": "set", "index": 0, "value": "nine"},
//	        {"op": "get", "index": 0},
//	        {"op": "clear", "index": 0},
//	        {"op": "take", "index": 3},
//	    ],
//	}
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-landings/darray"
	flag "github.com/spf13/pflag"
)

func main() {
	err := run(os.Args[1:], os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		printUsage(os.Stderr)
		return errors.New("missing command")
	}

	switch args[0] {
	case "run":
		return runScript(args[1:], out)
	case "repl":
		return runRepl(args[1:], out)
	case "inspect":
		return runInspect(args[1:], out)
	case "help", "-h", "--help":
		printUsage(out)
		return nil
	default:
		printUsage(os.Stderr)
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "Usage:\n")
	fmt.Fprintf(w, "  landings run [--json] [--snapshot <file>] [--budget <slots> | --unbounded] <script>\n")
	fmt.Fprintf(w, "  landings repl [--release] [--budget <slots> | --unbounded]\n")
	fmt.Fprintf(w, "  landings inspect [--entries] <snapshot>\n")
}

// commonFlags registers the flags every command accepts.
func commonFlags(fs *flag.FlagSet) *string {
	return fs.String("log-level", "NOOP", "log level (NOOP, DEBUG, INFO, ...)")
}

func newLogger(level string) logger.Logger {
	logger.New(level)
	return logger.Sugar.WithServiceName("landings")
}

// session is an array of string payloads together with the release
// bookkeeping the commands report on.
type session struct {
	array    *darray.Array[string]
	log      logger.Logger
	released int
}

// allocatorFor returns the allocator for a budget in slots, nil for the
// darray default when budget is 0. unbounded takes precedence over budget.
func allocatorFor(budget uint64, unbounded bool) darray.Allocator {
	switch {
	case unbounded:
		return darray.Unbounded{}
	case budget > 0:
		return darray.NewBudget(budget)
	}
	return nil
}

func newSession(log logger.Logger, release bool, alloc darray.Allocator) (*session, error) {
	s := &session{log: log}
	opts := []darray.Option{darray.WithLogger(log)}
	if release {
		opts = append(opts, darray.WithRelease(func(v string) {
			s.released++
			log.Debugf("released %q", v)
		}))
	}
	if alloc != nil {
		opts = append(opts, darray.WithAllocator(alloc))
	}

	var err error
	s.array, err = darray.New[string](opts...)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Summary is the state reported after a script or by the repl info command.
type Summary struct {
	Size         int `json:"size"`
	LargestIndex int `json:"largest_index"`
	Landings     int `json:"landings"`
	Capacity     int `json:"capacity"`
	Released     int `json:"released"`
}

func (s *session) summary() Summary {
	return Summary{
		Size:         s.array.Size(),
		LargestIndex: s.array.LargestIndex(),
		Landings:     s.array.LandingCount(),
		Capacity:     s.array.Capacity(),
		Released:     s.released,
	}
}

func (sum Summary) String() string {
	return fmt.Sprintf("size=%d largest=%d landings=%d capacity=%d released=%d",
		sum.Size, sum.LargestIndex, sum.Landings, sum.Capacity, sum.Released)
}
