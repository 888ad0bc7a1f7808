package main

import (
	"fmt"
	"strings"
)

// Op is a single scripted operation.
type Op struct {
	Op    string `json:"op"`
	Index int    `json:"index"`
	Value string `json:"value,omitempty"`
}

// OpResult records the outcome of an Op.
type OpResult struct {
	Op
	Found bool   `json:"found,omitempty"`
	Got   string `json:"got,omitempty"`
	Err   string `json:"error,omitempty"`
}

func (r OpResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d", r.Op.Op, r.Index)
	if r.Op.Op == "set" {
		fmt.Fprintf(&b, " %q", r.Value)
	}
	switch {
	case r.Err != "":
		fmt.Fprintf(&b, ": error: %s", r.Err)
	case r.Op.Op == "get" || r.Op.Op == "take":
		if r.Found {
			fmt.Fprintf(&b, ": %q", r.Got)
		} else {
			b.WriteString(": <empty>")
		}
	default:
		b.WriteString(": ok")
	}
	return b.String()
}

// apply performs op against the session array. Op names are case
// insensitive, the result carries the lower case name.
func (s *session) apply(op Op) OpResult {
	op.Op = strings.ToLower(op.Op)
	r := OpResult{Op: op}
	var err error
	switch op.Op {
	case "set":
		err = s.array.Set(op.Index, op.Value)
	case "get":
		r.Got, r.Found = s.array.Get(op.Index)
	case "clear":
		err = s.array.Clear(op.Index)
	case "take":
		r.Got, r.Found, err = s.array.Take(op.Index)
	default:
		err = fmt.Errorf("unknown op %q", op.Op)
	}
	if err != nil {
		r.Err = err.Error()
	}
	return r
}
