package main

import (
	"fmt"
	"strings"
)

// haltError wraps a fatal error that aborts the current operation (spec.md
// §7 class 5, "internal invariant violations"). It is used as a panic
// value caught by the recover boundary around the driver's Run (built on
// internal/panicerr), which ends the run with it as a plain error, rather
// than propagated as a normal error return,
// mirroring the teacher's own halt/panic convention in core.go.
type haltError struct{ error }

func (err haltError) Error() string {
	if err.error != nil {
		return fmt.Sprintf("halted: %v", err.error)
	}
	return "halted"
}
func (err haltError) Unwrap() error { return err.error }

// logging is a small mixin giving any component an optional, mark-prefixed
// trace stream (the `trace` REPL directive and the `-trace` CLI flag).
// When logfn is nil, logf is a no-op; this is exactly the teacher's own
// logging struct from core.go, generalized with a wider set of marks
// ("asm", "drv", "#") used across this repo's components instead
// of the teacher's single VM trace stream.
type logging struct {
	logfn func(mess string, args ...interface{})

	markWidth int
}

// withLogPrefix temporarily narrows logf to prepend prefix to every
// message, returning a restore function. Used by the driver to tag nested
// `load` output with the file name being read.
func (log *logging) withLogPrefix(prefix string) func() {
	logfn := log.logfn
	if logfn == nil {
		return func() {}
	}
	log.logfn = func(mess string, args ...interface{}) {
		logfn(prefix+mess, args...)
	}
	return func() {
		log.logfn = logfn
	}
}

func (log *logging) logf(mark, mess string, args ...interface{}) {
	if log.logfn == nil {
		return
	}
	if n := log.markWidth - len(mark); n > 0 {
		for _, r := range mark {
			mark = strings.Repeat(string(r), n) + mark
			break
		}
	} else if n < 0 {
		log.markWidth = len(mark)
	}
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	log.logfn("%v %v", mark, mess)
}
