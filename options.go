package main

import (
	"io"
	"io/ioutil"
	"strings"

	"github.com/AshleyF/brief/internal/flushio"
	"github.com/AshleyF/brief/internal/serialport"
)

// DriverOption configures a Driver at construction time (spec.md §6 "Host
// CLI"). This is the teacher's own VMOption pattern (options.go), carried
// over unchanged in shape and generalized from a single VM input/output
// pair to the driver's wider set of stdin/stdout/dial/prompt knobs.
type DriverOption interface{ apply(d *Driver) }

var defaultOptions = []DriverOption{
	withInput(strings.NewReader("")),
	withOutput(ioutil.Discard),
	withDialer(dialPort),
	withPrompt("> "),
}

type driverOptions []DriverOption

func (opts driverOptions) apply(d *Driver) {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(d)
		}
	}
}

// DriverOptions bundles a slice of options into a single applicable value.
func DriverOptions(opts ...DriverOption) DriverOption { return driverOptions(opts) }

type withLogfn func(mess string, args ...interface{})

func (logfn withLogfn) apply(d *Driver) { d.logfn = logfn }

type inputOption struct{ io.Reader }
type outputOption struct{ io.Writer }
type teeOption struct{ io.Writer }
type promptOption string
type dialerOption func(name string) (serialport.Port, error)

func withInput(r io.Reader) inputOption   { return inputOption{r} }
func withOutput(w io.Writer) outputOption { return outputOption{w} }
func withTee(w io.Writer) teeOption       { return teeOption{w} }
func withPrompt(p string) promptOption    { return promptOption(p) }
func withDialer(dial func(name string) (serialport.Port, error)) dialerOption {
	return dialerOption(dial)
}

func (i inputOption) apply(d *Driver) { d.stdin = i.Reader }

func (o outputOption) apply(d *Driver) {
	if d.out != nil {
		d.out.Flush()
	}
	d.out = flushio.NewWriteFlusher(o.Writer)
}

func (o teeOption) apply(d *Driver) {
	d.out = flushio.WriteFlushers(d.out, flushio.NewWriteFlusher(o.Writer))
}

func (p promptOption) apply(d *Driver) { d.promptText = string(p) }

func (dial dialerOption) apply(d *Driver) { d.dial = dial }

// WithInput sets the driver's line source (normally os.Stdin).
func WithInput(r io.Reader) DriverOption { return withInput(r) }

// WithOutput sets the driver's primary output stream (normally os.Stdout).
func WithOutput(w io.Writer) DriverOption { return withOutput(w) }

// WithTee additionally mirrors output to w, the same multi-sink pattern the
// teacher's own withTee used for the VM's transcript stream.
func WithTee(w io.Writer) DriverOption { return withTee(w) }

// WithPrompt overrides the `prompt` directive's displayed text.
func WithPrompt(p string) DriverOption { return withPrompt(p) }

// WithLogf installs a printf-style trace sink, wired to the `trace`
// directive and the -trace CLI flag.
func WithLogf(logfn func(mess string, args ...interface{})) DriverOption { return withLogfn(logfn) }

// WithDialer overrides how `connect` turns a port name into a
// serialport.Port; tests substitute this to avoid touching real hardware.
func WithDialer(dial func(name string) (serialport.Port, error)) DriverOption {
	return withDialer(dial)
}
