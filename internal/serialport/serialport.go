// Package serialport is the host-side transport for the wire protocol
// described in spec.md §4.7/§6: "byte-oriented duplex... out of scope: the
// physical serial transport layer". It wraps go.bug.st/serial, the same
// style of narrow io.ReadWriteCloser-plus-Name() wrapping the teacher's
// scripts/gen_vm_expects.go does with its own namedReader interface.
package serialport

import (
	"fmt"
	"io"

	"go.bug.st/serial"
)

// Port is the narrow surface the driver needs from a connection: a duplex
// byte stream, closeable, and named for log messages. Modeling it as an
// interface (rather than depending on *serial.Port directly) lets tests and
// the `connect` directive's simulated-device mode substitute an in-process
// pipe instead of real hardware.
type Port interface {
	io.ReadWriteCloser
	Name() string
}

// Dial opens a real serial port by name at a fixed baud rate. Brief's own
// device firmware (original_source/src/Brief.cpp) runs its Serial console
// at 9600; nothing in this toolchain exposes a way to override it, so it is
// not a Dial parameter.
func Dial(name string) (Port, error) {
	mode := &serial.Mode{BaudRate: 9600}
	p, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("open %v: %w", name, err)
	}
	return namedPort{Port: p, name: name}, nil
}

type namedPort struct {
	serial.Port
	name string
}

func (p namedPort) Name() string { return p.name }

// Pipe returns two connected in-process ports, for simulated-device
// `connect` targets and for tests that want to drive a real
// internal/device.Device off the write side.
func Pipe(nameA, nameB string) (Port, Port) {
	ar, bw := io.Pipe()
	br, aw := io.Pipe()
	a := pipePort{r: ar, w: aw, name: nameA}
	b := pipePort{r: br, w: bw, name: nameB}
	return a, b
}

type pipePort struct {
	r    *io.PipeReader
	w    *io.PipeWriter
	name string
}

func (p pipePort) Read(b []byte) (int, error)  { return p.r.Read(b) }
func (p pipePort) Write(b []byte) (int, error) { return p.w.Write(b) }
func (p pipePort) Name() string                { return p.name }
func (p pipePort) Close() error {
	rerr := p.r.Close()
	werr := p.w.Close()
	if rerr != nil {
		return rerr
	}
	return werr
}
