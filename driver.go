package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/AshleyF/brief/internal/fileinput"
	"github.com/AshleyF/brief/internal/flushio"
	"github.com/AshleyF/brief/internal/serialport"
	"golang.org/x/sync/errgroup"
)

// errExit is the sentinel processLine/runInput return to unwind all the way
// out of Run, for the `exit` directive (spec.md §4.6, §5 "Cancellation").
var errExit = errors.New("exit")

// DirectiveError reports a malformed directive invocation: a missing
// operand, an operand of the wrong shape, or a directive applied with no
// connection open (spec.md §7 class 2/3).
type DirectiveError struct{ Reason string }

func (e DirectiveError) Error() string { return fmt.Sprintf("directive error: %s", e.Reason) }

// Driver is the interactive REPL spec.md §4.6/§5 describes: it owns the
// Compiler, the (optional) device connection, and the two concurrent
// workers of §5 -- the line processor (its own Run goroutine) and the event
// reader (spawned per connection). This generalizes the teacher's own VM
// struct (core.go/api.go in the original) from "one goroutine interpreting
// FIRST source" to "one line processor plus a backgrounded event reader
// around a Compiler", per spec.md §5's explicit split.
type Driver struct {
	logging

	compiler *Compiler

	stdin io.Reader
	out   flushio.WriteFlusher
	outMu sync.Mutex

	promptText string
	showPrompt bool

	dial func(name string) (serialport.Port, error)
	port serialport.Port

	eg       *errgroup.Group
	egCancel context.CancelFunc
}

func (d *Driver) run(ctx context.Context) error {
	in := &fileinput.Input{Queue: []io.Reader{d.stdin}}
	err := d.runInput(ctx, in)
	if d.port != nil {
		if cerr := d.closePort(); err == nil {
			err = cerr
		}
	}
	return err
}

// runInput drives one input source line-by-line; `load` recurses into this
// with a fresh Input over the loaded file, which is what spec.md §4.6 means
// by "re-enters the driver line-by-line".
func (d *Driver) runInput(ctx context.Context, in *fileinput.Input) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.showPrompt {
			d.printf("%s", d.promptText)
		}
		line, ok := readLine(in)
		if !ok {
			return nil
		}
		if err := d.processLine(ctx, line); err != nil {
			return err
		}
	}
}

// readLine accumulates runes off in up to (and excluding) the next '\n',
// using fileinput.Input exactly as it is built to be used: Input already
// tracks the current line in its Scan buffer, but that bookkeeping is for
// error messages, not for handing lines to a caller, so this reads the
// runes itself rather than reaching into Input.Scan/Last.
func readLine(in *fileinput.Input) (string, bool) {
	var sb strings.Builder
	for {
		r, _, err := in.ReadRune()
		if err != nil {
			return sb.String(), sb.Len() > 0
		}
		if r == '\n' {
			return sb.String(), true
		}
		sb.WriteRune(r)
	}
}

// processLine implements spec.md §4.6's directive scan: left to right over
// the parsed node list, a recognized directive token consumes operands off
// the accumulating stack; anything else is pushed as a one-node chunk.
// Lex/compile errors abandon only this line (spec.md §7 classes 1-3); exit
// (directly, or propagated out of a `load`) unwinds everything.
func (d *Driver) processLine(ctx context.Context, line string) error {
	nodes, err := ParseLine(line)
	if err != nil {
		d.report("? %v", err)
		return nil
	}

	var stack []Node
	for _, n := range nodes {
		tok, isToken := n.(TokenNode)
		if !isToken {
			stack = append(stack, n)
			continue
		}

		var derr error
		switch string(tok) {
		case "connect", "conn":
			derr = d.doConnect(&stack)
		case "disconnect":
			derr = d.doDisconnect()
		case "reset":
			derr = d.doReset()
		case "define", "def":
			derr = d.doDefine(&stack)
		case "instruction":
			derr = d.doInstruction(&stack)
		case "variable", "var":
			derr = d.doVariable(&stack)
		case "load":
			derr = d.doLoad(ctx, &stack)
		case `\`:
			return d.assembleAndFlush(stack) // drop every remaining token on the line
		case ".":
			stack = append(stack, NumberNode(0xF0), TokenNode("event"))
		case "trace":
			d.doTrace()
		case "memory", "mem":
			d.doMemory()
		case "prompt":
			d.doPrompt()
		case "exit":
			derr = errExit
		default:
			stack = append(stack, n)
		}

		if derr != nil {
			if errors.Is(derr, errExit) {
				return errExit
			}
			d.report("? %v", derr)
			return nil
		}
	}

	return d.assembleAndFlush(stack)
}

// assembleAndFlush eager-assembles the residual stack and frames it for
// execution, flushing any accumulated pending bytes as a definition frame
// first (spec.md §4.6 "After directive processing...").
func (d *Driver) assembleAndFlush(stack []Node) error {
	if len(stack) == 0 {
		return nil
	}
	code, err := EagerAssemble(stack, d.compiler)
	if err != nil {
		d.report("? %v", err)
		return nil
	}
	if err := d.flush(code); err != nil {
		d.report("? %v", err)
	}
	return nil
}

func (d *Driver) flush(code []byte) error {
	if d.port == nil {
		return nil
	}
	if pending := d.compiler.TakePending(); len(pending) > 0 {
		if err := d.sendFrame(DefinitionFrame(pending)); err != nil {
			return err
		}
	}
	return d.sendFrame(ExecuteFrame(code))
}

func (d *Driver) sendFrame(f HostFrame) error {
	wire, err := f.Encode()
	if err != nil {
		return err
	}
	_, err = d.port.Write(wire)
	return err
}

func (d *Driver) doConnect(stack *[]Node) error {
	name, err := popSingleTokenQuotation(stack)
	if err != nil {
		return err
	}
	if d.port != nil {
		return DirectiveError{fmt.Sprintf("already connected to %s", d.port.Name())}
	}
	port, err := d.dial(name)
	if err != nil {
		return err
	}
	d.port = port
	d.startEventReader()
	return d.sendReset()
}

func (d *Driver) doDisconnect() error {
	if d.port == nil {
		return DirectiveError{"not connected"}
	}
	return d.closePort()
}

func (d *Driver) doReset() error {
	d.compiler.Reset()
	return d.sendReset()
}

func (d *Driver) sendReset() error {
	if d.port == nil {
		return nil
	}
	code, err := Encode(Prim(PrimReset))
	if err != nil {
		return err
	}
	return d.sendFrame(ExecuteFrame(code))
}

func (d *Driver) doDefine(stack *[]Node) error {
	name, err := popSingleTokenQuotation(stack)
	if err != nil {
		return err
	}
	body, err := popQuotation(stack)
	if err != nil {
		return err
	}
	d.compiler.Dict.Define(nil, name, LazyAssemble([]Node(body), d.compiler, name))
	return nil
}

func (d *Driver) doInstruction(stack *[]Node) error {
	name, err := popSingleTokenQuotation(stack)
	if err != nil {
		return err
	}
	opcode, err := popNumber(stack)
	if err != nil {
		return err
	}
	if opcode < 0 || opcode > 0xFF {
		return DirectiveError{fmt.Sprintf("instruction opcode %d out of byte range", opcode)}
	}
	user := User(uint8(opcode))
	d.compiler.Dict.Define(user, name, NewLazy(func() ([]byte, error) {
		return Encode(user)
	}))
	return nil
}

// doVariable registers a lazy `[ return ]` definition: a single-instruction
// quotation that, executed, pushes its own body's address rather than
// degenerating to a bare address literal (the single-word optimization only fires for
// Word bodies, not Prim ones -- see assembleQuotation), producing the
// 2-byte storage cell spec.md §4.6 describes.
func (d *Driver) doVariable(stack *[]Node) error {
	name, err := popSingleTokenQuotation(stack)
	if err != nil {
		return err
	}
	nodes, err := ParseLine("[ return ]")
	if err != nil {
		return err
	}
	d.compiler.Dict.Define(nil, name, LazyAssemble(nodes, d.compiler, name))
	return nil
}

func (d *Driver) doLoad(ctx context.Context, stack *[]Node) error {
	path, err := popSingleTokenQuotation(stack)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	restore := d.withLogPrefix(path + ": ")
	defer restore()

	in := &fileinput.Input{Queue: []io.Reader{f}}
	return d.runInput(ctx, in)
}

func (d *Driver) doTrace() {
	if d.compiler.logfn != nil {
		d.compiler.logfn = nil
		d.printf("trace off\n")
		return
	}
	d.compiler.logfn = func(mess string, args ...interface{}) {
		if len(args) > 0 {
			mess = fmt.Sprintf(mess, args...)
		}
		d.printf("%s\n", mess)
	}
	d.printf("trace on\n")
}

func (d *Driver) doMemory() {
	d.printf("dict=%d address=%d pending=%d\n", d.compiler.Dict.Len(), d.compiler.Address, len(d.compiler.Pending))
}

func (d *Driver) doPrompt() {
	d.showPrompt = !d.showPrompt
}

func (d *Driver) printf(format string, args ...interface{}) {
	d.outMu.Lock()
	defer d.outMu.Unlock()
	if _, err := fmt.Fprintf(d.out, format, args...); err != nil {
		d.halt(err)
	}
	if err := d.out.Flush(); err != nil {
		d.halt(err)
	}
}

// halt aborts the driver on a broken output stream, the teacher's own
// core.go convention: log best-effort, then panic with haltError so the
// panicerr-recovered Run boundary turns it into a plain error return.
func (d *Driver) halt(err error) {
	func() {
		defer func() { recover() }()
		d.logf("#", "halt error: %v", err)
	}()
	panic(haltError{err})
}

// report prints a user-visible line (errors, never gated on whether a
// trace sink is configured) and additionally mirrors it through the
// driver's own optional logfn (WithLogf/-trace) for callers that want a
// secondary log of the same events.
func (d *Driver) report(format string, args ...interface{}) {
	d.printf(format+"\n", args...)
	d.logf("drv", format, args...)
}

func (d *Driver) startEventReader() {
	ctx, cancel := context.WithCancel(context.Background())
	eg, ctx := errgroup.WithContext(ctx)
	port := d.port
	eg.Go(func() error { return d.readEvents(ctx, port) })
	d.eg = eg
	d.egCancel = cancel
}

// readEvents is spec.md §5's Event reader: it borrows a read-only view of
// the port, never touches compiler state, and suspends between reads
// rather than spinning (the sleep-after-framing-error below is the
// concrete form of §5's "it is permitted to suspend (sleep) while waiting
// for bytes", applied to the case of a dead connection producing an
// immediate, repeated read error).
func (d *Driver) readEvents(ctx context.Context, port serialport.Port) error {
	r := NewDeviceFrameReader(port)
	for {
		frame, err := r.ReadFrame()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			d.report("? wire: %v", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(10 * time.Millisecond):
			}
			continue
		}
		if ctx.Err() != nil {
			return nil
		}
		d.reportEvent(frame)
	}
}

func (d *Driver) reportEvent(frame DeviceFrame) {
	if frame.IsBoot() {
		d.printf("# boot\n")
		return
	}
	if code, ok := frame.IsVMError(); ok {
		d.printf("# vm error: %v\n", code)
		return
	}
	d.printf("# event %d: % x\n", frame.EventID, frame.Data)
}

func (d *Driver) closePort() error {
	if d.egCancel != nil {
		d.egCancel()
	}
	err := d.port.Close()
	if d.eg != nil {
		if werr := d.eg.Wait(); err == nil {
			err = werr
		}
	}
	d.port = nil
	d.eg = nil
	d.egCancel = nil
	return err
}

func popNode(stack *[]Node) (Node, error) {
	s := *stack
	if len(s) == 0 {
		return nil, DirectiveError{"missing operand"}
	}
	n := s[len(s)-1]
	*stack = s[:len(s)-1]
	return n, nil
}

func popQuotation(stack *[]Node) (QuotationNode, error) {
	n, err := popNode(stack)
	if err != nil {
		return nil, err
	}
	q, ok := n.(QuotationNode)
	if !ok {
		return nil, DirectiveError{fmt.Sprintf("expected a quotation, got %v", n)}
	}
	return q, nil
}

func popSingleTokenQuotation(stack *[]Node) (string, error) {
	q, err := popQuotation(stack)
	if err != nil {
		return "", err
	}
	if len(q) != 1 {
		return "", DirectiveError{"expected a single-token quotation"}
	}
	t, ok := q[0].(TokenNode)
	if !ok {
		return "", DirectiveError{"expected a single-token quotation"}
	}
	return string(t), nil
}

func popNumber(stack *[]Node) (int16, error) {
	n, err := popNode(stack)
	if err != nil {
		return 0, err
	}
	num, ok := n.(NumberNode)
	if !ok {
		return 0, DirectiveError{"expected a number"}
	}
	return int16(num), nil
}
