package main

import "fmt"

// UnknownWordError reports a Token node that does not resolve in the
// dictionary (spec.md §4.4 failures).
type UnknownWordError struct{ Name string }

func (e UnknownWordError) Error() string { return fmt.Sprintf("unknown word %q", e.Name) }

// QuoteTooLargeError reports a quotation body whose length plus its
// trailing return does not fit in a byte (spec.md §4.4 failures).
type QuoteTooLargeError struct{ Len int }

func (e QuoteTooLargeError) Error() string {
	return fmt.Sprintf("quotation of %d bytes is too large to quote", e.Len)
}

// AddressOutOfRangeError reports a call address outside the 15-bit space
// (spec.md §4.4 failures).
type AddressOutOfRangeError struct{ Addr int }

func (e AddressOutOfRangeError) Error() string {
	return fmt.Sprintf("address %d is out of the 15-bit call range", e.Addr)
}

// inlineThreshold is the largest byte-code length (in bytes) that a
// definition is allowed to keep inline rather than commit to the device
// (spec.md §4.4 "Shrink boundary": 0, 1, 2 bytes inline; 3+ commits).
const inlineThreshold = 2

// Compiler is the process-wide, single-threaded compile-time state spec.md
// §3 "Compiler state" describes: the dictionary, the next free device
// address, and the queue of bytes not yet flushed to the device. spec.md's
// explicit non-goal on compiler thread-safety means no locking is needed
// here, matching the teacher's own single-goroutine VM design (only the
// driver's line processor ever touches this struct, per spec.md §5).
type Compiler struct {
	logging

	Dict    *Dictionary
	Address int16
	Pending []byte
}

// NewCompiler builds a Compiler with a freshly initialized dictionary.
func NewCompiler() *Compiler {
	c := &Compiler{}
	c.Dict = NewDictionary(func(d *Dictionary) { installStandardLibrary(d, c) })
	return c
}

// Reset zeroes Address, drops Pending, and clears+repopulates the
// dictionary (spec.md §3 "Reset zeroes address and drops pending").
func (c *Compiler) Reset() {
	c.Address = 0
	c.Pending = nil
	c.Dict.Reset()
}

// shrink decides whether code commits to the device or stays inline,
// per spec.md §4.4's shrink algorithm, and returns the reference bytes a
// use site should splice in (either the inline bytes themselves, or a
// two-byte call). It is the sole mutator of Address/Pending outside Reset
// and TakePending.
func (c *Compiler) shrink(name string, code []byte) ([]byte, error) {
	if len(code) <= inlineThreshold {
		c.logf("asm", "inline %s (%d bytes)", name, len(code))
		return code, nil
	}

	addr := c.Address
	if addr < 0 || int(addr) > maxCallAddress {
		return nil, AddressOutOfRangeError{int(addr)}
	}
	call, err := Encode(Word{Addr: addr, Name: name})
	if err != nil {
		return nil, err
	}

	committed := append(append([]byte{}, code...), byte(PrimReturn))
	c.Pending = append(c.Pending, committed...)
	c.Address += int16(len(committed))
	c.logf("asm", "commit %s @%d (%d bytes incl. return)", name, addr, len(committed))
	return call, nil
}

// TakePending drains and clears the pending queue, for the driver to flush
// as a definition frame ahead of the next execute frame (spec.md §4.4,
// §4.7).
func (c *Compiler) TakePending() []byte {
	p := c.Pending
	c.Pending = nil
	return p
}
