/* Package main: Brief -- a tiny concatenative language for a 16-bit stack VM

Brief programs run on a machine much smaller than the one compiling them: a
microcontroller with two eight-element stacks of 16-bit signed integers and a
dictionary of a kilobyte or so, where "dictionary" means both the place
subroutines live and the only general-purpose memory there is. One stack
carries data between instructions and across subroutine calls; the other is
a return stack the VM pushes a program counter onto before a call and pops
on return. There is no heap, no separate code segment, and no distinction
between a "variable" and a tiny subroutine that returns its own address --
a variable in Brief is just a one-instruction definition whose body never
runs, whose address is the storage cell.

This module is the other half of that machine: a host-side compiler and an
interactive driver that runs on a real computer, reads Brief source, and
talks to the device over a wire. The device never compiles anything; by the
time a byte crosses the wire it is already an opcode, a literal, or an
address. All the work of turning names into addresses, folding constants,
and picking the smallest encoding for a call happens here, host-side, ahead
of time.

Section 1: the dictionary and the shrink

A defined word is compiled lazily, the first time something refers to it,
and its bytes are then shrunk. A body of at most two bytes stays inline at
every use site, so aliases and tiny words take no device memory at all.
Anything longer is committed once, with a trailing return appended, at the
next free device address, and every use site gets a fixed two-byte call to
that address instead. Committed bytes wait in a pending queue until the
driver sends them ahead of the next execute frame. Addresses are handed out
once, in the order definitions are first forced, and are never revisited.
This is the single most important thing the host side buys the device side
-- a kilobyte goes a lot further when only the words that need room take
any.

Section 2: definitions, instructions, and variables

`define` compiles a quotation lazily and binds it to a name, the ordinary
case: a Brief word. `instruction` binds a name directly to a raw one-byte
opcode (a User instruction) for a device extension, instead of compiling
anything. The built-in primitives (`+`, `fetch16`, `store16`, and the rest
of the table the device firmware and this compiler agree on byte-for-byte)
need no directive: the initial dictionary already binds each of them.
`variable` produces a single-instruction quotation whose only instruction is
`return`; because the single-word quotation optimization only collapses a
quotation holding a single call, not one holding a primitive, it stays a
real two-byte callable cell, and calling it is how a Brief program reads the
address of its own storage.

Section 3: the driver, the wire, and the two workers

The interactive driver reads one line at a time and scans it left to right,
the same way a REPL-addicted Forth would: ordinary tokens accumulate on a
stack, and a recognized directive word consumes operands off the top of
that stack instead of being handled as compiled code. `connect` opens a
serial port (or, with a `sim:` name, an in-process simulated device, for
everything this toolchain needs to do without a board attached). `define`,
`instruction`, and `variable` extend the dictionary. Whatever is left on the
stack once the scan reaches end of line is assembled and, if connected,
framed and sent: a definition frame carrying any newly pending dictionary
bytes, always ahead of the execute frame that might call into them.

Two workers share a connection once it is open. The line processor is the
one thing driving the REPL forward: it owns the compiler, reads lines, and
sends frames. The event reader runs alongside it, reading whatever the
device writes back -- boot notices, VM errors, event payloads -- without
ever touching compiler state. It is allowed to block waiting for bytes;
nothing downstream of it depends on when, or whether, the device ever has
anything to say.
*/
package main
