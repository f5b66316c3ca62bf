package main

import "fmt"

// Primitive names a zero-operand Brief instruction: one that occupies a
// single opcode byte with no following operand bytes. The numbering below
// follows original_source/src/Brief.cpp's bind() table, chosen per
// DESIGN.md over the Firmware/libraries/Brief/Brief.cpp variant (the two
// historical variants drift per spec.md §9; only their existence and
// semantics are contractual, not the specific numbers).
type Primitive uint8

const (
	PrimReturn Primitive = iota
	PrimLit8
	PrimLit16
	PrimQuote
	PrimEventPackStart
	PrimEventBody8
	PrimEventBody16
	PrimEventPackFinish
	PrimEventScalar
	PrimFetch8
	PrimStore8
	PrimFetch16
	PrimStore16
	PrimAdd
	PrimSub
	PrimMul
	PrimDiv
	PrimMod
	PrimAnd
	PrimOr
	PrimXor
	PrimShift
	PrimEq
	PrimNe
	PrimGt
	PrimGe
	PrimLt
	PrimLe
	PrimNot
	PrimNeg
	PrimInc
	PrimDec
	PrimDrop
	PrimDup
	PrimSwap
	PrimPick
	PrimRoll
	PrimClear
	PrimPushAux
	PrimPopAux
	PrimPeekAux
	PrimForget
	PrimCallFromStack
	PrimChoice
	PrimIf
	PrimLoopTicks
	PrimSetLoop
	PrimStopLoop
	PrimReset
	PrimPinMode
	PrimDigitalRead
	PrimDigitalWrite
	PrimAnalogRead
	PrimAnalogWrite
	PrimAttachISR
	PrimDetachISR
	PrimMilliseconds
	PrimPulseIn
	PrimNext
	PrimNop

	// Optional peripheral slots (SPEC_FULL.md "SUPPLEMENTED FEATURES"):
	// present in original_source/src/Brief.cpp as unbound functions, added
	// here as addressable primitives to fill the "optional I²C/servo
	// slots" spec.md §3 reserves but leaves unspecified.
	PrimWireBegin
	PrimWireRequestFrom
	PrimWireAvailable
	PrimWireRead
	PrimWireBeginTransmission
	PrimWireWrite
	PrimWireEndTransmission
	PrimWireSetOnReceive
	PrimWireSetOnRequest
	PrimServoAttach
	PrimServoDetach
	PrimServoWriteMicros

	primCount
)

var primNames = [primCount]string{
	PrimReturn:                "return",
	PrimLit8:                  "lit8",
	PrimLit16:                 "lit16",
	PrimQuote:                 "quote",
	PrimEventPackStart:        "eventPackStart",
	PrimEventBody8:            "eventBody8",
	PrimEventBody16:           "eventBody16",
	PrimEventPackFinish:       "eventPackFinish",
	PrimEventScalar:           "event",
	PrimFetch8:                "fetch8",
	PrimStore8:                "store8",
	PrimFetch16:               "fetch16",
	PrimStore16:               "store16",
	PrimAdd:                   "+",
	PrimSub:                   "-",
	PrimMul:                   "*",
	PrimDiv:                   "/",
	PrimMod:                   "mod",
	PrimAnd:                   "and",
	PrimOr:                    "or",
	PrimXor:                   "xor",
	PrimShift:                 "shift",
	PrimEq:                    "=",
	PrimNe:                    "<>",
	PrimGt:                    ">",
	PrimGe:                    ">=",
	PrimLt:                    "<",
	PrimLe:                    "<=",
	PrimNot:                   "not",
	PrimNeg:                   "neg",
	PrimInc:                   "1+",
	PrimDec:                   "1-",
	PrimDrop:                  "drop",
	PrimDup:                   "dup",
	PrimSwap:                  "swap",
	PrimPick:                  "pick",
	PrimRoll:                  "roll",
	PrimClear:                 "clear",
	PrimPushAux:               ">r",
	PrimPopAux:                "r>",
	PrimPeekAux:               "r@",
	PrimForget:                "forget",
	PrimCallFromStack:         "call",
	PrimChoice:                "choice",
	PrimIf:                    "if",
	PrimLoopTicks:             "loopTicks",
	PrimSetLoop:               "setLoop",
	PrimStopLoop:              "stopLoop",
	PrimReset:                 "reset",
	PrimPinMode:               "pinMode",
	PrimDigitalRead:           "digitalRead",
	PrimDigitalWrite:          "digitalWrite",
	PrimAnalogRead:            "analogRead",
	PrimAnalogWrite:           "analogWrite",
	PrimAttachISR:             "attachISR",
	PrimDetachISR:             "detachISR",
	PrimMilliseconds:          "milliseconds",
	PrimPulseIn:               "pulseIn",
	PrimNext:                  "next",
	PrimNop:                   "nop",
	PrimWireBegin:             "wireBegin",
	PrimWireRequestFrom:       "wireRequestFrom",
	PrimWireAvailable:         "wireAvailable",
	PrimWireRead:              "wireRead",
	PrimWireBeginTransmission: "wireBeginTransmission",
	PrimWireWrite:             "wireWrite",
	PrimWireEndTransmission:   "wireEndTransmission",
	PrimWireSetOnReceive:      "wireSetOnReceive",
	PrimWireSetOnRequest:      "wireSetOnRequest",
	PrimServoAttach:           "servoAttach",
	PrimServoDetach:           "servoDetach",
	PrimServoWriteMicros:      "servoWriteMicros",
}

func (p Primitive) String() string {
	if int(p) < len(primNames) {
		if n := primNames[p]; n != "" {
			return n
		}
	}
	return fmt.Sprintf("prim(%d)", uint8(p))
}

// opcodeOf and primitiveOf are the single source of truth binding a
// Primitive to its one-byte opcode (spec.md §4.1's "single-source-of-truth
// table"). The numbering is dense and stable: opcode == int(Primitive).
func opcodeOf(p Primitive) (byte, bool) {
	if p >= primCount {
		return 0, false
	}
	return byte(p), true
}

func primitiveOf(opcode byte) (Primitive, bool) {
	if opcode >= byte(primCount) {
		return 0, false
	}
	return Primitive(opcode), true
}

// opBranch and opZeroBranch are the opcodes for the Branch/ZeroBranch
// instruction variants. spec.md §3 lists these among the operand-bearing
// Instruction variants but the §4.5 primitive roster (which only names
// zero-operand dictionary-aliasable primitives) does not mention them,
// since the original Brief VM never had raw relative branches -- its
// control flow is built entirely from quote+choice+if+next. They get the next free opcode slots after the supplemented
// peripheral primitives so that Encode/Disassemble have a concrete byte
// to work with; unlike Primitive values they take a following operand
// byte and so are never given a plain-word dictionary alias.
const (
	opBranch     byte = byte(primCount)
	opZeroBranch byte = byte(primCount) + 1
)

// Instruction is the tagged-union of Brief byte-code instructions (spec.md
// §3). Every concrete type below implements isInstruction; encoding and
// disassembly dispatch on the concrete type via a type switch in Encode /
// Disassemble, which is this package's single source of truth for the
// wire shape of each variant (spec.md §4.1's encoding table).
type Instruction interface {
	isInstruction()
	String() string
}

// Literal pushes a signed 16-bit constant (spec.md §3/§4.1).
type Literal int16

func (Literal) isInstruction() {}
func (l Literal) String() string { return fmt.Sprintf("%d", int16(l)) }

// Branch adds a signed 8-bit relative offset to the program counter.
type Branch int8

func (Branch) isInstruction() {}
func (b Branch) String() string { return fmt.Sprintf("branch(%d)", int8(b)) }

// ZeroBranch is Branch, but taken only when the popped predicate is zero.
type ZeroBranch int8

func (ZeroBranch) isInstruction() {}
func (z ZeroBranch) String() string { return fmt.Sprintf("0branch(%d)", int8(z)) }

// Quote pushes the address just past its length byte and jumps over the n
// bytes that follow (a quotation body), per spec.md §3/§4.4.
type Quote uint8

func (Quote) isInstruction() {}
func (q Quote) String() string { return fmt.Sprintf("quote(%d)", uint8(q)) }

// Word is a call to a dictionary address: a two-byte encoding with the high
// bit of the first byte set (spec.md §3). Name is carried for printing and
// disassembly lookups only; it plays no role in encoding.
type Word struct {
	Addr int16
	Name string
}

func (Word) isInstruction() {}
func (w Word) String() string {
	if w.Name != "" {
		return w.Name
	}
	return fmt.Sprintf("call(%d)", w.Addr)
}

// NoOperation is a synthetic placeholder the final assembler filters out
// before emitting bytes; it never reaches Encode in a committed definition.
type NoOperation struct{}

func (NoOperation) isInstruction() {}
func (NoOperation) String() string { return "nop" }

// User is a raw one-byte opcode bound by the host to a device extension
// (spec.md §3's "Brief word addresses... instruction(name, opcode)"
// directive, §4.6).
type User uint8

func (User) isInstruction() {}
func (u User) String() string { return fmt.Sprintf("(user<%d>)", uint8(u)) }

// Prim wraps a zero-operand Primitive as an Instruction.
type Prim Primitive

func (Prim) isInstruction() {}
func (p Prim) String() string { return Primitive(p).String() }

// EncodingError reports that an Instruction could not be encoded to bytes
// (spec.md §4.1 "error conditions").
type EncodingError struct {
	Instruction Instruction
	Reason      string
}

func (e EncodingError) Error() string {
	return fmt.Sprintf("cannot encode %v: %s", e.Instruction, e.Reason)
}

const maxCallAddress = 0x7FFF // 15-bit address space (spec.md §3 invariant)

// Encode produces the byte encoding of a single instruction per spec.md
// §4.1's table. NoOperation encodes to zero bytes so that the final
// assembler can splice them in as inert placeholders and filter them
// later without disturbing addressing math.
func Encode(ins Instruction) ([]byte, error) {
	switch v := ins.(type) {
	case Literal:
		x := int16(v)
		if x >= -128 && x <= 127 {
			return []byte{byte(PrimLit8), byte(int8(x))}, nil
		}
		return []byte{byte(PrimLit16), byte(x >> 8), byte(x)}, nil
	case Branch:
		return []byte{opBranch, byte(v)}, nil
	case ZeroBranch:
		return []byte{opZeroBranch, byte(v)}, nil
	case Quote:
		return []byte{byte(PrimQuote), byte(v)}, nil
	case Word:
		if v.Addr < 0 || v.Addr > maxCallAddress {
			return nil, EncodingError{ins, "address out of 15-bit range"}
		}
		hi := byte(v.Addr>>8) | 0x80
		lo := byte(v.Addr)
		return []byte{hi, lo}, nil
	case NoOperation:
		return nil, nil
	case User:
		return []byte{byte(v)}, nil
	case Prim:
		op, ok := opcodeOf(Primitive(v))
		if !ok {
			return nil, EncodingError{ins, "unknown primitive"}
		}
		return []byte{op}, nil
	default:
		return nil, EncodingError{ins, "unknown instruction variant"}
	}
}

// EncodeAll concatenates the encodings of a sequence of instructions.
func EncodeAll(ins []Instruction) ([]byte, error) {
	var out []byte
	for _, i := range ins {
		b, err := Encode(i)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

// Disassemble scans a byte sequence back into instructions (spec.md §4.1).
// It never fails: a byte that is neither a recognized primitive nor part of
// a call pair disassembles as User(b), so that a caller printing the result
// can still show something for opaque or unbound opcodes. Call pairs are
// recognized by the high bit of the first byte and, when dict is non-nil,
// resolved to a name via dict.FindByCode on the exact two-byte sequence, as
// spec.md §4.1 requires.
func Disassemble(code []byte, dict *Dictionary) []Instruction {
	var out []Instruction
	for i := 0; i < len(code); {
		b := code[i]
		switch {
		case b&0x80 != 0:
			if i+1 >= len(code) {
				out = append(out, User(b))
				i++
				continue
			}
			addr := int16(b&0x7F)<<8 | int16(code[i+1])
			name := ""
			if dict != nil {
				if def, ok := dict.FindByCode(code[i : i+2]); ok {
					name = def.Word
				}
			}
			out = append(out, Word{Addr: addr, Name: name})
			i += 2
		case b == byte(PrimLit8):
			if i+1 >= len(code) {
				out = append(out, User(b))
				i++
				continue
			}
			out = append(out, Literal(int16(int8(code[i+1]))))
			i += 2
		case b == byte(PrimLit16):
			if i+2 >= len(code) {
				out = append(out, User(b))
				i++
				continue
			}
			out = append(out, Literal(int16(code[i+1])<<8|int16(code[i+2])))
			i += 3
		case b == byte(PrimQuote):
			if i+1 >= len(code) {
				out = append(out, User(b))
				i++
				continue
			}
			out = append(out, Quote(code[i+1]))
			i += 2
		case b == opBranch:
			if i+1 >= len(code) {
				out = append(out, User(b))
				i++
				continue
			}
			out = append(out, Branch(int8(code[i+1])))
			i += 2
		case b == opZeroBranch:
			if i+1 >= len(code) {
				out = append(out, User(b))
				i++
				continue
			}
			out = append(out, ZeroBranch(int8(code[i+1])))
			i += 2
		default:
			if p, ok := primitiveOf(b); ok {
				out = append(out, Prim(p))
			} else {
				out = append(out, User(b))
			}
			i++
		}
	}
	return out
}
