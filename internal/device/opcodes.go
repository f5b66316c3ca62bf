package device

// Opcode numbers here intentionally mirror the root package's instruction.go
// Primitive enum byte for byte: the device and the host compiler are two
// independent programs (here, modeled as two independent Go packages)
// whose only shared contract is the wire-level opcode number (spec.md §5,
// "both must stay in lockstep"). Grounded in
// original_source/src/Brief.cpp's setup()/bind() table.
type opcode uint8

const (
	opReturn opcode = iota
	opLit8
	opLit16
	opQuote
	opEventHeader
	opEventBody8
	opEventBody16
	opEventFooter
	opEvent
	opFetch8
	opStore8
	opFetch16
	opStore16
	opAdd
	opSub
	opMul
	opDiv
	opMod
	opAnd
	opOr
	opXor
	opShift
	opEq
	opNe
	opGt
	opGe
	opLt
	opLe
	opNot
	opNeg
	opInc
	opDec
	opDrop
	opDup
	opSwap
	opPick
	opRoll
	opClear
	opPushR
	opPopR
	opPeekR
	opForget
	opCall
	opChoice
	opIf
	opLoopTicks
	opSetLoop
	opStopLoop
	opResetBoard
	opPinMode
	opDigitalRead
	opDigitalWrite
	opAnalogRead
	opAnalogWrite
	opAttachISR
	opDetachISR
	opMilliseconds
	opPulseIn
	opNext
	opNop

	opWireBegin
	opWireRequestFrom
	opWireAvailable
	opWireRead
	opWireBeginTransmission
	opWireWrite
	opWireEndTransmission
	opWireSetOnReceive
	opWireSetOnRequest
	opServoAttach
	opServoDetach
	opServoWriteMicros

	opcodeCount
)

// opBranch and opZeroBranch mirror the root package's synthetic opcode
// slots for the operand-bearing Branch/ZeroBranch Instruction variants
// (see instruction.go); the stock assembler never emits them, but the
// simulator accepts any byte stream, including hand-assembled code that
// uses them directly.
const (
	opBranch     opcode = opcodeCount
	opZeroBranch opcode = opcodeCount + 1
)

// EventBoot and EventVMError are duplicated from protocol.go for the same
// two-independent-programs reason as the opcode table above.
const (
	EventBoot    byte = 0xFF
	EventVMError byte = 0xFE
)

// VM error codes, matching protocol.go's VMErrorCode numbering exactly
// (spec.md §4.7 "Reserved event ids... 0xFE = VM error").
const (
	errReturnUnderflow byte = iota
	errReturnOverflow
	errDataUnderflow
	errDataOverflow
	errOutOfMemory
)
