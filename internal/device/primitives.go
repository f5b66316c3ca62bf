package device

// bindPrimitives installs the core instruction table, mirroring
// original_source/src/Brief.cpp's setup()/bind() sequence one function at
// a time. Peripheral (GPIO/Wire/servo) primitives are modeled against an
// in-memory pin map rather than real hardware, since the device-side model
// exists only "to validate generated byte code" (spec.md §1), not to
// drive actual peripherals.
func (d *Device) bindPrimitives() {
	d.table[opReturn] = func(d *Device) { d.p = d.rpop() }
	d.table[opLit8] = func(d *Device) { d.push(int16(int8(d.memget(d.p)))); d.p++ }
	d.table[opLit16] = func(d *Device) { d.push(d.mem16(d.p)); d.p += 2 }
	d.table[opQuote] = func(d *Device) {
		length := d.memget(d.p)
		d.p++
		d.push(d.p)
		d.p += int16(length)
	}

	d.table[opEventHeader] = func(d *Device) { d.beginPackedEvent(d.pop()) }
	d.table[opEventBody8] = func(d *Device) { d.appendPackedByte(byte(d.pop())) }
	d.table[opEventBody16] = func(d *Device) {
		v := d.pop()
		d.appendPackedByte(byte(v >> 8))
		d.appendPackedByte(byte(v))
	}
	d.table[opEventFooter] = func(d *Device) { d.finishPackedEvent() }
	d.table[opEvent] = func(d *Device) {
		id := byte(d.pop())
		val := d.pop()
		d.sendScalarEvent(id, val)
	}

	d.table[opFetch8] = func(d *Device) { d.setTop(int16(d.memget(d.top()))) }
	d.table[opStore8] = func(d *Device) { addr := d.pop(); v := d.pop(); d.memset(addr, byte(v)) }
	d.table[opFetch16] = func(d *Device) { d.setTop(d.mem16(d.top())) }
	d.table[opStore16] = func(d *Device) {
		addr := d.pop()
		v := d.pop()
		d.memset(addr, byte(v>>8))
		d.memset(addr+1, byte(v))
	}

	d.table[opAdd] = func(d *Device) { x := d.pop(); d.setTop(d.top() + x) }
	d.table[opSub] = func(d *Device) { x := d.pop(); d.setTop(d.top() - x) }
	d.table[opMul] = func(d *Device) { x := d.pop(); d.setTop(d.top() * x) }
	d.table[opDiv] = func(d *Device) { x := d.pop(); d.setTop(d.top() / x) }
	d.table[opMod] = func(d *Device) { x := d.pop(); d.setTop(d.top() % x) }
	d.table[opAnd] = func(d *Device) { x := d.pop(); d.setTop(d.top() & x) }
	d.table[opOr] = func(d *Device) { x := d.pop(); d.setTop(d.top() | x) }
	d.table[opXor] = func(d *Device) { x := d.pop(); d.setTop(d.top() ^ x) }
	d.table[opShift] = func(d *Device) {
		x := d.pop()
		if x < 0 {
			d.setTop(d.top() << uint16(-x))
		} else {
			d.setTop(d.top() >> uint16(x))
		}
	}

	boolval := func(b bool) int16 {
		if b {
			return -1
		}
		return 0
	}
	d.table[opEq] = func(d *Device) { x := d.pop(); d.setTop(boolval(d.top() == x)) }
	d.table[opNe] = func(d *Device) { x := d.pop(); d.setTop(boolval(d.top() != x)) }
	d.table[opGt] = func(d *Device) { x := d.pop(); d.setTop(boolval(d.top() > x)) }
	d.table[opGe] = func(d *Device) { x := d.pop(); d.setTop(boolval(d.top() >= x)) }
	d.table[opLt] = func(d *Device) { x := d.pop(); d.setTop(boolval(d.top() < x)) }
	d.table[opLe] = func(d *Device) { x := d.pop(); d.setTop(boolval(d.top() <= x)) }
	d.table[opNot] = func(d *Device) { d.setTop(^d.top()) }
	d.table[opNeg] = func(d *Device) { d.setTop(-d.top()) }
	d.table[opInc] = func(d *Device) { d.setTop(d.top() + 1) }
	d.table[opDec] = func(d *Device) { d.setTop(d.top() - 1) }

	d.table[opDrop] = func(d *Device) { d.pop() }
	d.table[opDup] = func(d *Device) { d.push(d.top()) }
	d.table[opSwap] = func(d *Device) {
		if d.sp < 1 {
			d.fail(errDataUnderflow)
			return
		}
		d.data[d.sp], d.data[d.sp-1] = d.data[d.sp-1], d.data[d.sp]
	}
	d.table[opPick] = func(d *Device) {
		n := d.pop()
		idx := d.sp - int(n)
		if idx < 0 {
			d.fail(errDataUnderflow)
			return
		}
		d.push(d.data[idx])
	}
	d.table[opRoll] = func(d *Device) {
		n := d.pop()
		idx := d.sp - int(n)
		if idx < 0 {
			d.fail(errDataUnderflow)
			return
		}
		t := d.data[idx]
		copy(d.data[idx:d.sp], d.data[idx+1:d.sp+1])
		d.data[d.sp] = t
	}
	d.table[opClear] = func(d *Device) { d.sp = -1 }

	d.table[opPushR] = func(d *Device) { d.rpush(d.pop()) }
	d.table[opPopR] = func(d *Device) { d.push(d.rpop()) }
	d.table[opPeekR] = func(d *Device) { d.push(d.rtop()) }

	d.table[opForget] = func(d *Device) {
		addr := d.pop()
		if addr < d.here {
			d.here = addr
		}
	}
	d.table[opCall] = func(d *Device) { d.rpush(d.p); d.p = d.pop() }
	d.table[opChoice] = func(d *Device) {
		f := d.pop()
		t := d.pop()
		pred := d.pop()
		d.rpush(d.p)
		if pred != 0 {
			d.p = t
		} else {
			d.p = f
		}
	}
	d.table[opIf] = func(d *Device) {
		t := d.pop()
		if d.pop() != 0 {
			d.rpush(d.p)
			d.p = t
		}
	}
	d.table[opNext] = func(d *Device) {
		count := d.rpop() - 1
		rel := int8(d.memget(d.p))
		d.p++
		if count > 0 {
			d.rpush(count)
			d.p -= int16(rel) + 2
		}
	}
	d.table[opNop] = func(d *Device) {}

	// Branch/ZeroBranch are never emitted by this repo's assembler (see
	// instruction.go), but a simulator built to run "any byte stream"
	// needs to honor them per spec.md §4.1's device-side semantics.
	d.table[opBranch] = func(d *Device) {
		rel := int8(d.memget(d.p))
		d.p++
		d.p += int16(rel)
	}
	d.table[opZeroBranch] = func(d *Device) {
		rel := int8(d.memget(d.p))
		d.p++
		if d.pop() == 0 {
			d.p += int16(rel)
		}
	}

	d.table[opLoopTicks] = func(d *Device) { d.push(int16(d.loopIter & 0x7FFF)) }
	d.table[opSetLoop] = func(d *Device) { d.loopIter = 0; d.loopAddr = d.pop() }
	d.table[opStopLoop] = func(d *Device) { d.loopAddr = -1 }
	d.table[opResetBoard] = func(d *Device) { d.Reset() }

	d.bindPinPrimitives()
	d.bindWirePrimitives()
	d.bindServoPrimitives()

	// milliseconds has no real clock to read in simulation; loopIter (the
	// same counter loopTicks exposes) stands in as a deterministic
	// substitute; setLoop and Reset zero it, and it wraps at 16 bits.
	d.table[opMilliseconds] = func(d *Device) { d.push(int16(d.loopIter)) }
	d.table[opPulseIn] = func(d *Device) {
		_ = d.pop() // timeout
		_ = d.pop() // pin
		d.push(0)
	}
}

func (d *Device) bindPinPrimitives() {
	d.table[opPinMode] = func(d *Device) {
		mode := d.pop()
		pin := d.pop()
		st := d.pins[pin]
		st.mode = mode
		d.pins[pin] = st
	}
	d.table[opDigitalRead] = func(d *Device) {
		pin := d.pop()
		d.push(boolify(d.pins[pin].value != 0))
	}
	d.table[opDigitalWrite] = func(d *Device) {
		value := d.pop()
		pin := d.pop()
		st := d.pins[pin]
		if value == 0 {
			st.value = 0
		} else {
			st.value = -1
		}
		d.pins[pin] = st
	}
	d.table[opAnalogRead] = func(d *Device) {
		pin := d.pop()
		d.push(d.pins[pin].value)
	}
	d.table[opAnalogWrite] = func(d *Device) {
		value := d.pop()
		pin := d.pop()
		st := d.pins[pin]
		st.value = value
		d.pins[pin] = st
	}
	d.table[opAttachISR] = func(d *Device) {
		mode := d.pop()
		_ = mode
		n := d.pop()
		w := d.pop()
		if n >= 0 && int(n) < len(d.isrs) {
			d.isrs[n] = w
		}
	}
	d.table[opDetachISR] = func(d *Device) {
		n := d.pop()
		if n >= 0 && int(n) < len(d.isrs) {
			d.isrs[n] = -1
		}
	}
}

func boolify(b bool) int16 {
	if b {
		return -1
	}
	return 0
}

// SetPin seeds a pin's readable value, for tests that exercise
// digitalRead/analogRead without real hardware.
func (d *Device) SetPin(pin, value int16) {
	st := d.pins[pin]
	st.value = value
	d.pins[pin] = st
}

// PinValue reports the last value written to a pin (for tests asserting
// on digitalWrite/analogWrite side effects).
func (d *Device) PinValue(pin int16) int16 { return d.pins[pin].value }

// Interrupt invokes the handler attached to interrupt slot n, if any,
// mirroring original_source's interrupt() helper.
func (d *Device) Interrupt(n int16) {
	if n < 0 || int(n) >= len(d.isrs) {
		return
	}
	if w := d.isrs[n]; w != -1 {
		d.exec(w)
	}
}
