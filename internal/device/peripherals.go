package device

// Wire (I2C) and servo primitives, simulated against simple in-memory
// state rather than real hardware (spec.md §1 excludes "any
// device-hardware peripheral semantics... beyond their op-code slots").
// Grounded in original_source/src/Brief.cpp's Wire.*/Servo.* bindings.

func (d *Device) bindWirePrimitives() {
	d.table[opWireBegin] = func(d *Device) { d.wireBuf = d.wireBuf[:0] }
	d.table[opWireRequestFrom] = func(d *Device) {
		_ = d.pop() // quantity
		_ = d.pop() // address
	}
	d.table[opWireAvailable] = func(d *Device) { d.push(int16(len(d.wireBuf))) }
	d.table[opWireRead] = func(d *Device) {
		if len(d.wireBuf) == 0 {
			d.push(0)
			return
		}
		b := d.wireBuf[0]
		d.wireBuf = d.wireBuf[1:]
		d.push(int16(b))
	}
	d.table[opWireBeginTransmission] = func(d *Device) { _ = d.pop() }
	d.table[opWireWrite] = func(d *Device) {
		v := d.pop()
		d.wireBuf = append(d.wireBuf, byte(v))
	}
	d.table[opWireEndTransmission] = func(d *Device) {}
	d.table[opWireSetOnReceive] = func(d *Device) { _ = d.pop() }
	d.table[opWireSetOnRequest] = func(d *Device) { _ = d.pop() }
}

func (d *Device) bindServoPrimitives() {
	d.table[opServoAttach] = func(d *Device) {
		pin := d.pop()
		d.servos[pin] = true
	}
	d.table[opServoDetach] = func(d *Device) {
		pin := d.pop()
		delete(d.servos, pin)
	}
	d.table[opServoWriteMicros] = func(d *Device) {
		micros := d.pop()
		pin := d.pop()
		if d.servos[pin] {
			d.SetPin(pin, micros)
		}
	}
}
