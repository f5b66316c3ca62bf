package main

import (
	"strings"

	"github.com/AshleyF/brief/internal/device"
	"github.com/AshleyF/brief/internal/serialport"
)

// dialPort is the default DriverOption dialer: a "sim:" prefixed port name
// targets an in-process simulated device instead of real hardware, so the
// `connect` directive has something to talk to without a board attached.
func dialPort(name string) (serialport.Port, error) {
	if rest := strings.TrimPrefix(name, "sim:"); rest != name {
		return simulatedPort(rest), nil
	}
	return serialport.Dial(name)
}

// simulatedPort spins up an in-process internal/device.Device wired to one
// end of a pipe and returns the other end, so that `connect` can target a
// "sim:" name without real hardware (spec.md §3's device-side model exists
// precisely "to validate generated byte code", which this exercises for
// real instead of only in tests).
func simulatedPort(name string) serialport.Port {
	host, dev := serialport.Pipe(name, "sim-device")

	// device.New's Reset emits a boot event synchronously, which blocks on
	// dev.Write until something reads the other end of the pipe. Building
	// the Device inside this goroutine (rather than before returning host
	// to the caller) keeps that blocking write off doConnect's call stack,
	// which would otherwise deadlock waiting on its own not-yet-started
	// event reader.
	go func() {
		defer dev.Close()
		d := device.New(device.WithEventHandler(func(id byte, data []byte) {
			frame := DeviceFrame{EventID: id, Data: data}
			dev.Write(frame.Encode())
		}))
		r := NewHostFrameReader(dev)
		for {
			f, err := r.ReadFrame()
			if err != nil {
				return
			}
			d.ApplyFrame(f.Execute, f.Payload)
		}
	}()

	return host
}
