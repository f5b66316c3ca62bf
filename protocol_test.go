package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bytesReader(b []byte) *bytes.Reader { return bytes.NewReader(b) }

func Test_HostFrame_roundTrip(t *testing.T) {
	for _, tc := range []struct {
		name  string
		frame HostFrame
	}{
		{name: "empty non-executing", frame: HostFrame{Execute: false}},
		{name: "empty executing", frame: HostFrame{Execute: true}},
		{name: "definition", frame: DefinitionFrame([]byte{1, 2, 3})},
		{name: "execute with trailing return", frame: HostFrame{Execute: true, Payload: []byte{1, byte(PrimReturn)}}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			wire, err := tc.frame.Encode()
			require.NoError(t, err)

			got, err := NewHostFrameReader(bytesReader(wire)).ReadFrame()
			require.NoError(t, err)
			assert.Equal(t, tc.frame.Execute, got.Execute)
			assert.Equal(t, tc.frame.Payload, got.Payload)
		})
	}
}

func Test_ExecuteFrame_appendsReturn(t *testing.T) {
	f := ExecuteFrame([]byte{1, 2, 3})
	assert.Equal(t, []byte{1, 2, 3, byte(PrimReturn)}, f.Payload)

	// already ends in return: left alone
	f = ExecuteFrame([]byte{1, byte(PrimReturn)})
	assert.Equal(t, []byte{1, byte(PrimReturn)}, f.Payload)
}

func Test_HostFrame_splitsOversizePayload(t *testing.T) {
	payload := make([]byte, maxFramePayload+10)
	for i := range payload {
		payload[i] = byte(i)
	}
	f := HostFrame{Execute: true, Payload: payload}
	wire, err := f.Encode()
	require.NoError(t, err)

	r := NewHostFrameReader(bytesReader(wire))
	first, err := r.ReadFrame()
	require.NoError(t, err)
	assert.True(t, first.Execute)
	assert.Len(t, first.Payload, maxFramePayload)

	second, err := r.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, payload[maxFramePayload:], second.Payload)
}

func Test_DeviceFrame_roundTrip(t *testing.T) {
	f := DeviceFrame{EventID: 7, Data: []byte{9, 8, 7}}
	wire := f.Encode()

	got, err := NewDeviceFrameReader(bytesReader(wire)).ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, f, got)
}

func Test_DeviceFrame_boot_vmError(t *testing.T) {
	boot := DeviceFrame{EventID: EventBoot}
	assert.True(t, boot.IsBoot())

	verr := DeviceFrame{EventID: EventVMError, Data: []byte{byte(ErrDataStackOverflow)}}
	code, ok := verr.IsVMError()
	require.True(t, ok)
	assert.Equal(t, ErrDataStackOverflow, code)

	_, ok = boot.IsVMError()
	assert.False(t, ok)
}

func Test_ScalarEvent_roundTrip(t *testing.T) {
	for _, v := range []int16{0, 1, -1, 127, -128, 128, -129, 32000, -32000} {
		data := EncodeScalarEvent(v)
		got, err := DecodeScalarEvent(data)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func Test_DecodeScalarEvent_badLength(t *testing.T) {
	_, err := DecodeScalarEvent([]byte{1, 2, 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not 0, 1, or 2")
}

func Test_HostFrameReader_truncated(t *testing.T) {
	_, err := NewHostFrameReader(bytesReader([]byte{0x82, 0x01})).ReadFrame()
	require.Error(t, err)
	var ferr FrameError
	assert.ErrorAs(t, err, &ferr)
}
