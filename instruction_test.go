package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Encode(t *testing.T) {
	for _, tc := range []struct {
		name string
		ins  Instruction
		want []byte
		err  string
	}{
		{name: "lit8 zero", ins: Literal(0), want: []byte{byte(PrimLit8), 0}},
		{name: "lit8 positive", ins: Literal(100), want: []byte{byte(PrimLit8), 100}},
		{name: "lit8 negative", ins: Literal(-1), want: []byte{byte(PrimLit8), 0xFF}},
		{name: "lit16 over i8 range", ins: Literal(200), want: []byte{byte(PrimLit16), 0, 200}},
		{name: "lit16 negative", ins: Literal(-1000), want: []byte{byte(PrimLit16), 0xFC, 0x18}},
		{name: "branch", ins: Branch(5), want: []byte{opBranch, 5}},
		{name: "zero branch", ins: ZeroBranch(-2), want: []byte{opZeroBranch, 0xFE}},
		{name: "quote", ins: Quote(3), want: []byte{byte(PrimQuote), 3}},
		{name: "word", ins: Word{Addr: 1}, want: []byte{0x80, 1}},
		{name: "word high addr", ins: Word{Addr: 0x7F01}, want: []byte{0xFF, 0x01}},
		{name: "word out of range", ins: Word{Addr: -1}, err: "out of 15-bit range"},
		{name: "nop", ins: NoOperation{}, want: nil},
		{name: "user", ins: User(200), want: []byte{200}},
		{name: "prim", ins: Prim(PrimAdd), want: []byte{byte(PrimAdd)}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Encode(tc.ins)
			if tc.err != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func Test_Disassemble_roundTrip(t *testing.T) {
	dict := NewDictionary(nil)
	for _, ins := range []Instruction{
		Literal(0), Literal(42), Literal(-42), Literal(1000),
		Branch(5), ZeroBranch(-3), Quote(4), Prim(PrimDup), Prim(PrimAdd),
	} {
		code, err := Encode(ins)
		require.NoError(t, err)
		out := Disassemble(code, dict)
		require.Len(t, out, 1)
		assert.Equal(t, ins, out[0])
	}
}

func Test_Disassemble_callByCode(t *testing.T) {
	dict := NewDictionary(nil)
	def := dict.Define(nil, "foo", NewLazy(func() ([]byte, error) { return []byte{0x80, 0x05}, nil }))
	_, err := def.Code.Force()
	require.NoError(t, err)

	out := Disassemble([]byte{0x80, 0x05}, dict)
	require.Len(t, out, 1)
	w, ok := out[0].(Word)
	require.True(t, ok)
	assert.Equal(t, int16(5), w.Addr)
	assert.Equal(t, "foo", w.Name)
}

func Test_Disassemble_truncatedOperandIsUser(t *testing.T) {
	out := Disassemble([]byte{byte(PrimLit8)}, nil)
	require.Len(t, out, 1)
	assert.Equal(t, User(byte(PrimLit8)), out[0])
}

func Test_opcodeOf_primitiveOf(t *testing.T) {
	for p := Primitive(0); p < primCount; p++ {
		op, ok := opcodeOf(p)
		require.True(t, ok)
		back, ok := primitiveOf(op)
		require.True(t, ok)
		assert.Equal(t, p, back)
	}
	_, ok := primitiveOf(byte(primCount) + 10)
	assert.False(t, ok)
}
