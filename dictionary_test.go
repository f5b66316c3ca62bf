package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Lazy_forcesOnce(t *testing.T) {
	calls := 0
	l := NewLazy(func() ([]byte, error) {
		calls++
		return []byte{1, 2}, nil
	})
	assert.False(t, l.Forced())

	b1, err := l.Force()
	require.NoError(t, err)
	b2, err := l.Force()
	require.NoError(t, err)

	assert.Equal(t, b1, b2)
	assert.Equal(t, 1, calls)
	assert.True(t, l.Forced())
}

func Test_Lazy_memoizesError(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	l := NewLazy(func() ([]byte, error) {
		calls++
		return nil, boom
	})
	_, err1 := l.Force()
	_, err2 := l.Force()
	assert.Equal(t, boom, err1)
	assert.Equal(t, boom, err2)
	assert.Equal(t, 1, calls)
}

func Test_Dictionary_shadowing(t *testing.T) {
	d := NewDictionary(nil)
	d.Define(nil, "dup", NewLazy(func() ([]byte, error) { return []byte{1}, nil }))
	d.Define(nil, "dup", NewLazy(func() ([]byte, error) { return []byte{2}, nil }))

	def, ok := d.FindByName("dup")
	require.True(t, ok)
	b, err := def.Code.Force()
	require.NoError(t, err)
	assert.Equal(t, []byte{2}, b, "newest definition should shadow the older one")

	assert.Equal(t, 2, d.Len())
}

func Test_Dictionary_findByBrief(t *testing.T) {
	d := NewDictionary(nil)
	d.Define(Prim(PrimAdd), "+", NewLazy(func() ([]byte, error) { return []byte{byte(PrimAdd)}, nil }))

	def, ok := d.FindByBrief(Prim(PrimAdd))
	require.True(t, ok)
	assert.Equal(t, "+", def.Word)

	_, ok = d.FindByBrief(Prim(PrimSub))
	assert.False(t, ok)
}

func Test_Dictionary_resetRepopulates(t *testing.T) {
	calls := 0
	d := NewDictionary(func(d *Dictionary) {
		calls++
		d.Define(nil, "seed", NewLazy(func() ([]byte, error) { return nil, nil }))
	})
	require.Equal(t, 1, d.Len())

	d.Define(nil, "extra", NewLazy(func() ([]byte, error) { return nil, nil }))
	require.Equal(t, 2, d.Len())

	d.Reset()
	assert.Equal(t, 1, d.Len())
	assert.Equal(t, 2, calls)
	_, ok := d.FindByName("extra")
	assert.False(t, ok)
}
