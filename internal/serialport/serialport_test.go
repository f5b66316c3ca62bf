package serialport_test

import (
	"testing"

	"github.com/AshleyF/brief/internal/serialport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Pipe_bidirectional(t *testing.T) {
	a, b := serialport.Pipe("a", "b")
	assert.Equal(t, "a", a.Name())
	assert.Equal(t, "b", b.Name())

	go func() {
		n, err := a.Write([]byte("hello"))
		assert.NoError(t, err)
		assert.Equal(t, 5, n)
	}()

	buf := make([]byte, 5)
	n, err := b.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf[:n]))

	go func() {
		_, err := b.Write([]byte("world"))
		assert.NoError(t, err)
	}()
	n, err = a.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "world", string(buf[:n]))
}

func Test_Pipe_closeUnblocksReaders(t *testing.T) {
	a, b := serialport.Pipe("a", "b")

	errCh := make(chan error, 1)
	go func() {
		buf := make([]byte, 1)
		_, err := b.Read(buf)
		errCh <- err
	}()

	require.NoError(t, a.Close())
	err := <-errCh
	assert.Error(t, err)
}
