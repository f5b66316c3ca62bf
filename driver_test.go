package main

import (
	"bytes"
	"context"
	"io/ioutil"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runDriver(t *testing.T, input string) string {
	t.Helper()
	var out bytes.Buffer
	d := New(WithInput(strings.NewReader(input)), WithOutput(&out))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := d.Run(ctx)
	require.NoError(t, err)
	return out.String()
}

func Test_Driver_parseErrorIsSurfaced(t *testing.T) {
	out := runDriver(t, "[ unmatched\n")
	assert.Contains(t, out, "?", "a parse error must be visible by default, not only under -trace")
}

func Test_Driver_directiveErrorIsSurfaced(t *testing.T) {
	out := runDriver(t, "define\n")
	assert.Contains(t, out, "?")
}

func Test_Driver_promptToggle(t *testing.T) {
	var out bytes.Buffer
	d := New(WithInput(strings.NewReader("prompt\nprompt\n")), WithOutput(&out))
	require.NoError(t, d.Run(context.Background()))
	assert.False(t, d.showPrompt, "two toggles return to the default (off)")
}

func Test_Driver_memoryDirective(t *testing.T) {
	out := runDriver(t, "memory\n")
	assert.Contains(t, out, "dict=")
	assert.Contains(t, out, "address=")
	assert.Contains(t, out, "pending=")
}

func Test_Driver_disconnectWithoutConnectionIsDirectiveError(t *testing.T) {
	out := runDriver(t, "disconnect\n")
	assert.Contains(t, out, "not connected")
}

func Test_Driver_backslashDropsOnlyRemainingTokens(t *testing.T) {
	// everything after `\` is dropped, including an otherwise-erroring
	// unknown word; only "1 2" should ever reach the assembler.
	out := runDriver(t, "1 2 \\ thisWordDoesNotExist\n")
	assert.NotContains(t, out, "?", "tokens after \\ must never reach assembly")
}

func Test_Driver_variableCompilesToReturnOnlyQuote(t *testing.T) {
	d := New(WithInput(strings.NewReader("")), WithOutput(new(bytes.Buffer)))
	stack := []Node{QuotationNode{TokenNode("counter")}}
	require.NoError(t, d.doVariable(&stack))

	def, ok := d.compiler.Dict.FindByName("counter")
	require.True(t, ok)
	code, err := def.Code.Force()
	require.NoError(t, err)

	// [ return ] is a single-Prim body, which the single-word-quotation
	// optimization does NOT collapse (it only fires for a Word body), so
	// this must commit as a real call rather than degenerate to a bare
	// address literal: Quote(2), the return opcode, the quote's own
	// trailing return, and then shrink's own appended trailing return.
	assert.Equal(t, []byte{0x80, 0x00}, code)
	assert.Equal(t, []byte{byte(PrimQuote), 2, byte(PrimReturn), byte(PrimReturn), byte(PrimReturn)}, d.compiler.Pending)
}

func Test_Driver_simulatedConnectRoundTrip(t *testing.T) {
	out := runDriver(t, strings.Join([]string{
		"'sim:board connect",
		"[ dup + ] 'double define",
		"5 double .",
		"disconnect",
		"exit",
	}, "\n")+"\n")

	assert.Contains(t, out, "# boot", "the simulated device must announce itself on connect")
}

func Test_Driver_exitStopsRun(t *testing.T) {
	out := runDriver(t, "exit\nthis line must never run\n")
	assert.NotContains(t, out, "this line must never run")
}

func Test_Driver_loadRunsFileAndReturns(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/prelude.bf"
	require.NoError(t, ioutil.WriteFile(path, []byte("[ dup * ] 'square define\n"), 0o644))

	out := runDriver(t, "'"+path+" load\nmemory\n")
	assert.Contains(t, out, "dict=")
	assert.NotContains(t, out, "?")
}
