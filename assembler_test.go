package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBareCompiler() *Compiler {
	return &Compiler{Dict: NewDictionary(nil)}
}

func Test_shrink_inlineThreshold(t *testing.T) {
	c := newBareCompiler()

	for _, n := range []int{0, 1, 2} {
		code := make([]byte, n)
		out, err := c.shrink("w", code)
		require.NoError(t, err)
		assert.Equal(t, code, out, "code of %d bytes should stay inline", n)
	}
	assert.Equal(t, int16(0), c.Address, "inline code must not advance the dictionary address")
	assert.Empty(t, c.Pending)
}

func Test_shrink_commitsAboveThreshold(t *testing.T) {
	c := newBareCompiler()
	code := []byte{1, 2, 3}

	call, err := c.shrink("w", code)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x80, 0x00}, call, "committed code is referenced by a 2-byte call to address 0")
	assert.Equal(t, int16(4), c.Address, "address advances by the committed bytes plus trailing return")
	assert.Equal(t, append(append([]byte{}, code...), byte(PrimReturn)), c.Pending)

	// a second commit continues from the advanced address
	call2, err := c.shrink("w2", []byte{4, 5, 6})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x80, 0x04}, call2)
	assert.Equal(t, int16(8), c.Address)
}

func Test_EagerAssemble_numberAndUnknownWord(t *testing.T) {
	c := newBareCompiler()

	code, err := EagerAssemble([]Node{NumberNode(5)}, c)
	require.NoError(t, err)
	assert.Equal(t, []byte{byte(PrimLit8), 5}, code)

	_, err = EagerAssemble([]Node{TokenNode("nope")}, c)
	require.Error(t, err)
	var uerr UnknownWordError
	assert.ErrorAs(t, err, &uerr)
	assert.Equal(t, "nope", uerr.Name)
}

func Test_assembleQuotation_singleWordOptimization(t *testing.T) {
	c := newBareCompiler()
	c.Dict.Define(Prim(PrimAdd), "+", NewLazy(func() ([]byte, error) { return Encode(Prim(PrimAdd)) }))

	nodes, err := ParseLine("define 'big [ + + + ]")
	require.NoError(t, err)
	require.NoError(t, runDefine(c, nodes))

	def, ok := c.Dict.FindByName("big")
	require.True(t, ok)
	call, err := def.Code.Force()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x80, 0x00}, call, "3-byte body should commit, not inline")

	body, err := assembleQuotation([]Node{TokenNode("big")}, c)
	require.NoError(t, err)
	assert.Equal(t, []byte{byte(PrimLit8), 0}, body, "a quotation wrapping a single call collapses to a literal address push")
}

func Test_assembleQuotation_multiInstruction(t *testing.T) {
	c := newBareCompiler()

	body, err := assembleQuotation([]Node{NumberNode(1), NumberNode(2)}, c)
	require.NoError(t, err)

	wantInner := []byte{byte(PrimLit8), 1, byte(PrimLit8), 2}
	want := append([]byte{byte(PrimQuote), byte(len(wantInner) + 1)}, wantInner...)
	want = append(want, byte(PrimReturn))
	assert.Equal(t, want, body)
}

// runDefine is a tiny stand-in for the driver's `define` directive, used so
// assembler tests can build a word without spinning up a Driver. Unlike the
// driver, which pops the name quotation off the top of its stack and the
// body beneath it, runDefine takes the name from the first quotation and the
// body from the second, so its input is written name-first.
func runDefine(c *Compiler, nodes []Node) error {
	var name string
	var body QuotationNode
	for _, n := range nodes {
		switch v := n.(type) {
		case TokenNode:
			// "define" itself; skip
		case QuotationNode:
			if name == "" {
				if len(v) != 1 {
					return ParseError{"expected single-token name"}
				}
				tok, ok := v[0].(TokenNode)
				if !ok {
					return ParseError{"expected single-token name"}
				}
				name = string(tok)
			} else {
				body = v
			}
		}
	}
	c.Dict.Define(nil, name, LazyAssemble([]Node(body), c, name))
	return nil
}
