package main

import "fmt"

const maxQuoteLen = 255 // Quote's length operand is a single byte (spec.md §3)

// EagerAssemble resolves a node list against the compiler's dictionary and
// produces final byte code immediately (spec.md §4.4 "eager" mode), the
// mode used both for top-level REPL execution and, recursively, to build
// the body of any `define`d word the first time it is forced.
func EagerAssemble(nodes []Node, c *Compiler) ([]byte, error) {
	var out []byte
	for _, n := range nodes {
		b, err := assembleNode(n, c)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

func assembleNode(n Node, c *Compiler) ([]byte, error) {
	switch v := n.(type) {
	case TokenNode:
		def, ok := c.Dict.FindByName(string(v))
		if !ok {
			return nil, UnknownWordError{string(v)}
		}
		return def.Code.Force()

	case NumberNode:
		return Encode(Literal(v))

	case AddressNode:
		if v < 0 || int(v) > maxCallAddress {
			return nil, AddressOutOfRangeError{int(v)}
		}
		return Encode(Word{Addr: int16(v)})

	case QuotationNode:
		return assembleQuotation([]Node(v), c)

	default:
		return nil, fmt.Errorf("unknown node type %T", n)
	}
}

// assembleQuotation implements spec.md §4.4's quotation rule: a
// single-word quotation degenerates to a Literal(addr) push (the
// "single-word quotation optimization" tested in spec.md §8); any other
// quotation becomes Quote(len+1), its body, and a trailing return.
func assembleQuotation(children []Node, c *Compiler) ([]byte, error) {
	body, err := EagerAssemble(children, c)
	if err != nil {
		return nil, err
	}

	if ins := Disassemble(body, nil); len(ins) == 1 {
		if w, ok := ins[0].(Word); ok {
			return Encode(Literal(w.Addr))
		}
	}

	if len(body)+1 > maxQuoteLen {
		return nil, QuoteTooLargeError{len(body) + 1}
	}

	quote, err := Encode(Quote(len(body) + 1))
	if err != nil {
		return nil, err
	}
	ret, err := Encode(Prim(PrimReturn))
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(quote)+len(body)+len(ret))
	out = append(out, quote...)
	out = append(out, body...)
	out = append(out, ret...)
	return out, nil
}

// LazyAssemble returns a Lazy that, on first force, eagerly assembles
// source against c's dictionary and then shrinks the result under name
// (spec.md §4.4 "Lazy assembly"). This is how `define` and the standard
// library's secondary words are registered: the body is not compiled
// until something actually references the word.
func LazyAssemble(source []Node, c *Compiler, name string) *Lazy {
	return NewLazy(func() ([]byte, error) {
		body, err := EagerAssemble(source, c)
		if err != nil {
			return nil, err
		}
		return c.shrink(name, body)
	})
}
