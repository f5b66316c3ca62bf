package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseError reports a parse-time syntax error (spec.md §7 class 1):
// unmatched brackets or a malformed address literal.
type ParseError struct {
	Reason string
}

func (e ParseError) Error() string { return fmt.Sprintf("parse error: %s", e.Reason) }

// Node is the parse-tree element spec.md §3/§4.3 describes: a token, a
// number, an address literal, or a nested quotation.
type Node interface {
	isNode()
	String() string
}

// TokenNode is a bare word to be looked up in the dictionary.
type TokenNode string

func (TokenNode) isNode()          {}
func (n TokenNode) String() string { return string(n) }

// NumberNode is a literal integer, parsed directly as `NNNN`.
type NumberNode int16

func (NumberNode) isNode()          {}
func (n NumberNode) String() string { return strconv.Itoa(int(n)) }

// AddressNode is a literal call target, parsed as `(NNNN)`.
type AddressNode int16

func (AddressNode) isNode()          {}
func (n AddressNode) String() string { return fmt.Sprintf("(%d)", int16(n)) }

// QuotationNode is a nested `[ ... ]` block.
type QuotationNode []Node

func (QuotationNode) isNode() {}
func (n QuotationNode) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for _, c := range n {
		sb.WriteByte(' ')
		sb.WriteString(c.String())
	}
	sb.WriteString(" ]")
	return sb.String()
}

// Parser recursively descends on `[`/`]` over a Lexer's token stream
// (spec.md §4.3).
type Parser struct {
	lx *Lexer
}

// NewParser constructs a Parser over a single line of source.
func NewParser(line string) *Parser {
	return &Parser{lx: NewLexer(strings.NewReader(line))}
}

// ParseLine lexes and parses one line into its top-level node list.
func ParseLine(line string) ([]Node, error) {
	return NewParser(line).Parse()
}

// Parse consumes the whole underlying token stream, returning the
// top-level node sequence. An unmatched `]` or end-of-input inside an open
// `[` is a ParseError.
func (p *Parser) Parse() ([]Node, error) {
	return p.parseSequence(false)
}

func (p *Parser) parseSequence(nested bool) ([]Node, error) {
	var nodes []Node
	for {
		tok, err := p.lx.Next()
		if errors.Is(err, io.EOF) {
			if nested {
				return nil, ParseError{"unmatched ["}
			}
			return nodes, nil
		}
		if err != nil {
			return nil, err
		}

		switch tok {
		case "]":
			if !nested {
				return nil, ParseError{"unmatched ]"}
			}
			return nodes, nil
		case "[":
			children, err := p.parseSequence(true)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, QuotationNode(children))
		default:
			node, err := parseAtom(tok)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, node)
		}
	}
}

func parseAtom(tok string) (Node, error) {
	if strings.HasPrefix(tok, "(") {
		if !strings.HasSuffix(tok, ")") || len(tok) < 3 {
			return nil, ParseError{fmt.Sprintf("malformed address literal %q", tok)}
		}
		inner := tok[1 : len(tok)-1]
		n, err := strconv.ParseInt(inner, 10, 16)
		if err != nil {
			return nil, ParseError{fmt.Sprintf("malformed address literal %q", tok)}
		}
		return AddressNode(n), nil
	}

	if n, err := strconv.ParseInt(tok, 10, 16); err == nil {
		return NumberNode(n), nil
	}

	return TokenNode(tok), nil
}
