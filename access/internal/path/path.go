package path

import (
	"fmt"
	"strings"

	"github.com/wippyai/fastaccess/errors"
)

type Kind uint8

const (
	Field Kind = iota
	Index
)

func (k Kind) String() string {
	switch k {
	case Field:
		return "field"
	case Index:
		return "index"
	}
	return "unknown"
}

// Element is one navigation step.
type Element struct {
	Name string // set for Field
	Kind Kind
}

func (e Element) String() string {
	if e.Kind == Index {
		return "[]"
	}
	return "." + e.Name
}

type TokenType int

const (
	End TokenType = iota
	Ident
	Array
)

func (t TokenType) String() string {
	switch t {
	case End:
		return "end"
	case Ident:
		return "identifier"
	case Array:
		return "'[]'"
	}
	return "unknown"
}

type Token struct {
	Value string
	Type  TokenType
	Pos   int
}

// Lexer produces tokens from a path one at a time.
type Lexer struct {
	input string
	pos   int
}

func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Next returns the next token, or an End token once the input is consumed.
func (l *Lexer) Next() (Token, error) {
	if l.pos == len(l.input) {
		return Token{Type: End, Pos: l.pos}, nil
	}

	start := l.pos
	c := l.input[l.pos]
	l.pos++

	switch c {
	case '.':
		end := strings.IndexAny(l.input[l.pos:], ".[")
		if end < 0 {
			end = len(l.input)
		} else {
			end += l.pos
		}
		name := l.input[l.pos:end]
		l.pos = end
		return Token{Value: name, Type: Ident, Pos: start}, nil

	case '[':
		if l.pos == len(l.input) || l.input[l.pos] != ']' {
			return Token{}, errors.PathSyntax(l.input, l.pos, "expected ']'")
		}
		l.pos++
		return Token{Value: "[]", Type: Array, Pos: start}, nil
	}

	return Token{}, errors.PathSyntax(l.input, start, fmt.Sprintf("invalid character %q", c))
}

// Parse converts a path into its elements. The empty path has no elements.
func Parse(input string) ([]Element, error) {
	lex := NewLexer(input)
	var elems []Element
	for {
		tok, err := lex.Next()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case Ident:
			elems = append(elems, Element{Kind: Field, Name: tok.Value})
		case Array:
			elems = append(elems, Element{Kind: Index})
		case End:
			return elems, nil
		}
	}
}

// Arity counts the Index elements.
func Arity(elems []Element) int {
	n := 0
	for _, e := range elems {
		if e.Kind == Index {
			n++
		}
	}
	return n
}

// Format renders elements back into path syntax.
func Format(elems []Element) string {
	var b strings.Builder
	for _, e := range elems {
		b.WriteString(e.String())
	}
	return b.String()
}
