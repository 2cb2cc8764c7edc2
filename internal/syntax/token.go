package syntax

import (
	"sortlint/internal/source"
)

// Kind classifies a lexical token of the model declaration language.
type Kind uint8

const (
	EOF Kind = iota
	Invalid
	Ident
	String
	KwClass
	LBracket
	RBracket
	LParen
	RParen
	LBrace
	RBrace
	Colon
	Semicolon
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "end of file"
	case Invalid:
		return "invalid token"
	case Ident:
		return "identifier"
	case String:
		return "string literal"
	case KwClass:
		return "'class'"
	case LBracket:
		return "'['"
	case RBracket:
		return "']'"
	case LParen:
		return "'('"
	case RParen:
		return "')'"
	case LBrace:
		return "'{'"
	case RBrace:
		return "'}'"
	case Colon:
		return "':'"
	case Semicolon:
		return "';'"
	}
	return "unknown token"
}

// Token is a single lexical token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}
