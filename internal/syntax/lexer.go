package syntax

import (
	"fmt"

	"sortlint/internal/diag"
	"sortlint/internal/source"
)

// Lexer produces tokens for one model file. It never fails: malformed
// input yields Invalid tokens plus diagnostics through the reporter.
type Lexer struct {
	file     *source.File
	off      uint32
	reporter diag.Reporter
	look     *Token
}

func NewLexer(file *source.File, reporter diag.Reporter) *Lexer {
	return &Lexer{
		file:     file,
		reporter: reporter,
	}
}

// Peek returns the upcoming significant token without consuming it.
func (lx *Lexer) Peek() Token {
	if lx.look == nil {
		tok := lx.scan()
		lx.look = &tok
	}
	return *lx.look
}

// Next returns the next significant token. After EOF it keeps returning EOF.
func (lx *Lexer) Next() Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	return lx.scan()
}

func (lx *Lexer) scan() Token {
	lx.skipTrivia()

	content := lx.file.Content
	if int(lx.off) >= len(content) {
		return Token{Kind: EOF, Span: lx.spanFrom(lx.off)}
	}

	start := lx.off
	b := content[lx.off]
	switch {
	case b == '[':
		lx.off++
		return Token{Kind: LBracket, Span: lx.spanFrom(start), Text: "["}
	case b == ']':
		lx.off++
		return Token{Kind: RBracket, Span: lx.spanFrom(start), Text: "]"}
	case b == '(':
		lx.off++
		return Token{Kind: LParen, Span: lx.spanFrom(start), Text: "("}
	case b == ')':
		lx.off++
		return Token{Kind: RParen, Span: lx.spanFrom(start), Text: ")"}
	case b == '{':
		lx.off++
		return Token{Kind: LBrace, Span: lx.spanFrom(start), Text: "{"}
	case b == '}':
		lx.off++
		return Token{Kind: RBrace, Span: lx.spanFrom(start), Text: "}"}
	case b == ':':
		lx.off++
		return Token{Kind: Colon, Span: lx.spanFrom(start), Text: ":"}
	case b == ';':
		lx.off++
		return Token{Kind: Semicolon, Span: lx.spanFrom(start), Text: ";"}
	case b == '"':
		return lx.scanString()
	case isIdentStart(b):
		return lx.scanIdent()
	default:
		lx.off++
		tok := Token{Kind: Invalid, Span: lx.spanFrom(start), Text: string(b)}
		lx.report(diag.SynUnknownChar, tok.Span, fmt.Sprintf("unknown character %q", b))
		return tok
	}
}

// scanIdent consumes [A-Za-z_][A-Za-z0-9_]* and classifies keywords.
func (lx *Lexer) scanIdent() Token {
	content := lx.file.Content
	start := lx.off
	for int(lx.off) < len(content) && isIdentPart(content[lx.off]) {
		lx.off++
	}
	text := string(content[start:lx.off])
	kind := Ident
	if text == "class" {
		kind = KwClass
	}
	return Token{Kind: kind, Span: lx.spanFrom(start), Text: text}
}

// scanString consumes a double-quoted literal. Text carries the unquoted
// value; the only escapes are \" and \\.
func (lx *Lexer) scanString() Token {
	content := lx.file.Content
	start := lx.off
	lx.off++ // opening quote

	var value []byte
	for int(lx.off) < len(content) {
		b := content[lx.off]
		if b == '\n' {
			break
		}
		if b == '\\' && int(lx.off)+1 < len(content) {
			next := content[lx.off+1]
			if next == '"' || next == '\\' {
				value = append(value, next)
				lx.off += 2
				continue
			}
		}
		if b == '"' {
			lx.off++
			return Token{Kind: String, Span: lx.spanFrom(start), Text: string(value)}
		}
		value = append(value, b)
		lx.off++
	}

	tok := Token{Kind: Invalid, Span: lx.spanFrom(start), Text: string(value)}
	lx.report(diag.SynUnterminatedString, tok.Span, "unterminated string literal")
	return tok
}

func (lx *Lexer) skipTrivia() {
	content := lx.file.Content
	for int(lx.off) < len(content) {
		b := content[lx.off]
		switch {
		case b == ' ' || b == '\t' || b == '\n' || b == '\r':
			lx.off++
		case b == '/' && int(lx.off)+1 < len(content) && content[lx.off+1] == '/':
			for int(lx.off) < len(content) && content[lx.off] != '\n' {
				lx.off++
			}
		case b == '/' && int(lx.off)+1 < len(content) && content[lx.off+1] == '*':
			start := lx.off
			lx.off += 2
			closed := false
			for int(lx.off)+1 < len(content) {
				if content[lx.off] == '*' && content[lx.off+1] == '/' {
					lx.off += 2
					closed = true
					break
				}
				lx.off++
			}
			if !closed {
				lx.off = uint32(len(content)) //nolint:gosec // file size bounded
				lx.report(diag.SynUnterminatedComment, lx.spanFrom(start), "unterminated block comment")
			}
		default:
			return
		}
	}
}

func (lx *Lexer) spanFrom(start uint32) source.Span {
	return source.Span{File: lx.file.ID, Start: start, End: lx.off}
}

func (lx *Lexer) report(code diag.Code, span source.Span, msg string) {
	if lx.reporter != nil {
		lx.reporter.Report(diag.NewError(code, span, msg))
	}
}

func isIdentStart(b byte) bool {
	return b == '_' || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || ('0' <= b && b <= '9')
}
