package syntax

import (
	"fmt"

	"sortlint/internal/diag"
	"sortlint/internal/source"
)

// Options bounds parser error reporting.
type Options struct {
	MaxErrors uint // 0 = unlimited
}

// Parser holds the state for parsing one model file.
type Parser struct {
	lx       *Lexer
	fileID   source.FileID
	reporter diag.Reporter
	opts     Options
	errors   uint
}

// ParseFile parses one model file into a declaration tree. Parse errors go
// through the reporter; the returned Unit carries every class that survived
// recovery, so a single bad declaration does not hide its siblings.
func ParseFile(file *source.File, reporter diag.Reporter, opts Options) *Unit {
	p := &Parser{
		lx:       NewLexer(file, reporter),
		fileID:   file.ID,
		reporter: reporter,
		opts:     opts,
	}
	return p.parseUnit()
}

func (p *Parser) parseUnit() *Unit {
	unit := &Unit{File: p.fileID}
	for {
		tok := p.lx.Peek()
		if tok.Kind == EOF || p.enough() {
			break
		}
		cls, ok := p.parseClass()
		if ok {
			unit.Classes = append(unit.Classes, cls)
			continue
		}
		p.syncToClass()
	}
	return unit
}

// parseClass := { attr } "class" IDENT [ ":" IDENT ] "{" { property } "}"
func (p *Parser) parseClass() (*Class, bool) {
	attrs, attrSpan, hasAttrs := p.parseAttrs()

	kw := p.lx.Next()
	if kw.Kind != KwClass {
		p.errorf(diag.SynUnexpectedToken, kw.Span, "expected 'class', found %s", kw.Kind)
		return nil, false
	}

	name := p.lx.Next()
	if name.Kind != Ident {
		p.errorf(diag.SynExpectIdentifier, name.Span, "expected class name, found %s", name.Kind)
		return nil, false
	}

	cls := &Class{
		Name:     name.Text,
		NameSpan: name.Span,
		Attrs:    attrs,
	}
	start := kw.Span
	if hasAttrs {
		start = attrSpan
	}

	if p.lx.Peek().Kind == Colon {
		p.lx.Next()
		base := p.lx.Next()
		if base.Kind != Ident {
			p.errorf(diag.SynExpectIdentifier, base.Span, "expected base class name, found %s", base.Kind)
			return nil, false
		}
		cls.Base = base.Text
	}

	open := p.lx.Next()
	if open.Kind != LBrace {
		p.errorf(diag.SynUnexpectedToken, open.Span, "expected '{', found %s", open.Kind)
		return nil, false
	}

	for {
		tok := p.lx.Peek()
		if tok.Kind == RBrace || tok.Kind == EOF || p.enough() {
			break
		}
		prop, ok := p.parseProperty()
		if ok {
			cls.Props = append(cls.Props, prop)
			continue
		}
		p.syncToMember()
	}

	closing := p.lx.Next()
	if closing.Kind != RBrace {
		p.errorf(diag.SynUnexpectedToken, closing.Span, "expected '}', found %s", closing.Kind)
		cls.Span = start.Cover(closing.Span)
		return cls, true
	}

	cls.Span = start.Cover(closing.Span)
	return cls, true
}

// parseProperty := { attr } IDENT IDENT ";"
func (p *Parser) parseProperty() (*Property, bool) {
	attrs, attrSpan, hasAttrs := p.parseAttrs()

	typ := p.lx.Next()
	if typ.Kind != Ident {
		p.errorf(diag.SynExpectIdentifier, typ.Span, "expected property type, found %s", typ.Kind)
		return nil, false
	}
	name := p.lx.Next()
	if name.Kind != Ident {
		p.errorf(diag.SynExpectIdentifier, name.Span, "expected property name, found %s", name.Kind)
		return nil, false
	}
	semi := p.lx.Next()
	if semi.Kind != Semicolon {
		p.errorf(diag.SynUnexpectedToken, semi.Span, "expected ';', found %s", semi.Kind)
		return nil, false
	}

	start := typ.Span
	if hasAttrs {
		start = attrSpan
	}
	return &Property{
		Span:     start.Cover(semi.Span),
		NameSpan: name.Span,
		Type:     typ.Text,
		Name:     name.Text,
		Attrs:    attrs,
	}, true
}

// parseAttrs := { "[" IDENT [ "(" STRING ")" ] "]" }
func (p *Parser) parseAttrs() ([]Attr, source.Span, bool) {
	var attrs []Attr
	var covered source.Span
	has := false

	for p.lx.Peek().Kind == LBracket {
		open := p.lx.Next()

		name := p.lx.Next()
		if name.Kind != Ident {
			p.errorf(diag.SynExpectIdentifier, name.Span, "expected attribute name, found %s", name.Kind)
			return attrs, covered, has
		}
		attr := Attr{Name: name.Text}

		if p.lx.Peek().Kind == LParen {
			p.lx.Next()
			arg := p.lx.Next()
			if arg.Kind != String {
				p.errorf(diag.SynExpectAttrArgument, arg.Span, "expected string argument for [%s]", name.Text)
				return attrs, covered, has
			}
			attr.Arg = arg.Text
			attr.HasArg = true
			if rp := p.lx.Next(); rp.Kind != RParen {
				p.errorf(diag.SynUnexpectedToken, rp.Span, "expected ')', found %s", rp.Kind)
				return attrs, covered, has
			}
		}

		closing := p.lx.Next()
		if closing.Kind != RBracket {
			p.errorf(diag.SynUnexpectedToken, closing.Span, "expected ']', found %s", closing.Kind)
			return attrs, covered, has
		}

		attr.Span = open.Span.Cover(closing.Span)
		attrs = append(attrs, attr)
		if !has {
			covered = attr.Span
			has = true
		} else {
			covered = covered.Cover(attr.Span)
		}
	}
	return attrs, covered, has
}

// syncToClass skips tokens until the next plausible class start.
func (p *Parser) syncToClass() {
	for {
		tok := p.lx.Peek()
		if tok.Kind == EOF || tok.Kind == KwClass || tok.Kind == LBracket {
			return
		}
		p.lx.Next()
	}
}

// syncToMember skips to the next member boundary inside a class body.
func (p *Parser) syncToMember() {
	for {
		tok := p.lx.Peek()
		switch tok.Kind {
		case EOF, RBrace:
			return
		case Semicolon:
			p.lx.Next()
			return
		default:
			p.lx.Next()
		}
	}
}

func (p *Parser) enough() bool {
	return p.opts.MaxErrors != 0 && p.errors >= p.opts.MaxErrors
}

func (p *Parser) errorf(code diag.Code, span source.Span, format string, args ...any) {
	p.errors++
	if p.reporter != nil {
		p.reporter.Report(diag.NewError(code, span, fmt.Sprintf(format, args...)))
	}
}
