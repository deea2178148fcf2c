package parser

import (
	"slices"

	"walter/internal/ast"
	"walter/internal/diag"
	"walter/internal/lexer"
	"walter/internal/source"
	"walter/internal/token"
)

type Options struct {
	MaxErrors uint
	Reporter  diag.Reporter
}

// Parser - состояние парсера на один файл
type Parser struct {
	file   *source.File
	toks   []token.Token
	pos    int
	opts   Options
	errors uint
}

// ParseFile lexes and parses one file. Lexical and syntax problems go to
// opts.Reporter; the returned tree is best effort and must not be compiled
// when errors were reported.
func ParseFile(file *source.File, opts Options) ast.Tree {
	lx := lexer.New(file, lexer.Options{Reporter: opts.Reporter})
	all := lx.All()
	// invalid tokens were already reported by the lexer
	toks := make([]token.Token, 0, len(all))
	for _, tok := range all {
		if tok.Kind != token.Invalid {
			toks = append(toks, tok)
		}
	}
	p := &Parser{file: file, toks: toks, opts: opts}
	return p.parseTree(token.EOF)
}

// Errors returns how many syntax errors the parser reported.
func (p *Parser) Errors() uint { return p.errors }

func (p *Parser) peek() token.Token {
	return p.peekN(0)
}

func (p *Parser) peekN(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *Parser) next() token.Token {
	tok := p.peek()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.next()
		return true
	}
	return false
}

// expect consumes a token of kind k or reports what was expected instead.
func (p *Parser) expect(k token.Kind, code diag.Code, what string) (token.Token, bool) {
	if p.at(k) {
		return p.next(), true
	}
	got := p.peek()
	p.errorf(code, got.Span, "expected "+what+", found "+got.Kind.String())
	return got, false
}

func (p *Parser) errorf(code diag.Code, sp source.Span, msg string) {
	p.errors++
	if p.opts.MaxErrors != 0 && p.errors > p.opts.MaxErrors {
		return
	}
	if p.opts.Reporter != nil {
		diag.ReportError(p.opts.Reporter, code, sp, msg).Emit()
	}
}

// lastSpan is the span of the most recently consumed token.
func (p *Parser) lastSpan() source.Span {
	if p.pos == 0 {
		return p.peek().Span
	}
	return p.toks[p.pos-1].Span
}

func (p *Parser) spanFrom(start source.Span) source.Span {
	return start.Cover(p.lastSpan())
}

// newlineBetween reports whether a line break separates the end of a and
// the start of b.
func (p *Parser) newlineBetween(a, b source.Span) bool {
	if b.Start <= a.End || int(b.Start) > len(p.file.Content) {
		return false
	}
	return slices.Contains(p.file.Content[a.End:b.Start], '\n')
}
