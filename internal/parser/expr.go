package parser

import (
	"strconv"
	"strings"

	"walter/internal/ast"
	"walter/internal/diag"
	"walter/internal/source"
	"walter/internal/token"
)

func canStartExpr(k token.Kind) bool {
	switch k {
	case token.NumberLit, token.StringLit, token.KwTrue, token.KwFalse, token.KwNull,
		token.LBracket, token.Ident, token.Minus, token.Plus:
		return true
	}
	return false
}

var binaryOps = map[token.Kind]ast.BinaryOp{
	token.Plus:    ast.OpAdd,
	token.Minus:   ast.OpSub,
	token.Star:    ast.OpMul,
	token.Slash:   ast.OpDiv,
	token.Percent: ast.OpMod,
	token.Caret:   ast.OpXor,
}

var compareOps = map[token.Kind]ast.CompareOp{
	token.EqEq:   ast.CmpEq,
	token.BangEq: ast.CmpNe,
}

// parseExpr parses an operand optionally followed by a flat operator chain.
// Chains carry no precedence; the compiler folds them left to right.
func (p *Parser) parseExpr() ast.Expr {
	first := p.parseOperand()
	if first == nil {
		return nil
	}
	switch k := p.peek().Kind; {
	case k.IsArithmetic():
		return p.parseBinaryChain(first)
	case k.IsComparison():
		return p.parseConditionalChain(first)
	}
	return first
}

func (p *Parser) parseBinaryChain(first ast.Expr) ast.Expr {
	terms := []ast.BinaryOperand{{Op: ast.OpNone, Operand: p.numberOperand(first)}}
	for p.peek().Kind.IsArithmetic() {
		op := binaryOps[p.next().Kind]
		operand := p.parseOperand()
		if operand == nil {
			return nil
		}
		terms = append(terms, ast.BinaryOperand{Op: op, Operand: p.numberOperand(operand)})
	}
	if p.peek().Kind.IsComparison() {
		return p.mixedChain()
	}
	return &ast.BinaryExpr{Base: ast.Base{Span: p.spanFrom(first.Pos())}, Terms: terms}
}

func (p *Parser) parseConditionalChain(first ast.Expr) ast.Expr {
	terms := []ast.ConditionalOperand{{Op: ast.CmpNone, Operand: p.plainOperand(first)}}
	for p.peek().Kind.IsComparison() {
		op := compareOps[p.next().Kind]
		operand := p.parseOperand()
		if operand == nil {
			return nil
		}
		terms = append(terms, ast.ConditionalOperand{Op: op, Operand: p.plainOperand(operand)})
	}
	if p.peek().Kind.IsArithmetic() {
		return p.mixedChain()
	}
	return &ast.ConditionalExpr{Base: ast.Base{Span: p.spanFrom(first.Pos())}, Terms: terms}
}

// mixedChain reports an arithmetic/comparison mix and skips the rest of it.
func (p *Parser) mixedChain() ast.Expr {
	p.errorf(diag.SynMixedOperators, p.peek().Span, "arithmetic and comparison operators cannot be mixed in one expression")
	for p.peek().Kind.IsArithmetic() || p.peek().Kind.IsComparison() {
		p.next()
		if p.parseOperand() == nil {
			break
		}
	}
	return nil
}

// numberOperand enforces that arithmetic operands are number literals.
func (p *Parser) numberOperand(x ast.Expr) ast.Term {
	if te, ok := x.(*ast.TermExpr); ok {
		if _, ok := te.Term.(*ast.NumberTerm); ok {
			return te.Term
		}
	}
	p.errorf(diag.SynOperandNotNumber, x.Pos(), "operands of an arithmetic expression must be number literals")
	return &ast.NumberTerm{Base: ast.Base{Span: x.Pos()}}
}

// plainOperand enforces that comparison operands are terms.
func (p *Parser) plainOperand(x ast.Expr) ast.Term {
	if te, ok := x.(*ast.TermExpr); ok {
		return te.Term
	}
	p.errorf(diag.SynUnexpectedToken, x.Pos(), "operands of a comparison must be literals or variables")
	return &ast.NullTerm{Base: ast.Base{Span: x.Pos()}}
}

// parseOperand parses a term, a call or an index expression.
func (p *Parser) parseOperand() ast.Expr {
	tok := p.peek()
	switch tok.Kind {
	case token.Ident:
		return p.parseIdentOperand()
	case token.LBracket:
		return p.parseArray()
	}
	term := p.parseLiteral()
	if term == nil {
		return nil
	}
	return &ast.TermExpr{Base: ast.Base{Span: term.Pos()}, Term: term}
}

func (p *Parser) parseLiteral() ast.Term {
	tok := p.peek()
	switch tok.Kind {
	case token.NumberLit:
		p.next()
		return p.number(tok.Text, tok.Span)
	case token.Minus, token.Plus:
		// a sign binds only to a directly following number
		num := p.peekN(1)
		if num.Kind != token.NumberLit || num.Span.Start != tok.Span.End {
			p.errorf(diag.SynExpectExpression, tok.Span, "expected expression, found "+tok.Kind.String())
			return nil
		}
		p.next()
		p.next()
		return p.number(tok.Text+num.Text, tok.Span.Cover(num.Span))
	case token.StringLit:
		p.next()
		return &ast.StringTerm{Base: ast.Base{Span: tok.Span}, Value: tok.Text}
	case token.KwTrue, token.KwFalse:
		p.next()
		return &ast.BoolTerm{Base: ast.Base{Span: tok.Span}, Value: tok.Kind == token.KwTrue}
	case token.KwNull:
		p.next()
		return &ast.NullTerm{Base: ast.Base{Span: tok.Span}}
	}
	p.errorf(diag.SynExpectExpression, tok.Span, "expected expression, found "+tok.Kind.String())
	return nil
}

func (p *Parser) number(text string, sp source.Span) ast.Term {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		p.errorf(diag.LexBadNumber, sp, "malformed number literal "+strconv.Quote(text))
	}
	return &ast.NumberTerm{Base: ast.Base{Span: sp}, Value: v}
}

// name | a.b.c(args) | name[index]
func (p *Parser) parseIdentOperand() ast.Expr {
	first := p.next()
	parts := []string{first.Text}
	for p.at(token.Dot) && p.peekN(1).Kind == token.Ident {
		p.next()
		parts = append(parts, p.next().Text)
	}
	name := ast.Ident(strings.Join(parts, "."))

	if p.at(token.LParen) {
		return p.parseCallArgs(name, first.Span)
	}
	ident := &ast.IdentTerm{Base: ast.Base{Span: p.spanFrom(first.Span)}, Name: name}
	if p.eat(token.LBracket) {
		index := p.parseLiteral()
		if index == nil {
			return nil
		}
		switch index.(type) {
		case *ast.NumberTerm, *ast.StringTerm:
		default:
			p.errorf(diag.SynBadIndex, index.Pos(), "index must be a number or a string")
		}
		if _, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "']'"); !ok {
			return nil
		}
		return &ast.IndexExpr{Base: ast.Base{Span: p.spanFrom(first.Span)}, Target: ident, Index: index}
	}
	return &ast.TermExpr{Base: ident.Base, Term: ident}
}

func (p *Parser) parseCallArgs(callee ast.Ident, start source.Span) ast.Expr {
	open := p.next() // (
	var args []ast.Expr
	for !p.at(token.RParen) {
		arg := p.parseExpr()
		if arg == nil {
			return nil
		}
		args = append(args, arg)
		if !p.eat(token.Comma) {
			break
		}
	}
	if !p.eat(token.RParen) {
		p.errorf(diag.SynUnclosedDelimiter, open.Span, "unclosed '('")
		return nil
	}
	return &ast.CallExpr{Base: ast.Base{Span: p.spanFrom(start)}, Callee: callee, Args: args}
}

// [a, b, c]
func (p *Parser) parseArray() ast.Expr {
	open := p.next()
	var elems []ast.Expr
	for !p.at(token.RBracket) {
		elem := p.parseExpr()
		if elem == nil {
			return nil
		}
		elems = append(elems, elem)
		if !p.eat(token.Comma) {
			break
		}
	}
	if !p.eat(token.RBracket) {
		p.errorf(diag.SynUnclosedDelimiter, open.Span, "unclosed '['")
		return nil
	}
	arr := &ast.ArrayTerm{Base: ast.Base{Span: p.spanFrom(open.Span)}, Elems: elems}
	return &ast.TermExpr{Base: arr.Base, Term: arr}
}
