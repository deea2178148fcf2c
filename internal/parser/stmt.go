package parser

import (
	"strings"

	"walter/internal/ast"
	"walter/internal/diag"
	"walter/internal/source"
	"walter/internal/token"
)

func isStmtStart(k token.Kind) bool {
	switch k {
	case token.KwImport, token.KwVar, token.KwPub, token.KwDebug, token.KwFn, token.KwReturn,
		token.KwLoop, token.KwBreak, token.KwIf, token.KwThrow, token.KwTry, token.KwClass:
		return true
	}
	return false
}

// parseTree parses statements until end (EOF or '}') without consuming it.
func (p *Parser) parseTree(end token.Kind) ast.Tree {
	tree := ast.Tree{}
	for !p.at(end) && !p.at(token.EOF) {
		if p.eat(token.Semicolon) {
			continue
		}
		if p.at(token.RBrace) {
			p.errorf(diag.SynUnexpectedToken, p.peek().Span, "unexpected '}'")
			p.next()
			continue
		}
		before := p.pos
		stmt := p.parseStmt()
		if stmt != nil {
			tree = append(tree, stmt)
			continue
		}
		if p.pos == before {
			p.next()
		}
		p.sync()
	}
	return tree
}

// sync skips to a plausible statement boundary after an error: a keyword
// that starts a statement, a separator, or the first token of a new line.
func (p *Parser) sync() {
	for !p.atOr(token.EOF, token.RBrace, token.Semicolon) && !isStmtStart(p.peek().Kind) {
		if p.pos > 0 && p.newlineBetween(p.toks[p.pos-1].Span, p.peek().Span) {
			return
		}
		p.next()
	}
}

func (p *Parser) parseBlock() (ast.Tree, bool) {
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "'{'")
	if !ok {
		return nil, false
	}
	tree := p.parseTree(token.RBrace)
	if !p.eat(token.RBrace) {
		p.errorf(diag.SynUnclosedDelimiter, open.Span, "unclosed '{'")
		return tree, false
	}
	return tree, true
}

func (p *Parser) parseStmt() ast.Node {
	tok := p.peek()
	switch tok.Kind {
	case token.KwImport:
		return p.parseImport()
	case token.KwPub, token.KwDebug:
		return p.parseModified()
	case token.KwVar:
		if v := p.parseVar(false); v != nil {
			return v
		}
		return nil
	case token.KwFn:
		return p.parseFn(false, false, tok.Span)
	case token.KwLoop:
		p.next()
		body, ok := p.parseBlock()
		if !ok {
			return nil
		}
		return &ast.Loop{Base: ast.Base{Span: p.spanFrom(tok.Span)}, Body: body}
	case token.KwBreak:
		p.next()
		return &ast.Break{Base: ast.Base{Span: tok.Span}}
	case token.KwReturn:
		return p.parseReturn()
	case token.KwIf:
		return p.parseIf()
	case token.KwThrow:
		p.next()
		value := p.parseExpr()
		if value == nil {
			return nil
		}
		return &ast.Throw{Base: ast.Base{Span: p.spanFrom(tok.Span)}, Value: value}
	case token.KwTry:
		return p.parseTry()
	case token.KwClass:
		p.next()
		name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "class name")
		if !ok {
			return nil
		}
		body, ok := p.parseBlock()
		if !ok {
			return nil
		}
		return &ast.Class{Base: ast.Base{Span: p.spanFrom(tok.Span)}, Name: ast.Ident(name.Text), Body: body}
	case token.Ident:
		if p.peekN(1).Kind == token.Assign {
			return p.parseAssignment()
		}
	}

	if !canStartExpr(tok.Kind) {
		p.errorf(diag.SynUnexpectedToken, tok.Span, "unexpected "+tok.Kind.String())
		return nil
	}
	x := p.parseExpr()
	if x == nil {
		return nil
	}
	if call, ok := x.(*ast.CallExpr); ok {
		return &ast.Call{Base: call.Base, Call: call}
	}
	return &ast.ExprStmt{Base: ast.Base{Span: x.Pos()}, X: x}
}

// import "utils/a" | import utils.a
func (p *Parser) parseImport() ast.Node {
	kw := p.next()
	var path string
	switch tok := p.peek(); tok.Kind {
	case token.StringLit:
		p.next()
		path = tok.Text
	case token.Ident:
		parts := []string{p.next().Text}
		for p.at(token.Dot) && p.peekN(1).Kind == token.Ident {
			p.next()
			parts = append(parts, p.next().Text)
		}
		path = strings.Join(parts, "/")
	default:
		p.errorf(diag.SynExpectIdentifier, tok.Span, "expected module path, found "+tok.Kind.String())
		return nil
	}
	if strings.TrimSpace(path) == "" {
		p.errorf(diag.SynExpectIdentifier, p.lastSpan(), "empty module path")
		return nil
	}
	return &ast.Import{Base: ast.Base{Span: p.spanFrom(kw.Span)}, Path: path}
}

// parseModified handles `pub`/`debug` prefixes on variables and functions.
func (p *Parser) parseModified() ast.Node {
	start := p.peek().Span
	var public, debug bool
	for p.atOr(token.KwPub, token.KwDebug) {
		mod := p.next()
		seen := &public
		if mod.Kind == token.KwDebug {
			seen = &debug
		}
		if *seen {
			p.errorf(diag.SynModifierNotAllowed, mod.Span, "duplicate modifier "+mod.Kind.String())
		}
		*seen = true
	}
	switch tok := p.peek(); tok.Kind {
	case token.KwVar:
		if debug {
			p.errorf(diag.SynModifierNotAllowed, start, "'debug' is only allowed on functions")
		}
		v := p.parseVar(public)
		if v != nil {
			v.Span = v.Span.Cover(start)
			return v
		}
		return nil
	case token.KwFn:
		return p.parseFn(public, debug, start)
	default:
		p.errorf(diag.SynModifierNotAllowed, tok.Span, "expected 'var' or 'fn' after modifier, found "+tok.Kind.String())
		return nil
	}
}

// var name: Type = expr
func (p *Parser) parseVar(public bool) *ast.Variable {
	kw := p.next()
	decl, ok := p.parseDeclaration()
	if !ok {
		return nil
	}
	if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken, "'='"); !ok {
		return nil
	}
	init := p.parseExpr()
	if init == nil {
		return nil
	}
	return &ast.Variable{
		Base:   ast.Base{Span: p.spanFrom(kw.Span)},
		Decl:   decl,
		Init:   init,
		Public: public,
	}
}

// name: Type
func (p *Parser) parseDeclaration() (ast.Declaration, bool) {
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "identifier")
	if !ok {
		return ast.Declaration{}, false
	}
	if _, ok := p.expect(token.Colon, diag.SynExpectType, "':' and a type"); !ok {
		return ast.Declaration{}, false
	}
	typ, ok := p.parseType()
	if !ok {
		return ast.Declaration{}, false
	}
	return ast.Declaration{
		Base:  ast.Base{Span: p.spanFrom(name.Span)},
		Ident: ast.Ident(name.Text),
		Type:  typ,
	}, true
}

// Name | Name<T, ...>. The `null` keyword is accepted so the type checker
// can explain that Null is not a type.
func (p *Parser) parseType() (ast.Type, bool) {
	tok := p.peek()
	var root ast.Ident
	switch tok.Kind {
	case token.Ident:
		root = ast.Ident(tok.Text)
	case token.KwNull:
		root = "Null"
	default:
		p.errorf(diag.SynExpectType, tok.Span, "expected type, found "+tok.Kind.String())
		return ast.Type{}, false
	}
	p.next()
	typ := ast.Type{Root: root}
	if p.eat(token.Lt) {
		for {
			arg, ok := p.parseType()
			if !ok {
				return ast.Type{}, false
			}
			typ.Generics = append(typ.Generics, arg)
			if !p.eat(token.Comma) {
				break
			}
		}
		if _, ok := p.expect(token.Gt, diag.SynUnclosedDelimiter, "'>'"); !ok {
			return ast.Type{}, false
		}
	}
	typ.Span = p.spanFrom(tok.Span)
	return typ, true
}

// fn name(a: T, ...)[: R] { ... }
func (p *Parser) parseFn(public, debug bool, start source.Span) ast.Node {
	p.next() // fn
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "function name")
	if !ok {
		return nil
	}
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "'('"); !ok {
		return nil
	}
	var params []ast.Declaration
	seen := make(map[ast.Ident]ast.Declaration)
	for !p.at(token.RParen) {
		decl, ok := p.parseDeclaration()
		if !ok {
			return nil
		}
		if first, dup := seen[decl.Ident]; dup {
			p.errorf(diag.SynDuplicateArgument, decl.Span,
				"duplicate arguments: '"+string(decl.Ident)+"' is already declared at "+first.Span.String())
		} else {
			seen[decl.Ident] = decl
		}
		params = append(params, decl)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "')'"); !ok {
		return nil
	}
	var result *ast.Type
	if p.eat(token.Colon) {
		typ, ok := p.parseType()
		if !ok {
			return nil
		}
		result = &typ
	}
	body, ok := p.parseBlock()
	if !ok {
		return nil
	}
	return &ast.Function{
		Base:   ast.Base{Span: p.spanFrom(start)},
		Name:   ast.Ident(name.Text),
		Params: params,
		Result: result,
		Body:   body,
		Public: public,
		Debug:  debug,
	}
}

// return [expr]; the value must start on the same line.
func (p *Parser) parseReturn() ast.Node {
	kw := p.next()
	ret := &ast.Return{Base: ast.Base{Span: kw.Span}}
	next := p.peek()
	if !canStartExpr(next.Kind) || p.newlineBetween(kw.Span, next.Span) {
		return ret
	}
	value := p.parseExpr()
	if value == nil {
		return nil
	}
	ret.Value = value
	ret.Span = p.spanFrom(kw.Span)
	return ret
}

// if c { } else if c { } else { }
func (p *Parser) parseIf() ast.Node {
	kw := p.next()
	node := &ast.If{}
	for {
		cond := p.parseExpr()
		if cond == nil {
			return nil
		}
		body, ok := p.parseBlock()
		if !ok {
			return nil
		}
		node.Branches = append(node.Branches, ast.IfBranch{Cond: cond, Body: body})
		if !p.eat(token.KwElse) {
			break
		}
		if p.eat(token.KwIf) {
			continue
		}
		els, ok := p.parseBlock()
		if !ok {
			return nil
		}
		node.Else = els
		break
	}
	node.Span = p.spanFrom(kw.Span)
	return node
}

// try { } catch [name] { }
func (p *Parser) parseTry() ast.Node {
	kw := p.next()
	body, ok := p.parseBlock()
	if !ok {
		return nil
	}
	if _, ok := p.expect(token.KwCatch, diag.SynUnexpectedToken, "'catch'"); !ok {
		return nil
	}
	node := &ast.TryCatch{Try: body}
	if p.at(token.Ident) {
		node.CatchName = ast.Ident(p.next().Text)
	}
	catch, ok := p.parseBlock()
	if !ok {
		return nil
	}
	node.Catch = catch
	node.Span = p.spanFrom(kw.Span)
	return node
}

// name = expr
func (p *Parser) parseAssignment() ast.Node {
	name := p.next()
	p.next() // =
	value := p.parseExpr()
	if value == nil {
		return nil
	}
	return &ast.Assignment{
		Base:   ast.Base{Span: p.spanFrom(name.Span)},
		Target: ast.Ident(name.Text),
		Value:  value,
	}
}
