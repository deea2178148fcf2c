package lexer

import (
	"walter/internal/diag"
	"walter/internal/token"
)

var singleByteOps = [256]token.Kind{
	'(': token.LParen,
	')': token.RParen,
	'{': token.LBrace,
	'}': token.RBrace,
	'[': token.LBracket,
	']': token.RBracket,
	'<': token.Lt,
	'>': token.Gt,
	',': token.Comma,
	':': token.Colon,
	';': token.Semicolon,
	'.': token.Dot,
	'=': token.Assign,
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Star,
	'/': token.Slash,
	'%': token.Percent,
	'^': token.Caret,
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	b0 := lx.cursor.Bump()
	kind := singleByteOps[b0]
	switch {
	case b0 == '=' && lx.cursor.Eat('='):
		kind = token.EqEq
	case b0 == '!' && lx.cursor.Eat('='):
		kind = token.BangEq
	}
	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])
	if kind == token.Invalid {
		lx.report(diag.LexUnknownChar, sp, "unknown character '"+text+"'")
	}
	return token.Token{Kind: kind, Span: sp, Text: text}
}
