package lexer

import (
	"walter/internal/diag"
	"walter/internal/token"
)

// scanNumber reads `digits [ '.' digits ]`. Signs are handled by the parser.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	// 12abc is a single malformed literal, not a number followed by a name.
	if r, sz := lx.cursor.PeekRune(); sz > 0 && isIdentStartRune(r) {
		for {
			r, sz = lx.cursor.PeekRune()
			if sz == 0 || !isIdentContinueRune(r) {
				break
			}
			lx.cursor.BumpN(sz)
		}
		sp := lx.cursor.SpanFrom(start)
		lx.report(diag.LexBadNumber, sp, "malformed number literal")
		return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.NumberLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
