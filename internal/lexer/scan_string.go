package lexer

import (
	"strings"

	"walter/internal/diag"
	"walter/internal/token"
)

// scanString reads a double-quoted literal. Token.Text holds the unescaped
// contents; strings may not span lines.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // "
	var sb strings.Builder
	for {
		if lx.cursor.EOF() || lx.cursor.Peek() == '\n' {
			sp := lx.cursor.SpanFrom(start)
			lx.report(diag.LexUnterminatedString, sp, "unterminated string literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: sb.String()}
		}
		ch := lx.cursor.Bump()
		switch ch {
		case '"':
			return token.Token{Kind: token.StringLit, Span: lx.cursor.SpanFrom(start), Text: sb.String()}
		case '\\':
			escStart := lx.cursor.Mark() - 1
			switch esc := lx.cursor.Bump(); esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '0':
				sb.WriteByte(0)
			case '"', '\\':
				sb.WriteByte(esc)
			default:
				lx.report(diag.LexBadEscape, lx.cursor.SpanFrom(escStart), "unknown escape sequence")
			}
		default:
			sb.WriteByte(ch)
		}
	}
}
