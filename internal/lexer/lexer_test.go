package lexer_test

import (
	"testing"

	"walter/internal/diag"
	"walter/internal/lexer"
	"walter/internal/source"
	"walter/internal/token"
)

func lex(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("test.rl", []byte(src)))
	bag := diag.NewBag(16)
	lx := lexer.New(f, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return lx.All(), bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestLexerKinds(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []token.Kind
	}{
		{
			"variable",
			"var x: Number = 5",
			[]token.Kind{token.KwVar, token.Ident, token.Colon, token.Ident, token.Assign, token.NumberLit, token.EOF},
		},
		{
			"operators",
			"1 + 2 * 3 ^ 4 == 5 != 6",
			[]token.Kind{token.NumberLit, token.Plus, token.NumberLit, token.Star, token.NumberLit, token.Caret,
				token.NumberLit, token.EqEq, token.NumberLit, token.BangEq, token.NumberLit, token.EOF},
		},
		{
			"comments",
			"# line\nloop #* block\n comment *# { break }",
			[]token.Kind{token.KwLoop, token.LBrace, token.KwBreak, token.RBrace, token.EOF},
		},
		{
			"generic type",
			"Array<Number>",
			[]token.Kind{token.Ident, token.Lt, token.Ident, token.Gt, token.EOF},
		},
		{
			"qualified call",
			`utils.a.main();`,
			[]token.Kind{token.Ident, token.Dot, token.Ident, token.Dot, token.Ident, token.LParen, token.RParen, token.Semicolon, token.EOF},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, bag := lex(t, tt.src)
			if bag.HasErrors() {
				t.Fatalf("unexpected diagnostics: %+v", bag.Items())
			}
			got := kinds(toks)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token %d: got %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLexerLiterals(t *testing.T) {
	toks, bag := lex(t, `3.25 "a\n\"b\""`)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	if toks[0].Text != "3.25" {
		t.Errorf("number text = %q", toks[0].Text)
	}
	if toks[1].Kind != token.StringLit || toks[1].Text != "a\n\"b\"" {
		t.Errorf("string = %v %q", toks[1].Kind, toks[1].Text)
	}
	if toks[1].Span.Start != 5 || toks[1].Span.End != 15 {
		t.Errorf("string span = %v", toks[1].Span)
	}
}

func TestLexerNormalizesIdentifiers(t *testing.T) {
	// "é" composed vs decomposed
	toks, _ := lex(t, "café café")
	if toks[0].Text != toks[1].Text {
		t.Errorf("identifiers not normalized: %q vs %q", toks[0].Text, toks[1].Text)
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		src  string
		code diag.Code
	}{
		{`"abc`, diag.LexUnterminatedString},
		{"#* never closed", diag.LexUnterminatedBlockComment},
		{"12ab", diag.LexBadNumber},
		{"$", diag.LexUnknownChar},
		{`"\q"`, diag.LexBadEscape},
	}
	for _, tt := range tests {
		_, bag := lex(t, tt.src)
		items := bag.Items()
		if len(items) == 0 || items[0].Code != tt.code {
			t.Errorf("%q: got %+v, want code %v", tt.src, items, tt.code)
		}
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("p.rl", []byte("break")))
	lx := lexer.New(f, lexer.Options{})
	if lx.Peek().Kind != token.KwBreak || lx.Next().Kind != token.KwBreak {
		t.Fatalf("peek consumed token")
	}
	if lx.Next().Kind != token.EOF || lx.Next().Kind != token.EOF {
		t.Fatalf("EOF must be sticky")
	}
}
