package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	Ident
	NumberLit
	StringLit

	KwImport
	KwVar
	KwPub
	KwDebug
	KwFn
	KwReturn
	KwLoop
	KwBreak
	KwIf
	KwElse
	KwThrow
	KwTry
	KwCatch
	KwClass
	KwTrue
	KwFalse
	KwNull

	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }
	LBracket  // [
	RBracket  // ]
	Lt        // <
	Gt        // >
	Comma     // ,
	Colon     // :
	Semicolon // ;
	Dot       // .
	Assign    // =
	EqEq      // ==
	BangEq    // !=
	Plus      // +
	Minus     // -
	Star      // *
	Slash     // /
	Percent   // %
	Caret     // ^
)

var kindNames = [...]string{
	Invalid:   "invalid",
	EOF:       "end of file",
	Ident:     "identifier",
	NumberLit: "number",
	StringLit: "string",
	KwImport:  "'import'",
	KwVar:     "'var'",
	KwPub:     "'pub'",
	KwDebug:   "'debug'",
	KwFn:      "'fn'",
	KwReturn:  "'return'",
	KwLoop:    "'loop'",
	KwBreak:   "'break'",
	KwIf:      "'if'",
	KwElse:    "'else'",
	KwThrow:   "'throw'",
	KwTry:     "'try'",
	KwCatch:   "'catch'",
	KwClass:   "'class'",
	KwTrue:    "'true'",
	KwFalse:   "'false'",
	KwNull:    "'null'",
	LParen:    "'('",
	RParen:    "')'",
	LBrace:    "'{'",
	RBrace:    "'}'",
	LBracket:  "'['",
	RBracket:  "']'",
	Lt:        "'<'",
	Gt:        "'>'",
	Comma:     "','",
	Colon:     "':'",
	Semicolon: "';'",
	Dot:       "'.'",
	Assign:    "'='",
	EqEq:      "'=='",
	BangEq:    "'!='",
	Plus:      "'+'",
	Minus:     "'-'",
	Star:      "'*'",
	Slash:     "'/'",
	Percent:   "'%'",
	Caret:     "'^'",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// IsArithmetic reports whether k is an operator of a binary expression.
func (k Kind) IsArithmetic() bool {
	switch k {
	case Plus, Minus, Star, Slash, Percent, Caret:
		return true
	}
	return false
}

// IsComparison reports whether k is an operator of a conditional expression.
func (k Kind) IsComparison() bool {
	return k == EqEq || k == BangEq
}
