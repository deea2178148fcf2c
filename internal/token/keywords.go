package token

var keywords = map[string]Kind{
	"import": KwImport,
	"var":    KwVar,
	"pub":    KwPub,
	"debug":  KwDebug,
	"fn":     KwFn,
	"return": KwReturn,
	"loop":   KwLoop,
	"break":  KwBreak,
	"if":     KwIf,
	"else":   KwElse,
	"throw":  KwThrow,
	"try":    KwTry,
	"catch":  KwCatch,
	"class":  KwClass,
	"true":   KwTrue,
	"false":  KwFalse,
	"null":   KwNull,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые - только lowercase версии распознаются.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
