package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexBadEscape                Code = 1005

	// Парсерные
	SynUnexpectedToken    Code = 2001
	SynExpectIdentifier   Code = 2002
	SynExpectType         Code = 2003
	SynExpectExpression   Code = 2004
	SynUnclosedDelimiter  Code = 2005
	SynModifierNotAllowed Code = 2006
	SynMixedOperators     Code = 2007
	SynOperandNotNumber   Code = 2008
	SynDuplicateArgument  Code = 2009
	SynBadIndex           Code = 2010

	// Семантика
	SemaUnknownType           Code = 3001
	SemaNullIsNotAType        Code = 3002
	SemaTypeMismatch          Code = 3003
	SemaUndefinedVariable     Code = 3004
	SemaUndefinedFunction     Code = 3005
	SemaBreakOutsideLoop      Code = 3006
	SemaDuplicateFunction     Code = 3007
	SemaArgumentCount         Code = 3008
	SemaUnknowableIdentType   Code = 3009
	SemaNullHasNoType         Code = 3010
	SemaGenericArity          Code = 3011
	SemaReturnOutsideFunction Code = 3012
	SemaMissingReturn         Code = 3013
	SemaPrivateFunction       Code = 3014
	SemaUnimplemented         Code = 3015
	SemaVoidValue             Code = 3016

	// Модули
	IOModuleNotFound  Code = 4001
	IOImportEscapes   Code = 4002
	IOReadFailed      Code = 4003
	IOManifestInvalid Code = 4004
	IOReservedModule  Code = 4005

	// Линковка
	LinkDuplicateSymbol   Code = 5001
	LinkSignatureMismatch Code = 5002

	// Внутренние
	InternalInvalidOperand  Code = 9001
	InternalCorruptFunction Code = 9002
	InternalVerifyFailed    Code = 9003
	InternalUnexpectedNode  Code = 9004
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Malformed number literal",
	LexBadEscape:                "Unknown escape sequence",
	SynUnexpectedToken:          "Unexpected token",
	SynExpectIdentifier:         "Expected identifier",
	SynExpectType:               "Expected type",
	SynExpectExpression:         "Expected expression",
	SynUnclosedDelimiter:        "Unclosed delimiter",
	SynModifierNotAllowed:       "Modifier not allowed here",
	SynMixedOperators:           "Arithmetic and comparison operators cannot be mixed",
	SynOperandNotNumber:         "Operand of an arithmetic expression must be a number",
	SynDuplicateArgument:        "Duplicate arguments",
	SynBadIndex:                 "Index must be a number or a string",
	SemaUnknownType:             "Unknown type",
	SemaNullIsNotAType:          "Null is not a type",
	SemaTypeMismatch:            "Type mismatch",
	SemaUndefinedVariable:       "Use of undefined variable",
	SemaUndefinedFunction:       "Use of undefined function",
	SemaBreakOutsideLoop:        "Break outside of a loop",
	SemaDuplicateFunction:       "Function defined more than once",
	SemaArgumentCount:           "Wrong number of arguments",
	SemaUnknowableIdentType:     "Type of identifier cannot be known here",
	SemaNullHasNoType:           "Null has no type",
	SemaGenericArity:            "Wrong number of generic arguments",
	SemaReturnOutsideFunction:   "Return outside of a function",
	SemaMissingReturn:           "Missing return",
	SemaPrivateFunction:         "Function is not public",
	SemaUnimplemented:           "Not implemented",
	SemaVoidValue:               "Function returns no value",
	IOModuleNotFound:            "Module not found",
	IOImportEscapes:             "Import escapes the source root",
	IOReadFailed:                "Cannot read module",
	IOManifestInvalid:           "Invalid project manifest",
	IOReservedModule:            "Module name is reserved",
	LinkDuplicateSymbol:         "Symbol defined more than once",
	LinkSignatureMismatch:       "Conflicting declarations",
	InternalInvalidOperand:      "Invalid operand",
	InternalCorruptFunction:     "Corrupt function",
	InternalVerifyFailed:        "Module verification failed",
	InternalUnexpectedNode:      "Unexpected node",
}

// IsInternal reports whether the code describes a compiler bug rather than a
// problem in the compiled program.
func (c Code) IsInternal() bool {
	return c >= 9000
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("LNK%04d", ic)
	case ic >= 9000:
		return fmt.Sprintf("BUG%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
