package types

import (
	"walter/internal/ast"
	"walter/internal/diag"
)

// Resolve validates a written type annotation.
func Resolve(t ast.Type) (ValidType, error) {
	var scalar ValidType
	switch t.Root {
	case "Number":
		scalar = Number
	case "Boolean":
		scalar = Boolean
	case "String":
		scalar = String
	case "Array":
		if len(t.Generics) != 1 {
			return ValidType{}, errorf(diag.SemaGenericArity, t.Span,
				"Array takes exactly one type argument, got %d", len(t.Generics))
		}
		elem, err := Resolve(t.Generics[0])
		if err != nil {
			return ValidType{}, err
		}
		return ArrayOf(elem), nil
	case "Null":
		return ValidType{}, errorf(diag.SemaNullIsNotAType, t.Span,
			"Null is not a type; use it as a value to leave a variable empty")
	default:
		return ValidType{}, errorf(diag.SemaUnknownType, t.Span, "unknown type '%s'", t.Root)
	}
	if len(t.Generics) != 0 {
		return ValidType{}, errorf(diag.SemaGenericArity, t.Span, "%s does not take type arguments", t.Root)
	}
	return scalar, nil
}

// TermMatches reports whether a literal term is of type t. Array element
// types are not inspected. Identifiers and null carry no type of their own
// and yield an error instead.
func TermMatches(t ValidType, term ast.Term) (bool, error) {
	switch term := term.(type) {
	case *ast.NumberTerm:
		return t.Kind == KindNumber, nil
	case *ast.StringTerm:
		return t.Kind == KindString, nil
	case *ast.BoolTerm:
		return t.Kind == KindBoolean, nil
	case *ast.ArrayTerm:
		return t.Kind == KindArray, nil
	case *ast.IdentTerm:
		return false, errorf(diag.SemaUnknowableIdentType, term.Span,
			"the type of '%s' depends on its declaration", term.Name)
	case *ast.NullTerm:
		return false, errorf(diag.SemaNullHasNoType, term.Span, "null has no type")
	default:
		return false, errorf(diag.InternalUnexpectedNode, term.Pos(), "unexpected term %T", term)
	}
}

// TermType returns the type of a literal term, when it has one of its own.
func TermType(term ast.Term) (ValidType, bool) {
	switch term.(type) {
	case *ast.NumberTerm:
		return Number, true
	case *ast.StringTerm:
		return String, true
	case *ast.BoolTerm:
		return Boolean, true
	}
	return ValidType{}, false
}
