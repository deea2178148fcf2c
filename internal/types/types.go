// Package types resolves written type annotations into the closed set of
// types the compiler understands and checks literal terms against them.
package types

import "fmt"

// Kind enumerates the resolvable types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindNumber
	KindBoolean
	KindString
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "Number"
	case KindBoolean:
		return "Boolean"
	case KindString:
		return "String"
	case KindArray:
		return "Array"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// ValidType is a resolved type. Elem is set only for arrays.
type ValidType struct {
	Kind Kind
	Elem *ValidType
}

var (
	Number  = ValidType{Kind: KindNumber}
	Boolean = ValidType{Kind: KindBoolean}
	String  = ValidType{Kind: KindString}
)

// ArrayOf returns Array<elem>.
func ArrayOf(elem ValidType) ValidType {
	return ValidType{Kind: KindArray, Elem: &elem}
}

// Equal compares types structurally.
func (t ValidType) Equal(other ValidType) bool {
	if t.Kind != other.Kind {
		return false
	}
	if t.Kind != KindArray {
		return true
	}
	if t.Elem == nil || other.Elem == nil {
		return t.Elem == other.Elem
	}
	return t.Elem.Equal(*other.Elem)
}

func (t ValidType) String() string {
	if t.Kind == KindArray && t.Elem != nil {
		return "Array<" + t.Elem.String() + ">"
	}
	return t.Kind.String()
}

// IsScalar reports whether values of t fit in a single register.
func (t ValidType) IsScalar() bool {
	switch t.Kind {
	case KindNumber, KindBoolean, KindString:
		return true
	}
	return false
}
