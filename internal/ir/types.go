// Package ir is the compiler's intermediate representation: compilation
// units made of functions, basic blocks and typed instructions. It also
// verifies units and links several of them into one.
package ir

// Type is a machine-level value type.
type Type uint8

const (
	TypeVoid Type = iota
	TypeF64
	TypeI1
	TypeI32
	TypeI64
	TypePtr
)

func (t Type) String() string {
	switch t {
	case TypeVoid:
		return "void"
	case TypeF64:
		return "double"
	case TypeI1:
		return "i1"
	case TypeI32:
		return "i32"
	case TypeI64:
		return "i64"
	case TypePtr:
		return "ptr"
	}
	return "?"
}

// Signature is the callable shape of a function.
type Signature struct {
	Params []Type
	Result Type
}

// Equal compares signatures.
func (s Signature) Equal(other Signature) bool {
	if s.Result != other.Result || len(s.Params) != len(other.Params) {
		return false
	}
	for i := range s.Params {
		if s.Params[i] != other.Params[i] {
			return false
		}
	}
	return true
}

func (s Signature) String() string {
	out := s.Result.String() + " ("
	for i, p := range s.Params {
		if i > 0 {
			out += ", "
		}
		out += p.String()
	}
	return out + ")"
}
