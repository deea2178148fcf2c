package ir

import (
	"fmt"
	"strconv"
)

// ValueID numbers instruction results within one function.
type ValueID uint32

type ValueKind uint8

const (
	ValInvalid ValueKind = iota
	// ValConst is an immediate: F for double, I for integer types.
	ValConst
	// ValInstr is the result of the instruction with the same ID.
	ValInstr
	// ValParam is the function parameter with index ID.
	ValParam
	// ValGlobal is the address of the named global.
	ValGlobal
)

// Value is an instruction operand.
type Value struct {
	Kind ValueKind
	Type Type
	ID   ValueID
	F    float64
	I    int64
	Name string
}

func ConstF64(f float64) Value {
	return Value{Kind: ValConst, Type: TypeF64, F: f}
}

func ConstInt(t Type, i int64) Value {
	return Value{Kind: ValConst, Type: t, I: i}
}

func ConstBool(b bool) Value {
	if b {
		return ConstInt(TypeI1, 1)
	}
	return ConstInt(TypeI1, 0)
}

// GlobalRef references a global by name.
func GlobalRef(name string) Value {
	return Value{Kind: ValGlobal, Type: TypePtr, Name: name}
}

// ParamRef references parameter i of the current function.
func ParamRef(i int, t Type) Value {
	return Value{Kind: ValParam, Type: t, ID: ValueID(i)} //nolint:gosec // parameter counts are tiny
}

func (v Value) IsConst() bool { return v.Kind == ValConst }

// Valid reports whether v refers to anything.
func (v Value) Valid() bool { return v.Kind != ValInvalid }

func (v Value) String() string {
	switch v.Kind {
	case ValConst:
		if v.Type == TypeF64 {
			return strconv.FormatFloat(v.F, 'g', -1, 64)
		}
		if v.Type == TypeI1 {
			return strconv.FormatBool(v.I != 0)
		}
		return strconv.FormatInt(v.I, 10)
	case ValInstr:
		return fmt.Sprintf("%%%d", v.ID)
	case ValParam:
		return fmt.Sprintf("%%arg%d", v.ID)
	case ValGlobal:
		return "@" + v.Name
	}
	return "<invalid>"
}
