package ir

import "math"

func foldFloat(op Op, x, y Value) (Value, bool) {
	if !x.IsConst() || !y.IsConst() {
		return Value{}, false
	}
	switch op {
	case OpFAdd:
		return ConstF64(x.F + y.F), true
	case OpFSub:
		return ConstF64(x.F - y.F), true
	case OpFMul:
		return ConstF64(x.F * y.F), true
	case OpFDiv:
		return ConstF64(x.F / y.F), true
	case OpFRem:
		return ConstF64(math.Mod(x.F, y.F)), true
	}
	return Value{}, false
}

// truncFloat converts toward zero, saturating where fptosi would be poison.
func truncFloat(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}
