package llvm

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"walter/internal/ir"
)

// operand renders v without its type.
func operand(v ir.Value) string {
	switch v.Kind {
	case ir.ValConst:
		switch v.Type {
		case ir.TypeF64:
			return fmt.Sprintf("0x%016X", math.Float64bits(v.F))
		case ir.TypeI1:
			return boolValue(v.I != 0)
		case ir.TypePtr:
			if v.I == 0 {
				return "null"
			}
			return fmt.Sprintf("inttoptr (i64 %d to ptr)", v.I)
		}
		return strconv.FormatInt(v.I, 10)
	case ir.ValInstr:
		return fmt.Sprintf("%%v%d", v.ID)
	case ir.ValParam:
		return fmt.Sprintf("%%arg%d", v.ID)
	case ir.ValGlobal:
		return globalName(v.Name)
	}
	return "undef"
}

func boolValue(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

// globalName renders @name, quoting names LLVM would not accept bare.
func globalName(name string) string {
	if isBareName(name) {
		return "@" + name
	}
	return "@" + quoteString(name)
}

func isBareName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '$', r == '.', r == '_', r == '-':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// quoteString renders s as an LLVM string with non-printable bytes and
// quotes escaped as \XX.
func quoteString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 || c >= 0x7f || c == '"' || c == '\\' {
			fmt.Fprintf(&sb, "\\%02X", c)
			continue
		}
		sb.WriteByte(c)
	}
	sb.WriteByte('"')
	return sb.String()
}

func formatLLVMBytes(data []byte) string {
	var sb strings.Builder
	sb.WriteString("c\"")
	for _, b := range data {
		fmt.Fprintf(&sb, "\\%02X", b)
	}
	sb.WriteString("\"")
	return sb.String()
}
