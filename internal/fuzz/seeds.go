package fuzztests

import (
	"testing"
)

// maxFuzzInput bounds one input.
const maxFuzzInput = 1 << 16 // 64 KiB

var languageSeeds = []string{
	"",
	"var x: Number = 5\nx = 10\nprint(x)\n",
	"loop {\n break\n}\n",
	"import \"utils/a\"\nutils.a.greet()\n",
	"pub fn add(a: Number, b: Number) Number {\n return a + b * 2\n}\nprint(add(1, 2))\n",
	"debug fn trace(s: String) {\n print(s)\n}\ntrace(\"x\")\n",
	"var ok: Boolean = 1 == 1 != false\nif ok {\n print(ok)\n} else if 2 == 3 {\n} else {\n}\n",
	"var arr: Array<Number> = [1, 2, 3]\nprint(arr[0])\n",
	"#* block\n comment *#\n# line\nvar s: String = \"a\\n\\\"b\"\n",
	"try {\n throw \"x\"\n} catch e {\n}\n",
	"class A {\n}\n",
	"fn f() {\n fn g() {\n }\n}\n",
	"var n: Null = null\n",
	"(((((((((1)))))))))",
	"print(1 + 2 < 3)\n",
	"var = \n",
	"\"unterminated",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}
