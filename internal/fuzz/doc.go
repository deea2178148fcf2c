// Package fuzztests houses Go fuzz harnesses for the front half of the
// compiler (source -> lexer -> parser -> lowering). Inputs must never panic
// or hang, whatever diagnostics they produce.
//
// Назначение: прогонять произвольные байты через FileSet, лексер, парсер и
// CompileUnit.
package fuzztests
