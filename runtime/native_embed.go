// Package runtimeembed embeds the C sources of the fallback standard
// library, built when no prebuilt archive is configured.
package runtimeembed

import (
	"embed"
	"io/fs"
)

//go:embed native/*.c native/*.h
var nativeRuntimeFS embed.FS

// NativeRuntimeFS exposes the embedded sources under "native/".
func NativeRuntimeFS() fs.FS {
	return nativeRuntimeFS
}
