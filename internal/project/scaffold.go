package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const mainTemplate = `# entry point of %s
print("Hello, world!")
`

const gitignoreTemplate = "build/\n"

// Scaffold creates a new project named name in dir: walter.toml,
// src/main.rl and .gitignore. Existing manifests are never overwritten.
func Scaffold(dir, name string) (*Manifest, error) {
	if name == "" {
		name = filepath.Base(dir)
	}
	manifestPath := filepath.Join(dir, ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return nil, fmt.Errorf("%s already exists", manifestPath)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	cfg := Config{
		Package: PackageConfig{Name: name, Version: "0.1.0"},
		Build:   BuildConfig{Src: "src", Main: "main"},
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}

	srcDir := filepath.Join(dir, cfg.Build.Src)
	if err := os.MkdirAll(srcDir, 0o755); err != nil {
		return nil, err
	}
	files := []struct {
		path string
		data []byte
	}{
		{manifestPath, buf.Bytes()},
		{filepath.Join(srcDir, cfg.Build.Main+".rl"), fmt.Appendf(nil, mainTemplate, name)},
		{filepath.Join(dir, ".gitignore"), []byte(gitignoreTemplate)},
	}
	for _, f := range files {
		if _, err := os.Stat(f.path); err == nil && f.path != manifestPath {
			continue
		}
		if err := os.WriteFile(f.path, f.data, 0o600); err != nil {
			return nil, err
		}
	}
	return &Manifest{Path: manifestPath, Root: dir, Config: cfg}, nil
}
