// Package project loads walter.toml manifests.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
)

// ManifestName is the project manifest file name.
const ManifestName = "walter.toml"

var (
	ErrPackageSectionMissing = errors.New("missing [package]")
	ErrPackageNameMissing    = errors.New("missing [package].name")
)

// Manifest is a loaded walter.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

type Config struct {
	Package PackageConfig `toml:"package"`
	Build   BuildConfig   `toml:"build"`
}

type PackageConfig struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	// Walter is an optional compiler version constraint, e.g. ">= 0.1.0".
	Walter string `toml:"walter,omitempty"`
}

type BuildConfig struct {
	Src    string `toml:"src"`
	Main   string `toml:"main"`
	Target string `toml:"target,omitempty"`
	Std    string `toml:"std,omitempty"`
}

// SrcDir is the absolute source directory.
func (m *Manifest) SrcDir() string {
	return filepath.Join(m.Root, filepath.FromSlash(m.Config.Build.Src))
}

// StdPath is the configured std archive, resolved against the root.
func (m *Manifest) StdPath() string {
	std := m.Config.Build.Std
	if std == "" || filepath.IsAbs(std) {
		return std
	}
	return filepath.Join(m.Root, filepath.FromSlash(std))
}

// Find walks up from startDir to locate walter.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load finds and loads the manifest governing startDir.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

// LoadConfig decodes and validates one manifest file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return Config{}, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	cfg.Package.Name = strings.TrimSpace(cfg.Package.Name)
	if !meta.IsDefined("package", "name") || cfg.Package.Name == "" {
		return Config{}, fmt.Errorf("%s: %w", path, ErrPackageNameMissing)
	}
	if strings.ContainsAny(cfg.Package.Name, `/\`) {
		return Config{}, fmt.Errorf("%s: [package].name %q must not contain path separators", path, cfg.Package.Name)
	}
	if meta.IsDefined("package", "version") {
		if _, err := semver.StrictNewVersion(cfg.Package.Version); err != nil {
			return Config{}, fmt.Errorf("%s: [package].version %q is not a semantic version: %w", path, cfg.Package.Version, err)
		}
	}
	if cfg.Package.Walter != "" {
		if _, err := semver.NewConstraint(cfg.Package.Walter); err != nil {
			return Config{}, fmt.Errorf("%s: [package].walter %q: %w", path, cfg.Package.Walter, err)
		}
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if cfg.Build.Src == "" {
		cfg.Build.Src = "src"
	}
	if cfg.Build.Main == "" {
		cfg.Build.Main = "main"
	}
	cfg.Build.Main = strings.TrimSuffix(cfg.Build.Main, ".rl")
	return cfg, nil
}

// CheckCompiler verifies the manifest's compiler constraint against the
// running compiler version.
func (c Config) CheckCompiler(compiler string) error {
	if c.Package.Walter == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(c.Package.Walter)
	if err != nil {
		return err
	}
	v, err := semver.NewVersion(compiler)
	if err != nil {
		return fmt.Errorf("compiler version %q: %w", compiler, err)
	}
	if ok, errs := constraint.Validate(v); !ok {
		return fmt.Errorf("project requires walter %s, this is %s: %w", c.Package.Walter, compiler, errors.Join(errs...))
	}
	return nil
}
