package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"walter/internal/modules"
	"walter/internal/project"
	"walter/internal/version"
)

const noManifestMessage = "no walter.toml found; pass a .rl file or run `walter init`"

// target is what a command compiles: either a project governed by
// walter.toml or a single root file.
type target struct {
	// Root receives build/; for a project it holds walter.toml.
	Root     string
	SrcDir   string
	Main     string
	Name     string
	Triple   string
	StdPath  string
	Manifest *project.Manifest
}

// resolveTarget interprets the optional path argument. A .rl file is
// compiled on its own; a directory (or nothing) is looked up as a project.
func resolveTarget(args []string) (target, error) {
	arg := "."
	if len(args) > 0 && args[0] != "" {
		arg = args[0]
	}
	info, err := os.Stat(arg)
	if err != nil {
		return target{}, fmt.Errorf("failed to stat %q: %w", arg, err)
	}
	if !info.IsDir() {
		return fileTarget(arg)
	}

	manifest, ok, err := project.Load(arg)
	if err != nil {
		return target{}, err
	}
	if !ok {
		return target{}, errors.New(noManifestMessage)
	}
	if err := manifest.Config.CheckCompiler(version.Version); err != nil {
		return target{}, err
	}
	return target{
		Root:     manifest.Root,
		SrcDir:   manifest.SrcDir(),
		Main:     manifest.Config.Build.Main,
		Name:     manifest.Config.Package.Name,
		Triple:   manifest.Config.Build.Target,
		StdPath:  manifest.StdPath(),
		Manifest: manifest,
	}, nil
}

func fileTarget(path string) (target, error) {
	if filepath.Ext(path) != modules.Ext {
		return target{}, fmt.Errorf("%s: not a %s file", path, modules.Ext)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return target{}, err
	}
	dir := filepath.Dir(abs)
	name := strings.TrimSuffix(filepath.Base(abs), modules.Ext)
	return target{Root: dir, SrcDir: dir, Main: name, Name: name}, nil
}

func formatPathForOutput(root, path string) string {
	if root == "" || path == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	if strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
