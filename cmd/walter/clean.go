package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"walter/internal/buildcache"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [path]",
	Short: "Remove build artifacts",
	Long:  "Remove the build directory of a project; --cache also drops the compiled-unit cache.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runClean,
}

func init() {
	cleanCmd.Flags().Bool("cache", false, "also remove the shared unit cache")
}

func runClean(cmd *cobra.Command, args []string) error {
	opts, err := readOutputOptions(cmd)
	if err != nil {
		return err
	}
	log := opts.logger(cmd.ErrOrStderr())
	tgt, err := resolveTarget(args)
	if err != nil {
		return err
	}
	buildDir := filepath.Join(tgt.Root, "build")
	info, err := os.Stat(buildDir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Infof("build directory not found")
	case err != nil:
		return fmt.Errorf("failed to stat %q: %w", buildDir, err)
	case !info.IsDir():
		return fmt.Errorf("%q is not a directory", buildDir)
	default:
		if err := os.RemoveAll(buildDir); err != nil {
			return fmt.Errorf("failed to remove %q: %w", buildDir, err)
		}
		log.Infof("removed %s", formatPathForOutput(tgt.Root, buildDir))
	}

	dropCache, err := cmd.Flags().GetBool("cache")
	if err != nil || !dropCache {
		return err
	}
	cache, err := buildcache.Open("walter")
	if err != nil {
		return fmt.Errorf("open build cache: %w", err)
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("clear build cache: %w", err)
	}
	log.Infof("cleared cache %s", cache.Dir())
	return nil
}
