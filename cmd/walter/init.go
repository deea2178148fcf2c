package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"walter/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Create a new walter project",
	Long:  "Create walter.toml, src/main.rl and .gitignore in path (default: current directory).",
	Args:  cobra.MaximumNArgs(1),
	RunE:  initExecution,
}

func init() {
	initCmd.Flags().String("name", "", "package name (default: directory name)")
}

func initExecution(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	name, err := cmd.Flags().GetString("name")
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return fmt.Errorf("failed to create %q: %w", dir, err)
	}
	manifest, err := project.Scaffold(abs, name)
	if err != nil {
		return err
	}
	opts, err := readOutputOptions(cmd)
	if err != nil {
		return err
	}
	opts.logger(cmd.ErrOrStderr()).Infof("created project %q in %s", manifest.Config.Package.Name, abs)
	return nil
}
