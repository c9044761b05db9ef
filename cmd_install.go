package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codetrail/aiattrib/internal/gitrepo"
)

// hookMarker identifies hooks written by us; uninstall refuses to touch
// anything else.
const hookMarker = "# installed by aiattrib"

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the prepare-commit-msg hook into the current repository",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		setup()
		path, err := hookPath()
		if err != nil {
			return err
		}

		if existing, err := os.ReadFile(path); err == nil && !strings.Contains(string(existing), hookMarker) {
			return fmt.Errorf("%s exists and was not installed by aiattrib; remove it first", path)
		}

		exe, err := os.Executable()
		if err != nil {
			return err
		}

		script := fmt.Sprintf("#!/bin/sh\n%s\nexec %q \"$@\"\n", hookMarker, exe)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
			return err
		}
		fmt.Println("Installed", path)
		return nil
	},
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the prepare-commit-msg hook from the current repository",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		setup()
		path, err := hookPath()
		if err != nil {
			return err
		}

		existing, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			fmt.Println("No hook installed")
			return nil
		}
		if err != nil {
			return err
		}
		if !strings.Contains(string(existing), hookMarker) {
			return fmt.Errorf("%s was not installed by aiattrib; leaving it alone", path)
		}

		if err := os.Remove(path); err != nil {
			return err
		}
		fmt.Println("Removed", path)
		return nil
	},
}

// hookPath locates .git/hooks/prepare-commit-msg for the current checkout.
func hookPath() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	root, err := gitrepo.Root(cwd)
	if err != nil {
		return "", fmt.Errorf("not inside a git repository: %w", err)
	}

	gitDir := filepath.Join(root, ".git")
	fi, err := os.Stat(gitDir)
	if err != nil {
		return "", err
	}
	if !fi.IsDir() {
		// .git as a file means a linked worktree or submodule.
		return "", fmt.Errorf("%s is not a directory; install the hook in the main worktree", gitDir)
	}
	return filepath.Join(gitDir, "hooks", "prepare-commit-msg"), nil
}
