// Package workdir finds the directory that holds a project's .mbrowse state.
package workdir

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	rootFile = ".mbrowse-root"
	stateDir = ".mbrowse"
)

// ResolveBaseDir picks the project root for dir:
//  1. A .mbrowse-root file in dir redirects to the path it names.
//  2. dir itself, if it has a .mbrowse directory.
//  3. The enclosing git toplevel, checked the same two ways.
//
// Without any marker, dir is returned unchanged.
func ResolveBaseDir(dir string) string {
	if dir == "" {
		return dir
	}
	dir = filepath.Clean(dir)

	if resolved, ok := resolveIn(dir); ok {
		return resolved
	}

	top, err := gitTopLevel(dir)
	if err != nil || top == "" {
		return dir
	}
	if resolved, ok := resolveIn(filepath.Clean(top)); ok {
		return resolved
	}
	return dir
}

func resolveIn(dir string) (string, bool) {
	if resolved, ok := readRootFile(dir); ok {
		return resolved, true
	}
	if hasStateDir(dir) {
		return dir, true
	}
	return "", false
}

func readRootFile(dir string) (string, bool) {
	content, err := os.ReadFile(filepath.Join(dir, rootFile))
	if err != nil {
		return "", false
	}

	resolved := strings.TrimSpace(string(content))
	if resolved == "" {
		return "", false
	}
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(dir, resolved)
	}
	return filepath.Clean(resolved), true
}

func hasStateDir(dir string) bool {
	fi, err := os.Stat(filepath.Join(dir, stateDir))
	return err == nil && fi.IsDir()
}

func gitTopLevel(dir string) (string, error) {
	out, err := exec.Command("git", "-C", dir, "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
