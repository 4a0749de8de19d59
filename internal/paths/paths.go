// Package paths resolves the two process-scoped locations the vault
// engine and key store depend on: the user's home directory and the
// current project directory. Both are exposed as functions rather than
// package globals so tests can override them.
package paths

import (
	"os"
	"path/filepath"
)

// AppDirName is the dotfile directory created under the user's home
// directory to hold the key store.
const AppDirName = ".holt"

// HomeDir resolves the directory the global key store lives under.
// HOLT_HOME overrides the OS home directory, matching the override seam
// the original tool exposes for test isolation.
func HomeDir() (string, error) {
	if dir := os.Getenv("HOLT_HOME"); dir != "" {
		return dir, nil
	}
	return os.UserHomeDir()
}

// AppDir returns <home>/.holt.
func AppDir() (string, error) {
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, AppDirName), nil
}

// ProjectDir returns the absolute path of the current working directory,
// used as the vault's identity for project_id hashing and for locating
// the vault file itself. dir, when non-empty, overrides the working
// directory (used by callers that already resolved a project path).
func ProjectDir(dir string) (string, error) {
	if dir != "" {
		return filepath.Abs(dir)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Abs(cwd)
}
