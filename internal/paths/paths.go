package paths

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// StateDirName is the per-crate state directory, created next to the
	// working directory the tool runs in.
	StateDirName = ".pubcrates"
	// ConfigFile is the configuration file inside the state directory.
	ConfigFile = "config.json"
	// HistoryFile is the default run history database.
	HistoryFile = "history.db"
)

// GetStateDir returns <root>/.pubcrates.
func GetStateDir(root string) string {
	return filepath.Join(root, StateDirName)
}

// EnsureStateDir creates the state directory if needed and returns it.
func EnsureStateDir(root string) (string, error) {
	dir := GetStateDir(root)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// GetConfigPath returns <root>/.pubcrates/config.json.
func GetConfigPath(root string) string {
	return filepath.Join(GetStateDir(root), ConfigFile)
}

// ResolveHistoryPath returns the history database location. An empty
// configured path selects the default file in the state directory; a
// relative one is taken relative to root.
func ResolveHistoryPath(root, configured string) string {
	if configured == "" {
		return filepath.Join(GetStateDir(root), HistoryFile)
	}
	if filepath.IsAbs(configured) {
		return configured
	}
	return JoinRootPath(root, configured)
}

// CanonicalizePath converts an absolute path to a root-relative canonical path
// - Resolves symlinks to real paths
// - Makes path relative to root
// - Converts backslashes to forward slashes
func CanonicalizePath(absolutePath string, root string) (string, error) {
	resolved, err := filepath.EvalSymlinks(absolutePath)
	if err != nil {
		// If the file doesn't exist yet, use the path as-is
		if os.IsNotExist(err) {
			resolved = absolutePath
		} else {
			return "", err
		}
	}

	rootResolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		if os.IsNotExist(err) {
			rootResolved = root
		} else {
			return "", err
		}
	}

	relativePath, err := filepath.Rel(rootResolved, resolved)
	if err != nil {
		return "", err
	}

	return filepath.ToSlash(relativePath), nil
}

// DisplayPath returns path relative to root when it lies inside root, and
// path unchanged otherwise. URLs are never rewritten.
func DisplayPath(path, root string) string {
	if path == "" || strings.Contains(path, "://") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	canonical, err := CanonicalizePath(abs, root)
	if err != nil || strings.HasPrefix(canonical, "..") {
		return path
	}
	return canonical
}

// JoinRootPath joins a root with a canonical path
func JoinRootPath(root string, canonicalPath string) string {
	normalizedPath := strings.ReplaceAll(canonicalPath, "\\", "/")
	parts := strings.Split(normalizedPath, "/")
	return filepath.Join(append([]string{root}, parts...)...)
}
