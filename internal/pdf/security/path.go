package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathValidator keeps generated files inside an output directory
type PathValidator struct {
	outputDirectory string
}

// NewPathValidator creates a new path validator for the given directory
func NewPathValidator(outputDirectory string) (*PathValidator, error) {
	if outputDirectory == "" {
		return nil, fmt.Errorf("output directory cannot be empty")
	}

	return &PathValidator{
		outputDirectory: outputDirectory,
	}, nil
}

// Directory returns the output directory
func (v *PathValidator) Directory() string {
	return v.outputDirectory
}

// ResolveFile joins a bare file name onto the output directory and checks
// the result stays inside it.
func (v *PathValidator) ResolveFile(name string) (string, error) {
	name = strings.ReplaceAll(name, "\x00", "")
	if name == "" {
		return "", fmt.Errorf("file name cannot be empty")
	}
	if name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("file name must not contain path elements: %s", name)
	}

	path := filepath.Join(v.outputDirectory, name)
	if err := v.ValidatePath(path); err != nil {
		return "", err
	}
	return path, nil
}

// ValidatePath checks if a path is within the output directory
func (v *PathValidator) ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	within, err := v.IsPathWithinDirectory(path)
	if err != nil {
		return fmt.Errorf("path validation failed: %w", err)
	}
	if !within {
		return fmt.Errorf("path is outside output directory: %s", path)
	}
	return nil
}

// IsPathWithinDirectory checks if path resolves inside the output directory,
// following symlinks on either side.
func (v *PathValidator) IsPathWithinDirectory(path string) (bool, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("failed to resolve path: %w", err)
	}

	absDir, err := filepath.Abs(v.outputDirectory)
	if err != nil {
		return false, fmt.Errorf("failed to resolve output directory: %w", err)
	}

	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(absDir)

	realPath := cleanPath
	if info, err := os.Lstat(cleanPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		if resolved, err := filepath.EvalSymlinks(cleanPath); err == nil {
			realPath = resolved
		}
	}

	realDir := cleanDir
	if resolved, err := filepath.EvalSymlinks(cleanDir); err == nil {
		realDir = resolved
	}

	inside := func(p string) bool {
		for _, dir := range []string{cleanDir, realDir} {
			if p == dir || strings.HasPrefix(p, dir+string(filepath.Separator)) {
				return true
			}
		}
		return false
	}

	return inside(cleanPath) && inside(realPath), nil
}

// EnsureDirectory creates the output directory when it does not exist
func (v *PathValidator) EnsureDirectory() error {
	info, err := os.Stat(v.outputDirectory)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(v.outputDirectory, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot access output directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("output path is not a directory: %s", v.outputDirectory)
	}
	return nil
}
