// Package safepath provides path containment validation to ensure
// save operations never write outside a designated destination directory.
package safepath

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrPathEscape indicates an attempt to access a path outside the root.
	ErrPathEscape = errors.New("path escapes destination directory")
	// ErrSymlinkEscape indicates a path resolves through a symlink pointing
	// outside the root.
	ErrSymlinkEscape = errors.New("symlink target escapes destination directory")
	// ErrInvalidRoot indicates the root path is invalid.
	ErrInvalidRoot = errors.New("invalid destination directory")
)

// Validator ensures all paths are contained within a root directory.
type Validator struct {
	root string // Absolute, cleaned path to root directory.
}

// New creates a new Validator for the given root directory.
// The root must be an existing directory.
func New(root string) (*Validator, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}

	resolvedRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}

	cleanRoot := filepath.Clean(resolvedRoot)

	info, err := os.Stat(cleanRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory", ErrInvalidRoot)
	}

	return &Validator{root: cleanRoot}, nil
}

// Root returns the absolute path to the root directory.
func (v *Validator) Root() string {
	return v.root
}

// ValidatePath checks if a path is safely contained within root.
// Returns an error if the path escapes the root directory.
func (v *Validator) ValidatePath(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path", ErrPathEscape)
	}

	if !isSubPath(v.root, filepath.Clean(absPath)) {
		return ErrPathEscape
	}

	return nil
}

// ValidatePathForWrite checks if a path is safely contained within root and
// verifies existing path components do not resolve through escaping symlinks.
func (v *Validator) ValidatePathForWrite(path string) error {
	if err := v.ValidatePath(path); err != nil {
		return err
	}

	resolvedPath, err := resolveExistingPath(path)
	if err != nil {
		return err
	}

	if err := v.ValidatePath(resolvedPath); err != nil {
		return fmt.Errorf("%w: %s -> %s", ErrSymlinkEscape, path, resolvedPath)
	}

	return nil
}

// WithinRoot lexically checks that path does not escape root. Unlike New,
// the root does not have to exist yet, so callers can verify containment
// before the destination directory is created. Symlinks are not resolved.
func WithinRoot(root, path string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path", ErrPathEscape)
	}

	if !isSubPath(filepath.Clean(absRoot), filepath.Clean(absPath)) {
		return ErrPathEscape
	}

	return nil
}

// isSubPath checks if child is a subpath of parent.
// Both paths must be absolute and clean.
func isSubPath(parent, child string) bool {
	if parent == child {
		return true
	}

	parentWithSep := parent
	if !strings.HasSuffix(parentWithSep, string(filepath.Separator)) {
		parentWithSep += string(filepath.Separator)
	}

	return strings.HasPrefix(child, parentWithSep)
}

// resolveExistingPath resolves symlinks for the longest existing prefix of
// path, walking up to the nearest existing ancestor when path itself does not
// exist yet.
func resolveExistingPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot resolve path: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err == nil {
		return resolved, nil
	}
	if !os.IsNotExist(err) {
		return "", fmt.Errorf("cannot resolve symlinks: %w", err)
	}

	parent := filepath.Dir(absPath)
	if parent == absPath {
		return "", fmt.Errorf("cannot resolve symlinks: %w", err)
	}

	return resolveExistingPath(parent)
}
