// Package adapter contains the infrastructure adapters of the mutiny CLI.
package adapter

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"golang.org/x/mod/modfile"
	m "gooze.dev/pkg/mutiny/internal/model"
)

// ErrNoModule is returned when no go.mod encloses the start path.
var ErrNoModule = errors.New("go.mod not found")

// SourceReader reads the Go sources of the project under test.
type SourceReader interface {
	// Walk visits root and, when recursive is set, every directory below it.
	Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error
	ReadFile(path m.Path) ([]byte, error)
	// HashFile returns the hex SHA-256 of the file content.
	HashFile(path m.Path) (string, error)
	FileInfo(path m.Path) (os.FileInfo, error)
}

// ModuleLocator resolves the module that encloses a path.
type ModuleLocator interface {
	// FindProjectRoot returns the nearest directory at or above startPath
	// holding a go.mod.
	FindProjectRoot(startPath m.Path) (m.Path, error)
	// ModulePath returns the module directive of root/go.mod.
	ModulePath(root m.Path) (string, error)
}

// WorkspaceFS creates and tears down the private project copies workers
// mutate.
type WorkspaceFS interface {
	CreateTempDir(pattern string) (m.Path, error)
	RemoveAll(path m.Path) error
	// CopyDir copies the project tree at src into dst, leaving out VCS
	// metadata and report directories.
	CopyDir(src, dst m.Path) error
	WriteFile(path m.Path, content []byte, perm os.FileMode) error
}

// PathResolver maps paths between the project and its copies.
type PathResolver interface {
	RelPath(base, target m.Path) (m.Path, error)
	JoinPath(elem ...string) m.Path
}

// SourceFSAdapter is every filesystem operation the domain performs.
type SourceFSAdapter interface {
	SourceReader
	ModuleLocator
	WorkspaceFS
	PathResolver
}

// FilepathWalkFunc receives each visited path. Returning filepath.SkipDir
// for a directory prunes it.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// defaultCopySkip lists directories never copied into a workspace.
var defaultCopySkip = []string{".git", ".hg", ".svn", ".mutiny", "node_modules"}

// LocalSourceFSAdapter implements SourceFSAdapter on the local disk.
type LocalSourceFSAdapter struct {
	copySkip []string
}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{copySkip: defaultCopySkip}
}

// Walk implements SourceReader.
func (a *LocalSourceFSAdapter) Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error {
	start := string(root)

	return filepath.WalkDir(start, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return fn(path, nil, err)
		}

		if entry.IsDir() && !recursive && path != start {
			return filepath.SkipDir
		}

		info, err := entry.Info()
		if err != nil {
			return fn(path, nil, err)
		}

		return fn(path, info, nil)
	})
}

// ReadFile implements SourceReader.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	// #nosec G304 - source file of the project under test
	return os.ReadFile(string(path))
}

// HashFile implements SourceReader.
func (a *LocalSourceFSAdapter) HashFile(path m.Path) (string, error) {
	// #nosec G304 - source file of the project under test
	file, err := os.Open(string(path))
	if err != nil {
		return "", err
	}
	defer file.Close()

	digest := sha256.New()
	if _, err := io.Copy(digest, file); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}

	return hex.EncodeToString(digest.Sum(nil)), nil
}

// FileInfo implements SourceReader.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// FindProjectRoot implements ModuleLocator. startPath may be a file or a
// directory and need not exist.
func (a *LocalSourceFSAdapter) FindProjectRoot(startPath m.Path) (m.Path, error) {
	dir, err := filepath.Abs(string(startPath))
	if err != nil {
		return "", err
	}

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		if info, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil && !info.IsDir() {
			return m.Path(dir), nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w above %s", ErrNoModule, startPath)
		}

		dir = parent
	}
}

// ModulePath implements ModuleLocator.
func (a *LocalSourceFSAdapter) ModulePath(root m.Path) (string, error) {
	goMod := filepath.Join(string(root), "go.mod")

	// #nosec G304 - go.mod of the project under test
	content, err := os.ReadFile(goMod)
	if err != nil {
		return "", err
	}

	modulePath := modfile.ModulePath(content)
	if modulePath == "" {
		return "", fmt.Errorf("%s declares no module path", goMod)
	}

	return modulePath, nil
}

// CreateTempDir implements WorkspaceFS.
func (a *LocalSourceFSAdapter) CreateTempDir(pattern string) (m.Path, error) {
	dir, err := os.MkdirTemp("", pattern)

	return m.Path(dir), err
}

// RemoveAll implements WorkspaceFS.
func (a *LocalSourceFSAdapter) RemoveAll(path m.Path) error {
	return os.RemoveAll(string(path))
}

// CopyDir implements WorkspaceFS. Symbolic links are recreated, not followed.
func (a *LocalSourceFSAdapter) CopyDir(src, dst m.Path) error {
	source := string(src)

	return filepath.WalkDir(source, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() && path != source && slices.Contains(a.copySkip, entry.Name()) {
			return filepath.SkipDir
		}

		rel, err := filepath.Rel(source, path)
		if err != nil {
			return err
		}

		target := filepath.Join(string(dst), rel)

		switch {
		case entry.IsDir():
			return os.MkdirAll(target, 0o750)
		case entry.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}

			return os.Symlink(link, target)
		case !entry.Type().IsRegular():
			return nil
		}

		info, err := entry.Info()
		if err != nil {
			return err
		}

		return copyFile(path, target, info.Mode().Perm())
	})
}

func copyFile(src, dst string, perm os.FileMode) error {
	// #nosec G304 - file of the project under test
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	// #nosec G304 - path inside a workspace created by CreateTempDir
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}

	return out.Close()
}

// WriteFile implements WorkspaceFS.
func (a *LocalSourceFSAdapter) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	return os.WriteFile(string(path), content, perm)
}

// RelPath implements PathResolver.
func (a *LocalSourceFSAdapter) RelPath(base, target m.Path) (m.Path, error) {
	rel, err := filepath.Rel(string(base), string(target))

	return m.Path(rel), err
}

// JoinPath implements PathResolver.
func (a *LocalSourceFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
