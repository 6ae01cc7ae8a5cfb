package domain

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	m "gooze.dev/pkg/mutiny/internal/model"
)

// recursiveSuffix marks a Go-style recursive path pattern.
const recursiveSuffix = "/..."

// splitPattern turns "./pkg/..." into ("./pkg", true).
func splitPattern(pattern m.Path) (m.Path, bool) {
	raw := filepath.ToSlash(string(pattern))
	if raw == "..." {
		return ".", true
	}

	if base, ok := strings.CutSuffix(raw, recursiveSuffix); ok {
		if base == "" {
			base = "."
		}

		return m.Path(filepath.FromSlash(base)), true
	}

	return pattern, false
}

func compileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	excludes := make([]*regexp.Regexp, 0, len(patterns))

	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: exclude pattern %q: %w", ErrInvalidConfig, pattern, err)
		}

		excludes = append(excludes, re)
	}

	return excludes, nil
}

func skipDir(name string) bool {
	return name == "testdata" || name == "vendor" ||
		strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

// loadSources reads and parses every non-test Go file selected by patterns.
// Nested modules are not descended into. Files are returned sorted by path.
func (w *workflow) loadSources(ctx context.Context, root m.Path, modulePath string, patterns []m.Path, excludes []*regexp.Regexp) ([]m.SourceFile, error) {
	seen := map[m.Path]struct{}{}

	var paths []m.Path

	for _, pattern := range patterns {
		base, recursive := splitPattern(pattern)

		start, err := filepath.Abs(string(base))
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", pattern, err)
		}

		err = w.fs.Walk(m.Path(start), recursive, func(current string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if info.IsDir() {
				if current == start {
					return nil
				}

				if skipDir(info.Name()) || w.isModuleRoot(current) {
					return filepath.SkipDir
				}

				return nil
			}

			if !strings.HasSuffix(current, ".go") || strings.HasSuffix(current, "_test.go") {
				return nil
			}

			if excluded(root, m.Path(current), excludes) {
				slog.Debug("excluded source", "path", current)
				return nil
			}

			if _, dup := seen[m.Path(current)]; !dup {
				seen[m.Path(current)] = struct{}{}
				paths = append(paths, m.Path(current))
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", pattern, err)
		}
	}

	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })

	files := make([]m.SourceFile, 0, len(paths))

	for _, current := range paths {
		file, err := w.loadSource(ctx, root, modulePath, current)
		if err != nil {
			return nil, err
		}

		files = append(files, file)
	}

	slog.Debug("loaded sources", "count", len(files))

	return files, nil
}

func (w *workflow) loadSource(ctx context.Context, root m.Path, modulePath string, filePath m.Path) (m.SourceFile, error) {
	content, err := w.fs.ReadFile(filePath)
	if err != nil {
		return m.SourceFile{}, fmt.Errorf("read %s: %w", filePath, err)
	}

	hash, err := w.fs.HashFile(filePath)
	if err != nil {
		return m.SourceFile{}, fmt.Errorf("hash %s: %w", filePath, err)
	}

	tree, err := w.goFiles.Parse(ctx, filePath, content)
	if err != nil {
		return m.SourceFile{}, fmt.Errorf("parse %s: %w", filePath, err)
	}

	dir := m.Path(filepath.Dir(string(filePath)))

	rel, err := w.fs.RelPath(root, dir)
	if err != nil {
		return m.SourceFile{}, fmt.Errorf("relative path of %s: %w", dir, err)
	}

	return m.SourceFile{
		Path:    filePath,
		Dir:     dir,
		Package: importPath(modulePath, rel),
		Hash:    hash,
		Content: content,
		Tree:    tree,
	}, nil
}

func (w *workflow) isModuleRoot(dir string) bool {
	_, err := w.fs.FileInfo(w.fs.JoinPath(dir, "go.mod"))
	return err == nil
}

func importPath(modulePath string, rel m.Path) string {
	slashed := filepath.ToSlash(string(rel))
	if slashed == "." || slashed == "" {
		return modulePath
	}

	return path.Join(modulePath, slashed)
}

func excluded(root, filePath m.Path, excludes []*regexp.Regexp) bool {
	rel, err := filepath.Rel(string(root), string(filePath))
	if err != nil {
		rel = string(filePath)
	}

	rel = filepath.ToSlash(rel)

	for _, re := range excludes {
		if re.MatchString(rel) {
			return true
		}
	}

	return false
}

// groupByPackage returns the files of each package, packages in import path
// order.
func groupByPackage(files []m.SourceFile) [][]m.SourceFile {
	groups := map[string][]m.SourceFile{}

	var order []string

	for _, file := range files {
		if _, ok := groups[file.Package]; !ok {
			order = append(order, file.Package)
		}

		groups[file.Package] = append(groups[file.Package], file)
	}

	sort.Strings(order)

	packages := make([][]m.SourceFile, 0, len(order))
	for _, pkg := range order {
		packages = append(packages, groups[pkg])
	}

	return packages
}
