package domain

import (
	"log/slog"
	"sort"

	"gooze.dev/pkg/mutiny/internal/adapter"
	m "gooze.dev/pkg/mutiny/internal/model"
)

// Filters narrow the structurally matched subjects. A nil Subjects or Diffs
// list leaves the universe unrestricted; an empty non-nil one selects nothing.
type Filters struct {
	// Ignore drops subjects whose identification has any expression as prefix.
	Ignore []m.Expression
	// Start resumes at the first subject matched by any expression.
	Start []m.Expression
	// Subjects keeps only subjects matched by any expression.
	Subjects []m.Expression
	// Diffs keeps only subjects intersecting changed lines.
	Diffs []m.Expression
}

// Matcher selects the mutation subjects of a program.
type Matcher interface {
	// Match returns the subjects declared in files for the given scopes,
	// sorted by identification and narrowed by filters.
	Match(scopes []m.Scope, files []m.SourceFile, filters Filters) []m.Subject
}

type matcher struct {
	adapter.GoFileAdapter
	warner Warner
}

// NewMatcher creates a Matcher reporting unmatchable shapes to warner.
func NewMatcher(goFileAdapter adapter.GoFileAdapter, warner Warner) Matcher {
	return &matcher{GoFileAdapter: goFileAdapter, warner: warner}
}

type declaration struct {
	node *m.Node
	path m.Path
}

func (mt *matcher) Match(scopes []m.Scope, files []m.SourceFile, filters Filters) []m.Subject {
	decls := make(map[string][]declaration)

	for _, file := range files {
		for _, node := range mt.FuncDecls(file.Tree) {
			decls[file.Package] = append(decls[file.Package], declaration{node: node, path: file.Path})
		}
	}

	var subjects []m.Subject

	for _, scope := range scopes {
		entry, ok := evaluators[scope.Raw.Type]
		if !ok {
			slog.Debug("no evaluator for scope", "scope", scope.Identification(), "type", scope.Raw.Type)
			continue
		}

		for _, target := range scope.Raw.Targets {
			evaluator := entry.build(scope, target, mt.warner)

			for _, decl := range decls[scope.Raw.Package] {
				if !evaluator.Match(decl.node) {
					continue
				}

				subjects = append(subjects, m.Subject{
					Node:       decl.node,
					Scope:      scope,
					Path:       decl.path,
					Name:       target,
					Visibility: m.VisibilityOf(target),
					Kind:       entry.kind,
				})
			}
		}
	}

	sortSubjects(subjects)

	return applyFilters(subjects, filters)
}

// sortSubjects orders by identification, then by location for the rare
// duplicate (e.g. build-tag variants of one function).
func sortSubjects(subjects []m.Subject) {
	sort.SliceStable(subjects, func(i, j int) bool {
		a, b := subjects[i], subjects[j]
		if a.Identification() != b.Identification() {
			return a.Identification() < b.Identification()
		}

		if a.Path != b.Path {
			return a.Path < b.Path
		}

		return a.Node.Location.StartOffset < b.Node.Location.StartOffset
	})
}

func applyFilters(subjects []m.Subject, filters Filters) []m.Subject {
	ignore := m.ExpressionList(filters.Ignore)

	selected := make([]m.Subject, 0, len(subjects))

	for _, subject := range subjects {
		if !ignore.Prefix(subject.Identification()) {
			selected = append(selected, subject)
		}
	}

	if len(filters.Start) > 0 {
		selected = resumeAt(selected, m.ExpressionList(filters.Start))
	}

	if filters.Subjects != nil {
		selected = keepMatching(selected, m.ExpressionList(filters.Subjects))
	}

	if filters.Diffs != nil {
		selected = keepMatching(selected, m.ExpressionList(filters.Diffs))
	}

	return selected
}

func resumeAt(subjects []m.Subject, anchors m.ExpressionList) []m.Subject {
	for i, subject := range subjects {
		if anchors.Match(subject) {
			return subjects[i:]
		}
	}

	return nil
}

func keepMatching(subjects []m.Subject, expression m.ExpressionList) []m.Subject {
	var kept []m.Subject

	for _, subject := range subjects {
		if expression.Match(subject) {
			kept = append(kept, subject)
		}
	}

	return kept
}
