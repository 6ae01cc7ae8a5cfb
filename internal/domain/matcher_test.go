package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gooze.dev/pkg/mutiny/internal/adapter"
	m "gooze.dev/pkg/mutiny/internal/model"
)

const testPackage = "example.com/shapes"

type recordingWarner struct {
	messages []string
}

func (w *recordingWarner) Warn(message string) {
	w.messages = append(w.messages, message)
}

func parseFile(t *testing.T, goFiles *adapter.LocalGoFileAdapter, path m.Path, source string) m.SourceFile {
	t.Helper()

	tree, err := goFiles.Parse(context.Background(), path, []byte(source))
	require.NoError(t, err)

	return m.SourceFile{
		Path:    path,
		Dir:     "/src/shapes",
		Package: testPackage,
		Content: []byte(source),
		Tree:    tree,
	}
}

func funcDecl(t *testing.T, source string) *m.Node {
	t.Helper()

	goFiles := adapter.NewLocalGoFileAdapter()
	file := parseFile(t, goFiles, "decl.go", "package shapes\n\n"+source+"\n")

	decls := goFiles.FuncDecls(file.Tree)
	require.Len(t, decls, 1)

	return decls[0]
}

func TestMethodEvaluator(t *testing.T) {
	scope := m.NewTypeScope(testPackage, "/src/shapes", "Bar", []string{"foo"})

	tests := []struct {
		name     string
		source   string
		match    bool
		warnings []string
	}{
		{
			name:   "pointer receiver of the scope type",
			source: "func (b *Bar) foo() {}",
			match:  true,
		},
		{
			name:   "value receiver of the scope type",
			source: "func (Bar) foo() {}",
			match:  true,
		},
		{
			name:   "generic receiver",
			source: "func (b *Bar[K, V]) foo() {}",
			match:  true,
		},
		{
			name:   "other named type",
			source: "func (b Baz) foo() {}",
			match:  false,
		},
		{
			name:   "other method name",
			source: "func (b *Bar) qux() {}",
			match:  false,
		},
		{
			name:   "plain function",
			source: "func foo() {}",
			match:  false,
		},
		{
			name:     "qualified receiver expression",
			source:   "func (b other.Bar) foo() {}",
			match:    false,
			warnings: []string{"can only match methods on named or pointer receivers, got SelectorExpr"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warner := &recordingWarner{}
			evaluator := evaluators[m.ScopeNamedType].build(scope, "foo", warner)

			assert.Equal(t, tt.match, evaluator.Match(funcDecl(t, tt.source)))
			assert.Equal(t, tt.warnings, warner.messages)
		})
	}
}

func TestFunctionEvaluator(t *testing.T) {
	scope := m.NewPackageScope(testPackage, "/src/shapes", []string{"Area"})
	evaluator := evaluators[m.ScopePackage].build(scope, "Area", &recordingWarner{})

	assert.True(t, evaluator.Match(funcDecl(t, "func Area() int { return 0 }")))
	assert.False(t, evaluator.Match(funcDecl(t, "func (s Square) Area() int { return 0 }")))
	assert.False(t, evaluator.Match(funcDecl(t, "func Perimeter() int { return 0 }")))
}

const shapesSource = `package shapes

type Square struct{ side int }

func (s Square) Area() int { return s.side * s.side }

func (s *Square) Grow() { s.side++ }

func New(side int) Square { return Square{side: side} }

func scale(x int) int {
	return x * 2
}
`

func matchShapes(t *testing.T, filters Filters) ([]string, *recordingWarner) {
	t.Helper()

	goFiles := adapter.NewLocalGoFileAdapter()
	file := parseFile(t, goFiles, "/src/shapes/shapes.go", shapesSource)
	scopes := goFiles.ExtractScopes(context.Background(), []m.SourceFile{file})

	warner := &recordingWarner{}
	subjects := NewMatcher(goFiles, warner).Match(scopes, []m.SourceFile{file}, filters)

	ids := make([]string, 0, len(subjects))
	for _, subject := range subjects {
		ids = append(ids, subject.Identification())
	}

	return ids, warner
}

func expressions(t *testing.T, inputs ...string) []m.Expression {
	t.Helper()

	parsed, err := m.ParseExpressions(inputs)
	require.NoError(t, err)

	return parsed
}

func TestMatcher_Match(t *testing.T) {
	ids, warner := matchShapes(t, Filters{})

	assert.Equal(t, []string{
		"example.com/shapes.New",
		"example.com/shapes.Square.Area",
		"example.com/shapes.Square.Grow",
		"example.com/shapes.scale",
	}, ids)
	assert.Empty(t, warner.messages)
}

func TestMatcher_Match_SubjectAttributes(t *testing.T) {
	goFiles := adapter.NewLocalGoFileAdapter()
	file := parseFile(t, goFiles, "/src/shapes/shapes.go", shapesSource)
	scopes := goFiles.ExtractScopes(context.Background(), []m.SourceFile{file})

	subjects := NewMatcher(goFiles, &recordingWarner{}).Match(scopes, []m.SourceFile{file}, Filters{})
	require.Len(t, subjects, 4)

	grow := subjects[2]
	assert.Equal(t, "Grow", grow.Name)
	assert.Equal(t, m.SubjectMethod, grow.Kind)
	assert.Equal(t, m.Exported, grow.Visibility)
	assert.Equal(t, m.Path("/src/shapes/shapes.go"), grow.Path)
	assert.Equal(t, m.LineRange{Start: 7, End: 7}, grow.Lines())

	scale := subjects[3]
	assert.Equal(t, m.SubjectFunction, scale.Kind)
	assert.Equal(t, m.Unexported, scale.Visibility)
	assert.Equal(t, m.LineRange{Start: 11, End: 13}, scale.Lines())
}

func TestMatcher_Match_Filters(t *testing.T) {
	tests := []struct {
		name    string
		filters Filters
		want    []string
	}{
		{
			name:    "ignore by prefix",
			filters: Filters{Ignore: expressions(t, "example.com/shapes.Square")},
			want:    []string{"example.com/shapes.New", "example.com/shapes.scale"},
		},
		{
			name:    "ignore does not match partial segments",
			filters: Filters{Ignore: expressions(t, "example.com/shapes.Squ")},
			want: []string{
				"example.com/shapes.New",
				"example.com/shapes.Square.Area",
				"example.com/shapes.Square.Grow",
				"example.com/shapes.scale",
			},
		},
		{
			name:    "start resumes at the first anchor",
			filters: Filters{Start: expressions(t, "example.com/shapes.Square.Grow")},
			want:    []string{"example.com/shapes.Square.Grow", "example.com/shapes.scale"},
		},
		{
			name:    "start without reachable anchor selects nothing",
			filters: Filters{Start: expressions(t, "example.com/other")},
			want:    []string{},
		},
		{
			name:    "explicit subjects",
			filters: Filters{Subjects: expressions(t, "example.com/shapes.New", "example.com/shapes.Square")},
			want: []string{
				"example.com/shapes.New",
				"example.com/shapes.Square.Area",
				"example.com/shapes.Square.Grow",
			},
		},
		{
			name: "diff intersects changed lines",
			filters: Filters{Diffs: []m.Expression{
				m.Diff{Path: "/src/shapes/shapes.go", Ranges: []m.LineRange{{Start: 12, End: 12}}},
			}},
			want: []string{"example.com/shapes.scale"},
		},
		{
			name:    "empty diff selects nothing",
			filters: Filters{Diffs: []m.Expression{}},
			want:    []string{},
		},
		{
			name: "filters compose",
			filters: Filters{
				Ignore:   expressions(t, "example.com/shapes.New"),
				Subjects: expressions(t, "example.com/shapes/..."),
				Diffs: []m.Expression{
					m.Diff{Path: "/src/shapes/shapes.go", Ranges: []m.LineRange{{Start: 1, End: 9}}},
				},
			},
			want: []string{"example.com/shapes.Square.Area", "example.com/shapes.Square.Grow"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, _ := matchShapes(t, tt.filters)
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestMatcher_Match_Idempotent(t *testing.T) {
	filters := Filters{Ignore: expressions(t, "example.com/shapes.New")}

	first, _ := matchShapes(t, filters)
	second, _ := matchShapes(t, filters)

	assert.Equal(t, first, second)
}

func TestLogWarner(t *testing.T) {
	warner := &LogWarner{}
	warner.Warn("first")
	warner.Warn("second")

	assert.Equal(t, []string{"first", "second"}, warner.Warnings())
}
