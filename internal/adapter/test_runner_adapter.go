package adapter

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	m "gooze.dev/pkg/mutiny/internal/model"
)

// Errors reported through TestRun.Err.
var (
	ErrNoTestEvents = errors.New("go test produced no test events")
	ErrTestBuild    = errors.New("test binary failed to build")
)

const waitDelay = 2 * time.Second

// TestRunnerAdapter abstracts test discovery and execution for mutation testing.
type TestRunnerAdapter interface {
	// DiscoverTests returns the top-level Test functions declared in the
	// *_test.go files of dir, ordered by file then declaration.
	DiscoverTests(ctx context.Context, dir m.Path) ([]m.Test, error)

	// RunGoTest runs the named tests of the package in workDir. The context
	// deadline is the hard timeout of the invocation.
	RunGoTest(ctx context.Context, workDir m.Path, tests []string) m.TestRun
}

// LocalTestRunnerAdapter runs `go test -json` through os/exec.
type LocalTestRunnerAdapter struct {
	goBin string
}

// NewLocalTestRunnerAdapter constructs a LocalTestRunnerAdapter using the go
// binary from PATH.
func NewLocalTestRunnerAdapter() *LocalTestRunnerAdapter {
	return &LocalTestRunnerAdapter{goBin: "go"}
}

// DiscoverTests parses the test files of dir. Only `func TestXxx(t *testing.T)`
// declarations are returned; benchmarks, fuzz targets and examples are not
// used to kill mutants.
func (a *LocalTestRunnerAdapter) DiscoverTests(ctx context.Context, dir m.Path) ([]m.Test, error) {
	files, err := filepath.Glob(filepath.Join(string(dir), "*_test.go"))
	if err != nil {
		return nil, err
	}

	sort.Strings(files)

	var tests []m.Test

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// #nosec G304 - test files of the project under test
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}

		parsed, err := parser.ParseFile(token.NewFileSet(), file, content, parser.SkipObjectResolution)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}

		for _, decl := range parsed.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || !isTestFunc(fn) {
				continue
			}

			tests = append(tests, m.Test{Name: fn.Name.Name, Dir: dir, File: m.Path(file)})
		}
	}

	return tests, nil
}

func isTestFunc(fn *ast.FuncDecl) bool {
	if fn.Recv != nil || fn.Type.TypeParams != nil || !isTestName(fn.Name.Name) {
		return false
	}

	params := fn.Type.Params.List
	if len(params) != 1 || len(params[0].Names) > 1 || fn.Type.Results != nil {
		return false
	}

	star, ok := params[0].Type.(*ast.StarExpr)
	if !ok {
		return false
	}

	sel, ok := star.X.(*ast.SelectorExpr)

	return ok && sel.Sel.Name == "T"
}

// isTestName follows the go test rule: "Test" followed by nothing or a
// non-lowercase rune.
func isTestName(name string) bool {
	rest, ok := strings.CutPrefix(name, "Test")
	if !ok {
		return false
	}

	if rest == "" {
		return true
	}

	first := rest[0]

	return first < 'a' || first > 'z'
}

type testEvent struct {
	Action      string
	Package     string
	Test        string
	Output      string
	FailedBuild string
}

// testTimeoutMarker is printed by a test binary whose -timeout expired.
const testTimeoutMarker = "panic: test timed out after"

// RunGoTest runs `go test -json -count=1 -timeout <t> -run '^(T1|T2)$' .` in
// workDir and folds the test2json stream into a TestRun. The -timeout is
// what is left of the context deadline, so a hung test binary dumps its
// goroutines before the process is killed.
func (a *LocalTestRunnerAdapter) RunGoTest(ctx context.Context, workDir m.Path, tests []string) m.TestRun {
	return a.runWithArgs(ctx, workDir, goTestArgs(ctx, tests))
}

func (a *LocalTestRunnerAdapter) runWithArgs(ctx context.Context, workDir m.Path, args []string) m.TestRun {
	// #nosec G204 - arguments are test names discovered by parsing
	cmd := exec.CommandContext(ctx, a.goBin, args...)
	cmd.Dir = string(workDir)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	run := parseEvents(stdout.Bytes())
	run.Output += stderr.String()

	if ctxErr := ctx.Err(); ctxErr != nil {
		run.TimedOut = errors.Is(ctxErr, context.DeadlineExceeded)
		if !run.TimedOut {
			run.Err = ctxErr
		}

		return run
	}

	if strings.Contains(run.Output, testTimeoutMarker) {
		run.TimedOut = true
		return run
	}

	switch {
	case len(run.Failed) > 0:
	case run.Err != nil:
	case len(run.Passed) == 0 && runErr != nil:
		run.Err = fmt.Errorf("go test: %w", runErr)
	case len(run.Passed) == 0:
		run.Err = ErrNoTestEvents
	}

	return run
}

func goTestArgs(ctx context.Context, tests []string) []string {
	args := []string{"test", "-json", "-count=1"}

	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline).Round(time.Millisecond); left > 0 {
			args = append(args, "-timeout", left.String())
		}
	}

	if len(tests) > 0 {
		args = append(args, "-run", RunPattern(tests))
	}

	return append(args, ".")
}

func parseEvents(stream []byte) m.TestRun {
	var (
		run    m.TestRun
		output strings.Builder
	)

	scanner := bufio.NewScanner(bytes.NewReader(stream))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()

		var event testEvent
		if err := json.Unmarshal(line, &event); err != nil || event.Action == "" {
			output.Write(line)
			output.WriteByte('\n')

			continue
		}

		switch event.Action {
		case "output", "build-output":
			output.WriteString(event.Output)
		case "pass":
			if isTopLevel(event.Test) {
				run.Passed = append(run.Passed, event.Test)
			}
		case "fail":
			switch {
			case isTopLevel(event.Test):
				run.Failed = append(run.Failed, event.Test)
			case event.Test == "" && event.FailedBuild != "":
				run.Err = fmt.Errorf("%w: %s", ErrTestBuild, event.FailedBuild)
			}
		}
	}

	run.Output = output.String()

	return run
}

func isTopLevel(test string) bool {
	return test != "" && !strings.Contains(test, "/")
}

// RunPattern anchors the given test names into a single -run expression.
func RunPattern(tests []string) string {
	quoted := make([]string, len(tests))
	for i, test := range tests {
		quoted[i] = regexp.QuoteMeta(test)
	}

	return "^(" + strings.Join(quoted, "|") + ")$"
}
