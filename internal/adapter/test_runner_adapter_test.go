package adapter

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	m "gooze.dev/pkg/mutiny/internal/model"
)

func TestLocalTestRunnerAdapter_DiscoverTests(t *testing.T) {
	dir := examplePath(t, "calculator")

	tests, err := NewLocalTestRunnerAdapter().DiscoverTests(context.Background(), m.Path(dir))
	require.NoError(t, err)

	var names []string
	for _, test := range tests {
		names = append(names, test.Name)
		assert.Equal(t, m.Path(filepath.Join(dir, "calc_test.go")), test.File)
	}

	assert.Equal(t, []string{"TestAdd", "TestMax", "TestIsPositive", "TestAccumulator"}, names)
}

func TestLocalTestRunnerAdapter_DiscoverTests_Filters(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "calc_test.go"), `package calc

import "testing"

func TestReal(t *testing.T) {}
func Test(t *testing.T) {}
func Testify(t *testing.T) {}
func TestHelper(name string) {}
func BenchmarkAdd(b *testing.B) {}
func FuzzAdd(f *testing.F) {}
func ExampleAdd() {}
func TestGeneric[T any](t *testing.T) {}
`)

	tests, err := NewLocalTestRunnerAdapter().DiscoverTests(context.Background(), m.Path(dir))
	require.NoError(t, err)

	var names []string
	for _, test := range tests {
		names = append(names, test.Name)
	}

	assert.Equal(t, []string{"TestReal", "Test"}, names)
}

func TestLocalTestRunnerAdapter_DiscoverTests_NoTestFiles(t *testing.T) {
	tests, err := NewLocalTestRunnerAdapter().DiscoverTests(context.Background(), m.Path(t.TempDir()))
	require.NoError(t, err)
	assert.Empty(t, tests)
}

func TestRunPattern(t *testing.T) {
	assert.Equal(t, "^(TestAdd|TestMax)$", RunPattern([]string{"TestAdd", "TestMax"}))
	assert.Equal(t, `^(Test\.Odd)$`, RunPattern([]string{"Test.Odd"}))
}

func TestGoTestArgs(t *testing.T) {
	t.Run("without deadline", func(t *testing.T) {
		assert.Equal(t,
			[]string{"test", "-json", "-count=1", "-run", "^(TestAdd)$", "."},
			goTestArgs(context.Background(), []string{"TestAdd"}))
	})

	t.Run("deadline becomes -timeout", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		args := goTestArgs(ctx, nil)

		require.Len(t, args, 6)
		assert.Equal(t, "-timeout", args[3])
		assert.Equal(t, ".", args[5])

		timeout, err := time.ParseDuration(args[4])
		require.NoError(t, err)
		assert.InDelta(t, time.Minute.Seconds(), timeout.Seconds(), 5)
	})

	t.Run("expired deadline is not passed", func(t *testing.T) {
		ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
		defer cancel()

		assert.NotContains(t, goTestArgs(ctx, nil), "-timeout")
	})
}

func TestParseEvents(t *testing.T) {
	stream := `{"Action":"start","Package":"example.com/calc"}
{"Action":"run","Package":"example.com/calc","Test":"TestAdd"}
{"Action":"output","Package":"example.com/calc","Test":"TestAdd","Output":"=== RUN   TestAdd\n"}
{"Action":"pass","Package":"example.com/calc","Test":"TestAdd"}
{"Action":"run","Package":"example.com/calc","Test":"TestMax/equal"}
{"Action":"fail","Package":"example.com/calc","Test":"TestMax/equal"}
{"Action":"output","Package":"example.com/calc","Test":"TestMax","Output":"    calc_test.go:12: Max(2, 7) = 2\n"}
{"Action":"fail","Package":"example.com/calc","Test":"TestMax"}
{"Action":"fail","Package":"example.com/calc"}
`

	run := parseEvents([]byte(stream))

	assert.Equal(t, []string{"TestAdd"}, run.Passed)
	assert.Equal(t, []string{"TestMax"}, run.Failed)
	assert.Contains(t, run.Output, "Max(2, 7) = 2")
	assert.NoError(t, run.Err)
}

func TestParseEvents_BuildFailure(t *testing.T) {
	stream := `{"ImportPath":"example.com/calc","Action":"build-output","Output":"./calc.go:4:9: invalid operation\n"}
{"ImportPath":"example.com/calc","Action":"build-fail"}
{"Action":"start","Package":"example.com/calc"}
{"Action":"fail","Package":"example.com/calc","FailedBuild":"example.com/calc"}
`

	run := parseEvents([]byte(stream))

	assert.Empty(t, run.Passed)
	assert.Empty(t, run.Failed)
	assert.ErrorIs(t, run.Err, ErrTestBuild)
	assert.Contains(t, run.Output, "invalid operation")
}

func TestParseEvents_PlainOutput(t *testing.T) {
	run := parseEvents([]byte("# example.com/calc\nsyntax error\n"))

	assert.Empty(t, run.Passed)
	assert.Equal(t, "# example.com/calc\nsyntax error\n", run.Output)
}

func TestLocalTestRunnerAdapter_RunGoTest(t *testing.T) {
	if testing.Short() {
		t.Skip("runs go test on the example module")
	}

	a := NewLocalTestRunnerAdapter()
	dir := m.Path(examplePath(t, "calculator"))

	t.Run("selected tests pass", func(t *testing.T) {
		run := a.RunGoTest(context.Background(), dir, []string{"TestAdd", "TestMax"})

		require.NoError(t, run.Err, run.Output)
		assert.ElementsMatch(t, []string{"TestAdd", "TestMax"}, run.Passed)
		assert.Empty(t, run.Failed)
		assert.False(t, run.TimedOut)
	})

	t.Run("unknown test yields no events", func(t *testing.T) {
		run := a.RunGoTest(context.Background(), dir, []string{"TestDoesNotExist"})

		assert.ErrorIs(t, run.Err, ErrNoTestEvents)
	})

	t.Run("test binary timeout is a timeout", func(t *testing.T) {
		hung := t.TempDir()
		writeTestFile(t, filepath.Join(hung, "go.mod"), "module example.com/hung\n\ngo 1.21\n")
		writeTestFile(t, filepath.Join(hung, "hung_test.go"),
			"package hung\n\nimport (\n\t\"testing\"\n\t\"time\"\n)\n\nfunc TestHang(t *testing.T) { time.Sleep(time.Hour) }\n")

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		// The binary's own -timeout fires well before the context deadline.
		run := a.runWithArgs(ctx, m.Path(hung), []string{"test", "-json", "-count=1", "-timeout", "1s", "."})

		assert.True(t, run.TimedOut, run.Output)
		assert.Contains(t, run.Output, "TestHang")
	})

	t.Run("expired deadline is a timeout", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
		defer cancel()

		run := a.RunGoTest(ctx, dir, []string{"TestAdd"})

		assert.True(t, run.TimedOut)
	})
}
