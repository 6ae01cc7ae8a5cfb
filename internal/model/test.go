package model

// Test is a single test function discovered in a package.
type Test struct {
	ID      string // "<import path>.<TestName>"
	Name    string
	Package string
	Dir     Path
	File    Path
}

// TestRun is the outcome of invoking a set of tests against one program image.
type TestRun struct {
	Passed   []string
	Failed   []string
	Output   string
	TimedOut bool
	// Err is set when the invocation itself failed (build error, no test
	// events, runner crash) rather than a test failing.
	Err error
}
