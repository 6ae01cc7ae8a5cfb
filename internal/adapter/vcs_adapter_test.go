package adapter

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	m "gooze.dev/pkg/mutiny/internal/model"
)

const changePatch = `diff --git a/calc.go b/calc.go
index 3b18e51..a1f2c3d 100644
--- a/calc.go
+++ b/calc.go
@@ -4 +4 @@ func Add(a, b int) int {
-	return a + b
+	return b + a
@@ -10,0 +11,3 @@ func Max(a, b int) int {
+	if a == b {
+		return a
+	}
@@ -20,2 +23,0 @@ func IsPositive(n int) bool {
-	// unused
-	_ = n
diff --git a/old.go b/old.go
deleted file mode 100644
index 3b18e51..0000000
--- a/old.go
+++ /dev/null
@@ -1,3 +0,0 @@
-package calc
-
-func old() {}
`

func TestParseChangedLines(t *testing.T) {
	changed, err := ParseChangedLines("/src", []byte(changePatch))
	require.NoError(t, err)

	require.Len(t, changed, 1)
	assert.Equal(t, []m.LineRange{
		{Start: 4, End: 4},
		{Start: 11, End: 13},
		{Start: 23, End: 23},
	}, changed[m.Path(filepath.Join("/src", "calc.go"))])
}

func TestParseChangedLines_Empty(t *testing.T) {
	changed, err := ParseChangedLines("/src", nil)
	require.NoError(t, err)
	assert.Empty(t, changed)
}

func TestGitVCSAdapter_ChangedLines(t *testing.T) {
	if testing.Short() {
		t.Skip("requires git")
	}

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	root := t.TempDir()
	git := func(args ...string) {
		t.Helper()

		cmd := exec.Command("git", append([]string{"-c", "user.name=test", "-c", "user.email=test@example.com"}, args...)...)
		cmd.Dir = root
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}

	writeTestFile(t, filepath.Join(root, "calc.go"), "package calc\n\nfunc Add(a, b int) int {\n\treturn a + b\n}\n")
	git("init", "-q")
	git("add", ".")
	git("commit", "-q", "-m", "initial")

	writeTestFile(t, filepath.Join(root, "calc.go"), "package calc\n\nfunc Add(a, b int) int {\n\treturn b + a\n}\n")

	changed, err := NewGitVCSAdapter().ChangedLines(context.Background(), m.Path(root), "HEAD", "")
	require.NoError(t, err)

	assert.Equal(t, []m.LineRange{{Start: 4, End: 4}}, changed[m.Path(filepath.Join(root, "calc.go"))])
}

func TestGitVCSAdapter_ChangedLines_UnknownRevision(t *testing.T) {
	if testing.Short() {
		t.Skip("requires git")
	}

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	root := t.TempDir()
	cmd := exec.Command("git", "init", "-q")
	cmd.Dir = root
	require.NoError(t, cmd.Run())

	_, err := NewGitVCSAdapter().ChangedLines(context.Background(), m.Path(root), "no-such-rev", "")
	assert.Error(t, err)
}
