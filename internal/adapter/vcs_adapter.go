package adapter

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
	m "gooze.dev/pkg/mutiny/internal/model"
)

// VCSAdapter reports which source lines changed between two revisions.
type VCSAdapter interface {
	// ChangedLines diffs from against to (the working tree when to is empty)
	// and returns the changed line ranges of each surviving .go file, keyed
	// by absolute path.
	ChangedLines(ctx context.Context, root m.Path, from, to string) (map[m.Path][]m.LineRange, error)
}

// GitVCSAdapter shells out to git.
type GitVCSAdapter struct {
	gitBin string
}

// NewGitVCSAdapter constructs a GitVCSAdapter using git from PATH.
func NewGitVCSAdapter() *GitVCSAdapter {
	return &GitVCSAdapter{gitBin: "git"}
}

// ChangedLines runs `git diff --unified=0` and parses it with go-diff.
func (a *GitVCSAdapter) ChangedLines(ctx context.Context, root m.Path, from, to string) (map[m.Path][]m.LineRange, error) {
	args := []string{"diff", "--no-color", "--no-ext-diff", "--unified=0", from}
	if to != "" {
		args = append(args, to)
	}

	args = append(args, "--", "*.go")

	// #nosec G204 - revisions come from the user's own configuration
	cmd := exec.CommandContext(ctx, a.gitBin, args...)
	cmd.Dir = string(root)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git diff %s: %w: %s", from, err, strings.TrimSpace(stderr.String()))
	}

	return ParseChangedLines(root, stdout.Bytes())
}

// ParseChangedLines converts a unified diff into changed line ranges on the
// new side. A pure deletion marks the line following the removed text.
func ParseChangedLines(root m.Path, patch []byte) (map[m.Path][]m.LineRange, error) {
	files, err := diff.NewMultiFileDiffReader(bytes.NewReader(patch)).ReadAllFiles()
	if err != nil {
		return nil, fmt.Errorf("parse diff: %w", err)
	}

	changed := make(map[m.Path][]m.LineRange)

	for _, file := range files {
		name := strings.TrimPrefix(file.NewName, "b/")
		if file.NewName == "/dev/null" || !strings.HasSuffix(name, ".go") {
			continue
		}

		path := m.Path(filepath.Join(string(root), filepath.FromSlash(name)))

		for _, hunk := range file.Hunks {
			start := int(hunk.NewStartLine)
			end := start + int(hunk.NewLines) - 1

			if hunk.NewLines == 0 {
				start = max(start, 1)
				end = start
			}

			changed[path] = append(changed[path], m.LineRange{Start: start, End: end})
		}
	}

	for path := range changed {
		ranges := changed[path]
		sort.Slice(ranges, func(i, j int) bool { return ranges[i].Start < ranges[j].Start })
	}

	return changed, nil
}
