package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"gooze.dev/pkg/mutiny/internal/adapter"
	m "gooze.dev/pkg/mutiny/internal/model"
)

// Workspace is a private copy of the project a worker mutates and tests.
type Workspace struct {
	// Source is the project root the copy was made from.
	Source m.Path
	// Root is the copy.
	Root m.Path
	// broken is set when a mutated file could not be restored.
	broken bool
}

// Path maps a path inside Source onto the copy.
func (w *Workspace) Path(fs adapter.SourceFSAdapter, path m.Path) (m.Path, error) {
	rel, err := fs.RelPath(w.Source, path)
	if err != nil {
		return "", fmt.Errorf("failed to get relative path: %w", err)
	}

	return fs.JoinPath(string(w.Root), string(rel)), nil
}

// WorkspacePool hands out at most size workspaces, creating copies lazily
// and reusing released ones.
type WorkspacePool struct {
	fs     adapter.SourceFSAdapter
	source m.Path
	slots  chan struct{}

	mu     sync.Mutex
	free   []*Workspace
	all    []*Workspace
	closed bool
}

// NewWorkspacePool creates a pool of copies of source.
func NewWorkspacePool(fs adapter.SourceFSAdapter, source m.Path, size int) *WorkspacePool {
	return &WorkspacePool{
		fs:     fs,
		source: source,
		slots:  make(chan struct{}, max(size, 1)),
	}
}

// Acquire blocks until a workspace is available.
func (p *WorkspacePool) Acquire(ctx context.Context) (*Workspace, error) {
	select {
	case p.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	p.mu.Lock()

	if p.closed {
		p.mu.Unlock()
		<-p.slots

		return nil, errors.New("workspace pool closed")
	}

	if n := len(p.free); n > 0 {
		ws := p.free[n-1]
		p.free = p.free[:n-1]
		p.mu.Unlock()

		return ws, nil
	}

	p.mu.Unlock()

	ws, err := p.create()
	if err != nil {
		<-p.slots
		return nil, err
	}

	return ws, nil
}

func (p *WorkspacePool) create() (*Workspace, error) {
	tmpDir, err := p.fs.CreateTempDir("mutiny-workspace-*")
	if err != nil {
		slog.Error("Failed to create temp dir", "error", err)
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}

	if err := p.fs.CopyDir(p.source, tmpDir); err != nil {
		slog.Error("Failed to copy project to temp dir", "projectRoot", p.source, "tmpDir", tmpDir, "error", err)
		p.remove(tmpDir)

		return nil, fmt.Errorf("failed to copy project: %w", err)
	}

	ws := &Workspace{Source: p.source, Root: tmpDir}

	p.mu.Lock()
	p.all = append(p.all, ws)
	p.mu.Unlock()

	slog.Debug("created workspace", "root", tmpDir)

	return ws, nil
}

// Release returns a workspace to the pool. Broken workspaces are discarded.
func (p *WorkspacePool) Release(ws *Workspace) {
	defer func() { <-p.slots }()

	if ws.broken {
		p.remove(ws.Root)

		p.mu.Lock()
		for i, candidate := range p.all {
			if candidate == ws {
				p.all = append(p.all[:i], p.all[i+1:]...)
				break
			}
		}
		p.mu.Unlock()

		return
	}

	p.mu.Lock()
	p.free = append(p.free, ws)
	p.mu.Unlock()
}

// Close removes every copy. Workspaces still acquired must not be used after.
func (p *WorkspacePool) Close() {
	p.mu.Lock()
	all := p.all
	p.all, p.free, p.closed = nil, nil, true
	p.mu.Unlock()

	for _, ws := range all {
		p.remove(ws.Root)
	}
}

func (p *WorkspacePool) remove(dir m.Path) {
	if err := p.fs.RemoveAll(dir); err != nil {
		slog.Error("Failed to cleanup temp dir", "tmpDir", dir, "error", err)
	}
}
