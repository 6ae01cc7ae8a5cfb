package domain

import (
	"fmt"
	"log/slog"
	"sync"

	"gooze.dev/pkg/mutiny/internal/adapter"
	m "gooze.dev/pkg/mutiny/internal/model"
)

// Evaluator decides whether a node is the declaration of one target in one
// scope. Each implementation handles exactly one subject kind.
type Evaluator interface {
	Match(node *m.Node) bool
}

// Warner receives non-fatal matcher diagnostics.
type Warner interface {
	Warn(message string)
}

// LogWarner logs warnings through slog and keeps them for the report.
type LogWarner struct {
	mu       sync.Mutex
	warnings []string
}

// Warn implements Warner.
func (w *LogWarner) Warn(message string) {
	slog.Warn(message)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.warnings = append(w.warnings, message)
}

// Warnings returns the collected warnings.
func (w *LogWarner) Warnings() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	return append([]string(nil), w.warnings...)
}

type evaluatorEntry struct {
	kind  m.SubjectKind
	build func(scope m.Scope, target string, warner Warner) Evaluator
}

// evaluators is the static dispatch table from scope type to the evaluator
// of its subject kind.
var evaluators = map[m.ScopeType]evaluatorEntry{
	m.ScopePackage: {
		kind: m.SubjectFunction,
		build: func(_ m.Scope, target string, _ Warner) Evaluator {
			return functionEvaluator{target: target}
		},
	},
	m.ScopeNamedType: {
		kind: m.SubjectMethod,
		build: func(scope m.Scope, target string, warner Warner) Evaluator {
			return methodEvaluator{scope: scope, target: target, warner: warner}
		},
	},
}

func declName(node *m.Node, target string) bool {
	return node.Is("FuncDecl") && adapter.FuncDeclName(node) == target
}

// functionEvaluator matches a top-level function declaration.
type functionEvaluator struct {
	target string
}

func (e functionEvaluator) Match(node *m.Node) bool {
	return declName(node, e.target) && node.NodeAt(adapter.FuncDeclRecvIndex) == nil
}

// methodEvaluator matches a method whose receiver base type is the scope's
// type. Receiver shapes other than T, *T, T[K] and (T) cannot be related to
// a named type and produce a warning.
type methodEvaluator struct {
	scope  m.Scope
	target string
	warner Warner
}

func (e methodEvaluator) Match(node *m.Node) bool {
	if !declName(node, e.target) {
		return false
	}

	recv := node.NodeAt(adapter.FuncDeclRecvIndex)
	if recv == nil {
		return false
	}

	base := adapter.ReceiverBase(recv)
	if !base.Is("Ident") {
		e.warner.Warn(fmt.Sprintf("can only match methods on named or pointer receivers, got %s", base.Kind))
		return false
	}

	name, _ := base.Child(adapter.IdentNameIndex).(string)

	return name == e.scope.UnqualifiedName()
}
