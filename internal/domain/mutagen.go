// Package domain contains the core mutation testing workflow and logic.
package domain

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"

	"github.com/pmezard/go-difflib/difflib"
	"gooze.dev/pkg/mutiny/internal/adapter"
	"gooze.dev/pkg/mutiny/internal/domain/mutagens"
	m "gooze.dev/pkg/mutiny/internal/model"
)

// NeutralOperator names the operator of neutral mutations.
const NeutralOperator = "neutral"

// frozenKinds are never descended into: type expressions and signatures.
var frozenKinds = map[m.Kind]struct{}{
	"FuncType":      {},
	"FieldList":     {},
	"ArrayType":     {},
	"MapType":       {},
	"ChanType":      {},
	"StructType":    {},
	"InterfaceType": {},
}

// Variant is one single-point alternative of a tree.
type Variant struct {
	Node     *m.Node
	Operator string
	// Path is the position of the substitution in the original tree.
	Path []int
}

// Mutate applies every operator at every position of node, pre-order, with
// operators in the given order at each position. Each variant differs from
// node at exactly one position; duplicates and no-op alternatives are dropped.
func Mutate(node *m.Node, operators []mutagens.Operator) ([]Variant, error) {
	var (
		variants []Variant
		err      error
	)

	seen := map[string]struct{}{node.String(): {}}

	node.Walk(func(path []int, current *m.Node) bool {
		if err != nil || isFrozen(node, path, current) {
			return false
		}

		for _, op := range operators {
			for _, alternative := range op.Mutate(current) {
				if alternative == nil {
					err = fmt.Errorf("%w: %s returned nil for %s", ErrInvalidMutant, op.Name(), current.Kind)
					return false
				}

				mutated := node.Replace(path, alternative)

				key := mutated.String()
				if _, dup := seen[key]; dup {
					continue
				}

				seen[key] = struct{}{}
				variants = append(variants, Variant{
					Node:     mutated,
					Operator: op.Name(),
					Path:     append([]int(nil), path...),
				})
			}
		}

		return true
	})

	if err != nil {
		return nil, err
	}

	return variants, nil
}

func isFrozen(root *m.Node, path []int, current *m.Node) bool {
	if _, frozen := frozenKinds[current.Kind]; frozen {
		return true
	}

	return root.Is("FuncDecl") && len(path) == 1 && path[0] == adapter.FuncDeclNameIndex
}

// Mutagen plans the mutations of a subject: it generates the variants,
// renders each one and computes its diff, ahead of scheduling.
type Mutagen interface {
	GenerateMutations(ctx context.Context, subject *m.Subject, file m.SourceFile, operators []mutagens.Operator, neutral bool) ([]m.Mutation, error)
}

type mutagen struct {
	adapter.GoFileAdapter
}

// NewMutagen creates a new Mutagen instance.
func NewMutagen(goFileAdapter adapter.GoFileAdapter) Mutagen {
	return &mutagen{GoFileAdapter: goFileAdapter}
}

// GenerateMutations returns the neutral mutation first, when requested, then
// the evil mutations in generation order.
func (mg *mutagen) GenerateMutations(ctx context.Context, subject *m.Subject, file m.SourceFile, operators []mutagens.Operator, neutral bool) ([]m.Mutation, error) {
	variants, err := Mutate(subject.Node, operators)
	if err != nil {
		return nil, fmt.Errorf("mutate %s: %w", subject.Identification(), err)
	}

	original, err := mg.Format(ctx, file.Content)
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", file.Path, err)
	}

	mutations := make([]m.Mutation, 0, len(variants)+1)

	if neutral {
		mutations = append(mutations, m.Mutation{
			ID:       mutationID(subject, NeutralOperator, subject.Node),
			Subject:  subject,
			Node:     subject.Node,
			Kind:     m.Neutral,
			Operator: NeutralOperator,
			Code:     file.Content,
		})
	}

	for _, variant := range variants {
		code, err := mg.Render(ctx, file, subject.Node, variant.Node)
		if err != nil {
			slog.Error("operator produced an unrenderable tree", "subject", subject.Identification(), "operator", variant.Operator, "error", err)
			return nil, fmt.Errorf("%w: %s on %s: %w", ErrInvalidMutant, variant.Operator, subject.Identification(), err)
		}

		mutations = append(mutations, m.Mutation{
			ID:       mutationID(subject, variant.Operator, variant.Node),
			Subject:  subject,
			Node:     variant.Node,
			Kind:     m.Evil,
			Operator: variant.Operator,
			Code:     code,
			Diff:     unifiedDiff(file.Path, original, code),
		})
	}

	slog.Debug("generated mutations", "subject", subject.Identification(), "count", len(mutations))

	return mutations, nil
}

func mutationID(subject *m.Subject, operator string, node *m.Node) string {
	sum := sha256.Sum256([]byte(subject.Identification() + "\x00" + operator + "\x00" + node.String()))
	return fmt.Sprintf("%x", sum[:8])
}

func unifiedDiff(path m.Path, original, mutated []byte) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(original)),
		B:        difflib.SplitLines(string(mutated)),
		FromFile: string(path),
		ToFile:   string(path),
		Context:  1,
	})
	if err != nil {
		return ""
	}

	return diff
}
