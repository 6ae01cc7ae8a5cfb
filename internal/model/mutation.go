package model

// MutationKind separates scored mutations from sanity-check runs.
type MutationKind string

const (
	// Evil mutations alter behaviour and are scored.
	Evil MutationKind = "evil"
	// Neutral mutations run the unmodified program and are never scored.
	Neutral MutationKind = "neutral"
)

// Mutation is one altered copy of a subject's tree.
type Mutation struct {
	ID       string
	Subject  *Subject
	Node     *Node
	Kind     MutationKind
	Operator string
	// Code and Diff are printed once before scheduling and only read afterwards.
	Code []byte
	Diff string
}

// Scored reports whether the mutation counts toward the verdict.
func (mu Mutation) Scored() bool {
	return mu.Kind == Evil
}
