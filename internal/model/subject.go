package model

import (
	"go/token"
)

// SubjectKind names the syntactic shape a subject was matched as.
type SubjectKind string

const (
	// SubjectFunction is a top-level function declaration.
	SubjectFunction SubjectKind = "function"
	// SubjectMethod is a method declaration on a named type.
	SubjectMethod SubjectKind = "method"
)

// Visibility mirrors Go's exported/unexported identifier rule.
type Visibility string

// Visibility values.
const (
	Exported   Visibility = "exported"
	Unexported Visibility = "unexported"
)

// VisibilityOf returns the visibility of a Go identifier.
func VisibilityOf(name string) Visibility {
	if token.IsExported(name) {
		return Exported
	}

	return Unexported
}

// Subject is a single code location selected as a mutation target.
type Subject struct {
	Node       *Node
	Scope      Scope
	Path       Path
	Name       string
	Visibility Visibility
	Kind       SubjectKind
}

// Identification is the scope identification plus the subject name, e.g.
// "example.com/calc.Adder.Add".
func (s Subject) Identification() string {
	return s.Scope.Identification() + "." + s.Name
}

// Lines is the source line span of the subject.
func (s Subject) Lines() LineRange {
	return s.Node.Location.Lines()
}
