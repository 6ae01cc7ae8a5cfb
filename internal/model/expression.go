package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMalformedExpression is returned when a selection expression cannot be parsed.
var ErrMalformedExpression = errors.New("malformed expression")

var expressionSyntax = regexp.MustCompile(`^[A-Za-z0-9_.\-/~]+(\*|/\.\.\.)?$`)

// Expression is a selection predicate over subject identification strings.
type Expression interface {
	// Syntax is the textual form the expression was parsed from.
	Syntax() string
	// Match reports whether the expression selects the subject.
	Match(subject Subject) bool
	// Prefix reports whether the expression is a segment-wise prefix of the
	// identification string.
	Prefix(identification string) bool
}

// ParseExpression parses an exact or recursive namespace expression.
//
//	example.com/calc            every subject in the package scope
//	example.com/calc.Adder      every method of Adder
//	example.com/calc.Adder.Add  exactly one subject
//	example.com/calc/...        every subject below the import path (also "example.com/calc*")
func ParseExpression(input string) (Expression, error) {
	syntax := strings.TrimSpace(input)
	if syntax == "" || !expressionSyntax.MatchString(syntax) {
		return nil, fmt.Errorf("%w: %q", ErrMalformedExpression, input)
	}

	if namespace, ok := strings.CutSuffix(syntax, "/..."); ok {
		return Recursive{Namespace: namespace}, nil
	}

	if namespace, ok := strings.CutSuffix(syntax, "*"); ok {
		return Recursive{Namespace: namespace, Glob: true}, nil
	}

	return Exact{Name: syntax}, nil
}

// ParseExpressions parses every input, failing on the first malformed one.
func ParseExpressions(inputs []string) ([]Expression, error) {
	expressions := make([]Expression, 0, len(inputs))

	for _, input := range inputs {
		expression, err := ParseExpression(input)
		if err != nil {
			return nil, err
		}

		expressions = append(expressions, expression)
	}

	return expressions, nil
}

// Exact matches a subject whose identification or scope identification
// equals Name.
type Exact struct {
	Name string
}

// Syntax implements Expression.
func (e Exact) Syntax() string { return e.Name }

// Match implements Expression.
func (e Exact) Match(subject Subject) bool {
	return subject.Identification() == e.Name || subject.Scope.Identification() == e.Name
}

// Prefix implements Expression.
func (e Exact) Prefix(identification string) bool {
	return identification == e.Name || strings.HasPrefix(identification, e.Name+".")
}

// Recursive matches every subject at or below a namespace. A Glob namespace
// matches any identification starting with it, otherwise only whole
// segments and sub-packages match.
type Recursive struct {
	Namespace string
	Glob      bool
}

// Syntax implements Expression.
func (e Recursive) Syntax() string {
	if e.Glob {
		return e.Namespace + "*"
	}

	return e.Namespace + "/..."
}

// Match implements Expression.
func (e Recursive) Match(subject Subject) bool {
	return e.Prefix(subject.Identification())
}

// Prefix implements Expression.
func (e Recursive) Prefix(identification string) bool {
	if e.Glob {
		return strings.HasPrefix(identification, e.Namespace)
	}

	return identification == e.Namespace ||
		strings.HasPrefix(identification, e.Namespace+".") ||
		strings.HasPrefix(identification, e.Namespace+"/")
}

// ExpressionList matches when any of its items matches.
type ExpressionList []Expression

// Syntax implements Expression.
func (l ExpressionList) Syntax() string {
	parts := make([]string, 0, len(l))
	for _, item := range l {
		parts = append(parts, item.Syntax())
	}

	return strings.Join(parts, ",")
}

// Match implements Expression.
func (l ExpressionList) Match(subject Subject) bool {
	for _, item := range l {
		if item.Match(subject) {
			return true
		}
	}

	return false
}

// Prefix implements Expression.
func (l ExpressionList) Prefix(identification string) bool {
	for _, item := range l {
		if item.Prefix(identification) {
			return true
		}
	}

	return false
}

// Diff matches subjects whose source lines intersect lines changed between
// two revisions of one file.
type Diff struct {
	Path   Path
	Ranges []LineRange
}

// Syntax implements Expression.
func (d Diff) Syntax() string {
	return fmt.Sprintf("diff:%s%v", d.Path, d.Ranges)
}

// Match implements Expression.
func (d Diff) Match(subject Subject) bool {
	if subject.Path != d.Path || subject.Node == nil {
		return false
	}

	lines := subject.Lines()
	for _, changed := range d.Ranges {
		if changed.Intersects(lines) {
			return true
		}
	}

	return false
}

// Prefix implements Expression. Diff expressions select by location only.
func (d Diff) Prefix(string) bool {
	return false
}
