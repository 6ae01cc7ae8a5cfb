// Package mutagens provides the mutation operators. Each operator rewrites a
// single tree position into zero or more alternatives.
package mutagens

import (
	"errors"
	"fmt"
	"sort"

	m "gooze.dev/pkg/mutiny/internal/model"
)

// ErrUnknownOperator is returned for operator names nobody registered.
var ErrUnknownOperator = errors.New("unknown mutation operator")

// Operator produces the alternatives for one node. It must not modify the
// node and must return only trees that differ from it.
type Operator interface {
	Name() string
	Mutate(node *m.Node) []*m.Node
}

type operatorFunc struct {
	name   string
	mutate func(node *m.Node) []*m.Node
}

func (o operatorFunc) Name() string { return o.name }

func (o operatorFunc) Mutate(node *m.Node) []*m.Node { return o.mutate(node) }

var registry = map[string]Operator{}

func register(name string, mutate func(node *m.Node) []*m.Node) {
	registry[name] = operatorFunc{name: name, mutate: mutate}
}

// Names lists every registered operator in name order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Lookup returns the named operators in name order. No names selects every
// operator.
func Lookup(names ...string) ([]Operator, error) {
	if len(names) == 0 {
		names = Names()
	}

	seen := make(map[string]struct{}, len(names))
	operators := make([]Operator, 0, len(names))

	for _, name := range names {
		op, ok := registry[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownOperator, name, Names())
		}

		if _, dup := seen[name]; dup {
			continue
		}

		seen[name] = struct{}{}
		operators = append(operators, op)
	}

	sort.Slice(operators, func(i, j int) bool { return operators[i].Name() < operators[j].Name() })

	return operators, nil
}

// Child indexes of the node shapes the operators rewrite.
const (
	binaryX  = 0
	binaryOp = 1
	binaryY  = 2

	unaryOp = 0
	unaryX  = 1

	basicLitKind  = 0
	basicLitValue = 1

	ifCond = 1
	ifBody = 2
	ifElse = 3

	forCond = 1
	forBody = 3

	rangeBody = 4

	blockList = 0

	clauseBody = 1

	assignTok      = 1
	branchTok      = 0
	identNameIndex = 0
)

func ident(name string) *m.Node {
	return m.NewNode("Ident", name)
}

func identName(node *m.Node) (string, bool) {
	if !node.Is("Ident") {
		return "", false
	}

	name, ok := node.Child(identNameIndex).(string)

	return name, ok
}

func symbolOf(node *m.Node, index int) m.Symbol {
	symbol, _ := node.Child(index).(m.Symbol)
	return symbol
}

func paren(node *m.Node) *m.Node {
	if node.Is("ParenExpr") {
		return node
	}

	return m.NewNode("ParenExpr", node)
}

func emptyBlock() *m.Node {
	return m.NewNode("BlockStmt", m.List())
}

func isEmptyBlock(node *m.Node) bool {
	return node.Is("BlockStmt") && len(node.NodeAt(blockList).Children) == 0
}

// swapSymbol replaces the operator at index with every other member of set.
func swapSymbol(node *m.Node, index int, set []m.Symbol) []*m.Node {
	current := symbolOf(node, index)
	if !containsSymbol(set, current) {
		return nil
	}

	var out []*m.Node

	for _, symbol := range set {
		if symbol != current {
			out = append(out, node.With(index, symbol))
		}
	}

	return out
}

func containsSymbol(set []m.Symbol, symbol m.Symbol) bool {
	for _, candidate := range set {
		if candidate == symbol {
			return true
		}
	}

	return false
}
