package mutagens

import m "gooze.dev/pkg/mutiny/internal/model"

func init() {
	register("branch", mutateBranch)
}

// mutateBranch rewrites conditionals: an if condition is negated and forced
// to true and false, its body is emptied and its else is dropped. Case
// clause bodies are emptied.
func mutateBranch(node *m.Node) []*m.Node {
	switch node.Kind {
	case "IfStmt":
		return mutateIf(node)
	case "CaseClause":
		if len(node.NodeAt(clauseBody).Children) == 0 {
			return nil
		}

		return []*m.Node{node.With(clauseBody, m.List())}
	default:
		return nil
	}
}

func mutateIf(node *m.Node) []*m.Node {
	var out []*m.Node

	cond := node.NodeAt(ifCond)
	if cond != nil {
		out = append(out, node.With(ifCond, m.NewNode("UnaryExpr", m.Symbol("!"), paren(cond))))

		name, _ := identName(cond)
		if name != trueStr {
			out = append(out, node.With(ifCond, ident(trueStr)))
		}

		if name != falseStr {
			out = append(out, node.With(ifCond, ident(falseStr)))
		}
	}

	if body := node.NodeAt(ifBody); body != nil && !isEmptyBlock(body) {
		out = append(out, node.With(ifBody, emptyBlock()))
	}

	if node.NodeAt(ifElse) != nil {
		out = append(out, node.With(ifElse, nil))
	}

	return out
}
