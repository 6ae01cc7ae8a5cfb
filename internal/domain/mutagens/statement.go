package mutagens

import m "gooze.dev/pkg/mutiny/internal/model"

func init() {
	register("statement", mutateStatement)
}

// mutateStatement removes one side-effecting statement from a statement
// list. Declarations (:=) are kept since removing them rarely compiles.
func mutateStatement(node *m.Node) []*m.Node {
	return removeStatements(node, func(stmt *m.Node) bool {
		switch stmt.Kind {
		case "ExprStmt", "IncDecStmt", "SendStmt", "GoStmt", "DeferStmt":
			return true
		case "AssignStmt":
			return symbolOf(stmt, assignTok) != ":="
		default:
			return false
		}
	})
}

// removeStatements returns one alternative per statement of a block or
// clause body that keep selects, with that statement removed.
func removeStatements(node *m.Node, keep func(stmt *m.Node) bool) []*m.Node {
	var index int

	switch node.Kind {
	case "BlockStmt":
		index = blockList
	case "CaseClause", "CommClause":
		index = clauseBody
	default:
		return nil
	}

	list := node.NodeAt(index)

	var out []*m.Node

	for i, child := range list.Children {
		stmt, ok := child.(*m.Node)
		if !ok || !keep(stmt) {
			continue
		}

		out = append(out, node.With(index, list.Without(i)))
	}

	return out
}
