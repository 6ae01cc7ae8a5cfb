package mutagens

import m "gooze.dev/pkg/mutiny/internal/model"

var boundarySwaps = map[m.Symbol]m.Symbol{
	"<":  "<=",
	"<=": "<",
	">":  ">=",
	">=": ">",
}

func init() {
	register("loop", mutateLoop)
}

// mutateLoop shifts the boundary of a for condition by one, empties loop
// bodies and removes break and continue statements from blocks.
func mutateLoop(node *m.Node) []*m.Node {
	switch node.Kind {
	case "ForStmt":
		var out []*m.Node

		if cond := node.NodeAt(forCond); cond.Is("BinaryExpr") {
			if swapped, ok := boundarySwaps[symbolOf(cond, binaryOp)]; ok {
				out = append(out, node.With(forCond, cond.With(binaryOp, swapped)))
			}
		}

		if body := node.NodeAt(forBody); body != nil && !isEmptyBlock(body) {
			out = append(out, node.With(forBody, emptyBlock()))
		}

		return out
	case "RangeStmt":
		if body := node.NodeAt(rangeBody); body != nil && !isEmptyBlock(body) {
			return []*m.Node{node.With(rangeBody, emptyBlock())}
		}

		return nil
	default:
		return removeStatements(node, func(stmt *m.Node) bool {
			if !stmt.Is("BranchStmt") {
				return false
			}

			tok := symbolOf(stmt, branchTok)

			return tok == "break" || tok == "continue"
		})
	}
}
