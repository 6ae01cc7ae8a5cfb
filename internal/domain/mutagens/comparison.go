package mutagens

import m "gooze.dev/pkg/mutiny/internal/model"

var comparisonOps = []m.Symbol{"<", ">", "<=", ">=", "==", "!="}

func init() {
	register("comparison", mutateComparison)
}

// mutateComparison swaps a relational operator for each of the others.
func mutateComparison(node *m.Node) []*m.Node {
	if !node.Is("BinaryExpr") {
		return nil
	}

	return swapSymbol(node, binaryOp, comparisonOps)
}
