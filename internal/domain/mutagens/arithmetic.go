package mutagens

import m "gooze.dev/pkg/mutiny/internal/model"

var arithmeticOps = []m.Symbol{"+", "-", "*", "/", "%"}

func init() {
	register("arithmetic", mutateArithmetic)
}

// mutateArithmetic swaps a binary arithmetic operator for each of the others.
func mutateArithmetic(node *m.Node) []*m.Node {
	if !node.Is("BinaryExpr") {
		return nil
	}

	return swapSymbol(node, binaryOp, arithmeticOps)
}
