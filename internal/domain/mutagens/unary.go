package mutagens

import m "gooze.dev/pkg/mutiny/internal/model"

func init() {
	register("unary", mutateUnary)
}

// mutateUnary swaps sign operators and drops - + ! ^ from their operand.
func mutateUnary(node *m.Node) []*m.Node {
	if !node.Is("UnaryExpr") {
		return nil
	}

	operand := node.NodeAt(unaryX)

	switch symbolOf(node, unaryOp) {
	case "-":
		return []*m.Node{node.With(unaryOp, m.Symbol("+")), operand}
	case "+":
		return []*m.Node{node.With(unaryOp, m.Symbol("-")), operand}
	case "!", "^":
		return []*m.Node{operand}
	default:
		return nil
	}
}
