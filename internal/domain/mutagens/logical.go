package mutagens

import m "gooze.dev/pkg/mutiny/internal/model"

func init() {
	register("logical", mutateLogical)
}

// mutateLogical swaps && and || and replaces the expression by either operand.
func mutateLogical(node *m.Node) []*m.Node {
	if !node.Is("BinaryExpr") {
		return nil
	}

	var swapped m.Symbol

	switch symbolOf(node, binaryOp) {
	case "&&":
		swapped = "||"
	case "||":
		swapped = "&&"
	default:
		return nil
	}

	return []*m.Node{
		node.With(binaryOp, swapped),
		node.NodeAt(binaryX),
		node.NodeAt(binaryY),
	}
}
