package mutagens

import m "gooze.dev/pkg/mutiny/internal/model"

const (
	trueStr  = "true"
	falseStr = "false"
)

func init() {
	register("boolean", mutateBoolean)
}

// mutateBoolean flips the predeclared boolean constants.
func mutateBoolean(node *m.Node) []*m.Node {
	name, ok := identName(node)
	if !ok {
		return nil
	}

	switch name {
	case trueStr:
		return []*m.Node{ident(falseStr)}
	case falseStr:
		return []*m.Node{ident(trueStr)}
	default:
		return nil
	}
}
