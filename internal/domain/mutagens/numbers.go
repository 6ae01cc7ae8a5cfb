package mutagens

import (
	"strconv"
	"strings"

	m "gooze.dev/pkg/mutiny/internal/model"
)

func init() {
	register("numbers", mutateNumbers)
}

// mutateNumbers replaces integer literals with 0 and 1 and float literals
// with 0.0 and 1.0, skipping the value the literal already has.
func mutateNumbers(node *m.Node) []*m.Node {
	if !node.Is("BasicLit") {
		return nil
	}

	value, _ := node.Child(basicLitValue).(string)

	var (
		candidates []string
		same       func(candidate string) bool
	)

	switch symbolOf(node, basicLitKind) {
	case "INT":
		candidates = []string{"0", "1"}
		current, err := strconv.ParseInt(strings.ReplaceAll(value, "_", ""), 0, 64)
		same = func(candidate string) bool {
			want, _ := strconv.ParseInt(candidate, 10, 64)
			return err == nil && current == want
		}
	case "FLOAT":
		candidates = []string{"0.0", "1.0"}
		current, err := strconv.ParseFloat(strings.ReplaceAll(value, "_", ""), 64)
		same = func(candidate string) bool {
			want, _ := strconv.ParseFloat(candidate, 64)
			return err == nil && current == want
		}
	default:
		return nil
	}

	var out []*m.Node

	for _, candidate := range candidates {
		if candidate == value || same(candidate) {
			continue
		}

		out = append(out, node.With(basicLitValue, candidate))
	}

	return out
}
