package mutagens

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	m "gooze.dev/pkg/mutiny/internal/model"
)

func lit(kind m.Symbol, value string) *m.Node {
	return m.NewNode("BasicLit", kind, value)
}

func binary(x *m.Node, op m.Symbol, y *m.Node) *m.Node {
	return m.NewNode("BinaryExpr", x, op, y)
}

func unary(op m.Symbol, x *m.Node) *m.Node {
	return m.NewNode("UnaryExpr", op, x)
}

func block(stmts ...any) *m.Node {
	return m.NewNode("BlockStmt", m.List(stmts...))
}

func exprStmt(x *m.Node) *m.Node {
	return m.NewNode("ExprStmt", x)
}

func call(name string) *m.Node {
	return m.NewNode("CallExpr", ident(name), m.List(), false)
}

func render(nodes []*m.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, node.String())
	}

	return out
}

func mutate(t *testing.T, name string, node *m.Node) []*m.Node {
	t.Helper()

	ops, err := Lookup(name)
	require.NoError(t, err)
	require.Len(t, ops, 1)

	out := ops[0].Mutate(node)
	for _, alt := range out {
		require.NotNil(t, alt)
		assert.False(t, alt.Equal(node), "%s returned its input", name)
	}

	return out
}

func TestLookup(t *testing.T) {
	t.Run("all operators in name order", func(t *testing.T) {
		ops, err := Lookup()
		require.NoError(t, err)

		var names []string
		for _, op := range ops {
			names = append(names, op.Name())
		}

		assert.Equal(t, []string{
			"arithmetic", "boolean", "branch", "comparison", "logical",
			"loop", "numbers", "statement", "unary",
		}, names)
		assert.Equal(t, names, Names())
	})

	t.Run("selection is sorted and deduplicated", func(t *testing.T) {
		ops, err := Lookup("unary", "boolean", "unary")
		require.NoError(t, err)
		require.Len(t, ops, 2)
		assert.Equal(t, "boolean", ops[0].Name())
		assert.Equal(t, "unary", ops[1].Name())
	})

	t.Run("unknown operator", func(t *testing.T) {
		_, err := Lookup("rot13")
		assert.ErrorIs(t, err, ErrUnknownOperator)
	})
}

func TestArithmetic(t *testing.T) {
	out := mutate(t, "arithmetic", binary(ident("a"), "+", ident("b")))

	assert.Equal(t, []string{
		`(BinaryExpr (Ident "a") - (Ident "b"))`,
		`(BinaryExpr (Ident "a") * (Ident "b"))`,
		`(BinaryExpr (Ident "a") / (Ident "b"))`,
		`(BinaryExpr (Ident "a") % (Ident "b"))`,
	}, render(out))

	assert.Empty(t, mutate(t, "arithmetic", binary(ident("a"), "<", ident("b"))))
	assert.Empty(t, mutate(t, "arithmetic", ident("a")))
}

func TestBoolean(t *testing.T) {
	out := mutate(t, "boolean", ident("true"))
	require.Len(t, out, 1)
	assert.True(t, out[0].Equal(ident("false")))

	out = mutate(t, "boolean", ident("false"))
	require.Len(t, out, 1)
	assert.True(t, out[0].Equal(ident("true")))

	assert.Empty(t, mutate(t, "boolean", ident("truth")))
}

func TestComparison(t *testing.T) {
	out := mutate(t, "comparison", binary(ident("a"), "<", ident("b")))

	assert.Equal(t, []string{
		`(BinaryExpr (Ident "a") > (Ident "b"))`,
		`(BinaryExpr (Ident "a") <= (Ident "b"))`,
		`(BinaryExpr (Ident "a") >= (Ident "b"))`,
		`(BinaryExpr (Ident "a") == (Ident "b"))`,
		`(BinaryExpr (Ident "a") != (Ident "b"))`,
	}, render(out))

	assert.Empty(t, mutate(t, "comparison", binary(ident("a"), "+", ident("b"))))
}

func TestLogical(t *testing.T) {
	out := mutate(t, "logical", binary(ident("a"), "&&", ident("b")))

	assert.Equal(t, []string{
		`(BinaryExpr (Ident "a") || (Ident "b"))`,
		`(Ident "a")`,
		`(Ident "b")`,
	}, render(out))

	out = mutate(t, "logical", binary(ident("a"), "||", ident("b")))
	assert.Equal(t, `(BinaryExpr (Ident "a") && (Ident "b"))`, out[0].String())

	assert.Empty(t, mutate(t, "logical", binary(ident("a"), "&", ident("b"))))
}

func TestUnary(t *testing.T) {
	tests := []struct {
		name string
		node *m.Node
		want []string
	}{
		{
			name: "negation",
			node: unary("-", ident("x")),
			want: []string{`(UnaryExpr + (Ident "x"))`, `(Ident "x")`},
		},
		{
			name: "plus",
			node: unary("+", ident("x")),
			want: []string{`(UnaryExpr - (Ident "x"))`, `(Ident "x")`},
		},
		{
			name: "not",
			node: unary("!", ident("ok")),
			want: []string{`(Ident "ok")`},
		},
		{
			name: "complement",
			node: unary("^", ident("mask")),
			want: []string{`(Ident "mask")`},
		},
		{
			name: "address-of is kept",
			node: unary("&", ident("v")),
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(mutate(t, "unary", tt.node)))
		})
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		name string
		node *m.Node
		want []string
	}{
		{name: "int", node: lit("INT", "42"), want: []string{"0", "1"}},
		{name: "zero", node: lit("INT", "0"), want: []string{"1"}},
		{name: "one", node: lit("INT", "1"), want: []string{"0"}},
		{name: "hex zero", node: lit("INT", "0x0"), want: []string{"1"}},
		{name: "separated", node: lit("INT", "1_000"), want: []string{"0", "1"}},
		{name: "float", node: lit("FLOAT", "2.5"), want: []string{"0.0", "1.0"}},
		{name: "float one", node: lit("FLOAT", "1."), want: []string{"0.0"}},
		{name: "string", node: lit("STRING", `"1"`), want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := []string{}
			for _, alt := range mutate(t, "numbers", tt.node) {
				values = append(values, alt.Child(basicLitValue).(string))
			}

			assert.Equal(t, tt.want, values)
		})
	}
}

func TestBranch(t *testing.T) {
	cond := binary(ident("a"), ">", ident("b"))
	body := block(m.NewNode("ReturnStmt", m.List(ident("a"))))
	elseBlock := block(m.NewNode("ReturnStmt", m.List(ident("b"))))

	t.Run("if with else", func(t *testing.T) {
		node := m.NewNode("IfStmt", nil, cond, body, elseBlock)
		out := mutate(t, "branch", node)

		require.Len(t, out, 5)
		assert.Equal(t, `(UnaryExpr ! (ParenExpr (BinaryExpr (Ident "a") > (Ident "b"))))`, out[0].NodeAt(ifCond).String())
		assert.True(t, out[1].NodeAt(ifCond).Equal(ident("true")))
		assert.True(t, out[2].NodeAt(ifCond).Equal(ident("false")))
		assert.True(t, isEmptyBlock(out[3].NodeAt(ifBody)))
		assert.Nil(t, out[4].NodeAt(ifElse))
	})

	t.Run("constant condition is not forced to itself", func(t *testing.T) {
		node := m.NewNode("IfStmt", nil, ident("true"), block(), nil)
		out := mutate(t, "branch", node)

		require.Len(t, out, 2)
		assert.True(t, out[1].NodeAt(ifCond).Equal(ident("false")))
	})

	t.Run("case clause body", func(t *testing.T) {
		clause := m.NewNode("CaseClause", m.List(lit("INT", "1")), m.List(exprStmt(call("f"))))
		out := mutate(t, "branch", clause)

		require.Len(t, out, 1)
		assert.Empty(t, out[0].NodeAt(clauseBody).Children)

		assert.Empty(t, mutate(t, "branch", out[0]))
	})
}

func TestLoop(t *testing.T) {
	t.Run("for boundary and body", func(t *testing.T) {
		node := m.NewNode("ForStmt",
			nil,
			binary(ident("i"), "<", ident("n")),
			m.NewNode("IncDecStmt", ident("i"), m.Symbol("++")),
			block(exprStmt(call("step"))),
		)

		out := mutate(t, "loop", node)
		require.Len(t, out, 2)
		assert.Equal(t, m.Symbol("<="), out[0].NodeAt(forCond).Child(binaryOp))
		assert.True(t, isEmptyBlock(out[1].NodeAt(forBody)))
	})

	t.Run("infinite for with empty body", func(t *testing.T) {
		assert.Empty(t, mutate(t, "loop", m.NewNode("ForStmt", nil, nil, nil, block())))
	})

	t.Run("range body", func(t *testing.T) {
		node := m.NewNode("RangeStmt", ident("_"), ident("v"), m.Symbol("="), ident("values"), block(exprStmt(call("use"))))

		out := mutate(t, "loop", node)
		require.Len(t, out, 1)
		assert.True(t, isEmptyBlock(out[0].NodeAt(rangeBody)))
	})

	t.Run("break and continue removal", func(t *testing.T) {
		node := block(
			m.NewNode("BranchStmt", m.Symbol("continue"), nil),
			exprStmt(call("f")),
			m.NewNode("BranchStmt", m.Symbol("break"), nil),
			m.NewNode("BranchStmt", m.Symbol("goto"), ident("done")),
		)

		out := mutate(t, "loop", node)
		require.Len(t, out, 2)
		assert.Len(t, out[0].NodeAt(blockList).Children, 3)
		assert.Equal(t, m.Kind("ExprStmt"), out[0].NodeAt(blockList).NodeAt(0).Kind)
		assert.Equal(t, m.Symbol("continue"), out[1].NodeAt(blockList).NodeAt(0).Child(branchTok))
	})
}

func TestStatement(t *testing.T) {
	node := block(
		m.NewNode("AssignStmt", m.List(ident("x")), m.Symbol(":="), m.List(lit("INT", "1"))),
		m.NewNode("AssignStmt", m.List(ident("x")), m.Symbol("+="), m.List(lit("INT", "2"))),
		m.NewNode("IncDecStmt", ident("x"), m.Symbol("++")),
		exprStmt(call("log")),
		m.NewNode("DeferStmt", call("done")),
		m.NewNode("ReturnStmt", m.List(ident("x"))),
	)

	out := mutate(t, "statement", node)
	require.Len(t, out, 4)

	for i, alt := range out {
		list := alt.NodeAt(blockList)
		assert.Len(t, list.Children, 5, "alternative %d", i)
		assert.Equal(t, m.Kind("ReturnStmt"), list.NodeAt(4).Kind)
	}

	assert.Equal(t, m.Kind("IncDecStmt"), out[0].NodeAt(blockList).NodeAt(1).Kind)

	t.Run("clause bodies", func(t *testing.T) {
		clause := m.NewNode("CaseClause", nil, m.List(exprStmt(call("f"))))
		out := mutate(t, "statement", clause)

		require.Len(t, out, 1)
		assert.Empty(t, out[0].NodeAt(clauseBody).Children)
	})

	t.Run("input is not modified", func(t *testing.T) {
		assert.Len(t, node.NodeAt(blockList).Children, 6)
	})
}
