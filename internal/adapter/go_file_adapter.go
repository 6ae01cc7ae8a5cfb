package adapter

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"log/slog"
	"reflect"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
	m "gooze.dev/pkg/mutiny/internal/model"
)

// ErrUnprintable is returned when a tree cannot be rebuilt as Go syntax.
var ErrUnprintable = errors.New("tree is not valid Go syntax")

// Child indexes of converted nodes used outside this file.
const (
	FileDeclsIndex     = 1
	FuncDeclRecvIndex  = 0
	FuncDeclNameIndex  = 1
	FuncDeclTypeIndex  = 2
	FuncDeclBodyIndex  = 3
	FieldListListIndex = 0
	FieldTypeIndex     = 1
	IdentNameIndex     = 0
)

const parseCacheSize = 512

// GoFileAdapter is the parser/printer for Go sources. It converts go/ast trees
// into the generic node model and renders mutated trees back to source.
type GoFileAdapter interface {
	// Parse converts a Go file into a tree whose node kinds are go/ast type names.
	Parse(ctx context.Context, path m.Path, content []byte) (*m.Node, error)

	// Print renders a tree (or subtree) as gofmt'ed Go source.
	Print(ctx context.Context, node *m.Node) ([]byte, error)

	// Render returns the source of file with original replaced by mutated.
	// The result is gofmt'ed and verified to parse back into the mutated tree.
	Render(ctx context.Context, file m.SourceFile, original, mutated *m.Node) ([]byte, error)

	// Format gofmts a whole file. Import specs keep their order.
	Format(ctx context.Context, content []byte) ([]byte, error)

	// FuncDecls returns the top-level function declarations of a file tree.
	FuncDecls(tree *m.Node) []*m.Node

	// ExtractScopes returns the package scope and the named-type scopes
	// declared by the files of one package.
	ExtractScopes(ctx context.Context, files []m.SourceFile) []m.Scope
}

// LocalGoFileAdapter provides a concrete GoFileAdapter backed by go/parser.
type LocalGoFileAdapter struct {
	cache *lru.Cache[string, *m.Node]
}

// NewLocalGoFileAdapter constructs a LocalGoFileAdapter.
func NewLocalGoFileAdapter() *LocalGoFileAdapter {
	cache, err := lru.New[string, *m.Node](parseCacheSize)
	if err != nil {
		// only fails for a non-positive size
		panic(err)
	}

	return &LocalGoFileAdapter{cache: cache}
}

// Parse builds the generic tree for the provided filename/source pair.
func (a *LocalGoFileAdapter) Parse(ctx context.Context, path m.Path, content []byte) (*m.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s:%x", path, sha256.Sum256(content))
	if tree, ok := a.cache.Get(key); ok {
		return tree, nil
	}

	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, string(path), content, parser.SkipObjectResolution)
	if err != nil {
		return nil, err
	}

	conv := &converter{fset: fset, path: path}
	tree := conv.node(file)

	a.cache.Add(key, tree)
	slog.Debug("parsed go file", "path", path, "decls", len(tree.NodeAt(FileDeclsIndex).Children))

	return tree, nil
}

// Print renders a node with the gofmt printer settings.
func (a *LocalGoFileAdapter) Print(ctx context.Context, node *m.Node) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value, err := rebuild(node, astNodeType)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := printerConfig.Fprint(&buf, token.NewFileSet(), value.Interface()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnprintable, err)
	}

	return buf.Bytes(), nil
}

// Format gofmts the content without reordering imports.
func (a *LocalGoFileAdapter) Format(ctx context.Context, content []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return gofmt(content)
}

var printerConfig = printer.Config{Mode: printer.UseSpaces | printer.TabIndent, Tabwidth: 8}

// gofmt lays out a file like format.Source but keeps import specs in source
// order, so the result still parses into the tree it was spliced from.
func gofmt(content []byte) ([]byte, error) {
	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, "", content, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := printerConfig.Fprint(&buf, fset, file); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Render splices the smallest located subtree that differs between the
// original and mutated trees. When re-parsing the spliced file does not give
// back the mutated tree (operator precedence, dropped tokens), the splice is
// retried one located ancestor higher. Parentheses the printer adds around
// lower-precedence operands are not counted as a difference.
func (a *LocalGoFileAdapter) Render(ctx context.Context, file m.SourceFile, original, mutated *m.Node) ([]byte, error) {
	path, ok := m.PathOf(file.Tree, original)
	if !ok {
		return nil, fmt.Errorf("node %s not found in %s", original.Kind, file.Path)
	}

	want := file.Tree.Replace(path, mutated)
	candidates := divergence(file.Tree, want)
	wantStripped := stripParens(want)

	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: mutated tree equals the original", ErrUnprintable)
	}

	var lastErr error

	for i := len(candidates) - 1; i >= 0; i-- {
		pair := candidates[i]

		code, err := a.splice(ctx, file, pair.original, pair.mutated)
		if err != nil {
			lastErr = err
			continue
		}

		reparsed, err := a.Parse(ctx, file.Path, code)
		if err != nil {
			lastErr = fmt.Errorf("%w: %w", ErrUnprintable, err)
			continue
		}

		if stripParens(reparsed).Equal(wantStripped) {
			return code, nil
		}

		lastErr = fmt.Errorf("%w: spliced %s does not parse back into the mutated tree", ErrUnprintable, pair.original.Kind)
	}

	return nil, lastErr
}

func (a *LocalGoFileAdapter) splice(ctx context.Context, file m.SourceFile, original, mutated *m.Node) ([]byte, error) {
	printed, err := a.Print(ctx, mutated)
	if err != nil {
		return nil, err
	}

	loc := original.Location
	if loc.EndOffset > len(file.Content) {
		return nil, fmt.Errorf("location %d:%d outside %s", loc.StartOffset, loc.EndOffset, file.Path)
	}

	code := make([]byte, 0, len(file.Content)+len(printed))
	code = append(code, file.Content[:loc.StartOffset]...)
	code = append(code, printed...)
	code = append(code, file.Content[loc.EndOffset:]...)

	formatted, err := gofmt(code)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnprintable, err)
	}

	return formatted, nil
}

type nodePair struct {
	original *m.Node
	mutated  *m.Node
}

// divergence walks down while exactly one child differs and returns the
// located node pairs on that path, outermost first.
func divergence(original, mutated *m.Node) []nodePair {
	var pairs []nodePair

	for {
		if original.Location.Valid() {
			pairs = append(pairs, nodePair{original: original, mutated: mutated})
		}

		if original.Kind != mutated.Kind || len(original.Children) != len(mutated.Children) {
			return pairs
		}

		index := -1

		for i := range original.Children {
			if m.EqualChild(original.Children[i], mutated.Children[i]) {
				continue
			}

			if index >= 0 {
				return pairs
			}

			index = i
		}

		if index < 0 {
			return nil
		}

		nextOriginal := original.NodeAt(index)
		nextMutated := mutated.NodeAt(index)

		if nextOriginal == nil || nextMutated == nil {
			return pairs
		}

		original, mutated = nextOriginal, nextMutated
	}
}

// stripParens drops ParenExpr wrappers so trees differing only in grouping
// compare equal.
func stripParens(node *m.Node) *m.Node {
	for node.Is("ParenExpr") {
		inner := node.NodeAt(0)
		if inner == nil {
			break
		}

		node = inner
	}

	var children []any

	for i, child := range node.Children {
		sub, ok := child.(*m.Node)
		if !ok || sub == nil {
			continue
		}

		stripped := stripParens(sub)
		if stripped == sub {
			continue
		}

		if children == nil {
			children = append([]any(nil), node.Children...)
		}

		children[i] = stripped
	}

	if children == nil {
		return node
	}

	return &m.Node{Kind: node.Kind, Children: children, Location: node.Location}
}

// FuncDecls returns the FuncDecl nodes declared at the top level of a file.
func (a *LocalGoFileAdapter) FuncDecls(tree *m.Node) []*m.Node {
	var decls []*m.Node

	for _, child := range tree.NodeAt(FileDeclsIndex).Children {
		if node, ok := child.(*m.Node); ok && node.Is("FuncDecl") {
			decls = append(decls, node)
		}
	}

	return decls
}

// ExtractScopes groups function declarations into the package scope and one
// scope per receiver type.
func (a *LocalGoFileAdapter) ExtractScopes(ctx context.Context, files []m.SourceFile) []m.Scope {
	if ctx.Err() != nil || len(files) == 0 {
		return nil
	}

	pkg := files[0].Package
	dir := files[0].Dir
	functions := map[string]struct{}{}
	methods := map[string]map[string]struct{}{}

	for _, file := range files {
		for _, decl := range a.FuncDecls(file.Tree) {
			name := FuncDeclName(decl)

			recv := decl.NodeAt(FuncDeclRecvIndex)
			if recv == nil {
				functions[name] = struct{}{}
				continue
			}

			typeName, ok := ReceiverTypeName(recv)
			if !ok {
				slog.Debug("skipping method with unsupported receiver", "path", file.Path, "method", name)
				continue
			}

			if methods[typeName] == nil {
				methods[typeName] = map[string]struct{}{}
			}

			methods[typeName][name] = struct{}{}
		}
	}

	var scopes []m.Scope
	if len(functions) > 0 {
		scopes = append(scopes, m.NewPackageScope(pkg, dir, sortedKeys(functions)))
	}

	for _, typeName := range sortedKeys(methods) {
		scopes = append(scopes, m.NewTypeScope(pkg, dir, typeName, sortedKeys(methods[typeName])))
	}

	return scopes
}

// FuncDeclName returns the declared name of a FuncDecl node.
func FuncDeclName(decl *m.Node) string {
	name, _ := decl.NodeAt(FuncDeclNameIndex).Child(IdentNameIndex).(string)
	return name
}

// ReceiverBase unwraps T, *T, T[K] and (T) receiver types and returns the
// innermost type expression. For a well-formed method it is an Ident.
func ReceiverBase(recv *m.Node) *m.Node {
	fields := recv.NodeAt(FieldListListIndex)
	if fields == nil || len(fields.Children) != 1 {
		return recv
	}

	expr := fields.NodeAt(0).NodeAt(FieldTypeIndex)

	for expr != nil {
		switch expr.Kind {
		case "StarExpr", "ParenExpr", "IndexExpr", "IndexListExpr":
			expr = expr.NodeAt(0)
		default:
			return expr
		}
	}

	return recv
}

// ReceiverTypeName returns the receiver type identifier of a method.
func ReceiverTypeName(recv *m.Node) (string, bool) {
	base := ReceiverBase(recv)
	if !base.Is("Ident") {
		return "", false
	}

	name, ok := base.Child(IdentNameIndex).(string)

	return name, ok
}

func sortedKeys[V any](set map[string]V) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

var (
	astNodeType   = reflect.TypeOf((*ast.Node)(nil)).Elem()
	posType       = reflect.TypeOf(token.NoPos)
	tokenType     = reflect.TypeOf(token.ILLEGAL)
	commentsType  = reflect.TypeOf((*ast.CommentGroup)(nil))
	commentsList  = reflect.TypeOf([]*ast.CommentGroup(nil))
	objectType    = reflect.TypeOf((*ast.Object)(nil))
	scopeType     = reflect.TypeOf((*ast.Scope)(nil))
	skippedFields = map[string]struct{}{
		"File.Imports":    {},
		"File.Unresolved": {},
	}
	// positions whose presence changes the printed syntax, kept as bools
	markerFields = map[string]struct{}{
		"CallExpr.Ellipsis": {},
		"TypeSpec.Assign":   {},
	}
)

var symbols = func() map[m.Symbol]token.Token {
	out := make(map[m.Symbol]token.Token)
	for tok := token.ILLEGAL; tok <= token.TILDE; tok++ {
		out[m.Symbol(tok.String())] = tok
	}

	return out
}()

var kinds = func() map[m.Kind]reflect.Type {
	nodes := []ast.Node{
		(*ast.ArrayType)(nil), (*ast.AssignStmt)(nil), (*ast.BadDecl)(nil), (*ast.BadExpr)(nil),
		(*ast.BadStmt)(nil), (*ast.BasicLit)(nil), (*ast.BinaryExpr)(nil), (*ast.BlockStmt)(nil),
		(*ast.BranchStmt)(nil), (*ast.CallExpr)(nil), (*ast.CaseClause)(nil), (*ast.ChanType)(nil),
		(*ast.CommClause)(nil), (*ast.CompositeLit)(nil), (*ast.DeclStmt)(nil), (*ast.DeferStmt)(nil),
		(*ast.Ellipsis)(nil), (*ast.EmptyStmt)(nil), (*ast.ExprStmt)(nil), (*ast.Field)(nil),
		(*ast.FieldList)(nil), (*ast.File)(nil), (*ast.ForStmt)(nil), (*ast.FuncDecl)(nil),
		(*ast.FuncLit)(nil), (*ast.FuncType)(nil), (*ast.GenDecl)(nil), (*ast.GoStmt)(nil),
		(*ast.Ident)(nil), (*ast.IfStmt)(nil), (*ast.ImportSpec)(nil), (*ast.IncDecStmt)(nil),
		(*ast.IndexExpr)(nil), (*ast.IndexListExpr)(nil), (*ast.InterfaceType)(nil),
		(*ast.KeyValueExpr)(nil), (*ast.LabeledStmt)(nil), (*ast.MapType)(nil), (*ast.ParenExpr)(nil),
		(*ast.RangeStmt)(nil), (*ast.ReturnStmt)(nil), (*ast.SelectStmt)(nil), (*ast.SelectorExpr)(nil),
		(*ast.SendStmt)(nil), (*ast.SliceExpr)(nil), (*ast.StarExpr)(nil), (*ast.StructType)(nil),
		(*ast.SwitchStmt)(nil), (*ast.TypeAssertExpr)(nil), (*ast.TypeSpec)(nil),
		(*ast.TypeSwitchStmt)(nil), (*ast.UnaryExpr)(nil), (*ast.ValueSpec)(nil),
	}

	out := make(map[m.Kind]reflect.Type, len(nodes))
	for _, node := range nodes {
		t := reflect.TypeOf(node).Elem()
		out[m.Kind(t.Name())] = t
	}

	return out
}()

func isMarker(owner reflect.Type, field reflect.StructField) bool {
	_, ok := markerFields[owner.Name()+"."+field.Name]
	return ok
}

func skipField(owner reflect.Type, field reflect.StructField) bool {
	if isMarker(owner, field) {
		return false
	}

	switch field.Type {
	case posType, commentsType, commentsList, objectType, scopeType:
		return true
	}

	_, skipped := skippedFields[owner.Name()+"."+field.Name]

	return skipped
}

type converter struct {
	fset *token.FileSet
	path m.Path
}

func (c *converter) node(n ast.Node) *m.Node {
	value := reflect.ValueOf(n)
	if value.IsNil() {
		return nil
	}

	elem := value.Elem()
	t := elem.Type()
	out := &m.Node{Kind: m.Kind(t.Name()), Location: c.location(n)}

	for i := range t.NumField() {
		field := t.Field(i)
		if skipField(t, field) {
			continue
		}

		if isMarker(t, field) {
			out.Children = append(out.Children, token.Pos(elem.Field(i).Int()).IsValid())
			continue
		}

		out.Children = append(out.Children, c.value(elem.Field(i)))
	}

	return out
}

func (c *converter) value(v reflect.Value) any {
	if v.Type() == tokenType {
		return m.Symbol(token.Token(v.Int()).String())
	}

	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			return nil
		}

		if node, ok := v.Interface().(ast.Node); ok {
			return c.node(node)
		}

		return nil
	case reflect.Slice:
		list := m.List()
		for i := range v.Len() {
			list.Children = append(list.Children, c.value(v.Index(i)))
		}

		return list
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(v.Int())
	default:
		return nil
	}
}

func (c *converter) location(n ast.Node) m.Location {
	if !n.Pos().IsValid() || !n.End().IsValid() {
		return m.Location{}
	}

	start := c.fset.Position(n.Pos())
	end := c.fset.Position(n.End())

	return m.Location{
		Path:        c.path,
		StartLine:   start.Line,
		EndLine:     end.Line,
		StartOffset: start.Offset,
		EndOffset:   end.Offset,
	}
}

// rebuild converts a generic node back into a go/ast value assignable to target.
func rebuild(node *m.Node, target reflect.Type) (reflect.Value, error) {
	if node == nil {
		return reflect.Zero(target), nil
	}

	t, ok := kinds[node.Kind]
	if !ok {
		return reflect.Value{}, fmt.Errorf("%w: unknown kind %q", ErrUnprintable, node.Kind)
	}

	ptr := reflect.New(t)
	if !ptr.Type().AssignableTo(target) {
		return reflect.Value{}, fmt.Errorf("%w: %s cannot be used as %s", ErrUnprintable, node.Kind, target)
	}

	elem := ptr.Elem()
	index := 0

	for i := range t.NumField() {
		field := t.Field(i)
		if skipField(t, field) {
			continue
		}

		if index >= len(node.Children) {
			return reflect.Value{}, fmt.Errorf("%w: %s has %d children", ErrUnprintable, node.Kind, len(node.Children))
		}

		if isMarker(t, field) {
			present, ok := node.Children[index].(bool)
			if !ok {
				return reflect.Value{}, fmt.Errorf("%w: %s.%s wants bool", ErrUnprintable, node.Kind, field.Name)
			}

			if present {
				elem.Field(i).SetInt(1)
			}

			index++

			continue
		}

		value, err := rebuildValue(node.Children[index], field.Type)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%s.%s: %w", node.Kind, field.Name, err)
		}

		elem.Field(i).Set(value)

		index++
	}

	if index != len(node.Children) {
		return reflect.Value{}, fmt.Errorf("%w: %s has %d children, want %d", ErrUnprintable, node.Kind, len(node.Children), index)
	}

	return ptr, nil
}

func rebuildValue(child any, target reflect.Type) (reflect.Value, error) {
	if target == tokenType {
		symbol, ok := child.(m.Symbol)
		if !ok {
			return reflect.Value{}, fmt.Errorf("%w: want token, got %T", ErrUnprintable, child)
		}

		tok, ok := symbols[symbol]
		if !ok {
			return reflect.Value{}, fmt.Errorf("%w: unknown token %q", ErrUnprintable, symbol)
		}

		return reflect.ValueOf(tok), nil
	}

	switch target.Kind() {
	case reflect.Interface, reflect.Pointer:
		if child == nil {
			return reflect.Zero(target), nil
		}

		node, ok := child.(*m.Node)
		if !ok {
			return reflect.Value{}, fmt.Errorf("%w: want node, got %T", ErrUnprintable, child)
		}

		value, err := rebuild(node, target)
		if err != nil {
			return reflect.Value{}, err
		}

		return value.Convert(target), nil
	case reflect.Slice:
		return rebuildSlice(child, target)
	case reflect.String, reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		value := reflect.ValueOf(child)
		if !value.IsValid() || !value.Type().ConvertibleTo(target) || value.Kind() != kindOfScalar(target) {
			return reflect.Value{}, fmt.Errorf("%w: want %s, got %T", ErrUnprintable, target, child)
		}

		return value.Convert(target), nil
	default:
		return reflect.Value{}, fmt.Errorf("%w: unsupported field type %s", ErrUnprintable, target)
	}
}

func rebuildSlice(child any, target reflect.Type) (reflect.Value, error) {
	if child == nil {
		return reflect.Zero(target), nil
	}

	list, ok := child.(*m.Node)
	if !ok || list.Kind != m.KindList {
		return reflect.Value{}, fmt.Errorf("%w: want list, got %T", ErrUnprintable, child)
	}

	// go/printer tells a default clause from an empty case list by nil.
	if len(list.Children) == 0 {
		return reflect.Zero(target), nil
	}

	out := reflect.MakeSlice(target, 0, len(list.Children))

	for _, item := range list.Children {
		value, err := rebuildValue(item, target.Elem())
		if err != nil {
			return reflect.Value{}, err
		}

		out = reflect.Append(out, value)
	}

	return out, nil
}

// kindOfScalar maps every integer kind onto reflect.Int since converted trees
// store integers as int.
func kindOfScalar(target reflect.Type) reflect.Kind {
	switch target.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return reflect.Int
	default:
		return target.Kind()
	}
}
