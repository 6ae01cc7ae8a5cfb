// Package model defines the data structures for mutation testing.
package model

// Path represents a file system path.
type Path string

// LineRange is an inclusive range of 1-based source lines.
type LineRange struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

// Intersects reports whether both ranges share at least one line.
func (r LineRange) Intersects(other LineRange) bool {
	return r.Start <= other.End && other.Start <= r.End
}

// SourceFile is a parsed Go source file belonging to one package.
type SourceFile struct {
	Path    Path
	Dir     Path
	Package string // import path
	Hash    string
	Content []byte
	Tree    *Node
}
