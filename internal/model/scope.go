package model

import "strings"

// ScopeType distinguishes package scopes from named type scopes.
type ScopeType string

const (
	// ScopePackage holds the top-level functions of a package.
	ScopePackage ScopeType = "package"
	// ScopeNamedType holds the methods declared on a named type.
	ScopeNamedType ScopeType = "type"
)

// Entity is the program entity a Scope denotes.
type Entity struct {
	Type    ScopeType
	Package string
	Dir     Path
	Name    string   // type name, empty for package scopes
	Targets []string // function or method names declared in the scope
}

// Scope is a qualified name plus the entity it denotes.
type Scope struct {
	Segments []string
	Raw      Entity
}

// NewPackageScope builds the scope of a package's top-level functions.
func NewPackageScope(importPath string, dir Path, targets []string) Scope {
	return Scope{
		Segments: []string{importPath},
		Raw:      Entity{Type: ScopePackage, Package: importPath, Dir: dir, Targets: targets},
	}
}

// NewTypeScope builds the scope of the methods of a named type.
func NewTypeScope(importPath string, dir Path, typeName string, targets []string) Scope {
	return Scope{
		Segments: []string{importPath, typeName},
		Raw:      Entity{Type: ScopeNamedType, Package: importPath, Dir: dir, Name: typeName, Targets: targets},
	}
}

// Identification joins the qualified name segments.
func (s Scope) Identification() string {
	return strings.Join(s.Segments, ".")
}

// UnqualifiedName is the last segment.
func (s Scope) UnqualifiedName() string {
	if len(s.Segments) == 0 {
		return ""
	}

	return s.Segments[len(s.Segments)-1]
}
