// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package gotypes

import (
	"go/types"

	"github.com/DataDog/callmatch/semantic"
)

// Type is a [semantic.Type] backed by a [types.Type].
type Type struct {
	universe *Universe
	typ      types.Type
}

var _ semantic.Type = (*Type)(nil)

// GoType returns the underlying [types.Type].
func (t *Type) GoType() types.Type {
	return t.typ
}

func (t *Type) Is(qualifiedName string) bool {
	return typeName(t.typ) == qualifiedName
}

func (t *Type) IsSubtypeOf(qualifiedName string) bool {
	var iface *types.Interface
	if target := t.universe.Lookup(qualifiedName); target != nil {
		iface, _ = target.Underlying().(*types.Interface)
	}
	return isSubtypeOf(t.typ, qualifiedName, iface, make(map[types.Type]struct{}))
}

func (t *Type) String() string {
	return typeName(t.typ)
}

func isSubtypeOf(typ types.Type, name string, iface *types.Interface, seen map[types.Type]struct{}) bool {
	typ = types.Unalias(typ)
	if typeName(typ) == name {
		return true
	}
	if _, visited := seen[typ]; visited {
		return false
	}
	seen[typ] = struct{}{}

	if iface != nil && implements(typ, iface) {
		return true
	}

	if ptr, ok := typ.(*types.Pointer); ok {
		return isSubtypeOf(ptr.Elem(), name, iface, seen)
	}

	st, ok := typ.Underlying().(*types.Struct)
	if !ok {
		return false
	}
	for i := 0; i < st.NumFields(); i++ {
		if field := st.Field(i); field.Embedded() && isSubtypeOf(field.Type(), name, iface, seen) {
			return true
		}
	}
	return false
}

// implements reports whether typ, or a pointer to it, implements iface.
func implements(typ types.Type, iface *types.Interface) bool {
	if types.Implements(typ, iface) {
		return true
	}
	if _, isPtr := typ.(*types.Pointer); isPtr || types.IsInterface(typ) {
		return false
	}
	return types.Implements(types.NewPointer(typ), iface)
}

// typeName returns the fully qualified name of a type. Named types are named
// after their declaration, without type arguments.
func typeName(typ types.Type) string {
	typ = types.Unalias(typ)
	if named, ok := typ.(*types.Named); ok {
		obj := named.Obj()
		if obj.Pkg() == nil {
			return obj.Name()
		}
		return obj.Pkg().Path() + "." + obj.Name()
	}
	return types.TypeString(typ, qualifier)
}

func qualifier(pkg *types.Package) string {
	return pkg.Path()
}

// packageType stands for the package owning package-level functions. It is
// named after the package's import path.
type packageType string

var _ semantic.Type = packageType("")

func (p packageType) Is(qualifiedName string) bool          { return string(p) == qualifiedName }
func (p packageType) IsSubtypeOf(qualifiedName string) bool { return string(p) == qualifiedName }
func (p packageType) String() string                        { return string(p) }
