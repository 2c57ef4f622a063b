// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

// Package gotypes implements the [semantic] model on top of [go/types].
//
// Go has no classes, so the model is mapped as follows:
//   - a method is owned by the named type of its receiver, pointers stripped;
//   - a package-level function is owned by its package, which is represented by a
//     pseudo-type named after the package's import path;
//   - a composite literal of a named struct type is a constructor call, whose
//     parameters are the struct's field types in declaration order;
//   - a type is a subtype of an interface it implements (directly or through a
//     pointer), and of the types it embeds.
package gotypes

import (
	"go/types"
	"strings"
	"sync"

	"golang.org/x/tools/go/packages"

	"github.com/DataDog/callmatch/semantic"
)

// Universe indexes type-checked packages by import path, so that qualified type
// names can be resolved to their [types.Type].
type Universe struct {
	packages map[string]*types.Package

	mu     sync.Mutex
	lookup map[string]types.Type
}

// NewUniverse indexes the provided packages and all of their transitive
// imports.
func NewUniverse(pkgs ...*types.Package) *Universe {
	u := &Universe{
		packages: make(map[string]*types.Package),
		lookup:   make(map[string]types.Type),
	}
	var index func(*types.Package)
	index = func(pkg *types.Package) {
		if pkg == nil {
			return
		}
		if _, found := u.packages[pkg.Path()]; found {
			return
		}
		u.packages[pkg.Path()] = pkg
		for _, imp := range pkg.Imports() {
			index(imp)
		}
	}
	for _, pkg := range pkgs {
		index(pkg)
	}
	return u
}

// FromPackages indexes the type information of loaded packages and their
// dependencies.
func FromPackages(pkgs []*packages.Package) *Universe {
	var typed []*types.Package
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		if pkg.Types != nil {
			typed = append(typed, pkg.Types)
		}
	})
	return NewUniverse(typed...)
}

// Package returns the package with the given import path, if it is known.
func (u *Universe) Package(path string) *types.Package {
	return u.packages[path]
}

// Lookup resolves a qualified type name such as "io.Reader", "error" or
// "example.com/pkg.Type" to its type. It returns nil if the type is not known.
func (u *Universe) Lookup(qualifiedName string) types.Type {
	u.mu.Lock()
	defer u.mu.Unlock()

	if typ, found := u.lookup[qualifiedName]; found {
		return typ
	}
	typ := u.resolve(qualifiedName)
	u.lookup[qualifiedName] = typ
	return typ
}

func (u *Universe) resolve(qualifiedName string) types.Type {
	if obj, ok := types.Universe.Lookup(qualifiedName).(*types.TypeName); ok {
		return obj.Type()
	}

	pkgPath, name := splitPackageAndName(qualifiedName)
	if pkgPath == "" {
		return nil
	}
	pkg := u.packages[pkgPath]
	if pkg == nil {
		return nil
	}
	if obj, ok := pkg.Scope().Lookup(name).(*types.TypeName); ok {
		return obj.Type()
	}
	return nil
}

// Type wraps a [types.Type] into a [semantic.Type]. It returns nil for nil or
// invalid types, so that sites involving them never match.
func (u *Universe) Type(typ types.Type) semantic.Type {
	if typ == nil || typ == types.Typ[types.Invalid] {
		return nil
	}
	return &Type{universe: u, typ: typ}
}

// ReceiverType returns the type a method call's receiver is matched as. Go
// dereferences pointer receivers implicitly, so pointers to named types are
// reported as the named type itself.
func (u *Universe) ReceiverType(typ types.Type) semantic.Type {
	if ptr, ok := typ.(*types.Pointer); ok {
		if _, named := ptr.Elem().(*types.Named); named {
			typ = ptr.Elem()
		}
	}
	return u.Type(typ)
}

// splitPackageAndName splits "example.com/pkg.Type" into "example.com/pkg" and
// "Type". Names without a package return an empty package path.
func splitPackageAndName(qualifiedName string) (string, string) {
	dot := strings.LastIndexByte(qualifiedName, '.')
	if dot < 0 || dot < strings.LastIndexByte(qualifiedName, '/') {
		return "", qualifiedName
	}
	return qualifiedName[:dot], qualifiedName[dot+1:]
}
