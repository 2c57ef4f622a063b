// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

// Package sites extracts the invocation sites of a Go source file: function and
// method calls, composite literals, method declarations and method values.
package sites

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/types/typeutil"

	"github.com/DataDog/callmatch/internal/semantic/gotypes"
	"github.com/DataDog/callmatch/matcher"
)

// Site is an invocation site found in a source file.
type Site struct {
	matcher.Site

	// Position is the location of the site in the source file.
	Position token.Position
	// Target is a human-readable name of the referenced symbol, empty if the
	// symbol could not be resolved.
	Target string
	// Node is the decorated syntax node the site was extracted from.
	Node dst.Node
}

// Extractor produces the sites of the files of one type-checked package.
type Extractor struct {
	universe *gotypes.Universe
	pkg      *packages.Package
}

// New returns an extractor for the files of pkg. The package must have been
// loaded with syntax and type information.
func New(universe *gotypes.Universe, pkg *packages.Package) *Extractor {
	return &Extractor{universe: universe, pkg: pkg}
}

// File decorates the file and returns all its sites, in source order. It is safe
// to call concurrently for different files of the same package.
func (e *Extractor) File(file *ast.File) ([]Site, error) {
	if e.pkg.TypesInfo == nil {
		return nil, fmt.Errorf("package %q has no type information", e.pkg.PkgPath)
	}

	dec := decorator.NewDecoratorFromPackage(e.pkg)
	dstFile, err := dec.DecorateFile(file)
	if err != nil {
		return nil, fmt.Errorf("decorating %s: %w", e.pkg.Fset.File(file.Pos()).Name(), err)
	}

	w := walker{
		Extractor: e,
		dec:       dec,
		info:      e.pkg.TypesInfo,
		excluded:  make(map[dst.Node]struct{}),
	}
	dst.Inspect(dstFile, w.visit)
	return w.sites, nil
}

type walker struct {
	*Extractor
	dec  *decorator.Decorator
	info *types.Info

	// excluded holds nodes that were already reported as part of an enclosing
	// site, so they are not reported again as method references.
	excluded map[dst.Node]struct{}
	sites    []Site
}

func (w *walker) visit(node dst.Node) bool {
	if node == nil {
		return false
	}
	if _, skip := w.excluded[node]; skip {
		return true
	}

	switch node := node.(type) {
	case *dst.FuncDecl:
		w.funcDecl(node)
	case *dst.CallExpr:
		w.callExpr(node)
	case *dst.CompositeLit:
		w.compositeLit(node)
	case *dst.SelectorExpr:
		w.selectorExpr(node)
	case *dst.Ident:
		w.ident(node)
	}
	return true
}

func (w *walker) funcDecl(node *dst.FuncDecl) {
	decl, ok := w.dec.Ast.Nodes[node].(*ast.FuncDecl)
	if !ok {
		return
	}
	fn, _ := w.info.Defs[decl.Name].(*types.Func)
	w.exclude(node.Name)
	w.add(node, decl.Name.Pos(), &matcher.MethodDeclaration{Method: w.universe.Func(fn)}, fn)
}

func (w *walker) callExpr(node *dst.CallExpr) {
	call, ok := w.dec.Ast.Nodes[node].(*ast.CallExpr)
	if !ok {
		return
	}
	if tv, found := w.info.Types[call.Fun]; found && tv.IsType() {
		// Conversions are not calls.
		return
	}

	fn, _ := typeutil.Callee(w.info, call).(*types.Func)
	site := &matcher.MethodCall{Method: w.universe.Func(fn)}

	switch fun := unwrap(node.Fun).(type) {
	case *dst.SelectorExpr:
		w.exclude(fun, fun.Sel)
		expr, _ := w.dec.Ast.Nodes[fun].(*ast.SelectorExpr)
		if sel, found := w.info.Selections[expr]; found {
			site.Qualified = true
			site.Receiver = w.universe.ReceiverType(sel.Recv())
		}
	case *dst.Ident:
		w.exclude(fun)
	}

	w.add(node, call.Lparen, site, fn)
}

func (w *walker) compositeLit(node *dst.CompositeLit) {
	lit, ok := w.dec.Ast.Nodes[node].(*ast.CompositeLit)
	if !ok {
		return
	}
	typ := w.info.TypeOf(lit)
	if typ == nil {
		return
	}
	named, ok := types.Unalias(typ).(*types.Named)
	if !ok {
		return
	}
	if _, isStruct := named.Underlying().(*types.Struct); !isStruct {
		return
	}

	site := &matcher.ConstructorCall{Constructor: w.universe.Constructor(named)}
	w.sites = append(w.sites, Site{
		Site:     site,
		Position: w.pkg.Fset.Position(lit.Lbrace),
		Target:   named.Obj().Pkg().Path() + "." + named.Obj().Name(),
		Node:     node,
	})
}

func (w *walker) selectorExpr(node *dst.SelectorExpr) {
	expr, ok := w.dec.Ast.Nodes[node].(*ast.SelectorExpr)
	if !ok {
		return
	}
	w.exclude(node.Sel)

	sel, found := w.info.Selections[expr]
	if !found || sel.Kind() == types.FieldVal {
		return
	}
	fn, _ := sel.Obj().(*types.Func)
	site := &matcher.MethodReference{
		Method:    w.universe.Func(fn),
		Qualifier: w.universe.ReceiverType(sel.Recv()),
	}
	w.add(node, expr.Sel.Pos(), site, fn)
}

// ident reports function values. The decorator turns package-qualified
// selectors such as strings.ToUpper into a single identifier with its Path set,
// backed by an [*ast.SelectorExpr].
func (w *walker) ident(node *dst.Ident) {
	var ident *ast.Ident
	switch expr := w.dec.Ast.Nodes[node].(type) {
	case *ast.Ident:
		ident = expr
	case *ast.SelectorExpr:
		ident = expr.Sel
	default:
		return
	}
	if fn, isFunc := w.info.Uses[ident].(*types.Func); isFunc {
		w.add(node, ident.Pos(), &matcher.MethodReference{Method: w.universe.Func(fn)}, fn)
	}
}

func (w *walker) add(node dst.Node, pos token.Pos, site matcher.Site, fn *types.Func) {
	var target string
	if fn != nil {
		target = fn.FullName()
	}
	w.sites = append(w.sites, Site{
		Site:     site,
		Position: w.pkg.Fset.Position(pos),
		Target:   target,
		Node:     node,
	})
}

func (w *walker) exclude(nodes ...dst.Node) {
	for _, node := range nodes {
		w.excluded[node] = struct{}{}
	}
}

// unwrap strips parentheses and explicit instantiations from a callee
// expression.
func unwrap(expr dst.Expr) dst.Expr {
	for {
		switch e := expr.(type) {
		case *dst.ParenExpr:
			expr = e.X
		case *dst.IndexExpr:
			expr = e.X
		case *dst.IndexListExpr:
			expr = e.X
		default:
			return expr
		}
	}
}
