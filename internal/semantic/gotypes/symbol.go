// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package gotypes

import (
	"go/types"

	"github.com/DataDog/callmatch/matcher"
	"github.com/DataDog/callmatch/semantic"
)

// Func is a [semantic.Symbol] for a method or a package-level function.
type Func struct {
	universe *Universe
	fn       *types.Func
}

var _ semantic.Symbol = (*Func)(nil)

// Func wraps a function object. It returns nil when fn is nil.
func (u *Universe) Func(fn *types.Func) semantic.Symbol {
	if fn == nil {
		return nil
	}
	return &Func{universe: u, fn: fn}
}

// Object returns the underlying function object.
func (f *Func) Object() *types.Func {
	return f.fn
}

func (f *Func) Name() string   { return f.fn.Name() }
func (f *Func) IsMethod() bool { return true }

func (f *Func) ParameterTypes() []semantic.Type {
	sig, ok := f.fn.Type().(*types.Signature)
	if !ok {
		return nil
	}
	return f.universe.tuple(sig.Params())
}

// Owner is the receiver's named type for methods, and the package for
// functions.
func (f *Func) Owner() semantic.Type {
	if recv := f.receiver(); recv != nil {
		return recv
	}
	if pkg := f.fn.Pkg(); pkg != nil {
		return packageType(pkg.Path())
	}
	return nil
}

// EnclosingClass is the receiver's named type for methods. Functions have no
// enclosing class.
func (f *Func) EnclosingClass() semantic.Type {
	return f.receiver()
}

func (f *Func) receiver() semantic.Type {
	sig, ok := f.fn.Type().(*types.Signature)
	if !ok || sig.Recv() == nil {
		return nil
	}
	return f.universe.ReceiverType(sig.Recv().Type())
}

func (f *Func) String() string {
	return f.fn.FullName()
}

// Constructor is the synthetic [semantic.Symbol] of a composite literal.
// Struct literals take one parameter per field, in declaration order.
type Constructor struct {
	universe *Universe
	typ      types.Type
}

var _ semantic.Symbol = (*Constructor)(nil)

// Constructor returns the constructor symbol for composite literals of the
// provided type. It returns nil when typ is nil or invalid.
func (u *Universe) Constructor(typ types.Type) semantic.Symbol {
	if typ == nil || typ == types.Typ[types.Invalid] {
		return nil
	}
	return &Constructor{universe: u, typ: typ}
}

// Name is always [matcher.ConstructorName], so that constructor matchers
// apply to the symbol itself as well as to its call sites.
func (c *Constructor) Name() string { return matcher.ConstructorName }

func (c *Constructor) IsMethod() bool { return true }

func (c *Constructor) ParameterTypes() []semantic.Type {
	st, ok := c.typ.Underlying().(*types.Struct)
	if !ok || st.NumFields() == 0 {
		return nil
	}
	params := make([]semantic.Type, st.NumFields())
	for i := range params {
		params[i] = c.universe.Type(st.Field(i).Type())
	}
	return params
}

func (c *Constructor) Owner() semantic.Type          { return c.universe.Type(c.typ) }
func (c *Constructor) EnclosingClass() semantic.Type { return c.universe.Type(c.typ) }

func (u *Universe) tuple(tuple *types.Tuple) []semantic.Type {
	if tuple.Len() == 0 {
		return nil
	}
	res := make([]semantic.Type, tuple.Len())
	for i := range res {
		res[i] = u.Type(tuple.At(i).Type())
	}
	return res
}
