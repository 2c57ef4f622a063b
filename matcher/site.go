// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package matcher

import (
	"fmt"

	"github.com/DataDog/callmatch/semantic"
)

// SiteKind identifies the syntactic kind of an invocation site.
type SiteKind uint8

const (
	KindCall SiteKind = iota + 1
	KindConstructor
	KindDeclaration
	KindReference
)

func (k SiteKind) String() string {
	switch k {
	case KindCall:
		return "call"
	case KindConstructor:
		return "constructor"
	case KindDeclaration:
		return "declaration"
	case KindReference:
		return "reference"
	default:
		return fmt.Sprintf("SiteKind(%d)", uint8(k))
	}
}

// SiteKindNamed returns the [SiteKind] with the given name.
func SiteKindNamed(name string) (SiteKind, bool) {
	for k := KindCall; k <= KindReference; k++ {
		if k.String() == name {
			return k, true
		}
	}
	return 0, false
}

// Site is an invocation site a matcher can be evaluated against. It is one of
// [*MethodCall], [*ConstructorCall], [*MethodDeclaration] or
// [*MethodReference].
type Site interface {
	Kind() SiteKind
	resolve() (resolved, bool)
}

type (
	// MethodCall is a method (or function) invocation.
	MethodCall struct {
		// Method is the resolved method symbol, nil if it could not be resolved.
		Method semantic.Symbol
		// Qualified is true when the call has an explicit receiver expression.
		Qualified bool
		// Receiver is the static type of the receiver expression of a qualified
		// call. It is ignored for unqualified calls.
		Receiver semantic.Type
	}

	// ConstructorCall is the instantiation of a type.
	ConstructorCall struct {
		// Constructor is the resolved constructor symbol.
		Constructor semantic.Symbol
	}

	// MethodDeclaration is the declaration of a method.
	MethodDeclaration struct {
		// Method is the declared symbol.
		Method semantic.Symbol
	}

	// MethodReference is a reference to a method that does not invoke it.
	MethodReference struct {
		// Method is the referenced method symbol.
		Method semantic.Symbol
		// Qualifier is the static type of the qualifying expression, if any.
		Qualifier semantic.Type
	}
)

// resolved is the uniform view of an invocation site that criteria are
// evaluated against.
type resolved struct {
	name     string
	owner    semantic.Type
	callSite semantic.Type
	params   []semantic.Type
}

// matchType is the type the type criteria is evaluated against: the call site
// type if there is one, the owner type otherwise.
func (r *resolved) matchType() semantic.Type {
	if r.callSite != nil {
		return r.callSite
	}
	return r.owner
}

func fromSymbol(sym semantic.Symbol) (resolved, bool) {
	if sym == nil || !sym.IsMethod() {
		return resolved{}, false
	}
	return resolved{
		name:   sym.Name(),
		owner:  sym.Owner(),
		params: sym.ParameterTypes(),
	}, true
}

func (*MethodCall) Kind() SiteKind { return KindCall }

func (c *MethodCall) resolve() (resolved, bool) {
	if c == nil {
		return resolved{}, false
	}
	r, ok := fromSymbol(c.Method)
	if !ok {
		return r, false
	}
	if c.Qualified {
		r.callSite = c.Receiver
	} else {
		r.callSite = c.Method.EnclosingClass()
	}
	return r, true
}

func (*ConstructorCall) Kind() SiteKind { return KindConstructor }

func (c *ConstructorCall) resolve() (resolved, bool) {
	if c == nil {
		return resolved{}, false
	}
	r, ok := fromSymbol(c.Constructor)
	r.name = ConstructorName
	return r, ok
}

func (*MethodDeclaration) Kind() SiteKind { return KindDeclaration }

func (d *MethodDeclaration) resolve() (resolved, bool) {
	if d == nil {
		return resolved{}, false
	}
	r, ok := fromSymbol(d.Method)
	if !ok {
		return r, false
	}
	enclosing := d.Method.EnclosingClass()
	if enclosing == nil {
		return resolved{}, false
	}
	r.callSite = enclosing
	return r, true
}

func (*MethodReference) Kind() SiteKind { return KindReference }

func (m *MethodReference) resolve() (resolved, bool) {
	if m == nil {
		return resolved{}, false
	}
	r, ok := fromSymbol(m.Method)
	if !ok {
		return r, false
	}
	r.callSite = m.Qualifier
	return r, true
}
