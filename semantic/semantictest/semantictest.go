// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

// Package semantictest provides a small in-memory implementation of the
// [semantic] interfaces, for use in tests.
package semantictest

import "github.com/DataDog/callmatch/semantic"

// Type is a nominal type with an explicit list of direct super types.
type Type struct {
	Name   string
	Supers []*Type
}

var _ semantic.Type = (*Type)(nil)

func NewType(name string, supers ...*Type) *Type {
	return &Type{Name: name, Supers: supers}
}

func (t *Type) Is(qualifiedName string) bool {
	return t != nil && t.Name == qualifiedName
}

func (t *Type) IsSubtypeOf(qualifiedName string) bool {
	if t == nil {
		return false
	}
	if t.Name == qualifiedName {
		return true
	}
	for _, super := range t.Supers {
		if super.IsSubtypeOf(qualifiedName) {
			return true
		}
	}
	return false
}

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.Name
}

// Method is a method (or constructor) symbol. Leaving Declaring or Enclosing
// unset models a symbol whose owner could not be resolved.
type Method struct {
	MethodName string
	Params     []semantic.Type
	Declaring  semantic.Type
	Enclosing  semantic.Type
	// Field turns the symbol into a non-method symbol.
	Field bool
}

var _ semantic.Symbol = (*Method)(nil)

// NewMethod returns a method declared in (and enclosed by) the owner type.
func NewMethod(owner *Type, name string, params ...*Type) *Method {
	m := &Method{MethodName: name, Params: Types(params...)}
	if owner != nil {
		m.Declaring = owner
		m.Enclosing = owner
	}
	return m
}

func (m *Method) Name() string                    { return m.MethodName }
func (m *Method) IsMethod() bool                  { return !m.Field }
func (m *Method) ParameterTypes() []semantic.Type { return m.Params }
func (m *Method) Owner() semantic.Type            { return m.Declaring }
func (m *Method) EnclosingClass() semantic.Type   { return m.Enclosing }

// Types converts a list of test types into [semantic.Type] values.
func Types(types ...*Type) []semantic.Type {
	if len(types) == 0 {
		return nil
	}
	res := make([]semantic.Type, len(types))
	for i, t := range types {
		res[i] = t
	}
	return res
}
