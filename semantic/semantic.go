// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

// Package semantic describes the read-only view of a program's type model that
// method matchers are evaluated against. Implementations are provided by the
// surrounding analysis engine; matchers never construct or mutate them.
package semantic

type (
	// Type is an opaque handle on a resolved type.
	Type interface {
		// Is reports whether this type is exactly the type with the given
		// qualified name.
		Is(qualifiedName string) bool
		// IsSubtypeOf reports whether this type is the named type, or a subtype of
		// it.
		IsSubtypeOf(qualifiedName string) bool
		// String returns the qualified name of the type, for diagnostics.
		String() string
	}

	// Symbol is a declared entity, typically a method or a constructor.
	Symbol interface {
		// Name is the simple name of the symbol.
		Name() string
		// IsMethod is true for methods, functions and constructors.
		IsMethod() bool
		// ParameterTypes are the formal parameter types, in declaration order.
		ParameterTypes() []Type
		// Owner is the declaring type, or nil if it could not be resolved.
		Owner() Type
		// EnclosingClass is the type of the class that encloses the symbol, or nil
		// if there is none (e.g, for top-level declarations).
		EnclosingClass() Type
	}
)
