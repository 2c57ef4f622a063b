// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package matcher

import (
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/DataDog/callmatch/internal/fingerprint"
	"github.com/DataDog/callmatch/semantic"
)

// ParameterCriterion is a predicate over an ordered list of parameter types.
type ParameterCriterion interface {
	MatchesParameters([]semantic.Type) bool
	String() string
	fingerprint.Hashable

	builderCode(*jen.Statement) (*jen.Statement, error)
}

type (
	anyParameters struct{}

	// shape matches parameter lists position by position. When prefix is set,
	// the actual list may have more parameters than there are positions.
	shape struct {
		positions []TypeCriterion
		prefix    bool
	}

	parametersFunc  func([]semantic.Type) bool
	parametersUnion []ParameterCriterion
)

// AnyParameters matches every parameter list, including the empty one.
func AnyParameters() ParameterCriterion { return anyParameters{} }

// NoParameters matches only the empty parameter list.
func NoParameters() ParameterCriterion { return shape{} }

// ExactShape matches parameter lists having exactly one parameter per
// criterion, each satisfying the criterion at the same position.
func ExactShape(positions ...TypeCriterion) ParameterCriterion {
	return shape{positions: clone(positions)}
}

// PrefixShape matches parameter lists whose leading parameters satisfy the
// criteria at the same position. Trailing parameters are unconstrained.
func PrefixShape(positions ...TypeCriterion) ParameterCriterion {
	return shape{positions: clone(positions), prefix: true}
}

// ParametersMatching matches parameter lists satisfying the provided predicate.
func ParametersMatching(pred func([]semantic.Type) bool) ParameterCriterion {
	return parametersFunc(pred)
}

func (anyParameters) MatchesParameters([]semantic.Type) bool { return true }
func (anyParameters) String() string                         { return "(..)" }
func (anyParameters) Hash(h *fingerprint.Hasher) error {
	return h.Named("any-parameters")
}

func (anyParameters) builderCode(s *jen.Statement) (*jen.Statement, error) {
	return s.Dot("WithAnyParameters").Call(), nil
}

func (s shape) MatchesParameters(actual []semantic.Type) bool {
	if s.prefix {
		if len(actual) < len(s.positions) {
			return false
		}
	} else if len(actual) != len(s.positions) {
		return false
	}

	for i, criterion := range s.positions {
		if actual[i] == nil || !criterion.MatchesType(actual[i]) {
			return false
		}
	}
	return true
}

func (s shape) String() string {
	var buf strings.Builder
	buf.WriteByte('(')
	for i, c := range s.positions {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(c.String())
	}
	if s.prefix {
		if len(s.positions) > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString("..")
	}
	buf.WriteByte(')')
	return buf.String()
}

func (s shape) Hash(h *fingerprint.Hasher) error {
	name := "exact-parameters"
	if s.prefix {
		name = "parameters-prefix"
	}
	return h.Named(name, fingerprint.List[TypeCriterion](s.positions))
}

func (s shape) builderCode(stmt *jen.Statement) (*jen.Statement, error) {
	if len(s.positions) == 0 && !s.prefix {
		return stmt.Dot("WithoutParameters").Call(), nil
	}

	method := "WithParameters"
	if s.prefix {
		method = "StartWithParameters"
	}

	args := make([]jen.Code, len(s.positions))
	allExact := true
	for i, c := range s.positions {
		if name, ok := c.(exactType); ok {
			args[i] = jen.Lit(string(name))
		} else {
			allExact = false
			break
		}
	}
	if allExact {
		return stmt.Dot(method).Call(args...), nil
	}

	for i, c := range s.positions {
		var err error
		if args[i], err = c.valueCode(); err != nil {
			return nil, err
		}
	}
	return stmt.Dot(method + "Matching").Call(args...), nil
}

func (f parametersFunc) MatchesParameters(actual []semantic.Type) bool { return f(actual) }
func (parametersFunc) String() string                                  { return "(custom)" }
func (parametersFunc) Hash(*fingerprint.Hasher) error                  { return errCustomPredicate }
func (parametersFunc) builderCode(*jen.Statement) (*jen.Statement, error) {
	return nil, errCustomPredicate
}

func (u parametersUnion) MatchesParameters(actual []semantic.Type) bool {
	for _, c := range u {
		if c.MatchesParameters(actual) {
			return true
		}
	}
	return false
}

func (u parametersUnion) String() string {
	return joinCriteria(u)
}

func (u parametersUnion) Hash(h *fingerprint.Hasher) error {
	return h.Named("parameters-union", fingerprint.List[ParameterCriterion](u))
}

func (u parametersUnion) builderCode(s *jen.Statement) (*jen.Statement, error) {
	var err error
	for _, c := range u {
		if s, err = c.builderCode(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func clone[T any](list []T) []T {
	if len(list) == 0 {
		return nil
	}
	return append(make([]T, 0, len(list)), list...)
}
