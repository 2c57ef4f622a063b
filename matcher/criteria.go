// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package matcher

import (
	"errors"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/DataDog/callmatch/internal/fingerprint"
	"github.com/DataDog/callmatch/semantic"
)

// ConstructorName is the name constructors are matched by.
const ConstructorName = "<init>"

var errCustomPredicate = errors.New("custom predicates cannot be fingerprinted or rendered as code")

type (
	// TypeCriterion is a predicate over a [semantic.Type].
	TypeCriterion interface {
		MatchesType(semantic.Type) bool
		String() string
		fingerprint.Hashable

		// builderCode appends the builder calls that configure this criterion.
		builderCode(*jen.Statement) (*jen.Statement, error)
		// valueCode renders this criterion as a value.
		valueCode() (jen.Code, error)
	}

	// NameCriterion is a predicate over a method name.
	NameCriterion interface {
		MatchesName(string) bool
		String() string
		fingerprint.Hashable

		builderCode(*jen.Statement) (*jen.Statement, error)
	}
)

type (
	anyType   struct{}
	exactType string
	subtypeOf string
	typeFunc  func(semantic.Type) bool
	typeUnion []TypeCriterion
)

// AnyType matches every type.
func AnyType() TypeCriterion { return anyType{} }

// ExactType matches the type with the given qualified name, but not its
// subtypes.
func ExactType(qualifiedName string) TypeCriterion { return exactType(qualifiedName) }

// SubtypeOf matches the type with the given qualified name and all its
// subtypes.
func SubtypeOf(qualifiedName string) TypeCriterion { return subtypeOf(qualifiedName) }

// TypeMatching matches types satisfying the provided predicate.
func TypeMatching(pred func(semantic.Type) bool) TypeCriterion { return typeFunc(pred) }

// OneOfTypes matches types satisfying any of the provided criteria.
func OneOfTypes(criteria ...TypeCriterion) TypeCriterion {
	if len(criteria) == 1 {
		return criteria[0]
	}
	return typeUnion(append([]TypeCriterion(nil), criteria...))
}

func (anyType) MatchesType(semantic.Type) bool { return true }
func (anyType) String() string                 { return "any" }
func (anyType) Hash(h *fingerprint.Hasher) error {
	return h.Named("any-type")
}

func (anyType) builderCode(s *jen.Statement) (*jen.Statement, error) {
	return s.Dot("OfAnyType").Call(), nil
}

func (anyType) valueCode() (jen.Code, error) {
	return jen.Qual(pkgPath, "AnyType").Call(), nil
}

func (t exactType) MatchesType(typ semantic.Type) bool { return typ.Is(string(t)) }
func (t exactType) String() string                     { return string(t) }
func (t exactType) Hash(h *fingerprint.Hasher) error {
	return h.Named("exact-type", fingerprint.String(t))
}

func (t exactType) builderCode(s *jen.Statement) (*jen.Statement, error) {
	return s.Dot("OfType").Call(jen.Lit(string(t))), nil
}

func (t exactType) valueCode() (jen.Code, error) {
	return jen.Qual(pkgPath, "ExactType").Call(jen.Lit(string(t))), nil
}

func (t subtypeOf) MatchesType(typ semantic.Type) bool { return typ.IsSubtypeOf(string(t)) }
func (t subtypeOf) String() string                     { return "subtype(" + string(t) + ")" }
func (t subtypeOf) Hash(h *fingerprint.Hasher) error {
	return h.Named("subtype-of", fingerprint.String(t))
}

func (t subtypeOf) builderCode(s *jen.Statement) (*jen.Statement, error) {
	return s.Dot("OfSubType").Call(jen.Lit(string(t))), nil
}

func (t subtypeOf) valueCode() (jen.Code, error) {
	return jen.Qual(pkgPath, "SubtypeOf").Call(jen.Lit(string(t))), nil
}

func (f typeFunc) MatchesType(typ semantic.Type) bool { return f(typ) }
func (typeFunc) String() string                       { return "custom" }
func (typeFunc) Hash(*fingerprint.Hasher) error       { return errCustomPredicate }
func (typeFunc) valueCode() (jen.Code, error)         { return nil, errCustomPredicate }
func (typeFunc) builderCode(*jen.Statement) (*jen.Statement, error) {
	return nil, errCustomPredicate
}

func (u typeUnion) MatchesType(typ semantic.Type) bool {
	for _, c := range u {
		if c.MatchesType(typ) {
			return true
		}
	}
	return false
}

func (u typeUnion) String() string {
	return joinCriteria(u)
}

func (u typeUnion) Hash(h *fingerprint.Hasher) error {
	return h.Named("type-union", fingerprint.List[TypeCriterion](u))
}

func (u typeUnion) builderCode(s *jen.Statement) (*jen.Statement, error) {
	var err error
	for _, c := range u {
		if s, err = c.builderCode(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (u typeUnion) valueCode() (jen.Code, error) {
	values := make([]jen.Code, len(u))
	for i, c := range u {
		var err error
		if values[i], err = c.valueCode(); err != nil {
			return nil, err
		}
	}
	return jen.Qual(pkgPath, "OneOfTypes").Call(values...), nil
}

type (
	anyName    struct{}
	exactName  string
	namePrefix string
	nameFunc   func(string) bool
	nameUnion  []NameCriterion
)

// AnyName matches every method name.
func AnyName() NameCriterion { return anyName{} }

// ExactName matches the given method name.
func ExactName(name string) NameCriterion { return exactName(name) }

// NamePrefix matches method names starting with the given prefix.
func NamePrefix(prefix string) NameCriterion { return namePrefix(prefix) }

// NameMatching matches method names satisfying the provided predicate.
func NameMatching(pred func(string) bool) NameCriterion { return nameFunc(pred) }

func (anyName) MatchesName(string) bool { return true }
func (anyName) String() string          { return "*" }
func (anyName) Hash(h *fingerprint.Hasher) error {
	return h.Named("any-name")
}

func (anyName) builderCode(s *jen.Statement) (*jen.Statement, error) {
	return s.Dot("AnyName").Call(), nil
}

func (n exactName) MatchesName(name string) bool { return name == string(n) }
func (n exactName) String() string               { return string(n) }
func (n exactName) Hash(h *fingerprint.Hasher) error {
	return h.Named("exact-name", fingerprint.String(n))
}

func (n exactName) builderCode(s *jen.Statement) (*jen.Statement, error) {
	if n == ConstructorName {
		return s.Dot("Constructor").Call(), nil
	}
	return s.Dot("Name").Call(jen.Lit(string(n))), nil
}

func (n namePrefix) MatchesName(name string) bool { return strings.HasPrefix(name, string(n)) }
func (n namePrefix) String() string               { return string(n) + "*" }
func (n namePrefix) Hash(h *fingerprint.Hasher) error {
	return h.Named("name-prefix", fingerprint.String(n))
}

func (n namePrefix) builderCode(s *jen.Statement) (*jen.Statement, error) {
	return s.Dot("StartWithName").Call(jen.Lit(string(n))), nil
}

func (f nameFunc) MatchesName(name string) bool { return f(name) }
func (nameFunc) String() string                 { return "custom" }
func (nameFunc) Hash(*fingerprint.Hasher) error { return errCustomPredicate }
func (nameFunc) builderCode(*jen.Statement) (*jen.Statement, error) {
	return nil, errCustomPredicate
}

func (u nameUnion) MatchesName(name string) bool {
	for _, c := range u {
		if c.MatchesName(name) {
			return true
		}
	}
	return false
}

func (u nameUnion) String() string {
	return joinCriteria(u)
}

func (u nameUnion) Hash(h *fingerprint.Hasher) error {
	return h.Named("name-union", fingerprint.List[NameCriterion](u))
}

func (u nameUnion) builderCode(s *jen.Statement) (*jen.Statement, error) {
	var err error
	for _, c := range u {
		if s, err = c.builderCode(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func joinCriteria[T interface{ String() string }](list []T) string {
	var buf strings.Builder
	buf.WriteByte('{')
	for i, c := range list {
		if i > 0 {
			buf.WriteString(" | ")
		}
		buf.WriteString(c.String())
	}
	buf.WriteByte('}')
	return buf.String()
}
