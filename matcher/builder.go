// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

// Package matcher provides declarative matchers identifying methods by their
// owning type, their name and the shape of their parameter list.
//
// A matcher is configured through a [Builder], which requires at least one
// criterion for each of the three dimensions. Configuring a dimension more
// than once matches methods satisfying any of the configured criteria:
//
//	// Methods "a" or "b" of any type, without parameters.
//	matcher.Create().OfAnyType().Names("a", "b").WithoutParameters()
//
//	// Method "f" of any type, taking a single int or a single long.
//	matcher.Create().OfAnyType().Name("f").WithParameters("int").WithParameters("long")
//
// Independent matchers are combined with [Or] or [Union].
package matcher

import (
	"fmt"

	"github.com/DataDog/callmatch/internal/fingerprint"
	"github.com/DataDog/callmatch/semantic"
)

const pkgPath = "github.com/DataDog/callmatch/matcher"

// Matcher identifies a family of methods.
type Matcher interface {
	// Matches reports whether the invocation site matches. Sites whose symbol or
	// types cannot be resolved never match.
	Matches(Site) bool
	// MatchesSymbol reports whether the symbol matches, using its owner type.
	MatchesSymbol(semantic.Symbol) bool

	fmt.Stringer
}

// Builder accumulates matcher criteria. Builders are values: every
// configuration method returns an updated copy and leaves the receiver
// untouched, so partially configured builders can be shared and extended
// independently.
//
// The zero value is an empty builder.
type Builder struct {
	typ    TypeCriterion
	name   NameCriterion
	params ParameterCriterion
	err    *ConfigurationError
}

var _ Matcher = Builder{}

// Create returns an empty [Builder].
func Create() Builder {
	return Builder{}
}

// OfType matches methods of the named type, excluding its subtypes.
func (b Builder) OfType(qualifiedName string) Builder {
	return b.withType(exactType(qualifiedName))
}

// OfTypes matches methods of any of the named types, excluding their subtypes.
func (b Builder) OfTypes(qualifiedNames ...string) Builder {
	for _, name := range qualifiedNames {
		b = b.OfType(name)
	}
	return b
}

// OfSubType matches methods of the named type and its subtypes.
func (b Builder) OfSubType(qualifiedName string) Builder {
	return b.withType(subtypeOf(qualifiedName))
}

// OfSubTypes matches methods of any of the named types and their subtypes.
func (b Builder) OfSubTypes(qualifiedNames ...string) Builder {
	for _, name := range qualifiedNames {
		b = b.OfSubType(name)
	}
	return b
}

// OfAnyType matches methods of any type. It cannot be combined with other type
// criteria.
func (b Builder) OfAnyType() Builder {
	return b.withType(anyType{})
}

// OfTypeMatching matches methods whose type satisfies the predicate.
func (b Builder) OfTypeMatching(pred func(semantic.Type) bool) Builder {
	return b.withType(typeFunc(pred))
}

// Name matches methods with the given name.
func (b Builder) Name(name string) Builder {
	return b.withName(exactName(name))
}

// Names matches methods with any of the given names.
func (b Builder) Names(names ...string) Builder {
	for _, name := range names {
		b = b.Name(name)
	}
	return b
}

// AnyName matches methods with any name. It cannot be combined with other name
// criteria.
func (b Builder) AnyName() Builder {
	return b.withName(anyName{})
}

// StartWithName matches methods whose name starts with the prefix.
func (b Builder) StartWithName(prefix string) Builder {
	return b.withName(namePrefix(prefix))
}

// Constructor matches constructors.
func (b Builder) Constructor() Builder {
	return b.withName(exactName(ConstructorName))
}

// NameMatching matches methods whose name satisfies the predicate.
func (b Builder) NameMatching(pred func(string) bool) Builder {
	return b.withName(nameFunc(pred))
}

// WithoutParameters matches methods that have no parameters.
func (b Builder) WithoutParameters() Builder {
	return b.withParameters(shape{})
}

// WithParameters matches methods whose parameters are exactly of the named
// types, in order.
func (b Builder) WithParameters(qualifiedNames ...string) Builder {
	return b.withParameters(shape{positions: exactTypes(qualifiedNames)})
}

// WithParametersMatching matches methods having exactly one parameter per
// criterion, each satisfying the criterion at the same position.
func (b Builder) WithParametersMatching(criteria ...TypeCriterion) Builder {
	return b.withParameters(shape{positions: clone(criteria)})
}

// StartWithParameters matches methods whose leading parameters are exactly of
// the named types, in order. Any number of trailing parameters is accepted.
func (b Builder) StartWithParameters(qualifiedNames ...string) Builder {
	return b.withParameters(shape{positions: exactTypes(qualifiedNames), prefix: true})
}

// StartWithParametersMatching matches methods whose leading parameters satisfy
// the criteria at the same position.
func (b Builder) StartWithParametersMatching(criteria ...TypeCriterion) Builder {
	return b.withParameters(shape{positions: clone(criteria), prefix: true})
}

// WithParameterList matches methods whose parameter list satisfies the
// predicate.
func (b Builder) WithParameterList(pred func([]semantic.Type) bool) Builder {
	return b.withParameters(parametersFunc(pred))
}

// WithAnyParameters matches methods with any parameters. It cannot be combined
// with other parameter criteria.
func (b Builder) WithAnyParameters() Builder {
	return b.withParameters(anyParameters{})
}

func (b Builder) withType(c TypeCriterion) Builder {
	if b.err != nil {
		return b
	}
	if b.typ == nil {
		b.typ = c
		return b
	}
	if isAnyType(b.typ) || isAnyType(c) {
		b.err = conflict(DimensionType, "'any type' cannot be combined with other type criteria")
		return b
	}
	b.typ = appendUnion[TypeCriterion, typeUnion](b.typ, c)
	return b
}

func (b Builder) withName(c NameCriterion) Builder {
	if b.err != nil {
		return b
	}
	if b.name == nil {
		b.name = c
		return b
	}
	if isAnyName(b.name) || isAnyName(c) {
		b.err = conflict(DimensionName, "'any name' cannot be combined with other name criteria")
		return b
	}
	b.name = appendUnion[NameCriterion, nameUnion](b.name, c)
	return b
}

func (b Builder) withParameters(c ParameterCriterion) Builder {
	if b.err != nil {
		return b
	}
	if b.params == nil {
		b.params = c
		return b
	}
	if isAnyParameters(b.params) || isAnyParameters(c) {
		b.err = conflict(DimensionParameters, "'any parameters' cannot be combined with other parameter criteria")
		return b
	}
	b.params = appendUnion[ParameterCriterion, parametersUnion](b.params, c)
	return b
}

// appendUnion returns a new union made of the current criteria followed by
// next. The current union's backing array is never written to.
func appendUnion[C any, U ~[]C](current C, next C) C {
	var list U
	if u, ok := any(current).(U); ok {
		list = make(U, 0, len(u)+1)
		list = append(list, u...)
	} else {
		list = U{current}
	}
	return any(append(list, next)).(C)
}

func isAnyType(c TypeCriterion) bool {
	_, ok := c.(anyType)
	return ok
}

func isAnyName(c NameCriterion) bool {
	_, ok := c.(anyName)
	return ok
}

func isAnyParameters(c ParameterCriterion) bool {
	_, ok := c.(anyParameters)
	return ok
}

func exactTypes(names []string) []TypeCriterion {
	if len(names) == 0 {
		return nil
	}
	res := make([]TypeCriterion, len(names))
	for i, name := range names {
		res[i] = exactType(name)
	}
	return res
}

// Missing returns the dimensions that have not been configured yet.
func (b Builder) Missing() []Dimension {
	var missing []Dimension
	if b.typ == nil {
		missing = append(missing, DimensionType)
	}
	if b.name == nil {
		missing = append(missing, DimensionName)
	}
	if b.params == nil {
		missing = append(missing, DimensionParameters)
	}
	return missing
}

// Build returns the [Spec] configured by this builder. It returns a
// [*ConfigurationError] if conflicting criteria were configured, or if any
// dimension is missing.
func (b Builder) Build() (*Spec, error) {
	if b.err != nil {
		return nil, b.err
	}
	if missing := b.Missing(); len(missing) > 0 {
		return nil, &ConfigurationError{Missing: missing}
	}
	return &Spec{typ: b.typ, name: b.name, params: b.params}, nil
}

// MustBuild is the same as [Builder.Build], except it panics in case of an
// error.
func (b Builder) MustBuild() *Spec {
	spec, err := b.Build()
	if err != nil {
		panic(err)
	}
	return spec
}

// Matches builds the matcher and evaluates it against the site. It panics with
// a [*ConfigurationError] if the builder is not usable.
func (b Builder) Matches(site Site) bool {
	return b.MustBuild().Matches(site)
}

// MatchesSymbol builds the matcher and evaluates it against the symbol. It
// panics with a [*ConfigurationError] if the builder is not usable.
func (b Builder) MatchesSymbol(sym semantic.Symbol) bool {
	return b.MustBuild().MatchesSymbol(sym)
}

func (b Builder) String() string {
	if b.err != nil {
		return "<invalid: " + b.err.Error() + ">"
	}
	return format(b.typ, b.name, b.params)
}

// Spec is a fully configured, immutable method matcher. It is safe for
// concurrent use.
type Spec struct {
	typ    TypeCriterion
	name   NameCriterion
	params ParameterCriterion
}

var _ Matcher = (*Spec)(nil)

func (s *Spec) Matches(site Site) bool {
	if site == nil {
		return false
	}
	r, ok := site.resolve()
	return ok && s.matches(&r)
}

func (s *Spec) MatchesSymbol(sym semantic.Symbol) bool {
	r, ok := fromSymbol(sym)
	return ok && s.matches(&r)
}

func (s *Spec) matches(r *resolved) bool {
	typ := r.matchType()
	if typ == nil {
		return false
	}
	return s.name.MatchesName(r.name) &&
		s.params.MatchesParameters(r.params) &&
		s.typ.MatchesType(typ)
}

// TypeCriterion returns the type criterion of this matcher.
func (s *Spec) TypeCriterion() TypeCriterion { return s.typ }

// NameCriterion returns the name criterion of this matcher.
func (s *Spec) NameCriterion() NameCriterion { return s.name }

// ParameterCriterion returns the parameter criterion of this matcher.
func (s *Spec) ParameterCriterion() ParameterCriterion { return s.params }

func (s *Spec) String() string {
	return format(s.typ, s.name, s.params)
}

func (s *Spec) Hash(h *fingerprint.Hasher) error {
	return h.Named("method-matcher", s.typ, s.name, s.params)
}

func format(typ TypeCriterion, name NameCriterion, params ParameterCriterion) string {
	str := func(s fmt.Stringer) string {
		if s == nil {
			return "?"
		}
		return s.String()
	}
	var p string
	if params == nil {
		p = "(?)"
	} else {
		p = params.String()
	}
	return fmt.Sprintf("%s#%s%s", str(typ), str(name), p)
}
