// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package matcher

import (
	"fmt"

	"github.com/dave/jennifer/jen"
)

// CodeGenerator is implemented by matchers that can be rendered as Go code
// re-creating them.
type CodeGenerator interface {
	AsCode() (jen.Code, error)
}

var (
	_ CodeGenerator = (*Spec)(nil)
	_ CodeGenerator = (*List)(nil)
)

// AsCode renders the builder calls that produce this matcher. It fails if any
// of the criteria is a custom predicate.
func (s *Spec) AsCode() (jen.Code, error) {
	stmt := jen.Qual(pkgPath, "Create").Call()

	var err error
	if stmt, err = s.typ.builderCode(stmt); err != nil {
		return nil, fmt.Errorf("type criteria: %w", err)
	}
	if stmt, err = s.name.builderCode(stmt); err != nil {
		return nil, fmt.Errorf("name criteria: %w", err)
	}
	if stmt, err = s.params.builderCode(stmt); err != nil {
		return nil, fmt.Errorf("parameter criteria: %w", err)
	}

	return stmt.Dot("MustBuild").Call(), nil
}

func (l *List) AsCode() (jen.Code, error) {
	if len(l.members) == 0 {
		return jen.Qual(pkgPath, "Empty").Call(), nil
	}

	members := make([]jen.Code, len(l.members))
	for i, m := range l.members {
		gen, ok := m.(CodeGenerator)
		if !ok {
			return nil, fmt.Errorf("member %d (%T) cannot be rendered as code", i, m)
		}
		code, err := gen.AsCode()
		if err != nil {
			return nil, fmt.Errorf("member %d: %w", i, err)
		}
		members[i] = jen.Line().Add(code)
	}
	return jen.Qual(pkgPath, "Or").Call(append(members, jen.Line())...), nil
}
