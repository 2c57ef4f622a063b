// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package rules

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/dave/jennifer/jen"

	"github.com/DataDog/callmatch/matcher"
)

const matcherPkg = "github.com/DataDog/callmatch/matcher"

// Generate renders a Go source file declaring one exported matcher variable per
// rule of the set. Rules restricted to some site kinds also get a variable
// listing these kinds, named after the matcher with a "Kinds" suffix. Rules
// using custom predicates cannot be rendered.
func Generate(rs *RuleSet, pkgName string) (*jen.File, error) {
	file := jen.NewFile(pkgName)
	file.HeaderComment("// Code generated by callmatch generate. DO NOT EDIT.\n")
	file.ImportName(matcherPkg, "matcher")

	declared := make(map[string]string, rs.Len())
	declare := func(ident string, id string) error {
		if other, dup := declared[ident]; dup {
			return fmt.Errorf("rules %q and %q both map to identifier %s", other, id, ident)
		}
		declared[ident] = id
		return nil
	}
	for _, rule := range rs.Rules {
		ident := Identifier(rule.ID)
		if err := declare(ident, rule.ID); err != nil {
			return nil, err
		}
		if len(rule.Kinds) > 0 {
			if err := declare(ident+"Kinds", rule.ID); err != nil {
				return nil, err
			}
		}

		gen, ok := rule.Matcher.(matcher.CodeGenerator)
		if !ok {
			return nil, fmt.Errorf("rule %q: matcher %T cannot be rendered as code", rule.ID, rule.Matcher)
		}
		code, err := gen.AsCode()
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", rule.ID, err)
		}

		if rule.Message == "" {
			file.Commentf("%s matches the sites of rule %q.", ident, rule.ID)
		} else {
			file.Commentf("%s matches the sites of rule %q: %s", ident, rule.ID, rule.Message)
		}
		if len(rule.Kinds) > 0 {
			names := make([]string, len(rule.Kinds))
			for i, kind := range rule.Kinds {
				names[i] = kind.String()
			}
			file.Commentf("Only %s sites are reported, see %sKinds.", strings.Join(names, ", "), ident)
		}
		file.Var().Id(ident).Qual(matcherPkg, "Matcher").Op("=").Add(code)
		file.Line()

		if len(rule.Kinds) > 0 {
			kinds := make([]jen.Code, len(rule.Kinds))
			for i, kind := range rule.Kinds {
				kinds[i] = jen.Qual(matcherPkg, "Kind"+Identifier(kind.String()))
			}
			file.Commentf("%sKinds lists the site kinds rule %q applies to.", ident, rule.ID)
			file.Var().Id(ident+"Kinds").Op("=").Index().Qual(matcherPkg, "SiteKind").Values(kinds...)
			file.Line()
		}
	}

	return file, nil
}

// Identifier turns a rule ID into an exported Go identifier, such as
// "string-getbytes" into "StringGetbytes".
func Identifier(id string) string {
	var sb strings.Builder
	upper := true
	for _, r := range id {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if sb.Len() == 0 && unicode.IsDigit(r) {
			sb.WriteString("Rule")
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		sb.WriteRune(r)
	}
	if sb.Len() == 0 {
		return "Rule"
	}
	return sb.String()
}
