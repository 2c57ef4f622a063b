// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package rules

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml/ast"

	"github.com/DataDog/callmatch/internal/yaml"
	"github.com/DataDog/callmatch/matcher"
)

func (rs *RuleSet) UnmarshalYAML(ctx context.Context, node ast.Node) error {
	var raw struct {
		Rules []*Rule `yaml:"rules"`
	}
	if err := yaml.NodeToValueContext(ctx, node, &raw); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(raw.Rules))
	for _, r := range raw.Rules {
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("duplicate rule id %q", r.ID)
		}
		seen[r.ID] = struct{}{}
	}

	rs.Rules = raw.Rules
	return nil
}

func (r *Rule) UnmarshalYAML(ctx context.Context, node ast.Node) error {
	var raw struct {
		ID      string   `yaml:"id"`
		Message string   `yaml:"message"`
		Kinds   []string `yaml:"kinds"`
		Match   ast.Node `yaml:"match"`
	}
	if err := yaml.NodeToValueContext(ctx, node, &raw); err != nil {
		return err
	}

	if raw.ID == "" {
		return errors.New("missing required key 'id'")
	}
	if raw.Match == nil {
		return fmt.Errorf("rule %q: missing required key 'match'", raw.ID)
	}

	r.ID = raw.ID
	r.Message = raw.Message
	r.Kinds = nil
	for _, name := range raw.Kinds {
		kind, ok := matcher.SiteKindNamed(name)
		if !ok {
			return fmt.Errorf("rule %q: unknown site kind %q", raw.ID, name)
		}
		r.Kinds = append(r.Kinds, kind)
	}

	m, err := matcherFromYAML(ctx, raw.Match)
	if err != nil {
		return fmt.Errorf("rule %q: %w", raw.ID, err)
	}
	r.Matcher = m
	return nil
}

// matcherFromYAML decodes either a `one-of` list of matchers, or a single
// matcher made of its type, name and parameters criteria.
func matcherFromYAML(ctx context.Context, node ast.Node) (matcher.Matcher, error) {
	if key, value, err := yaml.Singleton(ctx, node); err == nil && key == "one-of" {
		var nodes []ast.Node
		if err := yaml.NodeToValueContext(ctx, value, &nodes); err != nil {
			return nil, err
		}
		members := make([]matcher.Matcher, len(nodes))
		for i, n := range nodes {
			if members[i], err = matcherFromYAML(ctx, n); err != nil {
				return nil, fmt.Errorf("one-of[%d]: %w", i, err)
			}
		}
		return matcher.Union(members...)
	}

	var raw struct {
		Type       ast.Node `yaml:"type"`
		Name       ast.Node `yaml:"name"`
		Parameters ast.Node `yaml:"parameters"`
	}
	if err := yaml.NodeToValueContext(ctx, node, &raw); err != nil {
		return nil, err
	}

	b := matcher.Create()
	for _, dim := range []struct {
		key    string
		node   ast.Node
		decode func(context.Context, ast.Node, matcher.Builder) (matcher.Builder, error)
	}{
		{"type", raw.Type, typesFromYAML},
		{"name", raw.Name, namesFromYAML},
		{"parameters", raw.Parameters, parametersFromYAML},
	} {
		if dim.node == nil {
			continue
		}
		var err error
		if b, err = dim.decode(ctx, dim.node, b); err != nil {
			return nil, fmt.Errorf("%s: %w", dim.key, err)
		}
	}

	return b.Build()
}

// eachItem calls fn with every item of a sequence node, or with the node itself
// if it is not a sequence.
func eachItem(ctx context.Context, node ast.Node, fn func(ast.Node) error) error {
	seq, ok := node.(*ast.SequenceNode)
	if !ok {
		return fn(node)
	}
	var items []ast.Node
	if err := yaml.NodeToValueContext(ctx, seq, &items); err != nil {
		return err
	}
	for i, item := range items {
		if err := fn(item); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
	}
	return nil
}

// typeRef is a single type criterion.
type typeRef struct {
	kind string
	name string
}

type typeRefFn func(ctx context.Context, value ast.Node) (typeRef, error)

var typeRefs = map[string]typeRefFn{
	"exact":   namedTypeRef("exact"),
	"subtype": namedTypeRef("subtype"),
	"any":     flagRef(typeRef{kind: "any"}),
}

func namedTypeRef(kind string) typeRefFn {
	return func(ctx context.Context, value ast.Node) (typeRef, error) {
		var name string
		if err := yaml.NodeToValueContext(ctx, value, &name); err != nil {
			return typeRef{}, err
		}
		if name == "" {
			return typeRef{}, fmt.Errorf("empty %s type name", kind)
		}
		return typeRef{kind: kind, name: name}, nil
	}
}

// flagRef decodes `key: true` forms, which only accept true.
func flagRef[T any](ref T) func(context.Context, ast.Node) (T, error) {
	return func(ctx context.Context, value ast.Node) (T, error) {
		var flag bool
		if err := yaml.NodeToValueContext(ctx, value, &flag); err != nil {
			return ref, err
		}
		if !flag {
			var zero T
			return zero, errors.New("only `true` is allowed")
		}
		return ref, nil
	}
}

func typeRefFromYAML(ctx context.Context, node ast.Node) (typeRef, error) {
	key, value, err := yaml.Singleton(ctx, node)
	if err != nil {
		// A plain string is an exact type name.
		var name string
		if err := yaml.NodeToValueContext(ctx, node, &name); err != nil {
			return typeRef{}, err
		}
		return typeRef{kind: "exact", name: name}, nil
	}

	fn, found := typeRefs[key]
	if !found {
		return typeRef{}, fmt.Errorf("line %d: unknown type criterion %q", node.GetToken().Position.Line, key)
	}
	return fn(ctx, value)
}

func (t typeRef) apply(b matcher.Builder) matcher.Builder {
	switch t.kind {
	case "subtype":
		return b.OfSubType(t.name)
	case "any":
		return b.OfAnyType()
	default:
		return b.OfType(t.name)
	}
}

func (t typeRef) criterion() matcher.TypeCriterion {
	switch t.kind {
	case "subtype":
		return matcher.SubtypeOf(t.name)
	case "any":
		return matcher.AnyType()
	default:
		return matcher.ExactType(t.name)
	}
}

func typesFromYAML(ctx context.Context, node ast.Node, b matcher.Builder) (matcher.Builder, error) {
	err := eachItem(ctx, node, func(item ast.Node) error {
		ref, err := typeRefFromYAML(ctx, item)
		if err != nil {
			return err
		}
		b = ref.apply(b)
		return nil
	})
	return b, err
}

type nameFn func(ctx context.Context, value ast.Node, b matcher.Builder) (matcher.Builder, error)

var names = map[string]nameFn{
	"exact": func(ctx context.Context, value ast.Node, b matcher.Builder) (matcher.Builder, error) {
		var name string
		err := yaml.NodeToValueContext(ctx, value, &name)
		return b.Name(name), err
	},
	"prefix": func(ctx context.Context, value ast.Node, b matcher.Builder) (matcher.Builder, error) {
		var prefix string
		err := yaml.NodeToValueContext(ctx, value, &prefix)
		return b.StartWithName(prefix), err
	},
	"any": func(ctx context.Context, value ast.Node, b matcher.Builder) (matcher.Builder, error) {
		_, err := flagRef(struct{}{})(ctx, value)
		return b.AnyName(), err
	},
	"constructor": func(ctx context.Context, value ast.Node, b matcher.Builder) (matcher.Builder, error) {
		_, err := flagRef(struct{}{})(ctx, value)
		return b.Constructor(), err
	},
}

func namesFromYAML(ctx context.Context, node ast.Node, b matcher.Builder) (matcher.Builder, error) {
	err := eachItem(ctx, node, func(item ast.Node) error {
		key, value, err := yaml.Singleton(ctx, item)
		if err != nil {
			var name string
			if err := yaml.NodeToValueContext(ctx, item, &name); err != nil {
				return err
			}
			b = b.Name(name)
			return nil
		}

		fn, found := names[key]
		if !found {
			return fmt.Errorf("line %d: unknown name criterion %q", item.GetToken().Position.Line, key)
		}
		b, err = fn(ctx, value, b)
		return err
	})
	return b, err
}

type shapeFn func(ctx context.Context, value ast.Node, b matcher.Builder) (matcher.Builder, error)

var shapes = map[string]shapeFn{
	"exact":  shapeOf(matcher.Builder.WithParameters, matcher.Builder.WithParametersMatching),
	"prefix": shapeOf(matcher.Builder.StartWithParameters, matcher.Builder.StartWithParametersMatching),
}

// shapeOf decodes a list of positional type criteria. Positions that are all
// exact type names use the names variant of the builder method.
func shapeOf(
	byName func(matcher.Builder, ...string) matcher.Builder,
	byCriteria func(matcher.Builder, ...matcher.TypeCriterion) matcher.Builder,
) shapeFn {
	return func(ctx context.Context, value ast.Node, b matcher.Builder) (matcher.Builder, error) {
		var positions []ast.Node
		if err := yaml.NodeToValueContext(ctx, value, &positions); err != nil {
			return b, err
		}

		criteria := make([]matcher.TypeCriterion, len(positions))
		names := make([]string, len(positions))
		allNames := true
		for i, pos := range positions {
			var refs []typeRef
			err := eachItem(ctx, pos, func(item ast.Node) error {
				ref, err := typeRefFromYAML(ctx, item)
				refs = append(refs, ref)
				return err
			})
			if err != nil {
				return b, fmt.Errorf("position %d: %w", i, err)
			}

			if len(refs) == 1 && refs[0].kind == "exact" {
				names[i] = refs[0].name
			} else {
				allNames = false
			}
			list := make([]matcher.TypeCriterion, len(refs))
			for j, ref := range refs {
				list[j] = ref.criterion()
			}
			criteria[i] = matcher.OneOfTypes(list...)
		}

		if allNames {
			return byName(b, names...), nil
		}
		return byCriteria(b, criteria...), nil
	}
}

func parametersFromYAML(ctx context.Context, node ast.Node, b matcher.Builder) (matcher.Builder, error) {
	err := eachItem(ctx, node, func(item ast.Node) error {
		key, value, err := yaml.Singleton(ctx, item)
		if err != nil {
			var keyword string
			if err := yaml.NodeToValueContext(ctx, item, &keyword); err != nil {
				return err
			}
			switch keyword {
			case "none":
				b = b.WithoutParameters()
			case "any":
				b = b.WithAnyParameters()
			default:
				return fmt.Errorf("unknown parameters keyword %q (expected none or any)", keyword)
			}
			return nil
		}

		fn, found := shapes[key]
		if !found {
			return fmt.Errorf("line %d: unknown parameters criterion %q", item.GetToken().Position.Line, key)
		}
		b, err = fn(ctx, value, b)
		return err
	})
	return b, err
}
