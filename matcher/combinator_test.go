// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package matcher_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DataDog/callmatch/matcher"
	"github.com/DataDog/callmatch/semantic"
	"github.com/DataDog/callmatch/semantic/semantictest"
)

// counting wraps a matcher and records how many times it was evaluated.
type counting struct {
	matcher.Matcher
	calls int
}

func (c *counting) Matches(site matcher.Site) bool {
	c.calls++
	return c.Matcher.Matches(site)
}

func (c *counting) MatchesSymbol(sym semantic.Symbol) bool {
	c.calls++
	return c.Matcher.MatchesSymbol(sym)
}

func TestUnionIsCommutative(t *testing.T) {
	matchers := []matcher.Matcher{
		matcher.Create().OfType("java.lang.String").Name("getBytes").WithoutParameters(),
		matcher.Create().OfSubType("java.io.File").StartWithName("is").WithoutParameters(),
		matcher.Create().OfAnyType().Name("f").StartWithParameters("int"),
		matcher.Create().OfSubType("java.lang.Object").AnyName().WithAnyParameters(),
		matcher.Empty(),
	}
	sites := []matcher.Site{
		call(str, "getBytes"),
		call(str, "getBytes", str),
		call(file, "isHidden"),
		call(tempFile, "isDirectory"),
		call(unrelated, "f", intType, longType),
		call(intType, "f", intType),
		call(intType, "g"),
		&matcher.ConstructorCall{Constructor: semantictest.NewMethod(file, "File", str)},
		&matcher.MethodCall{},
	}

	for i, m1 := range matchers {
		for j, m2 := range matchers {
			u12 := matcher.Or(m1, m2)
			u21 := matcher.Or(m2, m1)
			for _, site := range sites {
				assert.Equal(t, u12.Matches(site), u21.Matches(site), "union(%d, %d) vs union(%d, %d) on %#v", i, j, j, i, site)
				assert.Equal(t, m1.Matches(site) || m2.Matches(site), u12.Matches(site))
			}
		}
	}
}

func TestUnionShortCircuits(t *testing.T) {
	first := &counting{Matcher: matcher.Create().OfAnyType().Name("a").WithAnyParameters().MustBuild()}
	second := &counting{Matcher: matcher.Create().OfAnyType().Name("b").WithAnyParameters().MustBuild()}
	list := matcher.Or(first, second)

	assert.True(t, list.Matches(call(str, "a")))
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls)

	assert.True(t, list.Matches(call(str, "b")))
	assert.Equal(t, 2, first.calls)
	assert.Equal(t, 1, second.calls)

	assert.False(t, list.MatchesSymbol(semantictest.NewMethod(str, "c")))
	assert.Equal(t, 3, first.calls)
	assert.Equal(t, 2, second.calls)
}

func TestEmpty(t *testing.T) {
	union, err := matcher.Union()
	require.NoError(t, err)

	for name, m := range map[string]*matcher.List{
		"Empty":   matcher.Empty(),
		"Or()":    matcher.Or(),
		"Union()": union,
	} {
		t.Run(name, func(t *testing.T) {
			assert.Zero(t, m.Len())
			assert.False(t, m.Matches(call(str, "a")))
			assert.False(t, m.MatchesSymbol(semantictest.NewMethod(str, "a")))
			assert.Equal(t, "none", m.String())
		})
	}
}

func TestUnionFreezesBuilders(t *testing.T) {
	b := matcher.Create().OfType("java.lang.String").Name("a").WithoutParameters()
	list, err := matcher.Union(b, &b)
	require.NoError(t, err)

	for _, member := range list.Members() {
		_, isSpec := member.(*matcher.Spec)
		assert.True(t, isSpec, "member %T should be a *matcher.Spec", member)
	}

	// Nested lists are kept as-is.
	nested, err := matcher.Union(list, matcher.Create().OfAnyType().Name("b").WithoutParameters())
	require.NoError(t, err)
	require.Equal(t, 2, nested.Len())
	assert.Same(t, list, nested.Members()[0])
	assert.True(t, nested.Matches(call(str, "a")))
	assert.True(t, nested.Matches(call(intType, "b")))
	assert.False(t, nested.Matches(call(intType, "a")))
	assert.Equal(t, "any of [any of [java.lang.String#a(), java.lang.String#a()], any#b()]", nested.String())

	// Members cannot be altered through the returned slice.
	members := nested.Members()
	members[0] = matcher.Empty()
	assert.Same(t, list, nested.Members()[0])
}

func TestUnionErrors(t *testing.T) {
	complete := matcher.Create().OfAnyType().Name("a").WithoutParameters()

	_, err := matcher.Union(complete, matcher.Create().OfAnyType())
	var cfgErr *matcher.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, []matcher.Dimension{matcher.DimensionName, matcher.DimensionParameters}, cfgErr.Missing)

	_, err = matcher.Union(complete, matcher.Create().OfAnyType().OfType("A").Name("a").WithoutParameters())
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, matcher.DimensionType, cfgErr.Dimension)

	_, err = matcher.Union(complete, nil)
	require.EqualError(t, err, "invalid method matcher configuration: member 1 of union is nil")

	require.Panics(t, func() { matcher.Or(complete, matcher.Create()) })
}

func TestUnionRejectsTypedNil(t *testing.T) {
	complete := matcher.Create().OfAnyType().Name("a").WithoutParameters()

	for name, member := range map[string]matcher.Matcher{
		"builder": (*matcher.Builder)(nil),
		"spec":    (*matcher.Spec)(nil),
		"list":    (*matcher.List)(nil),
	} {
		t.Run(name, func(t *testing.T) {
			var list *matcher.List
			var err error
			require.NotPanics(t, func() { list, err = matcher.Union(complete, member) })
			require.EqualError(t, err, "invalid method matcher configuration: member 1 of union is nil")
			assert.Nil(t, list)
		})
	}
}
