// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package matcher_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DataDog/callmatch/internal/fingerprint"
	"github.com/DataDog/callmatch/matcher"
	"github.com/DataDog/callmatch/semantic"
)

func TestAsCode(t *testing.T) {
	tests := []struct {
		name     string
		matcher  matcher.CodeGenerator
		expected string
	}{
		{
			name:     "simple",
			matcher:  matcher.Create().OfType("java.lang.String").Name("getBytes").WithoutParameters().MustBuild(),
			expected: `matcher.Create().OfType("java.lang.String").Name("getBytes").WithoutParameters().MustBuild()`,
		},
		{
			name:     "unions",
			matcher:  matcher.Create().OfTypes("A", "B").Names("a", "b").WithParameters("int").StartWithParameters("long").MustBuild(),
			expected: `matcher.Create().OfType("A").OfType("B").Name("a").Name("b").WithParameters("int").StartWithParameters("long").MustBuild()`,
		},
		{
			name:     "wildcards",
			matcher:  matcher.Create().OfAnyType().AnyName().WithAnyParameters().MustBuild(),
			expected: `matcher.Create().OfAnyType().AnyName().WithAnyParameters().MustBuild()`,
		},
		{
			name:     "constructor",
			matcher:  matcher.Create().OfSubType("java.io.File").Constructor().StartWithParameters().MustBuild(),
			expected: `matcher.Create().OfSubType("java.io.File").Constructor().StartWithParameters().MustBuild()`,
		},
		{
			name:     "parameter-criteria",
			matcher:  matcher.Create().OfAnyType().StartWithName("is").WithParametersMatching(matcher.SubtypeOf("A"), matcher.AnyType()).MustBuild(),
			expected: `matcher.Create().OfAnyType().StartWithName("is").WithParametersMatching(matcher.SubtypeOf("A"), matcher.AnyType()).MustBuild()`,
		},
		{
			name:     "empty",
			matcher:  matcher.Empty(),
			expected: `matcher.Empty()`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, err := tc.matcher.AsCode()
			require.NoError(t, err)
			assert.Equal(t, tc.expected, fmt.Sprintf("%#v", code))
		})
	}
}

func TestAsCodeCustomPredicate(t *testing.T) {
	m := matcher.Create().OfAnyType().NameMatching(func(string) bool { return true }).WithoutParameters().MustBuild()
	_, err := m.AsCode()
	require.EqualError(t, err, "name criteria: custom predicates cannot be fingerprinted or rendered as code")

	list := matcher.Or(matcher.Create().OfAnyType().Name("a").WithoutParameters(), m)
	_, err = list.AsCode()
	require.EqualError(t, err, "member 1: name criteria: custom predicates cannot be fingerprinted or rendered as code")
}

func TestFingerprint(t *testing.T) {
	build := func(b matcher.Builder) fingerprint.Hashable { return b.MustBuild() }
	hash := func(t *testing.T, h fingerprint.Hashable) string {
		t.Helper()
		res, err := fingerprint.Fingerprint(h)
		require.NoError(t, err)
		return res
	}

	a := build(matcher.Create().OfType("A").Name("f").WithoutParameters())
	assert.Equal(t, hash(t, a), hash(t, build(matcher.Create().OfType("A").Name("f").WithoutParameters())))

	for name, other := range map[string]fingerprint.Hashable{
		"type":       build(matcher.Create().OfSubType("A").Name("f").WithoutParameters()),
		"name":       build(matcher.Create().OfType("A").StartWithName("f").WithoutParameters()),
		"parameters": build(matcher.Create().OfType("A").Name("f").StartWithParameters()),
		"union":      build(matcher.Create().OfType("A").Name("f").Name("g").WithoutParameters()),
		"list":       matcher.Or(a.(matcher.Matcher)),
	} {
		t.Run(name, func(t *testing.T) {
			assert.NotEqual(t, hash(t, a), hash(t, other))
		})
	}

	custom := matcher.Create().OfTypeMatching(func(semantic.Type) bool { return true }).Name("f").WithoutParameters().MustBuild()
	_, err := fingerprint.Fingerprint(custom)
	require.Error(t, err)
}
