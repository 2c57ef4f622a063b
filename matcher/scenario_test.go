// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package matcher_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DataDog/callmatch/matcher"
	"github.com/DataDog/callmatch/semantic/semantictest"
)

func TestStringGetBytes(t *testing.T) {
	m := matcher.Create().
		OfType("java.lang.String").
		Name("getBytes").
		WithoutParameters().
		MustBuild()

	charsetName := semantictest.NewMethod(str, "getBytes", str)
	buffer := semantictest.NewType("com.example.Buffer", object)

	tests := []struct {
		name     string
		site     matcher.Site
		expected bool
	}{
		{
			name:     `"x".getBytes()`,
			site:     call(str, "getBytes"),
			expected: true,
		},
		{
			name:     `"x".getBytes("UTF-8")`,
			site:     &matcher.MethodCall{Method: charsetName, Qualified: true, Receiver: str},
			expected: false,
		},
		{
			name:     `buffer.getBytes()`,
			site:     call(buffer, "getBytes"),
			expected: false,
		},
		{
			name:     `"x".getChars()`,
			site:     call(str, "getChars"),
			expected: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, m.Matches(tc.site))
		})
	}
}

func TestFileIsPrefix(t *testing.T) {
	m := matcher.Create().
		OfSubType("java.io.File").
		StartWithName("is").
		WithoutParameters().
		MustBuild()

	for _, receiver := range []*semantictest.Type{file, tempFile} {
		t.Run(receiver.Name, func(t *testing.T) {
			for _, name := range []string{"isDirectory", "isHidden", "isFile"} {
				sym := semantictest.NewMethod(file, name)
				assert.True(t, m.Matches(&matcher.MethodCall{Method: sym, Qualified: true, Receiver: receiver}), name)
			}

			withArg := semantictest.NewMethod(file, "isHidden", object)
			assert.False(t, m.Matches(&matcher.MethodCall{Method: withArg, Qualified: true, Receiver: receiver}))

			notPrefixed := semantictest.NewMethod(file, "exists")
			assert.False(t, m.Matches(&matcher.MethodCall{Method: notPrefixed, Qualified: true, Receiver: receiver}))
		})
	}

	sym := semantictest.NewMethod(unrelated, "isHidden")
	assert.False(t, m.Matches(&matcher.MethodCall{Method: sym, Qualified: true, Receiver: unrelated}))
}
