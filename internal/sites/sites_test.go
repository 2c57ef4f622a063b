// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package sites_test

import (
	"fmt"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"

	"github.com/DataDog/callmatch/internal/semantic/gotypes"
	"github.com/DataDog/callmatch/internal/sites"
	"github.com/DataDog/callmatch/matcher"
)

const source = `package sample

import (
	"os"
	"strings"
)

type Reader struct{ *os.File }

func (r *Reader) Hidden() bool { return strings.HasPrefix(r.Name(), ".") }

func Use(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	r := &Reader{File: f}
	_ = r.Hidden()
	upper := strings.ToUpper
	name := r.Name
	_ = []byte(upper(name()))
	return nil
}
`

func load(t *testing.T) (*gotypes.Universe, *packages.Package) {
	t.Helper()
	return loadSource(t, source)
}

func loadSource(t *testing.T, source string) (*gotypes.Universe, *packages.Package) {
	t.Helper()

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "sample.go", source, parser.ParseComments)
	require.NoError(t, err)

	info := &types.Info{
		Types:      make(map[ast.Expr]types.TypeAndValue),
		Instances:  make(map[*ast.Ident]types.Instance),
		Defs:       make(map[*ast.Ident]types.Object),
		Uses:       make(map[*ast.Ident]types.Object),
		Selections: make(map[*ast.SelectorExpr]*types.Selection),
	}
	conf := types.Config{Importer: importer.Default()}
	typed, err := conf.Check("example.com/sample", fset, []*ast.File{file}, info)
	require.NoError(t, err)

	pkg := &packages.Package{
		ID:        "example.com/sample",
		Name:      "sample",
		PkgPath:   "example.com/sample",
		Fset:      fset,
		Syntax:    []*ast.File{file},
		Types:     typed,
		TypesInfo: info,
	}
	return gotypes.FromPackages([]*packages.Package{pkg}), pkg
}

func TestFile(t *testing.T) {
	universe, pkg := load(t)
	found, err := sites.New(universe, pkg).File(pkg.Syntax[0])
	require.NoError(t, err)

	type summary struct {
		Kind   matcher.SiteKind
		Target string
		Line   int
	}
	actual := make([]summary, len(found))
	for i, site := range found {
		actual[i] = summary{site.Kind(), site.Target, site.Position.Line}
	}

	assert.Equal(t, []summary{
		{matcher.KindDeclaration, "(*example.com/sample.Reader).Hidden", 10},
		{matcher.KindCall, "strings.HasPrefix", 10},
		{matcher.KindCall, "(*os.File).Name", 10},
		{matcher.KindDeclaration, "example.com/sample.Use", 12},
		{matcher.KindCall, "os.Open", 13},
		{matcher.KindCall, "(*os.File).Close", 17},
		{matcher.KindConstructor, "example.com/sample.Reader", 18},
		{matcher.KindCall, "(*example.com/sample.Reader).Hidden", 19},
		{matcher.KindReference, "strings.ToUpper", 20},
		{matcher.KindReference, "(*os.File).Name", 21},
		{matcher.KindCall, "", 22},
		{matcher.KindCall, "", 22},
	}, actual)

	for _, site := range found {
		assert.Equal(t, "sample.go", site.Position.Filename)
		assert.NotNil(t, site.Node)
	}
}

func TestFileMatching(t *testing.T) {
	universe, pkg := load(t)
	found, err := sites.New(universe, pkg).File(pkg.Syntax[0])
	require.NoError(t, err)

	matching := func(m matcher.Matcher) []string {
		var res []string
		for _, site := range found {
			if m.Matches(site.Site) {
				res = append(res, site.Kind().String()+" "+site.Target)
			}
		}
		return res
	}

	tests := []struct {
		name     string
		matcher  matcher.Matcher
		expected []string
	}{
		{
			name:    "file-methods",
			matcher: matcher.Create().OfSubType("os.File").Name("Name").WithoutParameters(),
			expected: []string{
				"call (*os.File).Name",
				"reference (*os.File).Name",
			},
		},
		{
			name:     "exact-receiver",
			matcher:  matcher.Create().OfType("os.File").Names("Name", "Close").WithoutParameters(),
			expected: []string{"call (*os.File).Close"},
		},
		{
			name:     "package-function",
			matcher:  matcher.Create().OfType("os").Name("Open").WithParameters("string"),
			expected: []string{"call os.Open"},
		},
		{
			name:     "function-prefix",
			matcher:  matcher.Create().OfType("strings").StartWithName("Has").StartWithParameters("string"),
			expected: []string{"call strings.HasPrefix"},
		},
		{
			name:     "function-reference",
			matcher:  matcher.Create().OfType("strings").AnyName().WithAnyParameters(),
			expected: []string{"call strings.HasPrefix", "reference strings.ToUpper"},
		},
		{
			name:     "declaration",
			matcher:  matcher.Create().OfType("example.com/sample.Reader").Name("Hidden").WithoutParameters(),
			expected: []string{"declaration (*example.com/sample.Reader).Hidden", "call (*example.com/sample.Reader).Hidden"},
		},
		{
			name:     "constructor",
			matcher:  matcher.Create().OfType("example.com/sample.Reader").Constructor().WithParameters("*os.File"),
			expected: []string{"constructor example.com/sample.Reader"},
		},
		{
			name:     "package-declarations",
			matcher:  matcher.Create().OfType("example.com/sample").AnyName().WithAnyParameters(),
			expected: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, matching(tc.matcher))
		})
	}
}

func TestPackageQualifiedFunctionValues(t *testing.T) {
	universe, pkg := loadSource(t, `package sample

import "strings"

func Shout(s string) string {
	upper := strings.ToUpper
	return upper(s) + strings.ToUpper("!")
}

var transforms = []func(string) string{strings.ToLower, Shout}
`)
	found, err := sites.New(universe, pkg).File(pkg.Syntax[0])
	require.NoError(t, err)

	var refs []string
	for _, site := range found {
		if site.Kind() == matcher.KindReference {
			refs = append(refs, fmt.Sprintf("%d:%d %s", site.Position.Line, site.Position.Column, site.Target))
		}
	}
	assert.Equal(t, []string{
		"6:19 strings.ToUpper",
		"10:48 strings.ToLower",
		"10:57 example.com/sample.Shout",
	}, refs)

	toUpper := matcher.Create().OfType("strings").Name("ToUpper").WithAnyParameters().MustBuild()
	var matched []string
	for _, site := range found {
		if toUpper.Matches(site.Site) {
			matched = append(matched, fmt.Sprintf("%s %d", site.Kind(), site.Position.Line))
		}
	}
	assert.Equal(t, []string{"reference 6", "call 7"}, matched)
}
