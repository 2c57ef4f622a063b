// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package scan_test

import (
	"context"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DataDog/callmatch/internal/rules"
	"github.com/DataDog/callmatch/internal/scan"
)

func TestRun(t *testing.T) {
	if testing.Short() {
		t.Skip("loads packages with the go command")
	}

	ctx := context.Background()
	rs, err := rules.LoadFile(ctx, filepath.Join("testdata", "rules.yml"))
	require.NoError(t, err)

	dir, err := filepath.Abs(filepath.Join("testdata", "sample"))
	require.NoError(t, err)
	file := filepath.Join(dir, "sample.go")

	expected := []scan.Finding{
		{Rule: "reader-hidden", Message: "Hidden files are ignored", Kind: "declaration", File: file, Line: 10, Column: 18, Target: "(*example.com/sample.Reader).Hidden"},
		{Rule: "file-name", Kind: "call", File: file, Line: 10, Column: 65, Target: "(*os.File).Name"},
		{Rule: "os-open", Message: "Use the sandboxed filesystem", Kind: "call", File: file, Line: 13, Column: 19, Target: "os.Open"},
		{Rule: "reader-hidden", Message: "Hidden files are ignored", Kind: "call", File: file, Line: 19, Column: 14, Target: "(*example.com/sample.Reader).Hidden"},
	}

	for _, tests := range []bool{false, true} {
		name := "without-tests"
		if tests {
			name = "with-tests"
		}
		t.Run(name, func(t *testing.T) {
			scanner := scan.Scanner{Rules: rs, Dir: dir, Tests: tests, Concurrency: 2}
			findings, err := scanner.Run(ctx, "./...")
			require.NoError(t, err)
			assert.Equal(t, expected, findings)
		})
	}
}

func TestRunWithoutRules(t *testing.T) {
	_, err := (&scan.Scanner{}).Run(context.Background(), "./...")
	require.EqualError(t, err, "no rules to evaluate")
}

func TestFindingString(t *testing.T) {
	f := scan.Finding{Rule: "os-open", Message: "Use the sandboxed filesystem", Kind: "call", File: "main.go", Line: 3, Column: 9, Target: "os.Open"}
	assert.Equal(t, "main.go:3:9", f.Position())
	assert.Equal(t, "main.go:3:9: [os-open] Use the sandboxed filesystem (call os.Open)", f.String())

	f.Message, f.Target = "", ""
	assert.Equal(t, "main.go:3:9: [os-open] (call)", f.String())
}

func TestCompare(t *testing.T) {
	findings := []scan.Finding{
		{Rule: "b", File: "b.go", Line: 1, Column: 1},
		{Rule: "b", File: "a.go", Line: 2, Column: 1},
		{Rule: "a", File: "a.go", Line: 2, Column: 1},
		{Rule: "a", File: "a.go", Line: 1, Column: 7},
		{Rule: "a", File: "a.go", Line: 1, Column: 3},
	}
	slices.SortFunc(findings, scan.Compare)

	actual := make([]string, len(findings))
	for i, f := range findings {
		actual[i] = f.Position() + " " + f.Rule
	}
	assert.Equal(t, []string{"a.go:1:3 a", "a.go:1:7 a", "a.go:2:1 a", "a.go:2:1 b", "b.go:1:1 b"}, actual)
}
