// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package rules

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSchemaCompiles(t *testing.T) {
	require.NotNil(t, getSchema())
}

func TestValidate(t *testing.T) {
	file, err := os.Open(filepath.Join("testdata", "rules.yml"))
	require.NoError(t, err)
	defer file.Close()
	require.NoError(t, Validate(file))
}

func TestValidateRejects(t *testing.T) {
	for name, doc := range map[string]string{
		"no-rules":         "{}",
		"empty-matcher":    "rules: [{ id: a, match: {} }]",
		"mixed-one-of":     "rules: [{ id: a, match: { one-of: [], name: b } }]",
		"two-keys":         "rules: [{ id: a, match: { type: { exact: A, subtype: B }, name: b, parameters: any } }]",
		"false-flag":       "rules: [{ id: a, match: { type: { any: false }, name: b, parameters: any } }]",
		"bad-keyword":      "rules: [{ id: a, match: { type: A, name: b, parameters: some } }]",
		"unknown-shape":    "rules: [{ id: a, match: { type: A, name: b, parameters: { suffix: [int] } } }]",
		"empty-type-name":  "rules: [{ id: a, match: { type: '', name: b, parameters: any } }]",
		"duplicated-kinds": "rules: [{ id: a, kinds: [call, call], match: { type: A, name: b, parameters: any } }]",
	} {
		t.Run(name, func(t *testing.T) {
			require.Error(t, Validate(strings.NewReader(doc)))
		})
	}
}
