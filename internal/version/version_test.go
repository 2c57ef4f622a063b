// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTag(t *testing.T) {
	static, isDev := TagInfo()
	assert.Equal(t, tag, static)

	// Test binaries have no main module version.
	assert.True(t, isDev)
	assert.Equal(t, tag+devSuffix, Tag())
	assert.True(t, strings.HasPrefix(Tag(), "v"))
}
