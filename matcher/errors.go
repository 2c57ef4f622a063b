// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package matcher

import (
	"fmt"
	"strings"
)

// Dimension identifies one of the three criteria a method matcher is made of.
type Dimension uint8

const (
	DimensionType Dimension = iota + 1
	DimensionName
	DimensionParameters
)

func (d Dimension) String() string {
	switch d {
	case DimensionType:
		return "type"
	case DimensionName:
		return "name"
	case DimensionParameters:
		return "parameters"
	default:
		return fmt.Sprintf("Dimension(%d)", uint8(d))
	}
}

// ConfigurationError reports a programming error in the way a matcher was
// configured: it is either incomplete, or combines mutually exclusive
// criteria on the same dimension.
type ConfigurationError struct {
	// Missing lists the dimensions that were never configured.
	Missing []Dimension
	// Dimension is the dimension on which conflicting criteria were configured.
	Dimension Dimension
	// Reason describes the conflict.
	Reason string
}

func (e *ConfigurationError) Error() string {
	if len(e.Missing) > 0 {
		names := make([]string, len(e.Missing))
		for i, d := range e.Missing {
			names[i] = d.String()
		}
		return fmt.Sprintf("method matcher is not fully configured: missing %s", strings.Join(names, ", "))
	}
	if e.Dimension == 0 {
		return fmt.Sprintf("invalid method matcher configuration: %s", e.Reason)
	}
	return fmt.Sprintf("invalid %s criteria: %s", e.Dimension, e.Reason)
}

func conflict(d Dimension, reason string) *ConfigurationError {
	return &ConfigurationError{Dimension: d, Reason: reason}
}
