// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package log

import (
	"strings"

	"github.com/rs/zerolog"
)

// LevelNamed returns the log level with the given (case-insensitive) name.
func LevelNamed(name string) (zerolog.Level, bool) {
	switch strings.ToUpper(name) {
	case "NONE", "OFF":
		return zerolog.Disabled, true
	case "ERROR":
		return zerolog.ErrorLevel, true
	case "WARN":
		return zerolog.WarnLevel, true
	case "INFO":
		return zerolog.InfoLevel, true
	case "DEBUG":
		return zerolog.DebugLevel, true
	case "TRACE":
		return zerolog.TraceLevel, true
	default:
		return zerolog.NoLevel, false
	}
}
